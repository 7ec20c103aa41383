package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Auth struct {
		// JWTSecret verifies identity-provider tokens; falls back to
		// the GOTRUE_JWT_SECRET environment variable.
		JWTSecret  string `yaml:"jwtSecret"`
		ProjectRef string `yaml:"projectRef"`
		APIKey     string `yaml:"apiKey"`
		GoTrueURL  string `yaml:"gotrueUrl"`
	} `yaml:"auth"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Supabase struct {
		URL        string `yaml:"url"`
		ServiceKey string `yaml:"serviceKey"`
	} `yaml:"supabase"`
	Leaderboard struct {
		TTL string `yaml:"ttl"`
	} `yaml:"leaderboard"`
}

// Load reads YAML config from path and applies environment fallbacks.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if cfg.Auth.JWTSecret == "" {
		cfg.Auth.JWTSecret = os.Getenv("GOTRUE_JWT_SECRET")
	}
	if cfg.Supabase.ServiceKey == "" {
		cfg.Supabase.ServiceKey = os.Getenv("SUPABASE_SERVICE_KEY")
	}
	return cfg, nil
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
