package cli

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"mathblast/internal/app"
	"mathblast/internal/auth"
	"mathblast/internal/config"
	gotrueinfra "mathblast/internal/infra/gotrue"
	"mathblast/internal/infra/memory"
	pgstore "mathblast/internal/infra/postgres"
	redisinfra "mathblast/internal/infra/redis"
	"mathblast/internal/infra/supabase"
	transport "mathblast/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cfg.Auth.JWTSecret == "" {
		return fmt.Errorf("auth jwt secret not configured")
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	sessionTTL := config.TTLDuration(cfg.Redis.TTL, 30*time.Minute)
	boardTTL := config.TTLDuration(cfg.Leaderboard.TTL, 15*time.Second)

	// Score and user documents: Postgres when configured, then Supabase's
	// REST API, else in-memory for local play.
	var store interface {
		app.ScoreStore
		app.UserStore
	}
	switch {
	case cfg.Postgres.URL != "":
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
		store = pgstore.NewStore(pool)
	case cfg.Supabase.URL != "":
		store = supabase.NewStore(cfg.Supabase.URL, cfg.Supabase.ServiceKey)
	default:
		log.Printf("no score store configured, using in-memory store")
		store = memory.NewScoreStore()
	}

	var sessions app.SessionRepository
	var leaderboard app.LeaderboardProvider
	if redisClient != nil {
		sessions = redisinfra.NewSessionStore(redisClient, sessionTTL)
		leaderboard = redisinfra.NewLeaderboard(redisClient, store, app.LeaderboardSize, boardTTL)
	} else {
		sessions = memory.NewSessionStore()
		leaderboard = memory.NewLeaderboard(store, app.LeaderboardSize, boardTTL)
	}

	gameService := app.NewGameService(sessions, store)
	scoreboard := app.NewScoreboardService(store, leaderboard, store)
	verifier := auth.NewJWTVerifier(cfg.Auth.JWTSecret)

	var authHandler *transport.AuthHandler
	if cfg.Auth.ProjectRef != "" || cfg.Auth.GoTrueURL != "" {
		provider := gotrueinfra.NewProvider(cfg.Auth.ProjectRef, cfg.Auth.APIKey, cfg.Auth.GoTrueURL)
		authHandler = transport.NewAuthHandler(provider)
	} else {
		log.Printf("no identity provider configured, auth relay endpoints disabled")
	}

	router := transport.NewRouter(
		verifier,
		transport.NewAPIHandler(scoreboard),
		authHandler,
		transport.NewPlayHandler(gameService),
	)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting mathblast on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
