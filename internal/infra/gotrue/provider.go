package gotrue

import (
	"context"
	"fmt"
	"net/url"

	"github.com/supabase-community/gotrue-go"
	"github.com/supabase-community/gotrue-go/types"

	"mathblast/internal/auth"
)

// Provider relays identity operations to a GoTrue server. The underlying
// client is stateless; per-user calls clone it with the caller's token.
type Provider struct {
	client gotrue.Client
}

// NewProvider builds a client for a Supabase project. customURL overrides
// the derived endpoint for self-hosted GoTrue.
func NewProvider(projectRef, apiKey, customURL string) *Provider {
	client := gotrue.New(projectRef, apiKey)
	if customURL != "" {
		client = client.WithCustomGoTrueURL(customURL)
	}
	return &Provider{client: client}
}

func (p *Provider) SignIn(_ context.Context, email, password string) (auth.TokenPair, error) {
	resp, err := p.client.SignInWithEmailPassword(email, password)
	if err != nil {
		return auth.TokenPair{}, fmt.Errorf("sign in: %w", err)
	}
	return auth.TokenPair{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		ExpiresIn:    resp.ExpiresIn,
	}, nil
}

// Register creates the account; GoTrue sends the verification email itself
// when confirmations are enabled on the project.
func (p *Provider) Register(_ context.Context, email, password, displayName string) (auth.Account, error) {
	resp, err := p.client.Signup(types.SignupRequest{
		Email:    email,
		Password: password,
		Data: map[string]interface{}{
			"display_name": displayName,
		},
	})
	if err != nil {
		return auth.Account{}, fmt.Errorf("signup: %w", err)
	}
	return auth.Account{
		UserID:        resp.ID.String(),
		Email:         resp.Email,
		DisplayName:   displayName,
		EmailVerified: resp.EmailConfirmedAt != nil,
	}, nil
}

// FederatedURL returns the provider-hosted consent URL; the client finishes
// the flow against GoTrue directly. The redirect target rides along as a
// redirect_to query parameter, which GoTrue reads from the authorize URL.
func (p *Provider) FederatedURL(_ context.Context, provider, redirectTo string) (string, error) {
	resp, err := p.client.Authorize(types.AuthorizeRequest{
		Provider: types.Provider(provider),
	})
	if err != nil {
		return "", fmt.Errorf("authorize: %w", err)
	}
	return withRedirect(resp.AuthorizationURL, redirectTo)
}

func withRedirect(authorizeURL, redirectTo string) (string, error) {
	if redirectTo == "" {
		return authorizeURL, nil
	}
	u, err := url.Parse(authorizeURL)
	if err != nil {
		return "", fmt.Errorf("parse authorize url: %w", err)
	}
	q := u.Query()
	q.Set("redirect_to", redirectTo)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (p *Provider) Refresh(_ context.Context, refreshToken string) (auth.TokenPair, error) {
	resp, err := p.client.RefreshToken(refreshToken)
	if err != nil {
		return auth.TokenPair{}, fmt.Errorf("refresh: %w", err)
	}
	return auth.TokenPair{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		ExpiresIn:    resp.ExpiresIn,
	}, nil
}

// CurrentUser reloads the identity behind a token straight from the
// provider, bypassing any stale claims in the token itself.
func (p *Provider) CurrentUser(_ context.Context, token string) (auth.Account, error) {
	resp, err := p.client.WithToken(token).GetUser()
	if err != nil {
		return auth.Account{}, fmt.Errorf("get user: %w", err)
	}
	account := auth.Account{
		UserID:        resp.ID.String(),
		Email:         resp.Email,
		EmailVerified: resp.EmailConfirmedAt != nil,
	}
	if name, ok := resp.UserMetadata["display_name"].(string); ok {
		account.DisplayName = name
	}
	return account, nil
}

func (p *Provider) UpdateDisplayName(_ context.Context, token, name string) error {
	_, err := p.client.WithToken(token).UpdateUser(types.UpdateUserRequest{
		Data: map[string]interface{}{
			"display_name": name,
		},
	})
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

func (p *Provider) SignOut(_ context.Context, token string) error {
	if err := p.client.WithToken(token).Logout(); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}
