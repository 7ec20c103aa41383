package auth

import "context"

// TokenPair is what the identity provider hands back on sign-in or refresh.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int    `json:"expiresIn"`
}

// Account is the provider's view of a user.
type Account struct {
	UserID        string `json:"uid"`
	Email         string `json:"email"`
	DisplayName   string `json:"displayName"`
	EmailVerified bool   `json:"emailVerified"`
}

// IdentityProvider is the external auth service the relay endpoints talk
// to. Registration triggers the provider's verification email.
type IdentityProvider interface {
	SignIn(ctx context.Context, email, password string) (TokenPair, error)
	Register(ctx context.Context, email, password, displayName string) (Account, error)
	FederatedURL(ctx context.Context, provider, redirectTo string) (string, error)
	Refresh(ctx context.Context, refreshToken string) (TokenPair, error)
	CurrentUser(ctx context.Context, token string) (Account, error)
	UpdateDisplayName(ctx context.Context, token, name string) error
	SignOut(ctx context.Context, token string) error
}
