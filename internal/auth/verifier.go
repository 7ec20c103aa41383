package auth

import (
	"context"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"mathblast/internal/domain"
)

// Verifier checks a bearer token and returns the identity it asserts.
// Every request is verified independently; nothing is cached locally.
type Verifier interface {
	Verify(ctx context.Context, token string) (domain.Identity, error)
}

// JWTVerifier validates HS256 tokens minted by the identity provider with
// the project's shared JWT secret. GoTrue puts the user ID in the "sub"
// claim and profile fields under "user_metadata".
type JWTVerifier struct {
	secret []byte
}

func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret)}
}

func (v *JWTVerifier) Verify(_ context.Context, tokenString string) (domain.Identity, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil || !token.Valid {
		return domain.Identity{}, domain.ErrUnauthorized
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return domain.Identity{}, domain.ErrUnauthorized
	}
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return domain.Identity{}, domain.ErrUnauthorized
	}

	identity := domain.Identity{UserID: sub}
	if email, ok := claims["email"].(string); ok {
		identity.Email = email
	}
	if meta, ok := claims["user_metadata"].(map[string]interface{}); ok {
		if name, ok := meta["display_name"].(string); ok && name != "" {
			identity.DisplayName = name
		} else if name, ok := meta["name"].(string); ok {
			identity.DisplayName = name
		}
	}
	return identity, nil
}
