package identity

import (
	"context"
	"strings"

	"github.com/go-faster/errors"

	"pet-clinic-billing/internal/ports/auth"
)

// Verifier implementa auth.AuthVerifier sobre el servicio de identidad.
type Verifier struct {
	client *Client
}

func NewVerifier(client *Client) *Verifier {
	return &Verifier{client: client}
}

func (v *Verifier) Verify(ctx context.Context, token string) (auth.Claims, error) {
	if v == nil || v.client == nil {
		return auth.Claims{}, ErrNotConfigured
	}
	if strings.TrimSpace(token) == "" {
		return auth.Claims{}, ErrUnauthorized
	}

	claims, err := v.client.VerifyToken(ctx, token)
	if err != nil {
		return auth.Claims{}, errors.Wrap(err, "verify token")
	}
	return claims, nil
}
