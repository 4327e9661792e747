package auth

import "context"

// AuthVerifier valida un bearer token emitido por el servicio de identidad.
type AuthVerifier interface {
	Verify(ctx context.Context, token string) (Claims, error)
}
