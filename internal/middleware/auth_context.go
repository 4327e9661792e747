package middleware

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"pet-clinic-billing/internal/platform/logger"
	"pet-clinic-billing/internal/ports/auth"
)

// DebugUserHeader identifica al dueño en modo dev (sin verifier).
const DebugUserHeader = "X-Debug-User-ID"

type claimsKey struct{}

// AuthContext carga los claims del request si puede. Nunca corta: cada
// handler decide si exige dueño autenticado (401).
func AuthContext(verifier auth.AuthVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := resolveClaims(r, verifier)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey{}, claims)
			ctx = logger.WithFields(ctx, zap.String("user_id", claims.UserID))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func resolveClaims(r *http.Request, verifier auth.AuthVerifier) (auth.Claims, bool) {
	if verifier == nil {
		uid := strings.TrimSpace(r.Header.Get(DebugUserHeader))
		return auth.Claims{UserID: uid}, uid != ""
	}

	token := bearerToken(r.Header.Get("Authorization"))
	if token == "" {
		return auth.Claims{}, false
	}

	claims, err := verifier.Verify(r.Context(), token)
	if err != nil {
		logger.Get(r.Context()).Debug("token rejected", zap.Error(err))
		return auth.Claims{}, false
	}
	return claims, true
}

func GetClaims(ctx context.Context) (auth.Claims, bool) {
	c, ok := ctx.Value(claimsKey{}).(auth.Claims)
	return c, ok
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
