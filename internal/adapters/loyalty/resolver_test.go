package loyalty_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pet-clinic-billing/internal/adapters/loyalty"
	"pet-clinic-billing/internal/domain/pricing"
)

func newUpstream(t *testing.T) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Api-Key") != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/v1/customers/u-gold/tier":
			_, _ = w.Write([]byte(`{"tier":"GOLD"}`))
		case "/v1/customers/u-silver/tier":
			_, _ = w.Write([]byte(`{"tier":"silver"}`))
		case "/v1/customers/u-weird/tier":
			_, _ = w.Write([]byte(`{"tier":"platinum"}`))
		case "/v1/customers/u-broken/tier":
			w.WriteHeader(http.StatusBadGateway)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestResolver_TierOf(t *testing.T) {
	srv := newUpstream(t)
	r := loyalty.NewResolver(loyalty.NewClient(loyalty.Config{BaseURL: srv.URL + "/", APIKey: "secret"}), pricing.TierNew)

	tests := []struct {
		owner string
		want  pricing.Tier
	}{
		{owner: "u-gold", want: pricing.TierGold},
		{owner: "u-silver", want: pricing.TierSilver},
		{owner: "u-unknown", want: pricing.TierNew},
	}

	for _, tt := range tests {
		t.Run(tt.owner, func(t *testing.T) {
			got, err := r.TierOf(context.Background(), tt.owner)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolver_TierOf_UpstreamErrors(t *testing.T) {
	srv := newUpstream(t)
	r := loyalty.NewResolver(loyalty.NewClient(loyalty.Config{BaseURL: srv.URL, APIKey: "secret"}), pricing.TierNew)

	_, err := r.TierOf(context.Background(), "u-broken")
	assert.True(t, errors.Is(err, loyalty.ErrUpstream))

	_, err = r.TierOf(context.Background(), "u-weird")
	assert.True(t, errors.Is(err, loyalty.ErrUpstream))

	bad := loyalty.NewResolver(loyalty.NewClient(loyalty.Config{BaseURL: srv.URL, APIKey: "wrong"}), pricing.TierNew)
	_, err = bad.TierOf(context.Background(), "u-gold")
	assert.True(t, errors.Is(err, loyalty.ErrUnauthorized))
}

func TestResolver_NotConfigured_UsesFallback(t *testing.T) {
	r := loyalty.NewResolver(loyalty.NewClient(loyalty.Config{}), pricing.TierSilver)

	got, err := r.TierOf(context.Background(), "anyone")
	require.NoError(t, err)
	assert.Equal(t, pricing.TierSilver, got)

	_, err = loyalty.NewClient(loyalty.Config{}).GetTier(context.Background(), "anyone")
	assert.True(t, errors.Is(err, loyalty.ErrNotConfigured))
}
