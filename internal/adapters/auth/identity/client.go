package identity

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-resty/resty/v2"

	"pet-clinic-billing/internal/ports/auth"
)

var (
	ErrNotConfigured = errors.New("identity client not configured")
	ErrUnauthorized  = errors.New("identity unauthorized")
	ErrUpstream      = errors.New("identity upstream error")
)

type Config struct {
	BaseURL string
	APIKey  string

	// Si está vacío se usa "X-Api-Key".
	APIKeyHeader string
	Timeout      time.Duration
}

// Client habla con el servicio de identidad que emite los tokens de los dueños.
type Client struct {
	baseURL      string
	apiKey       string
	apiKeyHeader string
	http         *resty.Client
}

func NewClient(cfg Config) *Client {
	h := strings.TrimSpace(cfg.APIKeyHeader)
	if h == "" {
		h = "X-Api-Key"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	return &Client{
		baseURL:      baseURL,
		apiKey:       strings.TrimSpace(cfg.APIKey),
		apiKeyHeader: h,
		http:         resty.New().SetBaseURL(baseURL).SetTimeout(timeout),
	}
}

func (c *Client) IsConfigured() bool {
	return c != nil && c.baseURL != "" && c.apiKey != ""
}

type verifyResponse struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	TenantID string `json:"tenant_id"`
}

// VerifyToken valida el token con POST /v1/tokens/verify.
func (c *Client) VerifyToken(ctx context.Context, token string) (auth.Claims, error) {
	if !c.IsConfigured() {
		return auth.Claims{}, ErrNotConfigured
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrUnauthorized
	}

	var out verifyResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader(c.apiKeyHeader, c.apiKey).
		SetAuthToken(token).
		SetBody(map[string]string{"token": token}).
		SetResult(&out).
		Post("/v1/tokens/verify")
	if err != nil {
		return auth.Claims{}, errors.Wrapf(ErrUpstream, "request: %v", err)
	}

	switch resp.StatusCode() {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return auth.Claims{}, ErrUnauthorized
	default:
		return auth.Claims{}, errors.Wrapf(ErrUpstream, "status=%d", resp.StatusCode())
	}

	out.UserID = strings.TrimSpace(out.UserID)
	if out.UserID == "" {
		return auth.Claims{}, errors.Wrap(ErrUpstream, "response missing user_id")
	}

	return auth.Claims{
		UserID:   out.UserID,
		Email:    strings.TrimSpace(out.Email),
		TenantID: strings.TrimSpace(out.TenantID),
	}, nil
}
