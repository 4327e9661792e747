package loyalty

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-resty/resty/v2"
)

var (
	ErrNotConfigured = errors.New("loyalty client not configured")
	ErrUnauthorized  = errors.New("loyalty unauthorized")
	ErrUpstream      = errors.New("loyalty upstream error")
	// ErrUnknownCustomer: el servicio no conoce al cliente (404).
	ErrUnknownCustomer = errors.New("loyalty customer not found")
)

type Config struct {
	BaseURL string
	APIKey  string

	APIKeyHeader string
	Timeout      time.Duration
}

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
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(timeout).
			SetHeader("Accept", "application/json"),
	}
}

func (c *Client) IsConfigured() bool {
	return c != nil && c.baseURL != "" && c.apiKey != ""
}

type TierResponse struct {
	Tier string `json:"tier"`
}

// GetTier consulta GET /v1/customers/{id}/tier.
func (c *Client) GetTier(ctx context.Context, customerID string) (TierResponse, error) {
	if !c.IsConfigured() {
		return TierResponse{}, ErrNotConfigured
	}
	customerID = strings.TrimSpace(customerID)
	if customerID == "" {
		return TierResponse{}, errors.New("customerID required")
	}

	var out TierResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader(c.apiKeyHeader, c.apiKey).
		SetResult(&out).
		Get("/v1/customers/" + url.PathEscape(customerID) + "/tier")
	if err != nil {
		return TierResponse{}, errors.Wrapf(ErrUpstream, "request: %v", err)
	}

	switch resp.StatusCode() {
	case http.StatusOK:
	case http.StatusNotFound:
		return TierResponse{}, ErrUnknownCustomer
	case http.StatusUnauthorized, http.StatusForbidden:
		return TierResponse{}, ErrUnauthorized
	default:
		return TierResponse{}, errors.Wrapf(ErrUpstream, "status=%d", resp.StatusCode())
	}

	if strings.TrimSpace(out.Tier) == "" {
		return TierResponse{}, errors.Wrap(ErrUpstream, "empty tier in response")
	}
	return out, nil
}
