package config

import (
	"time"

	"github.com/go-faster/errors"
	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"

	"pet-clinic-billing/internal/domain/pricing"
)

// Config se carga desde variables de entorno.
type Config struct {
	Port            int           `envconfig:"PORT" default:"8080"`
	LogLevel        string        `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat       string        `envconfig:"LOG_FORMAT" default:"json"`
	AppName         string        `envconfig:"APP_NAME" default:"pet-clinic-billing"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DatabaseDSN string `envconfig:"DB_DSN"`

	// Tier usado cuando el servicio de fidelidad no está configurado.
	DefaultTier string `envconfig:"DEFAULT_TIER" default:"new"`

	// Sin AUTH_BASE_URL se acepta X-Debug-User-ID (modo dev).
	Auth    Upstream `envconfig:"AUTH"`
	Loyalty Upstream `envconfig:"LOYALTY"`
	Pricing Pricing  `envconfig:"PRICING"`
}

// Upstream describe un servicio HTTP externo con API key.
type Upstream struct {
	BaseURL string        `envconfig:"BASE_URL"`
	APIKey  string        `envconfig:"API_KEY"`
	Timeout time.Duration `envconfig:"TIMEOUT" default:"5s"`
}

type Pricing struct {
	BaseCharge      decimal.Decimal `envconfig:"BASE_CHARGE" default:"15000"`
	BasePricePerPet decimal.Decimal `envconfig:"BASE_PRICE_PER_PET" default:"20000"`

	RareCoef              decimal.Decimal `envconfig:"RARE_COEF" default:"1.2"`
	RareInfancyCoef       decimal.Decimal `envconfig:"RARE_INFANCY_COEF" default:"1.4"`
	CommonInfancyCoef     decimal.Decimal `envconfig:"COMMON_INFANCY_COEF" default:"1.2"`
	InfancyAgeThreshold   int             `envconfig:"INFANCY_AGE_THRESHOLD" default:"2"`
	DiscountMinScore      int             `envconfig:"DISCOUNT_MIN_SCORE" default:"10"`
	DiscountPreVisit      decimal.Decimal `envconfig:"DISCOUNT_PRE_VISIT" default:"2"`
	OldVisitThresholdDays int             `envconfig:"OLD_VISIT_THRESHOLD_DAYS" default:"100"`
}

// Engine arma la configuración del motor de precios.
func (p Pricing) Engine() (pricing.Config, error) {
	cfg := pricing.Config{
		RareCoef:              p.RareCoef,
		RareInfancyCoef:       p.RareInfancyCoef,
		CommonInfancyCoef:     p.CommonInfancyCoef,
		InfancyAgeThreshold:   p.InfancyAgeThreshold,
		DiscountMinScore:      p.DiscountMinScore,
		DiscountPreVisit:      p.DiscountPreVisit,
		OldVisitThresholdDays: p.OldVisitThresholdDays,
	}
	if err := cfg.Validate(); err != nil {
		return pricing.Config{}, err
	}
	return cfg, nil
}

// Load lee la configuración y valida lo que el motor necesita para arrancar.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, errors.Wrap(err, "process env")
	}

	if cfg.Pricing.BaseCharge.IsNegative() || cfg.Pricing.BasePricePerPet.IsNegative() {
		return nil, errors.New("pricing base amounts must not be negative")
	}
	if _, err := cfg.Pricing.Engine(); err != nil {
		return nil, errors.Wrap(err, "pricing config")
	}
	if _, err := pricing.TierByName(cfg.DefaultTier); err != nil {
		return nil, errors.Wrap(err, "default tier")
	}

	return &cfg, nil
}
