package pricing_test

import (
	"testing"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pet-clinic-billing/internal/domain/pricing"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    pricing.Kind
		wantErr bool
	}{
		{in: "", want: pricing.KindFlat},
		{in: "flat", want: pricing.KindFlat},
		{in: " TIER_AWARE ", want: pricing.KindTierAware},
		{in: "simple", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			k, err := pricing.ParseKind(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, pricing.ErrUnknownStrategy))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, k)
		})
	}
}

func TestNew_BuildsEveryKind(t *testing.T) {
	for _, k := range pricing.Kinds() {
		calc, err := pricing.New(k, pricing.DefaultConfig())
		require.NoError(t, err)
		assert.Equal(t, k, calc.Kind())
	}
}

func TestNew_Errors(t *testing.T) {
	_, err := pricing.New(pricing.Kind("loyalty"), pricing.DefaultConfig())
	require.Error(t, err)
	assert.True(t, errors.Is(err, pricing.ErrUnknownStrategy))

	cfg := pricing.DefaultConfig()
	cfg.OldVisitThresholdDays = 0
	_, err = pricing.New(pricing.KindFlat, cfg)
	require.Error(t, err)
	assert.True(t, errors.Is(err, pricing.ErrInvalidArgument))
}

func TestCalculators_AreInterchangeable(t *testing.T) {
	pets := []pricing.PetView{adultPet(), infantPet()}
	req := pricing.Request{
		Pets:            pets,
		BaseCharge:      decimal.NewFromInt(100),
		BasePricePerPet: decimal.NewFromInt(100),
		Tier:            &pricing.TierSilver,
		At:              evalDate,
	}

	want := map[pricing.Kind]string{
		pricing.KindFlat:      "288", // 120 + 168
		pricing.KindTierAware: "298", // 100 + (100 + 120) * 0.9
	}

	for _, k := range pricing.Kinds() {
		calc, err := pricing.New(k, pricing.DefaultConfig())
		require.NoError(t, err)

		price, err := calc.Calculate(req)
		require.NoError(t, err)
		requireAmount(t, want[k], price)
	}
}

func TestConfig_Validate(t *testing.T) {
	require.NoError(t, pricing.DefaultConfig().Validate())

	tests := []struct {
		name   string
		mutate func(c *pricing.Config)
	}{
		{"zero rare coefficient", func(c *pricing.Config) { c.RareCoef = decimal.Zero }},
		{"negative infancy coefficient", func(c *pricing.Config) { c.RareInfancyCoef = dec("-1.4") }},
		{"zero common infancy coefficient", func(c *pricing.Config) { c.CommonInfancyCoef = decimal.Zero }},
		{"zero pre-visit factor", func(c *pricing.Config) { c.DiscountPreVisit = decimal.Zero }},
		{"negative infancy age", func(c *pricing.Config) { c.InfancyAgeThreshold = -1 }},
		{"zero min score", func(c *pricing.Config) { c.DiscountMinScore = 0 }},
		{"zero old visit threshold", func(c *pricing.Config) { c.OldVisitThresholdDays = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := pricing.DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, pricing.ErrInvalidArgument))
		})
	}
}
