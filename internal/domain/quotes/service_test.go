package quotes_test

import (
	"context"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mem "pet-clinic-billing/internal/adapters/storage/memory"
	"pet-clinic-billing/internal/domain/pets"
	"pet-clinic-billing/internal/domain/pricing"
	"pet-clinic-billing/internal/domain/quotes"
	"pet-clinic-billing/internal/domain/visits"
	"pet-clinic-billing/internal/platform/metrics"
)

var clock = time.Date(2025, time.June, 15, 9, 0, 0, 0, time.UTC)

type fixedTier struct {
	tier  pricing.Tier
	err   error
	calls int
}

func (f *fixedTier) TierOf(ctx context.Context, ownerUserID string) (pricing.Tier, error) {
	f.calls++
	return f.tier, f.err
}

type fixture struct {
	pets   *pets.Service
	visits *visits.Service
	tiers  *fixedTier
	quotes *quotes.Service
	reg    *prometheus.Registry
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		pets:   pets.NewService(mem.NewPetRepo()),
		visits: visits.NewService(mem.NewVisitRepo()).WithClock(func() time.Time { return clock }),
		tiers:  &fixedTier{tier: pricing.TierSilver},
		reg:    prometheus.NewRegistry(),
	}

	svc, err := quotes.NewService(quotes.Options{
		Pets:            f.pets,
		Visits:          f.visits,
		Tiers:           f.tiers,
		Engine:          pricing.DefaultConfig(),
		BaseCharge:      decimal.NewFromInt(15000),
		BasePricePerPet: decimal.NewFromInt(20000),
		Metrics:         metrics.NewPricing(f.reg),
	})
	require.NoError(t, err)
	f.quotes = svc.WithClock(func() time.Time { return clock })
	return f
}

func (f *fixture) addPet(t *testing.T, owner, species string, age int) pets.Pet {
	t.Helper()
	bd := clock.AddDate(-age, 0, -7)
	p, err := f.pets.Create(context.Background(), owner, pets.CreateInput{Name: "pet", Species: species, BirthDate: &bd})
	require.NoError(t, err)
	return p
}

func (f *fixture) addVisit(t *testing.T, petID string, daysAgo int) visits.Visit {
	t.Helper()
	v, err := f.visits.Create(context.Background(), petID, visits.CreateInput{Date: clock.AddDate(0, 0, -daysAgo)})
	require.NoError(t, err)
	return v
}

func requireTotal(t *testing.T, expected string, q quotes.Quote) {
	t.Helper()
	require.Truef(t, decimal.RequireFromString(expected).Equal(q.Total), "expected %s, got %s", expected, q.Total)
}

func TestQuote_NoPets(t *testing.T) {
	f := newFixture(t)

	q, err := f.quotes.Quote(context.Background(), "owner-1", quotes.QuoteInput{})
	require.NoError(t, err)
	assert.Equal(t, pricing.KindFlat, q.Strategy)
	assert.Equal(t, 0, q.PetCount)
	requireTotal(t, "0", q)
	assert.Equal(t, clock, q.ComputedAt)
}

func TestQuote_FlatTenAdultsWithRecentVisits(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 10; i++ {
		p := f.addPet(t, "owner-1", "dog", 3)
		f.addVisit(t, p.ID, 20)
	}
	// otro dueño no cuenta
	f.addPet(t, "owner-2", "cat", 3)

	q, err := f.quotes.Quote(context.Background(), "owner-1", quotes.QuoteInput{Strategy: "flat"})
	require.NoError(t, err)
	assert.Equal(t, 10, q.PetCount)
	assert.Empty(t, q.Tier)
	requireTotal(t, "471000", q)
	assert.Zero(t, f.tiers.calls)
}

func TestQuote_VoidedVisitsAreIgnored(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 10; i++ {
		p := f.addPet(t, "owner-1", "dog", 3)
		f.addVisit(t, p.ID, 150)
		recent := f.addVisit(t, p.ID, 10)
		_, err := f.visits.Void(context.Background(), recent.ID)
		require.NoError(t, err)
	}

	q, err := f.quotes.Quote(context.Background(), "owner-1", quotes.QuoteInput{})
	require.NoError(t, err)
	// visita vigente más reciente a 150 días: factor = 1 + 1; (216000 + 15000) * 2 + 24000
	requireTotal(t, "486000", q)
}

func TestQuote_HistoryOrderDoesNotDependOnRecordingOrder(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 10; i++ {
		p := f.addPet(t, "owner-1", "dog", 3)
		f.addVisit(t, p.ID, 150)
		f.addVisit(t, p.ID, 10)

		// misma historia cargada al revés
		p = f.addPet(t, "owner-2", "dog", 3)
		f.addVisit(t, p.ID, 10)
		f.addVisit(t, p.ID, 150)
	}

	inOrder, err := f.quotes.Quote(context.Background(), "owner-1", quotes.QuoteInput{})
	require.NoError(t, err)
	reversed, err := f.quotes.Quote(context.Background(), "owner-2", quotes.QuoteInput{})
	require.NoError(t, err)

	requireTotal(t, inOrder.Total.String(), reversed)
	// la última visita es la de hace 10 días: no cae en el recargo por visita vieja (486000)
	assert.False(t, decimal.RequireFromString("486000").Equal(reversed.Total), reversed.Total.String())
}

func TestQuote_TierAware(t *testing.T) {
	tests := []struct {
		name     string
		tier     string
		resolved pricing.Tier
		pets     []string
		age      int
		want     string
		wantTier string
	}{
		{
			name:     "resolved silver below gate",
			resolved: pricing.TierSilver,
			pets:     []string{"dog", "cat"},
			age:      3,
			want:     "51000", // 15000 + 40000*0.9
			wantTier: "silver",
		},
		{
			name:     "explicit gold",
			tier:     "gold",
			resolved: pricing.TierNew,
			pets:     []string{"dog"},
			age:      3,
			want:     "28000", // (15000 + 20000) * 0.8
			wantTier: "gold",
		},
		{
			name:     "rare infant on new tier",
			tier:     "new",
			resolved: pricing.TierGold,
			pets:     []string{"ferret"},
			age:      1,
			want:     "46920", // 15000 + 20000*1.2*1.4*0.95
			wantTier: "new",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.tiers.tier = tt.resolved
			for _, s := range tt.pets {
				f.addPet(t, "owner-1", s, tt.age)
			}

			q, err := f.quotes.Quote(context.Background(), "owner-1", quotes.QuoteInput{Strategy: "tier_aware", Tier: tt.tier})
			require.NoError(t, err)
			assert.Equal(t, pricing.KindTierAware, q.Strategy)
			assert.Equal(t, tt.wantTier, q.Tier)
			requireTotal(t, tt.want, q)
		})
	}
}

func TestQuote_Errors(t *testing.T) {
	f := newFixture(t)
	_, err := f.pets.Create(context.Background(), "owner-1", pets.CreateInput{Name: "sin fecha", Species: "dog"})
	require.NoError(t, err)

	_, err = f.quotes.Quote(context.Background(), "owner-1", quotes.QuoteInput{})
	assert.True(t, errors.Is(err, pricing.ErrInvalidArgument))

	_, err = f.quotes.Quote(context.Background(), "owner-1", quotes.QuoteInput{Strategy: "simple"})
	assert.True(t, errors.Is(err, pricing.ErrUnknownStrategy))

	_, err = f.quotes.Quote(context.Background(), "owner-2", quotes.QuoteInput{Strategy: "tier_aware", Tier: "platinum"})
	assert.True(t, errors.Is(err, pricing.ErrInvalidArgument))

	_, err = f.quotes.Quote(context.Background(), " ", quotes.QuoteInput{})
	assert.True(t, errors.Is(err, pricing.ErrInvalidArgument))

	f.tiers.err = errors.New("boom")
	_, err = f.quotes.Quote(context.Background(), "owner-2", quotes.QuoteInput{Strategy: "tier_aware"})
	assert.True(t, errors.Is(err, quotes.ErrTierUnavailable))
}

func TestQuote_RecordsMetrics(t *testing.T) {
	f := newFixture(t)
	f.addPet(t, "owner-1", "dog", 3)

	_, err := f.quotes.Quote(context.Background(), "owner-1", quotes.QuoteInput{})
	require.NoError(t, err)
	_, err = f.quotes.Quote(context.Background(), "owner-1", quotes.QuoteInput{Strategy: "tier_aware"})
	require.NoError(t, err)
	_, err = f.quotes.Quote(context.Background(), "owner-1", quotes.QuoteInput{Strategy: "nope"})
	require.Error(t, err)

	// flat/ok, tier_aware/ok, unknown/invalid
	n, err := testutil.GatherAndCount(f.reg, "pricing_quotes_total")
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestNewService_RequiresDependencies(t *testing.T) {
	_, err := quotes.NewService(quotes.Options{Engine: pricing.DefaultConfig()})
	require.Error(t, err)
}
