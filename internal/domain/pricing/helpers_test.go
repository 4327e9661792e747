package pricing_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"pet-clinic-billing/internal/domain/pricing"
)

var evalDate = time.Date(2026, time.June, 15, 10, 30, 0, 0, time.UTC)

const (
	adultAge  = 3
	infantAge = 1
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func visitDaysAgo(days int) pricing.VisitView {
	return pricing.VisitView{Date: evalDate.AddDate(0, 0, -days), Description: "control"}
}

func adultPet(visits ...pricing.VisitView) pricing.Pet {
	return pricing.Pet{Born: evalDate.AddDate(-adultAge, 0, 0), Visits: visits}
}

func infantPet(visits ...pricing.VisitView) pricing.Pet {
	return pricing.Pet{Born: evalDate.AddDate(-infantAge, 0, 0), Visits: visits}
}

func rare(p pricing.Pet) pricing.Pet {
	p.IsRare = true
	return p
}

func repeat(p pricing.PetView, n int) []pricing.PetView {
	out := make([]pricing.PetView, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, p)
	}
	return out
}

func requireAmount(t *testing.T, expected string, actual decimal.Decimal) {
	t.Helper()
	require.Truef(t, dec(expected).Equal(actual), "expected %s, got %s", expected, actual.String())
}
