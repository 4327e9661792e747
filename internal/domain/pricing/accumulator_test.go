package pricing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccumulator_StateNeverGoesBack(t *testing.T) {
	at := time.Date(2026, time.June, 15, 0, 0, 0, 0, time.UTC)
	cfg := DefaultConfig()
	cfg.DiscountMinScore = 3

	acc := newAccumulator(cfg, decimal.NewFromInt(10), at)
	pet := Pet{Born: at.AddDate(-5, 0, 0)}
	adult := Classification{AgeYears: 5}
	infant := Classification{AgeYears: 0, Infant: true}

	steps := []struct {
		cl        Classification
		wantState foldState
		wantScore int
		wantTotal int64
	}{
		{cl: adult, wantState: accumulating, wantScore: 1, wantTotal: 100},
		{cl: adult, wantState: accumulating, wantScore: 2, wantTotal: 200},
		{cl: infant, wantState: discounting, wantScore: 4, wantTotal: 200*2 + 10 + 100},
		{cl: adult, wantState: discounting, wantScore: 5, wantTotal: 510*2 + 10 + 100},
	}

	for i, st := range steps {
		require.NoError(t, acc.add(pet, st.cl, decimal.NewFromInt(100)))
		assert.Equal(t, st.wantState, acc.state, "step %d", i)
		assert.Equal(t, st.wantScore, acc.score, "step %d", i)
		assert.True(t, decimal.NewFromInt(st.wantTotal).Equal(acc.total), "step %d: got %s", i, acc.total)
	}
	assert.Equal(t, "discounting", acc.state.String())
}
