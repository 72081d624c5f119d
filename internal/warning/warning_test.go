package warning_test

import (
	"testing"

	"go-leave/internal/warning"

	"github.com/stretchr/testify/assert"
)

func TestEvaluate(t *testing.T) {
	cases := []struct {
		name      string
		remaining int
		threshold int
		tier      warning.Tier
		contains  string
	}{
		{"zero is danger", 0, 5, warning.TierDanger, "No balance remaining"},
		{"negative is danger", -2, 5, warning.TierDanger, "No balance remaining"},
		{"below threshold warns", 3, 5, warning.TierWarning, "only 3 days"},
		{"at threshold warns", 5, 5, warning.TierWarning, "only 5 days"},
		{"above threshold is safe", 10, 5, warning.TierSafe, "10 days remaining"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tier, msg := warning.Evaluate(tc.remaining, tc.threshold)
			assert.Equal(t, tc.tier, tier)
			assert.Contains(t, msg, tc.contains)
		})
	}
}

func TestCanRequest(t *testing.T) {
	annual := warning.Policy{MaxDaysAllowed: 30, Label: "Annual Leave"}
	emergency := warning.Policy{MaxDaysAllowed: 5, Label: "Emergency Leave"}
	special := warning.Policy{MaxDaysAllowed: 100000, Unlimited: true, Label: "Special Leave"}

	t.Run("within balance and cap", func(t *testing.T) {
		ok, _ := warning.CanRequest(3, 30, annual)
		assert.True(t, ok)
	})

	t.Run("balance check wins over cap", func(t *testing.T) {
		ok, msg := warning.CanRequest(40, 30, annual)
		assert.False(t, ok)
		assert.Equal(t, "Requested 40 days but only 30 available", msg)
	})

	t.Run("cap enforced independently of balance", func(t *testing.T) {
		ok, msg := warning.CanRequest(7, 20, emergency)
		assert.False(t, ok)
		assert.Equal(t, "Cannot request more than 5 days for Emergency Leave", msg)
	})

	t.Run("special ignores balance and cap", func(t *testing.T) {
		ok, msg := warning.CanRequest(9999, 0, special)
		assert.True(t, ok)
		assert.Contains(t, msg, "no limit")
	})
}
