// Package warning derives balance health tiers and decides whether a number
// of days can be requested against a balance. Everything here is pure.
package warning

import "fmt"

type Tier string

const (
	TierSafe    Tier = "safe"
	TierWarning Tier = "warning"
	TierDanger  Tier = "danger"
)

const DefaultThreshold = 5

// Policy is the slice of a leave type that CanRequest needs.
type Policy struct {
	MaxDaysAllowed int
	Unlimited      bool
	Label          string
}

// Evaluate returns the health tier for a remaining balance.
func Evaluate(remaining, threshold int) (Tier, string) {
	switch {
	case remaining <= 0:
		return TierDanger, "No balance remaining - salary may be affected"
	case remaining <= threshold:
		return TierWarning, fmt.Sprintf("Low balance - only %d days remaining", remaining)
	default:
		return TierSafe, fmt.Sprintf("Good balance - %d days remaining", remaining)
	}
}

// CanRequest checks the balance first, then the policy cap. The first
// failing check wins.
func CanRequest(requested, remaining int, policy Policy) (bool, string) {
	if policy.Unlimited {
		return true, fmt.Sprintf("%s has no limit, requires approval", policy.Label)
	}

	if requested > remaining {
		return false, fmt.Sprintf("Requested %d days but only %d available", requested, remaining)
	}

	if requested > policy.MaxDaysAllowed {
		return false, fmt.Sprintf("Cannot request more than %d days for %s", policy.MaxDaysAllowed, policy.Label)
	}

	return true, "Request is valid"
}
