package balance

import (
	"time"

	"go-leave/internal/leavetype"
	"go-leave/internal/warning"

	"github.com/google/uuid"
)

// Opening carries the optional starting values of a new balance. Zero
// values fall back to the leave type cap, Dec 31 and the default threshold.
type Opening struct {
	TotalDays        int
	UsedDays         int
	WarningThreshold *int
	IsActive         *bool
	ResetDate        *time.Time
}

func NewBalance(employeeID uuid.UUID, lt leavetype.LeaveType, o Opening, now time.Time) *Balance {
	b := &Balance{
		ID:               uuid.New(),
		EmployeeID:       employeeID,
		LeaveTypeID:      lt.ID,
		TotalDays:        o.TotalDays,
		UsedDays:         o.UsedDays,
		WarningThreshold: warning.DefaultThreshold,
		IsActive:         true,
		LastUpdated:      now,
	}

	if b.TotalDays == 0 {
		b.TotalDays = lt.MaxDaysAllowed
	}
	if o.WarningThreshold != nil {
		b.WarningThreshold = *o.WarningThreshold
	}
	if o.IsActive != nil {
		b.IsActive = *o.IsActive
	}
	if o.ResetDate != nil {
		b.ResetDate = *o.ResetDate
	} else {
		b.ResetDate = EndOfYear(now)
	}

	b.Recompute()
	return b
}

// EndOfYear returns Dec 31 of t's year as a calendar date.
func EndOfYear(t time.Time) time.Time {
	return time.Date(t.Year(), time.December, 31, 0, 0, 0, 0, time.UTC)
}

func (b *Balance) ComputeRemaining() int {
	return b.TotalDays - b.UsedDays
}

// Recompute must run before every persist.
func (b *Balance) Recompute() {
	b.RemainingDays = b.ComputeRemaining()
}

func (b *Balance) EvaluateWarning() (warning.Tier, string) {
	return warning.Evaluate(b.RemainingDays, b.WarningThreshold)
}

func (b *Balance) CanRequest(requested int, lt leavetype.LeaveType) (bool, string) {
	return warning.CanRequest(requested, b.RemainingDays, lt.Policy())
}

// ReduceDays is the only way used days grow. It leaves b untouched and
// returns false when amount is not positive or exceeds the remaining days.
func (b *Balance) ReduceDays(amount int) bool {
	if amount <= 0 || amount > b.RemainingDays {
		return false
	}
	b.UsedDays += amount
	b.Recompute()
	return true
}
