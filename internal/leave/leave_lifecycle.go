package leave

import (
	"context"
	"errors"
	"time"

	"go-leave/internal/balance"
	leaveerrors "go-leave/internal/leave/errors"
	"go-leave/internal/leavetype"

	"gorm.io/gorm"
)

const (
	dateLayout       = "2006-01-02"
	warningPrefix    = "Warning: "
	noBalanceWarning = warningPrefix + "No leave balance record found for this leave type"
)

// ValidateDates rejects an end date earlier than the start date.
func ValidateDates(start, end time.Time) error {
	if civilDate(end).Before(civilDate(start)) {
		return leaveerrors.ErrEndBeforeStart
	}
	return nil
}

// CountDays is the inclusive number of calendar days between start and end.
func CountDays(start, end time.Time) int {
	return int(civilDate(end).Sub(civilDate(start)).Hours()/24) + 1
}

func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func parseDate(v string, invalid error) (time.Time, error) {
	t, err := time.Parse(dateLayout, v)
	if err != nil {
		return time.Time{}, invalid
	}
	return t, nil
}

// annotateWarning sets or clears the warning of a pending or approved
// request. A nil balance means the employee has no ledger row for the type.
func annotateWarning(req *LeaveRequest, b *balance.Balance, lt leavetype.LeaveType) {
	if req.Status != StatusPending && req.Status != StatusApproved {
		return
	}

	if b == nil {
		req.WarningMessage = noBalanceWarning
		req.IsWarningDisplayed = true
		return
	}

	if ok, msg := b.CanRequest(req.TotalDays, lt); !ok {
		req.WarningMessage = warningPrefix + msg
		req.IsWarningDisplayed = true
		return
	}

	req.WarningMessage = ""
	req.IsWarningDisplayed = false
}

// applyDeduction charges an approved request to the ledger exactly once.
// current is the balance row already read under lock, nil when absent.
// The request is flagged first so a concurrent or repeated approval fails
// before touching the balance.
func applyDeduction(
	ctx context.Context,
	requests Repository,
	balances balance.Repository,
	req *LeaveRequest,
	current *balance.Balance,
	lt leavetype.LeaveType,
	now time.Time,
) (*balance.Balance, error) {
	if req.BalanceDeducted {
		return current, nil
	}

	if err := requests.MarkDeducted(ctx, req.ID); err != nil {
		return nil, err
	}
	req.BalanceDeducted = true

	if current == nil {
		if !lt.IsUnlimited() && req.TotalDays > lt.MaxDaysAllowed {
			return nil, leaveerrors.ErrExceedsAllowance
		}
		b := balance.NewBalance(req.EmployeeID, lt, balance.Opening{UsedDays: req.TotalDays}, now)
		if err := balances.Create(ctx, b); err != nil {
			return nil, err
		}
		clearWarning(req)
		return b, nil
	}

	expectedUsed := current.UsedDays
	if !current.ReduceDays(req.TotalDays) {
		return nil, leaveerrors.ErrInsufficientBalance
	}
	current.LastUpdated = now
	if err := balances.UpdateUsage(ctx, current, expectedUsed); err != nil {
		return nil, err
	}
	clearWarning(req)
	return current, nil
}

func clearWarning(req *LeaveRequest) {
	req.WarningMessage = ""
	req.IsWarningDisplayed = false
}

// findBalance returns nil without error when the employee has no row for
// the leave type.
func findBalance(ctx context.Context, balances balance.Repository, req *LeaveRequest, lock bool) (*balance.Balance, error) {
	var (
		b   *balance.Balance
		err error
	)
	if lock {
		b, err = balances.FindByEmployeeAndTypeForUpdate(ctx, req.EmployeeID, req.LeaveTypeID)
	} else {
		b, err = balances.FindByEmployeeAndType(ctx, req.EmployeeID, req.LeaveTypeID)
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return b, err
}
