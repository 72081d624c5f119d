package balance

import (
	"time"

	"go-leave/internal/leavetype"
)

const dateLayout = "2006-01-02"

type CreateBalanceRequest struct {
	EmployeeID       string `json:"employee_id" binding:"required,uuid"`
	LeaveType        string `json:"leave_type" binding:"required"`
	TotalDays        int    `json:"total_days" binding:"min=0"`
	UsedDays         int    `json:"used_days" binding:"min=0"`
	WarningThreshold *int   `json:"warning_threshold" binding:"omitempty,min=0"`
	IsActive         *bool  `json:"is_active"`
	ResetDate        string `json:"reset_date"`
}

type BalanceResponse struct {
	ID               string `json:"id"`
	EmployeeID       string `json:"employee_id"`
	LeaveTypeID      string `json:"leave_type_id"`
	LeaveType        string `json:"leave_type"`
	LeaveTypeLabel   string `json:"leave_type_label"`
	TotalDays        int    `json:"total_days"`
	UsedDays         int    `json:"used_days"`
	RemainingDays    int    `json:"remaining_days"`
	WarningThreshold int    `json:"warning_threshold"`
	IsActive         bool   `json:"is_active"`
	ResetDate        string `json:"reset_date"`
	LastUpdated      string `json:"last_updated"`
	WarningTier      string `json:"warning_tier"`
	WarningMessage   string `json:"warning_message"`
}

func mapToResponse(b Balance, lt *leavetype.LeaveType) BalanceResponse {
	tier, msg := b.EvaluateWarning()
	resp := BalanceResponse{
		ID:               b.ID.String(),
		EmployeeID:       b.EmployeeID.String(),
		LeaveTypeID:      b.LeaveTypeID.String(),
		TotalDays:        b.TotalDays,
		UsedDays:         b.UsedDays,
		RemainingDays:    b.RemainingDays,
		WarningThreshold: b.WarningThreshold,
		IsActive:         b.IsActive,
		ResetDate:        b.ResetDate.Format(dateLayout),
		LastUpdated:      b.LastUpdated.Format(time.RFC3339),
		WarningTier:      string(tier),
		WarningMessage:   msg,
	}
	if lt != nil {
		resp.LeaveType = string(lt.Kind)
		resp.LeaveTypeLabel = lt.Kind.Label()
	}
	return resp
}
