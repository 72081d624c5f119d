package leave

import (
	"time"

	"go-leave/internal/leavetype"
)

type CreateLeaveRequest struct {
	EmployeeID       string `json:"employee_id" binding:"omitempty,uuid"`
	LeaveType        string `json:"leave_type" binding:"required"`
	StartDate        string `json:"start_date" binding:"required"`
	EndDate          string `json:"end_date" binding:"required"`
	Reason           string `json:"reason" binding:"required,max=2000"`
	IsOutsideCountry bool   `json:"is_outside_country"`
}

// UpdateLeaveRequest carries no status; status only moves through commands.
type UpdateLeaveRequest struct {
	LeaveType        string `json:"leave_type" binding:"required"`
	StartDate        string `json:"start_date" binding:"required"`
	EndDate          string `json:"end_date" binding:"required"`
	Reason           string `json:"reason" binding:"required,max=2000"`
	IsOutsideCountry bool   `json:"is_outside_country"`
}

type CommandRequest struct {
	Note string `json:"note" binding:"max=1000"`
}

type ListLeavesQuery struct {
	EmployeeID string `form:"employee_id"`
	Status     string `form:"status"`
	Page       int    `form:"page"`
	PageSize   int    `form:"page_size"`
}

type LeaveResponse struct {
	ID                 string `json:"id"`
	EmployeeID         string `json:"employee_id"`
	LeaveTypeID        string `json:"leave_type_id"`
	LeaveType          string `json:"leave_type,omitempty"`
	LeaveTypeLabel     string `json:"leave_type_label,omitempty"`
	StartDate          string `json:"start_date"`
	EndDate            string `json:"end_date"`
	TotalDays          int    `json:"total_days"`
	Reason             string `json:"reason"`
	IsOutsideCountry   bool   `json:"is_outside_country"`
	Status             string `json:"status"`
	WarningMessage     string `json:"warning_message,omitempty"`
	IsWarningDisplayed bool   `json:"is_warning_displayed"`
	BalanceDeducted    bool   `json:"balance_deducted"`
	CreatedBy          string `json:"created_by"`
	CreatedAt          string `json:"created_at"`
	UpdatedAt          string `json:"updated_at"`
}

type HistoryResponse struct {
	ID             string `json:"id"`
	LeaveRequestID string `json:"leave_request_id"`
	ActionType     string `json:"action_type"`
	ActionDate     string `json:"action_date"`
	Note           string `json:"note,omitempty"`
	ActionByUserID string `json:"action_by_user_id"`
}

func mapToResponse(l LeaveRequest, lt *leavetype.LeaveType) LeaveResponse {
	resp := LeaveResponse{
		ID:                 l.ID.String(),
		EmployeeID:         l.EmployeeID.String(),
		LeaveTypeID:        l.LeaveTypeID.String(),
		StartDate:          l.StartDate.Format(dateLayout),
		EndDate:            l.EndDate.Format(dateLayout),
		TotalDays:          l.TotalDays,
		Reason:             l.Reason,
		IsOutsideCountry:   l.IsOutsideCountry,
		Status:             string(l.Status),
		WarningMessage:     l.WarningMessage,
		IsWarningDisplayed: l.IsWarningDisplayed,
		BalanceDeducted:    l.BalanceDeducted,
		CreatedBy:          l.CreatedBy.String(),
		CreatedAt:          l.CreatedAt.Format(time.RFC3339),
		UpdatedAt:          l.UpdatedAt.Format(time.RFC3339),
	}
	if lt != nil {
		resp.LeaveType = string(lt.Kind)
		resp.LeaveTypeLabel = lt.Kind.Label()
	}
	return resp
}

func mapToHistoryResponse(h History) HistoryResponse {
	return HistoryResponse{
		ID:             h.ID.String(),
		LeaveRequestID: h.LeaveRequestID.String(),
		ActionType:     string(h.ActionType),
		ActionDate:     h.ActionDate.Format(time.RFC3339Nano),
		Note:           h.Note,
		ActionByUserID: h.ActionByUserID.String(),
	}
}
