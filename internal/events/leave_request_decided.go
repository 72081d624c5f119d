package events

import "time"

const (
	LeaveRequestDecidedTopic = "leave.request.decided.v1"
	LeaveRequestDecidedType  = "leave_request_decided"
)

// LeaveRequestDecidedEvent is emitted whenever a history entry changes the
// status of a leave request.
type LeaveRequestDecidedEvent struct {
	EventType       string    `json:"event_type"`
	RequestID       string    `json:"request_id,omitempty"`
	LeaveRequestID  string    `json:"leave_request_id"`
	EmployeeID      string    `json:"employee_id"`
	LeaveType       string    `json:"leave_type"`
	Status          string    `json:"status"`
	TotalDays       int       `json:"total_days"`
	BalanceDeducted bool      `json:"balance_deducted"`
	ActionBy        string    `json:"action_by"`
	Note            string    `json:"note,omitempty"`
	OccurredAt      time.Time `json:"occurred_at"`
}
