package events

import "time"

const (
	EmployeeCreatedTopic = "leave.employee.lifecycle.v1"
	EmployeeCreatedType  = "employee_created"
)

type EmployeeCreatedEvent struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id,omitempty"`
	EmployeeID string    `json:"employee_id"`
	UserID     string    `json:"user_id"`
	OccurredAt time.Time `json:"occurred_at"`
}
