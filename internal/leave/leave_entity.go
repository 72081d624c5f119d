package leave

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

type LeaveRequest struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeID         uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_requests_employee"`
	LeaveTypeID        uuid.UUID `gorm:"type:uuid;not null"`
	StartDate          time.Time `gorm:"type:date;not null"`
	EndDate            time.Time `gorm:"type:date;not null"`
	TotalDays          int       `gorm:"not null"`
	Reason             string    `gorm:"type:text;not null"`
	IsOutsideCountry   bool      `gorm:"not null"`
	Status             Status    `gorm:"type:varchar(20);not null;index:idx_leave_requests_status"`
	WarningMessage     string    `gorm:"type:text"`
	IsWarningDisplayed bool      `gorm:"not null"`
	BalanceDeducted    bool      `gorm:"not null"`
	CreatedBy          uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt          time.Time `gorm:"index:idx_leave_requests_created"`
	UpdatedAt          time.Time
}

func (LeaveRequest) TableName() string {
	return "leave_requests"
}

// History is append-only. Rows disappear only together with their request.
type History struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	LeaveRequestID uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_histories_request"`
	ActionType     Status    `gorm:"type:varchar(20);not null"`
	ActionDate     time.Time `gorm:"not null;index:idx_leave_histories_request"`
	Note           string    `gorm:"type:text"`
	ActionByUserID uuid.UUID `gorm:"type:uuid;not null"`
}

func (History) TableName() string {
	return "leave_request_histories"
}
