package balance

import (
	"time"

	"github.com/google/uuid"
)

type Balance struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_balance_employee_type"`
	LeaveTypeID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_balance_employee_type"`
	TotalDays        int       `gorm:"not null"`
	UsedDays         int       `gorm:"not null"`
	RemainingDays    int       `gorm:"not null"`
	WarningThreshold int       `gorm:"not null"`
	IsActive         bool      `gorm:"not null"`
	ResetDate        time.Time `gorm:"type:date;not null"`
	LastUpdated      time.Time
	CreatedAt        time.Time
}

func (Balance) TableName() string {
	return "leave_balances"
}
