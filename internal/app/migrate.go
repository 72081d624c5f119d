package app

import (
	"go-leave/internal/auth"
	"go-leave/internal/balance"
	"go-leave/internal/employee"
	"go-leave/internal/leave"
	"go-leave/internal/leavetype"
	"go-leave/internal/messaging/kafka"

	"gorm.io/gorm"
)

// Migrate creates or updates every table the service owns. Order matters
// for the foreign keys postgres enforces.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&auth.User{},
		&employee.Employee{},
		&leavetype.LeaveType{},
		&balance.Balance{},
		&leave.LeaveRequest{},
		&leave.History{},
		&kafka.OutboxEvent{},
	)
}
