package auth

import (
	"time"

	"github.com/google/uuid"
)

// User is an account that can sign in. The employee profile, if any, lives
// in the employees table and points back here through user_id.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Username     string    `gorm:"type:varchar(150);not null;uniqueIndex:uq_users_username"`
	Email        string    `gorm:"type:varchar(255)"`
	FirstName    string    `gorm:"type:varchar(150)"`
	LastName     string    `gorm:"type:varchar(150)"`
	PasswordHash string    `gorm:"type:varchar(255);not null"`
	IsAdmin      bool      `gorm:"not null;default:false"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (User) TableName() string {
	return "users"
}

// EmployeeProfile is the slice of an employee row needed to issue a token.
type EmployeeProfile struct {
	ID   uuid.UUID
	Role string
}
