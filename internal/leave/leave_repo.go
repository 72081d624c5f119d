package leave

import (
	"context"
	"database/sql"
	"time"

	leaveerrors "go-leave/internal/leave/errors"
	"go-leave/internal/shared/dbtx"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ListFilter struct {
	EmployeeID *uuid.UUID
	Status     Status
}

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, r *LeaveRequest) error
	FindAll(ctx context.Context, filter ListFilter) ([]LeaveRequest, error)
	FindByID(ctx context.Context, id uuid.UUID) (*LeaveRequest, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*LeaveRequest, error)
	UpdateDetails(ctx context.Context, r *LeaveRequest) error
	UpdateStatus(ctx context.Context, r *LeaveRequest) error
	MarkDeducted(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByEmployee(ctx context.Context, employeeID uuid.UUID) error
	CreateHistory(ctx context.Context, h *History) error
	FindHistory(ctx context.Context, requestID uuid.UUID) ([]History, error)
	EmployeeExists(ctx context.Context, employeeID uuid.UUID) (bool, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) conn(ctx context.Context) *gorm.DB {
	return dbtx.Bind(ctx, r.db, r.tx)
}

func (r *repository) Create(ctx context.Context, l *LeaveRequest) error {
	return r.conn(ctx).Create(l).Error
}

func (r *repository) FindAll(ctx context.Context, filter ListFilter) ([]LeaveRequest, error) {
	q := r.conn(ctx).Model(&LeaveRequest{})
	if filter.EmployeeID != nil {
		q = q.Where("employee_id = ?", *filter.EmployeeID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}

	var requests []LeaveRequest
	err := q.Order("created_at DESC").Order("id DESC").Find(&requests).Error
	return requests, err
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*LeaveRequest, error) {
	var l LeaveRequest
	if err := r.conn(ctx).First(&l, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *repository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*LeaveRequest, error) {
	q := r.conn(ctx)
	if dbtx.SupportsRowLocks(r.db) {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var l LeaveRequest
	if err := q.First(&l, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &l, nil
}

// UpdateDetails never writes status or balance_deducted.
func (r *repository) UpdateDetails(ctx context.Context, l *LeaveRequest) error {
	return r.conn(ctx).
		Model(&LeaveRequest{ID: l.ID}).
		Select("leave_type_id", "start_date", "end_date", "total_days", "reason",
			"is_outside_country", "warning_message", "is_warning_displayed", "updated_at").
		Updates(l).Error
}

func (r *repository) UpdateStatus(ctx context.Context, l *LeaveRequest) error {
	return r.conn(ctx).
		Model(&LeaveRequest{}).
		Where("id = ?", l.ID).
		Updates(map[string]any{
			"status":               l.Status,
			"warning_message":      l.WarningMessage,
			"is_warning_displayed": l.IsWarningDisplayed,
			"updated_at":           l.UpdatedAt,
		}).Error
}

// MarkDeducted flips balance_deducted only if it is still false.
func (r *repository) MarkDeducted(ctx context.Context, id uuid.UUID) error {
	res := r.conn(ctx).
		Model(&LeaveRequest{}).
		Where("id = ? AND balance_deducted = ?", id, false).
		Updates(map[string]any{
			"balance_deducted": true,
			"updated_at":       time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return leaveerrors.ErrAlreadyDeducted
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	db := r.conn(ctx)
	if err := db.Where("leave_request_id = ?", id).Delete(&History{}).Error; err != nil {
		return err
	}
	return db.Where("id = ?", id).Delete(&LeaveRequest{}).Error
}

func (r *repository) DeleteByEmployee(ctx context.Context, employeeID uuid.UUID) error {
	db := r.conn(ctx)
	requestIDs := db.Model(&LeaveRequest{}).Select("id").Where("employee_id = ?", employeeID)
	if err := r.conn(ctx).Where("leave_request_id IN (?)", requestIDs).Delete(&History{}).Error; err != nil {
		return err
	}
	return r.conn(ctx).Where("employee_id = ?", employeeID).Delete(&LeaveRequest{}).Error
}

func (r *repository) CreateHistory(ctx context.Context, h *History) error {
	return r.conn(ctx).Create(h).Error
}

func (r *repository) FindHistory(ctx context.Context, requestID uuid.UUID) ([]History, error) {
	var entries []History
	err := r.conn(ctx).
		Where("leave_request_id = ?", requestID).
		Order("action_date ASC").
		Order("id ASC").
		Find(&entries).Error
	return entries, err
}

func (r *repository) EmployeeExists(ctx context.Context, employeeID uuid.UUID) (bool, error) {
	var count int64
	err := r.conn(ctx).
		Table("employees").
		Where("id = ?", employeeID).
		Count(&count).Error
	return count > 0, err
}
