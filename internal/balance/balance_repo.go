package balance

import (
	"context"
	"database/sql"
	"time"

	balanceerrors "go-leave/internal/balance/errors"
	"go-leave/internal/shared/dbtx"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, b *Balance) error
	FindByID(ctx context.Context, id uuid.UUID) (*Balance, error)
	FindByEmployee(ctx context.Context, employeeID uuid.UUID) ([]Balance, error)
	FindByEmployeeAndType(ctx context.Context, employeeID, leaveTypeID uuid.UUID) (*Balance, error)
	FindByEmployeeAndTypeForUpdate(ctx context.Context, employeeID, leaveTypeID uuid.UUID) (*Balance, error)
	Exists(ctx context.Context, employeeID, leaveTypeID uuid.UUID) (bool, error)
	UpdateUsage(ctx context.Context, b *Balance, expectedUsed int) error
	DeleteByEmployee(ctx context.Context, employeeID uuid.UUID) error
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

func (r *repository) Create(ctx context.Context, b *Balance) error {
	b.Recompute()
	return r.conn(ctx).Create(b).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*Balance, error) {
	var b Balance
	if err := r.conn(ctx).First(&b, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *repository) FindByEmployee(ctx context.Context, employeeID uuid.UUID) ([]Balance, error) {
	var balances []Balance
	err := r.conn(ctx).
		Where("employee_id = ?", employeeID).
		Order("created_at ASC").
		Find(&balances).Error
	return balances, err
}

func (r *repository) FindByEmployeeAndType(ctx context.Context, employeeID, leaveTypeID uuid.UUID) (*Balance, error) {
	var b Balance
	err := r.conn(ctx).
		Where("employee_id = ? AND leave_type_id = ?", employeeID, leaveTypeID).
		First(&b).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// FindByEmployeeAndTypeForUpdate locks the row until the surrounding
// transaction ends. sqlite has no row locks and relies on UpdateUsage's guard.
func (r *repository) FindByEmployeeAndTypeForUpdate(ctx context.Context, employeeID, leaveTypeID uuid.UUID) (*Balance, error) {
	q := r.conn(ctx)
	if dbtx.SupportsRowLocks(r.db) {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var b Balance
	err := q.Where("employee_id = ? AND leave_type_id = ?", employeeID, leaveTypeID).First(&b).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *repository) Exists(ctx context.Context, employeeID, leaveTypeID uuid.UUID) (bool, error) {
	var count int64
	err := r.conn(ctx).
		Model(&Balance{}).
		Where("employee_id = ? AND leave_type_id = ?", employeeID, leaveTypeID).
		Count(&count).Error
	return count > 0, err
}

// UpdateUsage writes used/remaining days only if used_days still equals
// expectedUsed. A lost race yields ErrConcurrentUpdate.
func (r *repository) UpdateUsage(ctx context.Context, b *Balance, expectedUsed int) error {
	b.Recompute()
	if b.LastUpdated.IsZero() {
		b.LastUpdated = time.Now().UTC()
	}

	res := r.conn(ctx).
		Model(&Balance{}).
		Where("id = ? AND used_days = ?", b.ID, expectedUsed).
		Updates(map[string]any{
			"used_days":      b.UsedDays,
			"remaining_days": b.RemainingDays,
			"last_updated":   b.LastUpdated,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return balanceerrors.ErrConcurrentUpdate
	}
	return nil
}

func (r *repository) DeleteByEmployee(ctx context.Context, employeeID uuid.UUID) error {
	return r.conn(ctx).Where("employee_id = ?", employeeID).Delete(&Balance{}).Error
}

func (r *repository) EmployeeExists(ctx context.Context, employeeID uuid.UUID) (bool, error) {
	var count int64
	err := r.conn(ctx).
		Table("employees").
		Where("id = ?", employeeID).
		Count(&count).Error
	return count > 0, err
}
