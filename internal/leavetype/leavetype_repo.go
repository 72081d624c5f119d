package leavetype

import (
	"context"
	"database/sql"

	"go-leave/internal/shared/dbtx"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, t *LeaveType) error
	FindAll(ctx context.Context) ([]LeaveType, error)
	FindByID(ctx context.Context, id uuid.UUID) (*LeaveType, error)
	FindByKind(ctx context.Context, kind Kind) (*LeaveType, error)
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

func (r *repository) Create(ctx context.Context, t *LeaveType) error {
	return r.conn(ctx).Create(t).Error
}

func (r *repository) FindAll(ctx context.Context) ([]LeaveType, error) {
	var types []LeaveType
	err := r.conn(ctx).Order("kind ASC").Find(&types).Error
	return types, err
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*LeaveType, error) {
	var t LeaveType
	if err := r.conn(ctx).First(&t, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *repository) FindByKind(ctx context.Context, kind Kind) (*LeaveType, error) {
	var t LeaveType
	if err := r.conn(ctx).First(&t, "kind = ?", kind).Error; err != nil {
		return nil, err
	}
	return &t, nil
}
