package employee

import (
	"context"
	"database/sql"

	"go-leave/internal/shared/dbtx"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, e *Employee) error
	FindAll(ctx context.Context) ([]Employee, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Employee, error)
	ExistsByUser(ctx context.Context, userID uuid.UUID) (bool, error)
	UserExists(ctx context.Context, userID uuid.UUID) (bool, error)
	Update(ctx context.Context, e *Employee) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{
		db: r.db,
		tx: tx,
	}
}

func (r *repository) conn(ctx context.Context) *gorm.DB {
	return dbtx.Bind(ctx, r.db, r.tx)
}

func (r *repository) Create(ctx context.Context, e *Employee) error {
	return r.conn(ctx).Create(e).Error
}

func (r *repository) FindAll(ctx context.Context) ([]Employee, error) {
	var list []Employee
	err := r.conn(ctx).Order("created_at ASC").Find(&list).Error
	return list, err
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*Employee, error) {
	var e Employee
	if err := r.conn(ctx).First(&e, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *repository) ExistsByUser(ctx context.Context, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.conn(ctx).Model(&Employee{}).Where("user_id = ?", userID).Count(&count).Error
	return count > 0, err
}

func (r *repository) UserExists(ctx context.Context, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.conn(ctx).Table("users").Where("id = ?", userID).Count(&count).Error
	return count > 0, err
}

func (r *repository) Update(ctx context.Context, e *Employee) error {
	return r.conn(ctx).Save(e).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.conn(ctx).Delete(&Employee{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
