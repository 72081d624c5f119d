package leavetype_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"go-leave/internal/leavetype"
	leavetypeerrors "go-leave/internal/leavetype/errors"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeRepository struct {
	createFn     func(ctx context.Context, t *leavetype.LeaveType) error
	findAllFn    func(ctx context.Context) ([]leavetype.LeaveType, error)
	findByIDFn   func(ctx context.Context, id uuid.UUID) (*leavetype.LeaveType, error)
	findByKindFn func(ctx context.Context, kind leavetype.Kind) (*leavetype.LeaveType, error)
}

func (f *fakeRepository) WithTx(tx *sql.Tx) leavetype.Repository { return f }

func (f *fakeRepository) Create(ctx context.Context, t *leavetype.LeaveType) error {
	if f.createFn != nil {
		return f.createFn(ctx, t)
	}
	return nil
}

func (f *fakeRepository) FindAll(ctx context.Context) ([]leavetype.LeaveType, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx)
	}
	return nil, nil
}

func (f *fakeRepository) FindByID(ctx context.Context, id uuid.UUID) (*leavetype.LeaveType, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) FindByKind(ctx context.Context, kind leavetype.Kind) (*leavetype.LeaveType, error) {
	if f.findByKindFn != nil {
		return f.findByKindFn(ctx, kind)
	}
	return nil, gorm.ErrRecordNotFound
}

func TestLeaveTypeService_GetAll(t *testing.T) {
	ctx := context.Background()
	annual := leavetype.LeaveType{ID: uuid.New(), Kind: leavetype.KindAnnual, MaxDaysAllowed: 30}
	expected := []leavetype.LeaveTypeResponse{{
		ID:             annual.ID.String(),
		Kind:           "ANNUAL",
		Label:          "Annual Leave",
		MaxDaysAllowed: 30,
	}}
	payload, _ := json.Marshal(expected)

	t.Run("cache miss loads from store and fills cache", func(t *testing.T) {
		rdb, redisMock := redismock.NewClientMock()
		calls := 0
		repo := &fakeRepository{findAllFn: func(ctx context.Context) ([]leavetype.LeaveType, error) {
			calls++
			return []leavetype.LeaveType{annual}, nil
		}}
		svc := leavetype.NewService(repo, rdb)

		redisMock.ExpectGet(leavetype.CatalogCacheKey).RedisNil()
		redisMock.ExpectSet(leavetype.CatalogCacheKey, payload, time.Hour).SetVal("OK")

		resp, err := svc.GetAll(ctx)

		assert.NoError(t, err)
		assert.Equal(t, expected, resp)
		assert.Equal(t, 1, calls)
		assert.NoError(t, redisMock.ExpectationsWereMet())
	})

	t.Run("cache hit skips store", func(t *testing.T) {
		rdb, redisMock := redismock.NewClientMock()
		repo := &fakeRepository{findAllFn: func(ctx context.Context) ([]leavetype.LeaveType, error) {
			t.Fatal("store must not be queried on cache hit")
			return nil, nil
		}}
		svc := leavetype.NewService(repo, rdb)

		redisMock.ExpectGet(leavetype.CatalogCacheKey).SetVal(string(payload))

		resp, err := svc.GetAll(ctx)

		assert.NoError(t, err)
		assert.Equal(t, expected, resp)
	})

	t.Run("store error without cache", func(t *testing.T) {
		repo := &fakeRepository{findAllFn: func(ctx context.Context) ([]leavetype.LeaveType, error) {
			return nil, errors.New("db down")
		}}
		svc := leavetype.NewService(repo, nil)

		_, err := svc.GetAll(ctx)

		assert.EqualError(t, err, "db down")
	})
}

func TestLeaveTypeService_GetByKind(t *testing.T) {
	ctx := context.Background()
	svc := leavetype.NewService(&fakeRepository{}, nil)

	t.Run("unknown kind", func(t *testing.T) {
		_, err := svc.GetByKind(ctx, "STUDY")
		assert.ErrorIs(t, err, leavetypeerrors.ErrInvalidKind)
	})

	t.Run("missing row maps to not found", func(t *testing.T) {
		_, err := svc.GetByKind(ctx, "sick")
		assert.ErrorIs(t, err, leavetypeerrors.ErrLeaveTypeNotFound)
	})
}

func TestLeaveTypeService_Seed(t *testing.T) {
	ctx := context.Background()

	t.Run("creates only missing kinds", func(t *testing.T) {
		var created []leavetype.Kind
		repo := &fakeRepository{
			findByKindFn: func(ctx context.Context, kind leavetype.Kind) (*leavetype.LeaveType, error) {
				if kind == leavetype.KindAnnual {
					return &leavetype.LeaveType{ID: uuid.New(), Kind: kind}, nil
				}
				return nil, gorm.ErrRecordNotFound
			},
			createFn: func(ctx context.Context, lt *leavetype.LeaveType) error {
				assert.NotEqual(t, uuid.Nil, lt.ID)
				created = append(created, lt.Kind)
				if lt.Kind == leavetype.KindSpecial {
					assert.Equal(t, leavetype.UnlimitedDays, lt.MaxDaysAllowed)
				}
				return nil
			},
		}
		rdb, redisMock := redismock.NewClientMock()
		redisMock.ExpectDel(leavetype.CatalogCacheKey).SetVal(1)

		n, err := leavetype.NewService(repo, rdb).Seed(ctx)

		assert.NoError(t, err)
		assert.Equal(t, 5, n)
		assert.NotContains(t, created, leavetype.KindAnnual)
		assert.NoError(t, redisMock.ExpectationsWereMet())
	})

	t.Run("duplicate from concurrent seeder is skipped", func(t *testing.T) {
		repo := &fakeRepository{
			createFn: func(ctx context.Context, lt *leavetype.LeaveType) error {
				return gorm.ErrDuplicatedKey
			},
		}

		n, err := leavetype.NewService(repo, nil).Seed(ctx)

		assert.NoError(t, err)
		assert.Equal(t, 0, n)
	})
}
