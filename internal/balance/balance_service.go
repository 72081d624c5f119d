package balance

import (
	"context"
	"database/sql"
	"errors"
	"time"

	balanceerrors "go-leave/internal/balance/errors"
	employeeerrors "go-leave/internal/employee/errors"
	"go-leave/internal/leavetype"
	leavetypeerrors "go-leave/internal/leavetype/errors"
	"go-leave/internal/rbac"
	"go-leave/internal/shared/apperror"
	"go-leave/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service interface {
	Create(ctx context.Context, req CreateBalanceRequest) (BalanceResponse, error)
	GetByID(ctx context.Context, actor rbac.Principal, id string) (BalanceResponse, error)
	ListByEmployee(ctx context.Context, actor rbac.Principal, employeeID string) ([]BalanceResponse, error)
	SeedDefaults(ctx context.Context, employeeID string) (int, error)
}

type service struct {
	db       *sql.DB
	repo     Repository
	typeRepo leavetype.Repository
	now      func() time.Time
	logger   *zap.Logger
}

func NewService(db *sql.DB, repo Repository, typeRepo leavetype.Repository, logger ...*zap.Logger) Service {
	return NewServiceWithClock(db, repo, typeRepo, func() time.Time { return time.Now().UTC() }, logger...)
}

func NewServiceWithClock(db *sql.DB, repo Repository, typeRepo leavetype.Repository, now func() time.Time, logger ...*zap.Logger) Service {
	l := zap.L().Named("balance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("balance.service")
	}
	return &service{db: db, repo: repo, typeRepo: typeRepo, now: now, logger: l}
}

func (s *service) log(ctx context.Context) *zap.Logger {
	return contextutil.GetLogger(ctx, s.logger)
}

func (s *service) Create(ctx context.Context, req CreateBalanceRequest) (BalanceResponse, error) {
	log := s.log(ctx)
	log.Debug("create balance requested",
		zap.String("employee_id", req.EmployeeID),
		zap.String("leave_type", req.LeaveType),
	)

	employeeID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return BalanceResponse{}, balanceerrors.ErrInvalidEmployeeID
	}
	kind, ok := leavetype.ParseKind(req.LeaveType)
	if !ok {
		return BalanceResponse{}, leavetypeerrors.ErrInvalidKind
	}

	opening := Opening{
		TotalDays:        req.TotalDays,
		UsedDays:         req.UsedDays,
		WarningThreshold: req.WarningThreshold,
		IsActive:         req.IsActive,
	}
	if req.ResetDate != "" {
		resetDate, err := time.Parse(dateLayout, req.ResetDate)
		if err != nil {
			return BalanceResponse{}, balanceerrors.ErrInvalidResetDate
		}
		opening.ResetDate = &resetDate
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("create balance begin tx failed", zap.Error(err))
		return BalanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	exists, err := qtx.EmployeeExists(ctx, employeeID)
	if err != nil {
		log.Error("create balance employee lookup failed", zap.Error(err))
		return BalanceResponse{}, err
	}
	if !exists {
		return BalanceResponse{}, employeeerrors.ErrEmployeeNotFound
	}

	lt, err := s.typeRepo.WithTx(tx).FindByKind(ctx, kind)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return BalanceResponse{}, leavetypeerrors.ErrLeaveTypeNotFound
		}
		return BalanceResponse{}, err
	}

	dup, err := qtx.Exists(ctx, employeeID, lt.ID)
	if err != nil {
		log.Error("create balance duplicate check failed", zap.Error(err))
		return BalanceResponse{}, err
	}
	if dup {
		log.Warn("create balance duplicate rejected",
			zap.String("employee_id", req.EmployeeID),
			zap.String("leave_type", string(kind)),
		)
		return BalanceResponse{}, balanceerrors.ErrBalanceAlreadyExists
	}

	b := NewBalance(employeeID, *lt, opening, s.now())
	if b.UsedDays > b.TotalDays {
		return BalanceResponse{}, balanceerrors.ErrUsedExceedsTotal
	}

	if err := qtx.Create(ctx, b); err != nil {
		log.Error("create balance persist failed", zap.Error(err))
		return BalanceResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		log.Error("create balance commit failed", zap.Error(err))
		return BalanceResponse{}, err
	}

	log.Info("create balance success",
		zap.String("balance_id", b.ID.String()),
		zap.String("employee_id", req.EmployeeID),
		zap.String("leave_type", string(kind)),
	)
	return mapToResponse(*b, lt), nil
}

func (s *service) GetByID(ctx context.Context, actor rbac.Principal, id string) (BalanceResponse, error) {
	balanceID, err := uuid.Parse(id)
	if err != nil {
		return BalanceResponse{}, balanceerrors.ErrInvalidBalanceID
	}

	b, err := s.repo.FindByID(ctx, balanceID)
	if err != nil {
		return BalanceResponse{}, mapRepositoryError(err)
	}
	if !actor.CanActFor(b.EmployeeID) {
		return BalanceResponse{}, apperror.ErrForbidden
	}

	lt, err := s.typeRepo.FindByID(ctx, b.LeaveTypeID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return BalanceResponse{}, err
	}
	return mapToResponse(*b, lt), nil
}

func (s *service) ListByEmployee(ctx context.Context, actor rbac.Principal, employeeID string) ([]BalanceResponse, error) {
	id, err := uuid.Parse(employeeID)
	if err != nil {
		return nil, balanceerrors.ErrInvalidEmployeeID
	}
	if !actor.CanActFor(id) {
		return nil, apperror.ErrForbidden
	}

	exists, err := s.repo.EmployeeExists(ctx, id)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, employeeerrors.ErrEmployeeNotFound
	}

	balances, err := s.repo.FindByEmployee(ctx, id)
	if err != nil {
		s.log(ctx).Error("list balances failed", zap.String("employee_id", employeeID), zap.Error(err))
		return nil, mapRepositoryError(err)
	}

	types, err := s.typeRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*leavetype.LeaveType, len(types))
	for i := range types {
		byID[types[i].ID] = &types[i]
	}

	resp := make([]BalanceResponse, len(balances))
	for i, b := range balances {
		resp[i] = mapToResponse(b, byID[b.LeaveTypeID])
	}
	return resp, nil
}

// SeedDefaults opens one balance per catalog leave type the employee does
// not have yet. Running it again is a no-op.
func (s *service) SeedDefaults(ctx context.Context, employeeID string) (int, error) {
	log := s.log(ctx)
	id, err := uuid.Parse(employeeID)
	if err != nil {
		return 0, balanceerrors.ErrInvalidEmployeeID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("seed balances begin tx failed", zap.Error(err))
		return 0, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	exists, err := qtx.EmployeeExists(ctx, id)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, employeeerrors.ErrEmployeeNotFound
	}

	types, err := s.typeRepo.WithTx(tx).FindAll(ctx)
	if err != nil {
		return 0, err
	}

	now := s.now()
	created := 0
	for _, lt := range types {
		has, err := qtx.Exists(ctx, id, lt.ID)
		if err != nil {
			return 0, err
		}
		if has {
			continue
		}
		if err := qtx.Create(ctx, NewBalance(id, lt, Opening{}, now)); err != nil {
			log.Error("seed balance persist failed",
				zap.String("employee_id", employeeID),
				zap.String("leave_type", string(lt.Kind)),
				zap.Error(err),
			)
			return 0, mapRepositoryError(err)
		}
		created++
	}

	if err := tx.Commit(); err != nil {
		log.Error("seed balances commit failed", zap.Error(err))
		return 0, err
	}

	log.Info("default balances seeded",
		zap.String("employee_id", employeeID),
		zap.Int("created", created),
	)
	return created, nil
}
