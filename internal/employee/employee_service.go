package employee

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"go-leave/internal/balance"
	employeeerrors "go-leave/internal/employee/errors"
	"go-leave/internal/events"
	"go-leave/internal/leave"
	"go-leave/internal/messaging/kafka"
	"go-leave/internal/rbac"
	"go-leave/internal/shared/apperror"
	"go-leave/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const (
	EmployeeOptionsKey = "employees:options"
	optionsTTL         = time.Hour
)

//go:generate mockgen -source=employee_service.go -destination=mock/employee_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)
	GetAll(ctx context.Context, actor rbac.Principal) ([]EmployeeResponse, error)
	GetOptions(ctx context.Context) ([]EmployeeResponse, error)
	GetByID(ctx context.Context, actor rbac.Principal, id string) (EmployeeResponse, error)
	Update(ctx context.Context, id string, req UpdateEmployeeRequest) (EmployeeResponse, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	db       *sql.DB
	repo     Repository
	leaves   leave.Repository
	balances balance.Repository
	outbox   kafka.OutboxRepository
	rdb      *redis.Client
	sf       *singleflight.Group
	now      func() time.Time
	logger   *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	leaves leave.Repository,
	balances balance.Repository,
	outbox kafka.OutboxRepository,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	return &service{
		db:       db,
		repo:     repo,
		leaves:   leaves,
		balances: balances,
		outbox:   outbox,
		rdb:      rdb,
		sf:       &singleflight.Group{},
		now:      func() time.Time { return time.Now().UTC() },
		logger:   l,
	}
}

func (s *service) Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	log.Debug("create employee requested", zap.String("user_id", req.UserID))

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidUserID
	}
	fields, err := parseFields(req.JobTitle, req.Department, req.Role, req.HireDate)
	if err != nil {
		log.Warn("create employee invalid input", zap.Error(err))
		return EmployeeResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("create employee begin tx failed", zap.Error(err))
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	exists, err := qtx.UserExists(ctx, userID)
	if err != nil {
		log.Error("create employee user lookup failed", zap.Error(err))
		return EmployeeResponse{}, err
	}
	if !exists {
		return EmployeeResponse{}, employeeerrors.ErrUserNotFound
	}

	taken, err := qtx.ExistsByUser(ctx, userID)
	if err != nil {
		log.Error("create employee profile lookup failed", zap.Error(err))
		return EmployeeResponse{}, err
	}
	if taken {
		return EmployeeResponse{}, employeeerrors.ErrEmployeeAlreadyExists
	}

	empl := &Employee{
		ID:         uuid.New(),
		UserID:     userID,
		JobTitle:   fields.jobTitle,
		Department: fields.department,
		Role:       fields.role,
		HireDate:   fields.hireDate,
	}
	if err := qtx.Create(ctx, empl); err != nil {
		log.Error("create employee persist failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	event, err := kafka.NewEvent(ctx, "employee", empl.ID.String(), events.EmployeeCreatedType, events.EmployeeCreatedTopic,
		events.EmployeeCreatedEvent{
			EventType:  events.EmployeeCreatedType,
			RequestID:  contextutil.GetRequestID(ctx),
			EmployeeID: empl.ID.String(),
			UserID:     userID.String(),
			OccurredAt: s.now(),
		})
	if err != nil {
		return EmployeeResponse{}, err
	}
	if err := s.outbox.WithTx(tx).Create(ctx, event); err != nil {
		log.Error("create employee outbox persist failed",
			zap.String("employee_id", empl.ID.String()),
			zap.Error(err),
		)
		return EmployeeResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		log.Error("create employee commit failed", zap.Error(err))
		return EmployeeResponse{}, err
	}

	s.invalidateOptions(ctx, log)
	log.Info("create employee success", zap.String("employee_id", empl.ID.String()))

	return mapToResponse(*empl), nil
}

// GetAll returns every profile to admins and only the caller's own profile
// to everyone else.
func (s *service) GetAll(ctx context.Context, actor rbac.Principal) ([]EmployeeResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	if !actor.IsAdmin() {
		if actor.EmployeeID == nil {
			return []EmployeeResponse{}, nil
		}
		empl, err := s.repo.FindByID(ctx, *actor.EmployeeID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return []EmployeeResponse{}, nil
			}
			return nil, mapRepositoryError(err)
		}
		return []EmployeeResponse{mapToResponse(*empl)}, nil
	}

	list, err := s.repo.FindAll(ctx)
	if err != nil {
		log.Error("get all employees failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}
	return mapToListResponse(list), nil
}

func (s *service) GetOptions(ctx context.Context) ([]EmployeeResponse, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, EmployeeOptionsKey).Result(); err == nil {
			var resp []EmployeeResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(EmployeeOptionsKey, func() (interface{}, error) {
		list, err := s.repo.FindAll(ctx)
		if err != nil {
			return nil, mapRepositoryError(err)
		}
		resp := mapToListResponse(list)

		if s.rdb != nil {
			if data, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, EmployeeOptionsKey, data, optionsTTL)
			}
		}
		return resp, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]EmployeeResponse), nil
}

func (s *service) GetByID(ctx context.Context, actor rbac.Principal, id string) (EmployeeResponse, error) {
	employeeID, err := uuid.Parse(id)
	if err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidEmployeeID
	}
	if !actor.CanActFor(employeeID) {
		return EmployeeResponse{}, apperror.ErrForbidden
	}

	empl, err := s.repo.FindByID(ctx, employeeID)
	if err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*empl), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateEmployeeRequest) (EmployeeResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	log.Debug("update employee requested", zap.String("employee_id", id))

	employeeID, err := uuid.Parse(id)
	if err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidEmployeeID
	}
	fields, err := parseFields(req.JobTitle, req.Department, req.Role, req.HireDate)
	if err != nil {
		return EmployeeResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("update employee begin tx failed", zap.Error(err))
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	empl, err := qtx.FindByID(ctx, employeeID)
	if err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	empl.JobTitle = fields.jobTitle
	empl.Department = fields.department
	empl.Role = fields.role
	empl.HireDate = fields.hireDate

	if err := qtx.Update(ctx, empl); err != nil {
		log.Error("update employee persist failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		log.Error("update employee commit failed", zap.Error(err))
		return EmployeeResponse{}, err
	}

	s.invalidateOptions(ctx, log)
	log.Info("update employee success", zap.String("employee_id", id))

	return mapToResponse(*empl), nil
}

// Delete removes the profile together with its leave requests, their
// history and its balances.
func (s *service) Delete(ctx context.Context, id string) error {
	log := contextutil.GetLogger(ctx, s.logger)
	log.Debug("delete employee requested", zap.String("employee_id", id))

	employeeID, err := uuid.Parse(id)
	if err != nil {
		return employeeerrors.ErrInvalidEmployeeID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("delete employee begin tx failed", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	if _, err := s.repo.WithTx(tx).FindByID(ctx, employeeID); err != nil {
		return mapRepositoryError(err)
	}
	if err := s.leaves.WithTx(tx).DeleteByEmployee(ctx, employeeID); err != nil {
		log.Error("delete employee leave requests failed", zap.Error(err))
		return err
	}
	if err := s.balances.WithTx(tx).DeleteByEmployee(ctx, employeeID); err != nil {
		log.Error("delete employee balances failed", zap.Error(err))
		return err
	}
	if err := s.repo.WithTx(tx).Delete(ctx, employeeID); err != nil {
		log.Error("delete employee failed", zap.Error(err))
		return mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		log.Error("delete employee commit failed", zap.Error(err))
		return err
	}

	s.invalidateOptions(ctx, log)
	log.Info("delete employee success", zap.String("employee_id", id))
	return nil
}

func (s *service) invalidateOptions(ctx context.Context, log *zap.Logger) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, EmployeeOptionsKey).Err(); err != nil {
		log.Error("failed to invalidate employee options cache",
			zap.Error(err),
			zap.String("key", EmployeeOptionsKey),
		)
	}
}

type profileFields struct {
	jobTitle   string
	department Department
	role       rbac.Role
	hireDate   time.Time
}

func parseFields(jobTitle, department, role, hireDate string) (profileFields, error) {
	dept, ok := ParseDepartment(department)
	if !ok {
		return profileFields{}, employeeerrors.ErrInvalidDepartment
	}

	r := rbac.RoleEmployee
	if strings.TrimSpace(role) != "" {
		r = rbac.Role(strings.ToLower(strings.TrimSpace(role)))
		if !r.Valid() {
			return profileFields{}, employeeerrors.ErrInvalidRole
		}
	}

	hd, err := time.Parse(dateLayout, hireDate)
	if err != nil {
		return profileFields{}, employeeerrors.ErrInvalidHireDate
	}

	return profileFields{
		jobTitle:   strings.TrimSpace(jobTitle),
		department: dept,
		role:       r,
		hireDate:   hd,
	}, nil
}
