package leave

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go-leave/internal/balance"
	employeeerrors "go-leave/internal/employee/errors"
	"go-leave/internal/events"
	leaveerrors "go-leave/internal/leave/errors"
	"go-leave/internal/leavetype"
	leavetypeerrors "go-leave/internal/leavetype/errors"
	"go-leave/internal/messaging/kafka"
	"go-leave/internal/rbac"
	"go-leave/internal/shared/apperror"
	"go-leave/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const aggregateLeaveRequest = "leave_request"

type Service interface {
	Create(ctx context.Context, actor rbac.Principal, req CreateLeaveRequest) (LeaveResponse, error)
	GetAll(ctx context.Context, actor rbac.Principal, q ListLeavesQuery) ([]LeaveResponse, error)
	GetByID(ctx context.Context, actor rbac.Principal, id string) (LeaveResponse, error)
	Update(ctx context.Context, actor rbac.Principal, id string, req UpdateLeaveRequest) (LeaveResponse, error)
	Delete(ctx context.Context, actor rbac.Principal, id string) error

	Approve(ctx context.Context, actor rbac.Principal, id string, req CommandRequest) (LeaveResponse, error)
	Reject(ctx context.Context, actor rbac.Principal, id string, req CommandRequest) (LeaveResponse, error)
	ResetToPending(ctx context.Context, actor rbac.Principal, id string, req CommandRequest) (LeaveResponse, error)

	History(ctx context.Context, actor rbac.Principal, id string) ([]HistoryResponse, error)
	LatestHistory(ctx context.Context, actor rbac.Principal, id string) (HistoryResponse, error)
}

// Command moves a request to Action and records who did it. It is the only
// way a request's status changes.
type Command struct {
	RequestID uuid.UUID
	Action    Status
	Actor     rbac.Principal
	Note      string
}

type service struct {
	db       *sql.DB
	repo     Repository
	balances balance.Repository
	types    leavetype.Repository
	outbox   kafka.OutboxRepository
	now      func() time.Time
	logger   *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	balances balance.Repository,
	types leavetype.Repository,
	outbox kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	return NewServiceWithClock(db, repo, balances, types, outbox, func() time.Time { return time.Now().UTC() }, logger...)
}

func NewServiceWithClock(
	db *sql.DB,
	repo Repository,
	balances balance.Repository,
	types leavetype.Repository,
	outbox kafka.OutboxRepository,
	now func() time.Time,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{
		db:       db,
		repo:     repo,
		balances: balances,
		types:    types,
		outbox:   outbox,
		now:      now,
		logger:   l,
	}
}

func (s *service) log(ctx context.Context) *zap.Logger {
	return contextutil.GetLogger(ctx, s.logger)
}

func (s *service) Create(ctx context.Context, actor rbac.Principal, req CreateLeaveRequest) (LeaveResponse, error) {
	log := s.log(ctx)
	log.Debug("create leave requested",
		zap.String("employee_id", req.EmployeeID),
		zap.String("leave_type", req.LeaveType),
	)

	employeeID, err := s.resolveEmployee(actor, req.EmployeeID)
	if err != nil {
		return LeaveResponse{}, err
	}
	kind, ok := leavetype.ParseKind(req.LeaveType)
	if !ok {
		return LeaveResponse{}, leavetypeerrors.ErrInvalidKind
	}
	start, end, err := parseRange(req.StartDate, req.EndDate)
	if err != nil {
		log.Warn("create leave validation failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("create leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	exists, err := qtx.EmployeeExists(ctx, employeeID)
	if err != nil {
		log.Error("create leave employee lookup failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if !exists {
		return LeaveResponse{}, employeeerrors.ErrEmployeeNotFound
	}

	lt, err := s.types.WithTx(tx).FindByKind(ctx, kind)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leavetypeerrors.ErrLeaveTypeNotFound
		}
		return LeaveResponse{}, err
	}

	now := s.now()
	l := &LeaveRequest{
		ID:               uuid.New(),
		EmployeeID:       employeeID,
		LeaveTypeID:      lt.ID,
		StartDate:        start,
		EndDate:          end,
		TotalDays:        CountDays(start, end),
		Reason:           req.Reason,
		IsOutsideCountry: req.IsOutsideCountry,
		Status:           StatusPending,
		CreatedBy:        actor.UserID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	b, err := findBalance(ctx, s.balances.WithTx(tx), l, false)
	if err != nil {
		log.Error("create leave balance lookup failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	annotateWarning(l, b, *lt)

	if err := qtx.Create(ctx, l); err != nil {
		log.Error("create leave persist failed", zap.Error(err))
		return LeaveResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		log.Error("create leave commit failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	if l.IsWarningDisplayed {
		log.Warn("leave created with warning",
			zap.String("leave_id", l.ID.String()),
			zap.String("warning", l.WarningMessage),
		)
	}
	log.Info("create leave success",
		zap.String("leave_id", l.ID.String()),
		zap.String("employee_id", employeeID.String()),
		zap.Int("total_days", l.TotalDays),
	)
	return mapToResponse(*l, lt), nil
}

func (s *service) GetAll(ctx context.Context, actor rbac.Principal, q ListLeavesQuery) ([]LeaveResponse, error) {
	filter := ListFilter{}
	if q.Status != "" {
		status := Status(q.Status)
		if !status.Valid() {
			return nil, leaveerrors.ErrInvalidStatusFilter
		}
		filter.Status = status
	}

	switch {
	case !actor.IsAdmin():
		if actor.EmployeeID == nil {
			return []LeaveResponse{}, nil
		}
		filter.EmployeeID = actor.EmployeeID
	case q.EmployeeID != "":
		id, err := uuid.Parse(q.EmployeeID)
		if err != nil {
			return nil, leaveerrors.ErrInvalidEmployeeID
		}
		filter.EmployeeID = &id
	}

	requests, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		s.log(ctx).Error("list leaves failed", zap.Error(err))
		return nil, err
	}

	types, err := s.typeIndex(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]LeaveResponse, len(requests))
	for i, l := range requests {
		resp[i] = mapToResponse(l, types[l.LeaveTypeID])
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, actor rbac.Principal, id string) (LeaveResponse, error) {
	l, err := s.findVisible(ctx, actor, id)
	if err != nil {
		return LeaveResponse{}, err
	}
	return s.respond(ctx, *l)
}

func (s *service) Update(ctx context.Context, actor rbac.Principal, id string, req UpdateLeaveRequest) (LeaveResponse, error) {
	log := s.log(ctx)

	leaveID, err := uuid.Parse(id)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveID
	}
	kind, ok := leavetype.ParseKind(req.LeaveType)
	if !ok {
		return LeaveResponse{}, leavetypeerrors.ErrInvalidKind
	}
	start, end, err := parseRange(req.StartDate, req.EndDate)
	if err != nil {
		log.Warn("update leave validation failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("update leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := qtx.FindByIDForUpdate(ctx, leaveID)
	if err != nil {
		return LeaveResponse{}, mapRepositoryError(err)
	}
	if !actor.CanActFor(l.EmployeeID) {
		return LeaveResponse{}, apperror.ErrForbidden
	}
	if l.Status != StatusPending {
		log.Warn("update leave rejected, not pending",
			zap.String("leave_id", id),
			zap.String("status", string(l.Status)),
		)
		return LeaveResponse{}, leaveerrors.ErrNotPending
	}

	lt, err := s.types.WithTx(tx).FindByKind(ctx, kind)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leavetypeerrors.ErrLeaveTypeNotFound
		}
		return LeaveResponse{}, err
	}

	l.LeaveTypeID = lt.ID
	l.StartDate = start
	l.EndDate = end
	l.TotalDays = CountDays(start, end)
	l.Reason = req.Reason
	l.IsOutsideCountry = req.IsOutsideCountry
	l.UpdatedAt = s.now()

	b, err := findBalance(ctx, s.balances.WithTx(tx), l, false)
	if err != nil {
		return LeaveResponse{}, err
	}
	annotateWarning(l, b, *lt)

	if err := qtx.UpdateDetails(ctx, l); err != nil {
		log.Error("update leave persist failed", zap.Error(err))
		return LeaveResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		log.Error("update leave commit failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	log.Info("update leave success", zap.String("leave_id", id), zap.Int("total_days", l.TotalDays))
	return mapToResponse(*l, lt), nil
}

// Delete removes the request and its history. Days already charged stay
// charged.
func (s *service) Delete(ctx context.Context, actor rbac.Principal, id string) error {
	log := s.log(ctx)

	leaveID, err := uuid.Parse(id)
	if err != nil {
		return leaveerrors.ErrInvalidLeaveID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("delete leave begin tx failed", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := qtx.FindByIDForUpdate(ctx, leaveID)
	if err != nil {
		return mapRepositoryError(err)
	}
	if !actor.CanActFor(l.EmployeeID) {
		return apperror.ErrForbidden
	}
	if !actor.IsAdmin() && l.Status != StatusPending {
		return leaveerrors.ErrNotPending
	}

	if err := qtx.Delete(ctx, leaveID); err != nil {
		log.Error("delete leave failed", zap.String("leave_id", id), zap.Error(err))
		return err
	}

	if err := tx.Commit(); err != nil {
		log.Error("delete leave commit failed", zap.Error(err))
		return err
	}

	log.Info("delete leave success", zap.String("leave_id", id), zap.Bool("balance_deducted", l.BalanceDeducted))
	return nil
}

func (s *service) Approve(ctx context.Context, actor rbac.Principal, id string, req CommandRequest) (LeaveResponse, error) {
	return s.command(ctx, actor, id, StatusApproved, req)
}

func (s *service) Reject(ctx context.Context, actor rbac.Principal, id string, req CommandRequest) (LeaveResponse, error) {
	return s.command(ctx, actor, id, StatusRejected, req)
}

func (s *service) ResetToPending(ctx context.Context, actor rbac.Principal, id string, req CommandRequest) (LeaveResponse, error) {
	return s.command(ctx, actor, id, StatusPending, req)
}

func (s *service) command(ctx context.Context, actor rbac.Principal, id string, action Status, req CommandRequest) (LeaveResponse, error) {
	leaveID, err := uuid.Parse(id)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveID
	}
	return s.execute(ctx, Command{RequestID: leaveID, Action: action, Actor: actor, Note: req.Note})
}

// execute runs a command in one transaction: lock the request, refresh its
// warning, charge the balance on approval, append history, write the new
// status and enqueue the decision event.
func (s *service) execute(ctx context.Context, cmd Command) (LeaveResponse, error) {
	log := s.log(ctx).With(
		zap.String("leave_id", cmd.RequestID.String()),
		zap.String("action", string(cmd.Action)),
	)
	log.Debug("leave command requested")

	if !cmd.Actor.IsAdmin() {
		log.Warn("leave command forbidden", zap.String("user_id", cmd.Actor.UserID.String()))
		return LeaveResponse{}, apperror.ErrForbidden
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("leave command begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	btx := s.balances.WithTx(tx)

	l, err := qtx.FindByIDForUpdate(ctx, cmd.RequestID)
	if err != nil {
		return LeaveResponse{}, mapRepositoryError(err)
	}
	previous := l.Status

	lt, err := s.types.WithTx(tx).FindByID(ctx, l.LeaveTypeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leavetypeerrors.ErrLeaveTypeNotFound
		}
		return LeaveResponse{}, err
	}

	approving := cmd.Action == StatusApproved
	b, err := findBalance(ctx, btx, l, approving)
	if err != nil {
		log.Error("leave command balance lookup failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	now := s.now()
	l.Status = cmd.Action
	annotateWarning(l, b, *lt)

	if approving {
		wasDeducted := l.BalanceDeducted
		if _, err := applyDeduction(ctx, qtx, btx, l, b, *lt, now); err != nil {
			log.Warn("leave deduction failed", zap.Int("total_days", l.TotalDays), zap.Error(err))
			return LeaveResponse{}, err
		}
		if !wasDeducted {
			log.Info("leave balance deducted", zap.Int("total_days", l.TotalDays))
		}
	}

	entry := &History{
		ID:             uuid.New(),
		LeaveRequestID: l.ID,
		ActionType:     cmd.Action,
		ActionDate:     now,
		Note:           cmd.Note,
		ActionByUserID: cmd.Actor.UserID,
	}
	if err := qtx.CreateHistory(ctx, entry); err != nil {
		log.Error("leave history persist failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	l.UpdatedAt = now
	if err := qtx.UpdateStatus(ctx, l); err != nil {
		log.Error("leave status persist failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	evt, err := kafka.NewEvent(ctx, aggregateLeaveRequest, l.ID.String(), events.LeaveRequestDecidedType, events.LeaveRequestDecidedTopic,
		events.LeaveRequestDecidedEvent{
			EventType:       events.LeaveRequestDecidedType,
			RequestID:       contextutil.GetRequestID(ctx),
			LeaveRequestID:  l.ID.String(),
			EmployeeID:      l.EmployeeID.String(),
			LeaveType:       string(lt.Kind),
			Status:          string(l.Status),
			TotalDays:       l.TotalDays,
			BalanceDeducted: l.BalanceDeducted,
			ActionBy:        cmd.Actor.UserID.String(),
			Note:            cmd.Note,
			OccurredAt:      now,
		})
	if err != nil {
		return LeaveResponse{}, err
	}
	if err := s.outbox.WithTx(tx).Create(ctx, evt); err != nil {
		log.Error("leave decision outbox persist failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		log.Error("leave command commit failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	log.Info("leave command success",
		zap.String("from", string(previous)),
		zap.String("to", string(l.Status)),
		zap.Bool("balance_deducted", l.BalanceDeducted),
	)
	return mapToResponse(*l, lt), nil
}

func (s *service) History(ctx context.Context, actor rbac.Principal, id string) ([]HistoryResponse, error) {
	l, err := s.findVisible(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	entries, err := s.repo.FindHistory(ctx, l.ID)
	if err != nil {
		s.log(ctx).Error("list leave history failed", zap.String("leave_id", id), zap.Error(err))
		return nil, err
	}

	resp := make([]HistoryResponse, len(entries))
	for i, h := range entries {
		resp[i] = mapToHistoryResponse(h)
	}
	return resp, nil
}

func (s *service) LatestHistory(ctx context.Context, actor rbac.Principal, id string) (HistoryResponse, error) {
	entries, err := s.History(ctx, actor, id)
	if err != nil {
		return HistoryResponse{}, err
	}
	if len(entries) == 0 {
		return HistoryResponse{}, leaveerrors.ErrNoHistory
	}
	return entries[len(entries)-1], nil
}

func (s *service) resolveEmployee(actor rbac.Principal, raw string) (uuid.UUID, error) {
	var employeeID uuid.UUID
	if raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return uuid.Nil, leaveerrors.ErrInvalidEmployeeID
		}
		employeeID = id
	} else {
		if actor.EmployeeID == nil {
			return uuid.Nil, leaveerrors.ErrEmployeeIDRequired
		}
		employeeID = *actor.EmployeeID
	}

	if !actor.CanActFor(employeeID) {
		return uuid.Nil, apperror.ErrForbidden
	}
	return employeeID, nil
}

func (s *service) findVisible(ctx context.Context, actor rbac.Principal, id string) (*LeaveRequest, error) {
	leaveID, err := uuid.Parse(id)
	if err != nil {
		return nil, leaveerrors.ErrInvalidLeaveID
	}

	l, err := s.repo.FindByID(ctx, leaveID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	if !actor.CanActFor(l.EmployeeID) {
		return nil, apperror.ErrForbidden
	}
	return l, nil
}

func (s *service) respond(ctx context.Context, l LeaveRequest) (LeaveResponse, error) {
	lt, err := s.types.FindByID(ctx, l.LeaveTypeID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return LeaveResponse{}, err
	}
	return mapToResponse(l, lt), nil
}

func (s *service) typeIndex(ctx context.Context) (map[uuid.UUID]*leavetype.LeaveType, error) {
	types, err := s.types.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*leavetype.LeaveType, len(types))
	for i := range types {
		byID[types[i].ID] = &types[i]
	}
	return byID, nil
}

func parseRange(rawStart, rawEnd string) (time.Time, time.Time, error) {
	start, err := parseDate(rawStart, leaveerrors.ErrInvalidStartDate)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := parseDate(rawEnd, leaveerrors.ErrInvalidEndDate)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if err := ValidateDates(start, end); err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}
