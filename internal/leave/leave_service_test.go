package leave_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"go-leave/internal/balance"
	balanceerrors "go-leave/internal/balance/errors"
	"go-leave/internal/leave"
	leaveerrors "go-leave/internal/leave/errors"
	"go-leave/internal/leavetype"
	"go-leave/internal/messaging/kafka"
	kafkamock "go-leave/internal/messaging/kafka/mock"
	"go-leave/internal/rbac"
	"go-leave/internal/shared/apperror"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

type memLeaveRepository struct {
	requests map[uuid.UUID]*leave.LeaveRequest
	history  []leave.History
	missing  bool
}

func newMemLeaveRepository() *memLeaveRepository {
	return &memLeaveRepository{requests: map[uuid.UUID]*leave.LeaveRequest{}}
}

func (m *memLeaveRepository) WithTx(tx *sql.Tx) leave.Repository { return m }

func (m *memLeaveRepository) Create(ctx context.Context, l *leave.LeaveRequest) error {
	cp := *l
	m.requests[l.ID] = &cp
	return nil
}

func (m *memLeaveRepository) FindAll(ctx context.Context, filter leave.ListFilter) ([]leave.LeaveRequest, error) {
	var out []leave.LeaveRequest
	for _, l := range m.requests {
		if filter.EmployeeID != nil && l.EmployeeID != *filter.EmployeeID {
			continue
		}
		if filter.Status != "" && l.Status != filter.Status {
			continue
		}
		out = append(out, *l)
	}
	return out, nil
}

func (m *memLeaveRepository) FindByID(ctx context.Context, id uuid.UUID) (*leave.LeaveRequest, error) {
	l, ok := m.requests[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *l
	return &cp, nil
}

func (m *memLeaveRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*leave.LeaveRequest, error) {
	return m.FindByID(ctx, id)
}

func (m *memLeaveRepository) UpdateDetails(ctx context.Context, l *leave.LeaveRequest) error {
	stored := m.requests[l.ID]
	status, deducted := stored.Status, stored.BalanceDeducted
	cp := *l
	cp.Status, cp.BalanceDeducted = status, deducted
	m.requests[l.ID] = &cp
	return nil
}

func (m *memLeaveRepository) UpdateStatus(ctx context.Context, l *leave.LeaveRequest) error {
	stored := m.requests[l.ID]
	stored.Status = l.Status
	stored.WarningMessage = l.WarningMessage
	stored.IsWarningDisplayed = l.IsWarningDisplayed
	stored.UpdatedAt = l.UpdatedAt
	return nil
}

func (m *memLeaveRepository) MarkDeducted(ctx context.Context, id uuid.UUID) error {
	stored := m.requests[id]
	if stored.BalanceDeducted {
		return leaveerrors.ErrAlreadyDeducted
	}
	stored.BalanceDeducted = true
	return nil
}

func (m *memLeaveRepository) Delete(ctx context.Context, id uuid.UUID) error {
	kept := m.history[:0]
	for _, h := range m.history {
		if h.LeaveRequestID != id {
			kept = append(kept, h)
		}
	}
	m.history = kept
	delete(m.requests, id)
	return nil
}

func (m *memLeaveRepository) DeleteByEmployee(ctx context.Context, employeeID uuid.UUID) error {
	for id, l := range m.requests {
		if l.EmployeeID == employeeID {
			_ = m.Delete(ctx, id)
		}
	}
	return nil
}

func (m *memLeaveRepository) CreateHistory(ctx context.Context, h *leave.History) error {
	m.history = append(m.history, *h)
	return nil
}

func (m *memLeaveRepository) FindHistory(ctx context.Context, requestID uuid.UUID) ([]leave.History, error) {
	var out []leave.History
	for _, h := range m.history {
		if h.LeaveRequestID == requestID {
			out = append(out, h)
		}
	}
	return out, nil
}

func (m *memLeaveRepository) EmployeeExists(ctx context.Context, employeeID uuid.UUID) (bool, error) {
	return !m.missing, nil
}

type memBalanceRepository struct {
	rows map[[2]uuid.UUID]*balance.Balance
}

func newMemBalanceRepository() *memBalanceRepository {
	return &memBalanceRepository{rows: map[[2]uuid.UUID]*balance.Balance{}}
}

func (m *memBalanceRepository) WithTx(tx *sql.Tx) balance.Repository { return m }

func (m *memBalanceRepository) Create(ctx context.Context, b *balance.Balance) error {
	key := [2]uuid.UUID{b.EmployeeID, b.LeaveTypeID}
	if _, ok := m.rows[key]; ok {
		return gorm.ErrDuplicatedKey
	}
	b.Recompute()
	cp := *b
	m.rows[key] = &cp
	return nil
}

func (m *memBalanceRepository) FindByID(ctx context.Context, id uuid.UUID) (*balance.Balance, error) {
	for _, b := range m.rows {
		if b.ID == id {
			cp := *b
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memBalanceRepository) FindByEmployee(ctx context.Context, employeeID uuid.UUID) ([]balance.Balance, error) {
	var out []balance.Balance
	for _, b := range m.rows {
		if b.EmployeeID == employeeID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (m *memBalanceRepository) FindByEmployeeAndType(ctx context.Context, employeeID, leaveTypeID uuid.UUID) (*balance.Balance, error) {
	b, ok := m.rows[[2]uuid.UUID{employeeID, leaveTypeID}]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *b
	return &cp, nil
}

func (m *memBalanceRepository) FindByEmployeeAndTypeForUpdate(ctx context.Context, employeeID, leaveTypeID uuid.UUID) (*balance.Balance, error) {
	return m.FindByEmployeeAndType(ctx, employeeID, leaveTypeID)
}

func (m *memBalanceRepository) Exists(ctx context.Context, employeeID, leaveTypeID uuid.UUID) (bool, error) {
	_, ok := m.rows[[2]uuid.UUID{employeeID, leaveTypeID}]
	return ok, nil
}

func (m *memBalanceRepository) UpdateUsage(ctx context.Context, b *balance.Balance, expectedUsed int) error {
	stored := m.rows[[2]uuid.UUID{b.EmployeeID, b.LeaveTypeID}]
	if stored.UsedDays != expectedUsed {
		return balanceerrors.ErrConcurrentUpdate
	}
	b.Recompute()
	cp := *b
	m.rows[[2]uuid.UUID{b.EmployeeID, b.LeaveTypeID}] = &cp
	return nil
}

func (m *memBalanceRepository) DeleteByEmployee(ctx context.Context, employeeID uuid.UUID) error {
	for key, b := range m.rows {
		if b.EmployeeID == employeeID {
			delete(m.rows, key)
		}
	}
	return nil
}

func (m *memBalanceRepository) EmployeeExists(ctx context.Context, employeeID uuid.UUID) (bool, error) {
	return true, nil
}

func (m *memBalanceRepository) get(employeeID, leaveTypeID uuid.UUID) *balance.Balance {
	return m.rows[[2]uuid.UUID{employeeID, leaveTypeID}]
}

type fakeTypeRepository struct {
	types []leavetype.LeaveType
}

func (f *fakeTypeRepository) WithTx(tx *sql.Tx) leavetype.Repository { return f }

func (f *fakeTypeRepository) Create(ctx context.Context, t *leavetype.LeaveType) error { return nil }

func (f *fakeTypeRepository) FindAll(ctx context.Context) ([]leavetype.LeaveType, error) {
	return f.types, nil
}

func (f *fakeTypeRepository) FindByID(ctx context.Context, id uuid.UUID) (*leavetype.LeaveType, error) {
	for _, t := range f.types {
		if t.ID == id {
			lt := t
			return &lt, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeTypeRepository) FindByKind(ctx context.Context, kind leavetype.Kind) (*leavetype.LeaveType, error) {
	for _, t := range f.types {
		if t.Kind == kind {
			lt := t
			return &lt, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeTypeRepository) byKind(kind leavetype.Kind) leavetype.LeaveType {
	lt, _ := f.FindByKind(context.Background(), kind)
	return *lt
}

var fixedNow = time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)

type leaveServiceDeps struct {
	db       *sql.DB
	sqlMock  sqlmock.Sqlmock
	service  leave.Service
	repo     *memLeaveRepository
	balances *memBalanceRepository
	types    *fakeTypeRepository
	outbox   *kafkamock.MockOutboxRepository
	events   []kafka.OutboxEvent
}

func setupLeaveServiceTest(t *testing.T) *leaveServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ctrl := gomock.NewController(t)
	outbox := kafkamock.NewMockOutboxRepository(ctrl)

	types := leavetype.DefaultCatalog()
	for i := range types {
		types[i].ID = uuid.New()
	}

	deps := &leaveServiceDeps{
		db:       db,
		sqlMock:  sqlMock,
		repo:     newMemLeaveRepository(),
		balances: newMemBalanceRepository(),
		types:    &fakeTypeRepository{types: types},
		outbox:   outbox,
	}
	outbox.EXPECT().WithTx(gomock.Any()).Return(outbox).AnyTimes()
	outbox.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, evt kafka.OutboxEvent) error {
		deps.events = append(deps.events, evt)
		return nil
	}).AnyTimes()

	deps.service = leave.NewServiceWithClock(db, deps.repo, deps.balances, deps.types, outbox, func() time.Time { return fixedNow })
	return deps
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func (d *leaveServiceDeps) openBalance(t *testing.T, employeeID uuid.UUID, kind leavetype.Kind, total, used int) {
	t.Helper()
	b := balance.NewBalance(employeeID, d.types.byKind(kind), balance.Opening{TotalDays: total, UsedDays: used}, fixedNow)
	assert.NoError(t, d.balances.Create(context.Background(), b))
}

func (d *leaveServiceDeps) createPending(t *testing.T, actor rbac.Principal, employeeID uuid.UUID, start, end string) leave.LeaveResponse {
	t.Helper()
	expectTx(t, d.sqlMock, true)
	resp, err := d.service.Create(context.Background(), actor, leave.CreateLeaveRequest{
		EmployeeID: employeeID.String(),
		LeaveType:  "ANNUAL",
		StartDate:  start,
		EndDate:    end,
		Reason:     "family trip",
	})
	assert.NoError(t, err)
	return resp
}

func admin() rbac.Principal {
	return rbac.Principal{UserID: uuid.New(), Role: rbac.RoleAdmin}
}

func employee(id uuid.UUID) rbac.Principal {
	return rbac.Principal{UserID: uuid.New(), EmployeeID: &id, Role: rbac.RoleEmployee}
}

func TestLeaveService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success counts inclusive days without warning", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		employeeID := uuid.New()
		deps.openBalance(t, employeeID, leavetype.KindAnnual, 30, 0)
		expectTx(t, deps.sqlMock, true)

		resp, err := deps.service.Create(ctx, employee(employeeID), leave.CreateLeaveRequest{
			LeaveType: "annual",
			StartDate: "2024-06-10",
			EndDate:   "2024-06-12",
			Reason:    "rest",
		})

		assert.NoError(t, err)
		assert.Equal(t, 3, resp.TotalDays)
		assert.Equal(t, "pending", resp.Status)
		assert.False(t, resp.IsWarningDisplayed)
		assert.Empty(t, resp.WarningMessage)
		assert.Equal(t, employeeID.String(), resp.EmployeeID)
		assert.Empty(t, deps.repo.history)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("request beyond balance persists pending with warning", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		employeeID := uuid.New()
		deps.openBalance(t, employeeID, leavetype.KindAnnual, 30, 0)

		resp := deps.createPending(t, admin(), employeeID, "2024-06-01", "2024-07-10")

		assert.Equal(t, 40, resp.TotalDays)
		assert.Equal(t, "pending", resp.Status)
		assert.True(t, resp.IsWarningDisplayed)
		assert.Contains(t, resp.WarningMessage, "40")
		assert.Contains(t, resp.WarningMessage, "30")
		assert.Len(t, deps.repo.requests, 1)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("missing balance warns without blocking", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		employeeID := uuid.New()

		resp := deps.createPending(t, admin(), employeeID, "2024-06-10", "2024-06-10")

		assert.Equal(t, 1, resp.TotalDays)
		assert.True(t, resp.IsWarningDisplayed)
		assert.Equal(t, "Warning: No leave balance record found for this leave type", resp.WarningMessage)
	})

	t.Run("negative end before start names end_date", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		employeeID := uuid.New()

		_, err := deps.service.Create(ctx, admin(), leave.CreateLeaveRequest{
			EmployeeID: employeeID.String(),
			LeaveType:  "ANNUAL",
			StartDate:  "2024-06-12",
			EndDate:    "2024-06-10",
			Reason:     "rest",
		})

		assert.ErrorIs(t, err, leaveerrors.ErrEndBeforeStart)
		httpErr := apperror.ToHTTP(err)
		assert.Equal(t, 400, httpErr.Status)
		assert.Equal(t, map[string]string{"end_date": "End date must be after start date"}, httpErr.Details)
		assert.Empty(t, deps.repo.requests)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative employee cannot file for someone else", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)

		_, err := deps.service.Create(ctx, employee(uuid.New()), leave.CreateLeaveRequest{
			EmployeeID: uuid.New().String(),
			LeaveType:  "ANNUAL",
			StartDate:  "2024-06-10",
			EndDate:    "2024-06-10",
			Reason:     "rest",
		})

		assert.ErrorIs(t, err, apperror.ErrForbidden)
	})

	t.Run("negative admin without profile must name employee", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)

		_, err := deps.service.Create(ctx, admin(), leave.CreateLeaveRequest{
			LeaveType: "ANNUAL",
			StartDate: "2024-06-10",
			EndDate:   "2024-06-10",
			Reason:    "rest",
		})

		assert.ErrorIs(t, err, leaveerrors.ErrEmployeeIDRequired)
	})

	t.Run("negative unknown employee", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		deps.repo.missing = true
		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.Create(ctx, admin(), leave.CreateLeaveRequest{
			EmployeeID: uuid.New().String(),
			LeaveType:  "ANNUAL",
			StartDate:  "2024-06-10",
			EndDate:    "2024-06-10",
			Reason:     "rest",
		})

		assert.Equal(t, 404, apperror.ToHTTP(err).Status)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestLeaveService_Approve(t *testing.T) {
	ctx := context.Background()

	t.Run("deducts balance and records one history row", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		employeeID := uuid.New()
		deps.openBalance(t, employeeID, leavetype.KindAnnual, 30, 0)
		created := deps.createPending(t, admin(), employeeID, "2024-06-10", "2024-06-12")

		approver := admin()
		expectTx(t, deps.sqlMock, true)
		resp, err := deps.service.Approve(ctx, approver, created.ID, leave.CommandRequest{Note: "enjoy"})

		assert.NoError(t, err)
		assert.Equal(t, "approved", resp.Status)
		assert.True(t, resp.BalanceDeducted)

		b := deps.balances.get(employeeID, deps.types.byKind(leavetype.KindAnnual).ID)
		assert.Equal(t, 3, b.UsedDays)
		assert.Equal(t, 27, b.RemainingDays)

		assert.Len(t, deps.repo.history, 1)
		assert.Equal(t, leave.StatusApproved, deps.repo.history[0].ActionType)
		assert.Equal(t, approver.UserID, deps.repo.history[0].ActionByUserID)
		assert.Equal(t, fixedNow, deps.repo.history[0].ActionDate)
		assert.Equal(t, "enjoy", deps.repo.history[0].Note)

		assert.Len(t, deps.events, 1)
		assert.Equal(t, "leave_request_decided", deps.events[0].EventType)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("approving twice never deducts twice", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		employeeID := uuid.New()
		deps.openBalance(t, employeeID, leavetype.KindAnnual, 30, 0)
		created := deps.createPending(t, admin(), employeeID, "2024-06-10", "2024-06-12")

		expectTx(t, deps.sqlMock, true)
		_, err := deps.service.Approve(ctx, admin(), created.ID, leave.CommandRequest{})
		assert.NoError(t, err)

		expectTx(t, deps.sqlMock, true)
		_, err = deps.service.Approve(ctx, admin(), created.ID, leave.CommandRequest{Note: "again"})
		assert.NoError(t, err)

		b := deps.balances.get(employeeID, deps.types.byKind(leavetype.KindAnnual).ID)
		assert.Equal(t, 3, b.UsedDays)
		assert.Len(t, deps.repo.history, 2)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("reset then approve again keeps the single deduction", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		employeeID := uuid.New()
		deps.openBalance(t, employeeID, leavetype.KindAnnual, 30, 0)
		created := deps.createPending(t, admin(), employeeID, "2024-06-10", "2024-06-12")

		for _, run := range []func(context.Context, rbac.Principal, string, leave.CommandRequest) (leave.LeaveResponse, error){
			deps.service.Approve, deps.service.ResetToPending, deps.service.Approve,
		} {
			expectTx(t, deps.sqlMock, true)
			_, err := run(ctx, admin(), created.ID, leave.CommandRequest{})
			assert.NoError(t, err)
		}

		b := deps.balances.get(employeeID, deps.types.byKind(leavetype.KindAnnual).ID)
		assert.Equal(t, 3, b.UsedDays)
		assert.Len(t, deps.repo.history, 3)
	})

	t.Run("bootstraps a balance from the type cap", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		employeeID := uuid.New()
		created := deps.createPending(t, admin(), employeeID, "2024-06-10", "2024-06-13")
		assert.True(t, created.IsWarningDisplayed)

		expectTx(t, deps.sqlMock, true)
		resp, err := deps.service.Approve(ctx, admin(), created.ID, leave.CommandRequest{})

		assert.NoError(t, err)
		assert.False(t, resp.IsWarningDisplayed)
		assert.Empty(t, resp.WarningMessage)

		b := deps.balances.get(employeeID, deps.types.byKind(leavetype.KindAnnual).ID)
		assert.NotNil(t, b)
		assert.Equal(t, 30, b.TotalDays)
		assert.Equal(t, 4, b.UsedDays)
		assert.Equal(t, 26, b.RemainingDays)
	})

	t.Run("negative bootstrap beyond cap aborts", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		employeeID := uuid.New()
		created := deps.createPending(t, admin(), employeeID, "2024-06-01", "2024-07-10")

		expectTx(t, deps.sqlMock, false)
		_, err := deps.service.Approve(ctx, admin(), created.ID, leave.CommandRequest{})

		assert.ErrorIs(t, err, leaveerrors.ErrExceedsAllowance)
		assert.Empty(t, deps.repo.history)
		assert.Empty(t, deps.events)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative insufficient balance rolls back", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		employeeID := uuid.New()
		deps.openBalance(t, employeeID, leavetype.KindAnnual, 30, 28)
		created := deps.createPending(t, admin(), employeeID, "2024-06-10", "2024-06-12")
		assert.True(t, created.IsWarningDisplayed)

		expectTx(t, deps.sqlMock, false)
		_, err := deps.service.Approve(ctx, admin(), created.ID, leave.CommandRequest{})

		assert.ErrorIs(t, err, leaveerrors.ErrInsufficientBalance)
		assert.Equal(t, 409, apperror.ToHTTP(err).Status)

		b := deps.balances.get(employeeID, deps.types.byKind(leavetype.KindAnnual).ID)
		assert.Equal(t, 28, b.UsedDays)
		assert.Empty(t, deps.repo.history)
		assert.Empty(t, deps.events)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative employee cannot approve", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		employeeID := uuid.New()
		created := deps.createPending(t, admin(), employeeID, "2024-06-10", "2024-06-12")

		_, err := deps.service.Approve(ctx, employee(employeeID), created.ID, leave.CommandRequest{})

		assert.ErrorIs(t, err, apperror.ErrForbidden)
		assert.Equal(t, 403, apperror.ToHTTP(err).Status)
		assert.Empty(t, deps.repo.history)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative unknown request", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.Approve(ctx, admin(), uuid.NewString(), leave.CommandRequest{})

		assert.ErrorIs(t, err, leaveerrors.ErrLeaveNotFound)
	})

	t.Run("negative malformed id", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)

		_, err := deps.service.Approve(ctx, admin(), "nope", leave.CommandRequest{})

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidLeaveID)
	})
}

func TestLeaveService_RejectDoesNotRefund(t *testing.T) {
	ctx := context.Background()
	deps := setupLeaveServiceTest(t)
	employeeID := uuid.New()
	deps.openBalance(t, employeeID, leavetype.KindAnnual, 30, 0)
	created := deps.createPending(t, admin(), employeeID, "2024-06-10", "2024-06-12")

	expectTx(t, deps.sqlMock, true)
	_, err := deps.service.Approve(ctx, admin(), created.ID, leave.CommandRequest{})
	assert.NoError(t, err)

	expectTx(t, deps.sqlMock, true)
	resp, err := deps.service.Reject(ctx, admin(), created.ID, leave.CommandRequest{Note: "changed plans"})
	assert.NoError(t, err)
	assert.Equal(t, "rejected", resp.Status)

	b := deps.balances.get(employeeID, deps.types.byKind(leavetype.KindAnnual).ID)
	assert.Equal(t, 3, b.UsedDays)

	latest, err := deps.service.LatestHistory(ctx, admin(), created.ID)
	assert.NoError(t, err)
	assert.Equal(t, "rejected", latest.ActionType)
	assert.Equal(t, "changed plans", latest.Note)
}

func TestLeaveService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("recomputes days and warning, keeps status", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		employeeID := uuid.New()
		deps.openBalance(t, employeeID, leavetype.KindAnnual, 30, 0)
		created := deps.createPending(t, employee(employeeID), employeeID, "2024-06-10", "2024-06-12")

		expectTx(t, deps.sqlMock, true)
		resp, err := deps.service.Update(ctx, employee(employeeID), created.ID, leave.UpdateLeaveRequest{
			LeaveType: "ANNUAL",
			StartDate: "2024-06-01",
			EndDate:   "2024-07-10",
			Reason:    "longer trip",
		})

		assert.NoError(t, err)
		assert.Equal(t, 40, resp.TotalDays)
		assert.Equal(t, "pending", resp.Status)
		assert.True(t, resp.IsWarningDisplayed)
		assert.Equal(t, leave.StatusPending, deps.repo.requests[uuid.MustParse(created.ID)].Status)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative not pending", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		employeeID := uuid.New()
		deps.openBalance(t, employeeID, leavetype.KindAnnual, 30, 0)
		created := deps.createPending(t, admin(), employeeID, "2024-06-10", "2024-06-12")

		expectTx(t, deps.sqlMock, true)
		_, err := deps.service.Approve(ctx, admin(), created.ID, leave.CommandRequest{})
		assert.NoError(t, err)

		expectTx(t, deps.sqlMock, false)
		_, err = deps.service.Update(ctx, admin(), created.ID, leave.UpdateLeaveRequest{
			LeaveType: "ANNUAL",
			StartDate: "2024-06-10",
			EndDate:   "2024-06-11",
			Reason:    "shorter",
		})

		assert.ErrorIs(t, err, leaveerrors.ErrNotPending)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestLeaveService_GetAll(t *testing.T) {
	ctx := context.Background()
	deps := setupLeaveServiceTest(t)
	mine, theirs := uuid.New(), uuid.New()
	deps.createPending(t, admin(), mine, "2024-06-10", "2024-06-12")
	deps.createPending(t, admin(), theirs, "2024-06-10", "2024-06-12")

	t.Run("employee sees own requests only", func(t *testing.T) {
		resp, err := deps.service.GetAll(ctx, employee(mine), leave.ListLeavesQuery{EmployeeID: theirs.String()})
		assert.NoError(t, err)
		assert.Len(t, resp, 1)
		assert.Equal(t, mine.String(), resp[0].EmployeeID)
	})

	t.Run("admin filters by employee", func(t *testing.T) {
		resp, err := deps.service.GetAll(ctx, admin(), leave.ListLeavesQuery{EmployeeID: theirs.String()})
		assert.NoError(t, err)
		assert.Len(t, resp, 1)
		assert.Equal(t, "ANNUAL", resp[0].LeaveType)
	})

	t.Run("negative unknown status filter", func(t *testing.T) {
		_, err := deps.service.GetAll(ctx, admin(), leave.ListLeavesQuery{Status: "cancelled"})
		assert.ErrorIs(t, err, leaveerrors.ErrInvalidStatusFilter)
	})
}

func TestLeaveService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("removes history with the request and keeps usage", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		employeeID := uuid.New()
		deps.openBalance(t, employeeID, leavetype.KindAnnual, 30, 0)
		created := deps.createPending(t, admin(), employeeID, "2024-06-10", "2024-06-12")

		expectTx(t, deps.sqlMock, true)
		_, err := deps.service.Approve(ctx, admin(), created.ID, leave.CommandRequest{})
		assert.NoError(t, err)

		expectTx(t, deps.sqlMock, true)
		assert.NoError(t, deps.service.Delete(ctx, admin(), created.ID))

		assert.Empty(t, deps.repo.requests)
		assert.Empty(t, deps.repo.history)
		b := deps.balances.get(employeeID, deps.types.byKind(leavetype.KindAnnual).ID)
		assert.Equal(t, 3, b.UsedDays)
	})

	t.Run("negative employee cannot delete a decided request", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		employeeID := uuid.New()
		deps.openBalance(t, employeeID, leavetype.KindAnnual, 30, 0)
		created := deps.createPending(t, admin(), employeeID, "2024-06-10", "2024-06-12")

		expectTx(t, deps.sqlMock, true)
		_, err := deps.service.Reject(ctx, admin(), created.ID, leave.CommandRequest{})
		assert.NoError(t, err)

		expectTx(t, deps.sqlMock, false)
		err = deps.service.Delete(ctx, employee(employeeID), created.ID)
		assert.ErrorIs(t, err, leaveerrors.ErrNotPending)
	})
}

func TestLeaveService_History(t *testing.T) {
	ctx := context.Background()

	t.Run("negative no history yet", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		employeeID := uuid.New()
		created := deps.createPending(t, admin(), employeeID, "2024-06-10", "2024-06-12")

		_, err := deps.service.LatestHistory(ctx, employee(employeeID), created.ID)
		assert.ErrorIs(t, err, leaveerrors.ErrNoHistory)
	})

	t.Run("negative other employee cannot read", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		created := deps.createPending(t, admin(), uuid.New(), "2024-06-10", "2024-06-12")

		_, err := deps.service.History(ctx, employee(uuid.New()), created.ID)
		assert.True(t, errors.Is(err, apperror.ErrForbidden))
	})
}
