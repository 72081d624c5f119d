package leave_test

import (
	"context"
	"testing"
	"time"

	"go-leave/internal/balance"
	"go-leave/internal/leave"
	leaveerrors "go-leave/internal/leave/errors"
	"go-leave/internal/leavetype"
	"go-leave/internal/messaging/kafka"
	"go-leave/internal/rbac"
	"go-leave/internal/shared/connection"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type sqliteStack struct {
	db       *gorm.DB
	service  leave.Service
	balances balance.Repository
	annual   leavetype.LeaveType
}

func setupSQLite(t *testing.T) *sqliteStack {
	t.Helper()
	return setupSQLiteWithClock(t, func() time.Time { return time.Now().UTC() })
}

// steppingClock advances one minute per call so rows never share a timestamp.
func steppingClock() func() time.Time {
	next := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	return func() time.Time {
		now := next
		next = next.Add(time.Minute)
		return now
	}
}

func setupSQLiteWithClock(t *testing.T, clock func() time.Time) *sqliteStack {
	t.Helper()

	db, err := connection.OpenSQLite(":memory:")
	assert.NoError(t, err)
	assert.NoError(t, db.AutoMigrate(
		&leavetype.LeaveType{},
		&balance.Balance{},
		&leave.LeaveRequest{},
		&leave.History{},
		&kafka.OutboxEvent{},
	))
	assert.NoError(t, db.Exec("CREATE TABLE employees (id TEXT PRIMARY KEY)").Error)

	types := leavetype.NewRepository(db)
	for _, lt := range leavetype.DefaultCatalog() {
		lt := lt
		lt.ID = uuid.New()
		assert.NoError(t, types.Create(context.Background(), &lt))
	}
	annual, err := types.FindByKind(context.Background(), leavetype.KindAnnual)
	assert.NoError(t, err)

	sqlDB, err := db.DB()
	assert.NoError(t, err)

	balances := balance.NewRepository(db)
	svc := leave.NewServiceWithClock(
		sqlDB,
		leave.NewRepository(db),
		balances,
		types,
		kafka.NewOutboxRepository(db),
		clock,
	)
	return &sqliteStack{db: db, service: svc, balances: balances, annual: *annual}
}

func (s *sqliteStack) addEmployee(t *testing.T) uuid.UUID {
	t.Helper()
	id := uuid.New()
	assert.NoError(t, s.db.Exec("INSERT INTO employees (id) VALUES (?)", id.String()).Error)
	return id
}

func TestLeaveLifecycle_SQLite(t *testing.T) {
	ctx := context.Background()

	t.Run("approval deducts once and leaves one history row", func(t *testing.T) {
		s := setupSQLite(t)
		employeeID := s.addEmployee(t)
		assert.NoError(t, s.balances.Create(ctx, balance.NewBalance(employeeID, s.annual, balance.Opening{TotalDays: 30}, time.Now().UTC())))

		actor := rbac.Principal{UserID: uuid.New(), Role: rbac.RoleAdmin}
		created, err := s.service.Create(ctx, actor, leave.CreateLeaveRequest{
			EmployeeID: employeeID.String(),
			LeaveType:  "ANNUAL",
			StartDate:  "2024-06-10",
			EndDate:    "2024-06-12",
			Reason:     "rest",
		})
		assert.NoError(t, err)
		assert.Equal(t, 3, created.TotalDays)

		approved, err := s.service.Approve(ctx, actor, created.ID, leave.CommandRequest{Note: "ok"})
		assert.NoError(t, err)
		assert.Equal(t, "approved", approved.Status)

		b, err := s.balances.FindByEmployeeAndType(ctx, employeeID, s.annual.ID)
		assert.NoError(t, err)
		assert.Equal(t, 3, b.UsedDays)
		assert.Equal(t, 27, b.RemainingDays)

		entries, err := s.service.History(ctx, actor, created.ID)
		assert.NoError(t, err)
		assert.Len(t, entries, 1)
		assert.Equal(t, "approved", entries[0].ActionType)

		_, err = s.service.Approve(ctx, actor, created.ID, leave.CommandRequest{})
		assert.NoError(t, err)
		b, err = s.balances.FindByEmployeeAndType(ctx, employeeID, s.annual.ID)
		assert.NoError(t, err)
		assert.Equal(t, 3, b.UsedDays)

		var outboxRows int64
		assert.NoError(t, s.db.Model(&kafka.OutboxEvent{}).Count(&outboxRows).Error)
		assert.Equal(t, int64(2), outboxRows)
	})

	t.Run("failed deduction rolls back history and status", func(t *testing.T) {
		s := setupSQLite(t)
		employeeID := s.addEmployee(t)
		assert.NoError(t, s.balances.Create(ctx, balance.NewBalance(employeeID, s.annual, balance.Opening{TotalDays: 30, UsedDays: 29}, time.Now().UTC())))

		actor := rbac.Principal{UserID: uuid.New(), Role: rbac.RoleAdmin}
		created, err := s.service.Create(ctx, actor, leave.CreateLeaveRequest{
			EmployeeID: employeeID.String(),
			LeaveType:  "ANNUAL",
			StartDate:  "2024-06-10",
			EndDate:    "2024-06-12",
			Reason:     "rest",
		})
		assert.NoError(t, err)
		assert.True(t, created.IsWarningDisplayed)

		_, err = s.service.Approve(ctx, actor, created.ID, leave.CommandRequest{})
		assert.ErrorIs(t, err, leaveerrors.ErrInsufficientBalance)

		got, err := s.service.GetByID(ctx, actor, created.ID)
		assert.NoError(t, err)
		assert.Equal(t, "pending", got.Status)
		assert.False(t, got.BalanceDeducted)

		entries, err := s.service.History(ctx, actor, created.ID)
		assert.NoError(t, err)
		assert.Empty(t, entries)

		b, err := s.balances.FindByEmployeeAndType(ctx, employeeID, s.annual.ID)
		assert.NoError(t, err)
		assert.Equal(t, 29, b.UsedDays)
	})

	t.Run("delete removes history", func(t *testing.T) {
		s := setupSQLite(t)
		employeeID := s.addEmployee(t)
		actor := rbac.Principal{UserID: uuid.New(), Role: rbac.RoleAdmin}

		created, err := s.service.Create(ctx, actor, leave.CreateLeaveRequest{
			EmployeeID: employeeID.String(),
			LeaveType:  "ANNUAL",
			StartDate:  "2024-06-10",
			EndDate:    "2024-06-10",
			Reason:     "rest",
		})
		assert.NoError(t, err)
		_, err = s.service.Reject(ctx, actor, created.ID, leave.CommandRequest{Note: "no"})
		assert.NoError(t, err)

		assert.NoError(t, s.service.Delete(ctx, actor, created.ID))

		var rows int64
		assert.NoError(t, s.db.Model(&leave.History{}).Count(&rows).Error)
		assert.Zero(t, rows)
		_, err = s.service.GetByID(ctx, actor, created.ID)
		assert.ErrorIs(t, err, leaveerrors.ErrLeaveNotFound)
	})

	t.Run("list returns newest requests first", func(t *testing.T) {
		s := setupSQLiteWithClock(t, steppingClock())
		employeeID := s.addEmployee(t)
		actor := rbac.Principal{UserID: uuid.New(), Role: rbac.RoleAdmin}

		var ids []string
		for _, day := range []string{"2024-06-10", "2024-06-11", "2024-06-12"} {
			created, err := s.service.Create(ctx, actor, leave.CreateLeaveRequest{
				EmployeeID: employeeID.String(),
				LeaveType:  "ANNUAL",
				StartDate:  day,
				EndDate:    day,
				Reason:     "rest",
			})
			assert.NoError(t, err)
			ids = append(ids, created.ID)
		}

		listed, err := s.service.GetAll(ctx, actor, leave.ListLeavesQuery{EmployeeID: employeeID.String()})
		assert.NoError(t, err)
		if assert.Len(t, listed, 3) {
			assert.Equal(t, []string{ids[2], ids[1], ids[0]}, []string{listed[0].ID, listed[1].ID, listed[2].ID})
		}
	})

	t.Run("history follows action order", func(t *testing.T) {
		s := setupSQLiteWithClock(t, steppingClock())
		employeeID := s.addEmployee(t)
		assert.NoError(t, s.balances.Create(ctx, balance.NewBalance(employeeID, s.annual, balance.Opening{TotalDays: 30}, time.Now().UTC())))
		actor := rbac.Principal{UserID: uuid.New(), Role: rbac.RoleAdmin}

		created, err := s.service.Create(ctx, actor, leave.CreateLeaveRequest{
			EmployeeID: employeeID.String(),
			LeaveType:  "ANNUAL",
			StartDate:  "2024-06-10",
			EndDate:    "2024-06-11",
			Reason:     "rest",
		})
		assert.NoError(t, err)

		_, err = s.service.Reject(ctx, actor, created.ID, leave.CommandRequest{Note: "busy week"})
		assert.NoError(t, err)
		_, err = s.service.ResetToPending(ctx, actor, created.ID, leave.CommandRequest{Note: "reconsider"})
		assert.NoError(t, err)
		_, err = s.service.Approve(ctx, actor, created.ID, leave.CommandRequest{Note: "ok"})
		assert.NoError(t, err)

		entries, err := s.service.History(ctx, actor, created.ID)
		assert.NoError(t, err)
		if assert.Len(t, entries, 3) {
			assert.Equal(t, "rejected", entries[0].ActionType)
			assert.Equal(t, "pending", entries[1].ActionType)
			assert.Equal(t, "approved", entries[2].ActionType)
		}

		latest, err := s.service.LatestHistory(ctx, actor, created.ID)
		assert.NoError(t, err)
		assert.Equal(t, "approved", latest.ActionType)
		assert.Equal(t, "ok", latest.Note)
	})
}
