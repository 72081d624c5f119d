package balance

import (
	"errors"
	"strings"

	balanceerrors "go-leave/internal/balance/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return balanceerrors.ErrBalanceNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return balanceerrors.ErrBalanceAlreadyExists
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return balanceerrors.ErrBalanceAlreadyExists
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "unique constraint failed") || strings.Contains(errMsg, "uq_balance_employee_type") {
		return balanceerrors.ErrBalanceAlreadyExists
	}

	return err
}
