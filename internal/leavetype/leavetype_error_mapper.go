package leavetype

import (
	"errors"

	leavetypeerrors "go-leave/internal/leavetype/errors"

	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return leavetypeerrors.ErrLeaveTypeNotFound
	}
	return err
}
