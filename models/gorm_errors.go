package models

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// errRollback aborts a gorm transaction that must never commit.
var errRollback = errors.New("rollback requested")

// translateGormError maps gorm sentinel errors onto the entity's errors and
// wraps anything else with msg.
func translateGormError(err error, notFound, exists error, msg string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return notFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return exists
	case IsInvalidArgument(err), IsNotFound(err), IsAlreadyExists(err):
		return err
	}
	return errors.Wrap(err, msg)
}
