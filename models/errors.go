package models

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument is wrapped by every input validation failure.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNotFound is wrapped by every "no such row" error.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is wrapped by every unique constraint violation.
	ErrAlreadyExists = errors.New("already exists")
)

var (
	ErrNilEntity       = fmt.Errorf("%w: entity is nil", ErrInvalidArgument)
	ErrInvalidID       = fmt.Errorf("%w: id must be positive", ErrInvalidArgument)
	ErrIDAssigned      = fmt.Errorf("%w: id must be unset on persist", ErrInvalidArgument)
	ErrInvalidName     = fmt.Errorf("%w: name must not be blank", ErrInvalidArgument)
	ErrInvalidPage     = fmt.Errorf("%w: page number must be at least 1", ErrInvalidArgument)
	ErrInvalidPageSize = fmt.Errorf("%w: results per page must be at least 1", ErrInvalidArgument)

	ErrCategoryNotFound      = fmt.Errorf("category %w", ErrNotFound)
	ErrCategoryAlreadyExists = fmt.Errorf("category %w", ErrAlreadyExists)

	// ErrProductNotFound is returned when a product is not found.
	ErrProductNotFound      = fmt.Errorf("product %w", ErrNotFound)
	ErrProductAlreadyExists = fmt.Errorf("product %w", ErrAlreadyExists)

	ErrUserNotFound      = fmt.Errorf("user %w", ErrNotFound)
	ErrUserAlreadyExists = fmt.Errorf("user %w", ErrAlreadyExists)

	ErrAddressNotFound = fmt.Errorf("address %w", ErrNotFound)
)

// IsInvalidArgument reports whether err is an input validation failure.
func IsInvalidArgument(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}

// IsNotFound reports whether err means the requested row does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists reports whether err is a unique constraint violation.
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}
