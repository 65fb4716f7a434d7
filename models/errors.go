package models

import (
	"errors"

	"gorm.io/gorm"
)

// Error taxonomy returned by every model operation. Handlers map these onto
// HTTP statuses; anything not wrapping one of them is treated as internal.
var (
	ErrNotFound      = errors.New("not found")
	ErrNotAuthorized = errors.New("not authorized")
	ErrForbidden     = errors.New("forbidden")
	ErrConflict      = errors.New("conflict")
)

// translateStoreError maps gorm's translated constraint errors onto the
// taxonomy. Unique violations become conflicts; FK violations mean a
// referenced row is gone.
func translateStoreError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrConflict
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return ErrNotFound
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
