package persistence

import (
	"errors"
	"strings"

	"github.com/jobbook/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// isDuplicateKey reports a unique constraint violation. TranslateError maps
// both drivers to gorm.ErrDuplicatedKey; the message check covers connections
// opened without it.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "SQLSTATE 23505")
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.ErrNotFound
	}
	return err
}
