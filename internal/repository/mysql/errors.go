package mysql

import (
	"errors"

	"storefront/internal/repository"

	"gorm.io/gorm"
)

// translateError maps gorm's translated driver errors onto the repository
// sentinels the services branch on. Requires TranslateError on the gorm
// config.
func translateError(err error) error {
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return repository.ErrDuplicateKey
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return repository.ErrRestricted
	default:
		return err
	}
}
