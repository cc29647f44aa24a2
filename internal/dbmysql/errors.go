package dbmysql

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"socialapp/internal/common"
)

// TranslateError turns storage errors into the common taxonomy.
func TranslateError(err error, entity string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return common.NewNotFoundError(entity + " not found")
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return common.NewConflictError(entity + " already exists")
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return common.NewNotFoundError("referenced record no longer exists")
	}
	return fmt.Errorf("%s query failed: %w", entity, err)
}
