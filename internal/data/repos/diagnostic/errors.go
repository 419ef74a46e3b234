package diagnostic

import (
	"errors"

	"gorm.io/gorm"

	types "github.com/yungbote/echonova-backend/internal/domain"
)

// translate maps driver-level failures onto the domain sentinels callers check for.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return types.ErrNotFound
	case errors.Is(err, gorm.ErrInvalidData),
		errors.Is(err, gorm.ErrInvalidValue),
		errors.Is(err, gorm.ErrInvalidValueOfLength),
		errors.Is(err, gorm.ErrPrimaryKeyRequired):
		return errors.Join(types.ErrInvalidDocument, err)
	}
	return err
}
