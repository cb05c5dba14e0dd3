package impl

import (
	domainerrors "rentalhub/internal/domain/errors"
	"rentalhub/internal/errors"
)

// wrapRepoError keeps domain errors intact and turns anything else into a database error.
func wrapRepoError(err error, message string) error {
	if _, ok := domainerrors.AsAppError(err); ok {
		return errors.Wrap(err, message)
	}

	return domainerrors.NewDatabaseExecuteError(err, message)
}
