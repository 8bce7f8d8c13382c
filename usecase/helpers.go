package usecase

import (
	pkgError "github.com/movi-app/movi/pkg/error"
	"github.com/movi-app/movi/pkg/query"
)

// describeNotFound replaces the executor's generic empty-result error with one
// meant for the API client. Other errors pass through.
func describeNotFound(err error, message string) error {
	if query.IsNotFound(err) {
		return pkgError.NotFoundError(message)
	}
	return err
}

// emptyOnNotFound treats an empty result as an empty list.
func emptyOnNotFound[T any](items []T, err error) ([]T, error) {
	if query.IsNotFound(err) {
		return []T{}, nil
	}
	return items, err
}

func validationError(message string) error {
	return pkgError.ValidationError(message)
}
