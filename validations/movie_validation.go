package validations

import (
	"context"
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	domainMovie "github.com/movi-app/movi/domains/movie"
	pkgError "github.com/movi-app/movi/pkg/error"
)

func ValidateSearch(ctx context.Context, request domainMovie.SearchCriteria) error {
	if request.Title == "" && request.Actors == "" && request.Directors == "" &&
		request.Writers == "" && request.Genre == "" {
		return pkgError.ValidationError("at least one search criterion (title, actors, directors, writers, or genre) is required")
	}

	err := validation.ValidateStructWithContext(ctx, &request,
		validation.Field(&request.Title, validation.Length(0, 200)),
		validation.Field(&request.Actors, validation.Length(0, 200)),
		validation.Field(&request.Directors, validation.Length(0, 200)),
		validation.Field(&request.Writers, validation.Length(0, 200)),
		validation.Field(&request.Genre, validation.Length(0, 50)),
	)
	if err != nil {
		return pkgError.ValidationError(err.Error())
	}

	return nil
}

func ValidatePreferences(ctx context.Context, request domainMovie.PreferenceCriteria) error {
	err := validation.ValidateWithContext(ctx, &request, validation.By(func(any) error {
		if len(request.Actors) == 0 && len(request.Directors) == 0 {
			return errors.New("you must specify at least one actor or director")
		}
		return nil
	}))

	if err != nil {
		return pkgError.ValidationError(err.Error())
	}

	return nil
}

func ValidateGenre(ctx context.Context, genre string) error {
	err := validation.ValidateWithContext(ctx, genre, validation.Required, validation.Length(1, 50))
	if err != nil {
		return pkgError.ValidationError("genre: " + err.Error())
	}
	return nil
}

func ValidatePopularLimit(ctx context.Context, limit int) error {
	err := validation.ValidateWithContext(ctx, limit, validation.Min(1), validation.Max(domainMovie.MaxPopularLimit))
	if err != nil {
		return pkgError.ValidationError("limit: " + err.Error())
	}
	return nil
}

func ValidateMovieID(ctx context.Context, movieID int64) error {
	err := validation.ValidateWithContext(ctx, movieID, validation.Required, validation.Min(int64(1)))
	if err != nil {
		return pkgError.ValidationError("movie id: " + err.Error())
	}
	return nil
}
