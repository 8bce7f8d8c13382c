package validations

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	domainReview "github.com/movi-app/movi/domains/review"
	pkgError "github.com/movi-app/movi/pkg/error"
)

func ValidateSubmitReview(ctx context.Context, request domainReview.SubmitRequest) error {
	err := validation.ValidateStructWithContext(ctx, &request,
		validation.Field(&request.Rating,
			validation.Required.Error("rating must be between 1 and 10"),
			validation.Min(domainReview.MinRating).Error("rating must be between 1 and 10"),
			validation.Max(domainReview.MaxRating).Error("rating must be between 1 and 10"),
		),
		validation.Field(&request.Review, validation.Length(0, 5000)),
	)

	if err != nil {
		return pkgError.ValidationError(err.Error())
	}

	return nil
}
