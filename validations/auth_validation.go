package validations

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	domainAuth "github.com/movi-app/movi/domains/auth"
	pkgError "github.com/movi-app/movi/pkg/error"
)

func ValidateRegister(ctx context.Context, request domainAuth.RegisterRequest) error {
	err := validation.ValidateStructWithContext(ctx, &request,
		validation.Field(&request.Username, validation.Required, validation.Length(3, 50)),
		validation.Field(&request.Password, validation.Required, validation.Length(6, 72)),
		validation.Field(&request.ProfileImg, is.URL),
	)

	if err != nil {
		return pkgError.ValidationError(err.Error())
	}

	return nil
}

func ValidateLogin(ctx context.Context, request domainAuth.LoginRequest) error {
	err := validation.ValidateStructWithContext(ctx, &request,
		validation.Field(&request.Username, validation.Required),
		validation.Field(&request.Password, validation.Required),
	)

	if err != nil {
		return pkgError.ValidationError(err.Error())
	}

	return nil
}
