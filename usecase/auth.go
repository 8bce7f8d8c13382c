package usecase

import (
	"context"
	"fmt"

	domainAuth "github.com/movi-app/movi/domains/auth"
	domainUser "github.com/movi-app/movi/domains/user"
	pkgError "github.com/movi-app/movi/pkg/error"
	"github.com/movi-app/movi/pkg/query"
	"github.com/movi-app/movi/pkg/security"
	"github.com/movi-app/movi/validations"
	"github.com/sirupsen/logrus"
)

// errBadLogin covers both an unknown username and a wrong password.
const errBadLogin = pkgError.UnauthenticatedError("invalid username or password")

type serviceAuth struct {
	users  domainUser.IUserRepository
	tokens *security.TokenAuthority
}

func NewAuthService(users domainUser.IUserRepository, tokens *security.TokenAuthority) domainAuth.IAuthUsecase {
	return &serviceAuth{users: users, tokens: tokens}
}

func (service serviceAuth) Register(ctx context.Context, request domainAuth.RegisterRequest) (domainUser.User, error) {
	if err := validations.ValidateRegister(ctx, request); err != nil {
		return domainUser.User{}, err
	}

	hash, err := security.HashPassword(request.Password)
	if err != nil {
		return domainUser.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	var profileImg *string
	if request.ProfileImg != "" {
		profileImg = &request.ProfileImg
	}

	user, err := service.users.Create(ctx, request.Username, hash, profileImg)
	if err != nil {
		return domainUser.User{}, err
	}

	logrus.WithField("user_id", user.ID).Info("[AUTH] user registered")
	return user, nil
}

func (service serviceAuth) Login(ctx context.Context, request domainAuth.LoginRequest) (domainAuth.LoginResponse, error) {
	if err := validations.ValidateLogin(ctx, request); err != nil {
		return domainAuth.LoginResponse{}, err
	}

	user, err := service.users.ByUsername(ctx, request.Username)
	if query.IsNotFound(err) {
		return domainAuth.LoginResponse{}, errBadLogin
	}
	if err != nil {
		return domainAuth.LoginResponse{}, err
	}

	if !security.CheckPasswordHash(request.Password, user.PasswordHash) {
		logrus.WithField("user_id", user.ID).Debug("[AUTH] password mismatch")
		return domainAuth.LoginResponse{}, errBadLogin
	}

	token, err := service.tokens.Issue(security.Identity{ID: user.ID, Username: user.Username})
	if err != nil {
		return domainAuth.LoginResponse{}, fmt.Errorf("failed to issue token: %w", err)
	}

	return domainAuth.LoginResponse{Token: token, User: user}, nil
}
