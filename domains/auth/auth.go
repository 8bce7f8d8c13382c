package auth

import (
	"context"

	"github.com/movi-app/movi/domains/user"
)

type RegisterRequest struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	ProfileImg string `json:"profile_img"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string    `json:"token"`
	User  user.User `json:"user"`
}

type IAuthUsecase interface {
	Register(ctx context.Context, req RegisterRequest) (user.User, error)
	Login(ctx context.Context, req LoginRequest) (LoginResponse, error)
}
