package user

import (
	"errors"
	"time"
)

type RegisterDTO struct {
	Username string `json:"username" binding:"required,min=3,max=80"`
	Email    string `json:"email"    binding:"required,email,max=120"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginDTO struct {
	Email    string `json:"email"    binding:"required"`
	Password string `json:"password" binding:"required"`
}

type ChangePasswordDTO struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

type userResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type profileResponse struct {
	userResponse
	CreatedAt time.Time `json:"created_at"`
}

type loginResponse struct {
	Message string        `json:"message"`
	Token   string        `json:"token"`
	User    *userResponse `json:"user"`
}

var (
	errEmailTaken        = errors.New("email already exists")
	errUsernameTaken     = errors.New("username already exists")
	errInvalidLogin      = errors.New("invalid credentials")
	errWrongPassword     = errors.New("wrong password")
	errPasswordSameAsOld = errors.New("password same as old")
)
