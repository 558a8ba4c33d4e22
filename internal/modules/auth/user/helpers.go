package user

import (
	"strings"

	"github.com/mx-space/dentalcare/internal/models"
)

func toResponse(u *models.UserModel) *userResponse {
	return &userResponse{ID: u.ID, Username: u.Username, Email: u.Email}
}

func toProfile(u *models.UserModel) *profileResponse {
	return &profileResponse{userResponse: *toResponse(u), CreatedAt: u.CreatedAt}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
