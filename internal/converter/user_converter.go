package converter

import (
	"go-lab-case-tracker/internal/delivery/dto"
	"go-lab-case-tracker/internal/domain/entity"
)

// UserToResponse converts a User entity to UserResponse DTO
func UserToResponse(user *entity.User) *dto.UserResponse {
	if user == nil {
		return nil
	}

	var permissions []string
	for _, p := range user.Role.Permissions {
		permissions = append(permissions, p.Code)
	}

	return &dto.UserResponse{
		ID:          user.ID,
		Email:       user.Email,
		FullName:    user.FullName,
		Role:        user.Role.Name,
		Permissions: permissions,
		LastLoginAt: user.LastLoginAt,
		CreatedAt:   user.CreatedAt,
		UpdatedAt:   user.UpdatedAt,
	}
}
