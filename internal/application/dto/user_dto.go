package dto

import (
	"time"

	"github.com/jhoicas/stockflow-api/internal/domain/entity"
)

// RegisterRequest alta de una organización nueva con su usuario admin.
type RegisterRequest struct {
	Email            string `json:"email" validate:"required,email"`
	Password         string `json:"password" validate:"required,min=6"`
	Name             string `json:"name" validate:"required,min=1,max=200"`
	OrganizationName string `json:"organizationName" validate:"required,min=1,max=200"`
}

// LoginRequest credenciales: la organización se resuelve por nombre.
type LoginRequest struct {
	OrganizationName string `json:"organizationName" validate:"required,min=1"`
	Email            string `json:"email" validate:"required,email"`
	Password         string `json:"password" validate:"required,min=6"`
}

// RegisterStaffRequest alta de un usuario en la organización del admin.
type RegisterStaffRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name" validate:"required,min=1,max=200"`
	Role     string `json:"role" validate:"omitempty,oneof=admin staff"`
}

// OrganizationResponse salida de una organización.
type OrganizationResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID               string                `json:"id"`
	Email            string                `json:"email"`
	Name             string                `json:"name"`
	Role             string                `json:"role"`
	Provider         string                `json:"provider,omitempty"`
	OrganizationID   string                `json:"organizationId"`
	OrganizationName string                `json:"organizationName,omitempty"`
	Organization     *OrganizationResponse `json:"organization,omitempty"`
	CreatedAt        time.Time             `json:"createdAt"`
}

// AuthResponse salida de login/registro con token JWT.
type AuthResponse struct {
	AccessToken string       `json:"access_token"`
	User        UserResponse `json:"user"`
}

// UserFromEntity mapea entity.User a UserResponse. org puede ser nil.
func UserFromEntity(u *entity.User, org *entity.Organization) UserResponse {
	r := UserResponse{
		ID:               u.ID,
		Email:            u.Email,
		Name:             u.Name,
		Role:             u.Role,
		Provider:         u.Provider,
		OrganizationID:   u.OrganizationID,
		OrganizationName: u.OrganizationName,
		CreatedAt:        u.CreatedAt,
	}
	if org != nil {
		r.OrganizationName = org.Name
		r.Organization = &OrganizationResponse{ID: org.ID, Name: org.Name}
	}
	return r
}
