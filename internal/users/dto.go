package users

import (
	"github.com/artemisia-corp/storefront/pkg/enums"
	"github.com/artemisia-corp/storefront/pkg/gateway"
)

// RegisterInput is the sign-up payload.
type RegisterInput struct {
	Name     string `json:"name" validate:"required,max=120"`
	Mail     string `json:"mail" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=128"`
	Role     string `json:"role" validate:"required,self_role"`
}

// UserDTO is the account shape returned to clients. Credentials never leave the backend.
type UserDTO struct {
	ID   int64          `json:"id"`
	Name string         `json:"name"`
	Mail string         `json:"mail"`
	Role enums.UserRole `json:"role"`
}

// FromGateway maps the backend account record.
func FromGateway(u gateway.User) UserDTO {
	role, err := enums.ParseUserRole(u.Role)
	if err != nil {
		role = enums.UserRoleBuyer
	}
	return UserDTO{
		ID:   u.ID,
		Name: u.Name,
		Mail: u.Mail,
		Role: role,
	}
}
