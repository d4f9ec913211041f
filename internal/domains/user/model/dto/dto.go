package dto

import (
	"innkeep/internal/domains/user/model"
	gDto "innkeep/shared/dto"
)

type UserResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	Active   bool   `json:"active"`
	gDto.Metadata
}

func (u *UserResponse) FromModel(model model.User) {
	u.ID = model.ID
	u.Username = model.Username
	u.Role = model.Role
	u.Name = model.Name
	u.Email = model.Email
	u.Active = model.Active
	u.Metadata.FromModel(model.Metadata)
}
