package models

import "tasks-be/internal/entities"

// UserView is the public projection of a user; it never carries the password hash
type UserView struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// AuthResponse represents the response after successful registration or login
type AuthResponse struct {
	Token string   `json:"token"` // JWT token
	User  UserView `json:"user"`
}

func NewUserView(u *entities.User) UserView {
	return UserView{ID: u.ID, Name: u.Name, Email: u.Email}
}
