package dto

import "github.com/yigit/collegeportal/internal/app/models"

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse is the flat body returned by POST /auth/login
type AuthResponse struct {
	ID    int64  `json:"id"`
	Token string `json:"token"`
	Role  string `json:"role"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// RegisterRequest represents a user registration request
type RegisterRequest struct {
	Name     string      `json:"name" binding:"required,min=2,max=100"`
	Email    string      `json:"email" binding:"required,email"`
	Password string      `json:"password" binding:"required,min=6"`
	Role     models.Role `json:"role" binding:"required,oneof=ADMIN TEACHER STUDENT"`
}
