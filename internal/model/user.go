package model

import "github.com/google/uuid"

type User struct {
	Base
	Username     string `db:"username" json:"username"`
	PasswordHash string `db:"password_hash" json:"-"`
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=64"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type TokenResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

type TokenClaims struct {
	UserID   uuid.UUID
	Username string
}
