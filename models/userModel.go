package models

import "gorm.io/gorm"

type User struct {
	gorm.Model
	Fullname string `json:"fullname"`
	Username string `json:"username" gorm:"uniqueIndex;size:191"`
	Email    string `json:"email" gorm:"uniqueIndex;size:191"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type SignupData struct {
	Fullname string `json:"fullname"`
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginData struct {
	// Identifier is the email or the username.
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password" binding:"required"`
}
