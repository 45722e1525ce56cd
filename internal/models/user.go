package models

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

type User struct {
	ID                uint      `json:"id" gorm:"primaryKey"`
	FirstName         string    `json:"firstName" gorm:"size:50;not null"`
	LastName          string    `json:"lastName" gorm:"size:50;not null"`
	Email             string    `json:"email" gorm:"size:150;uniqueIndex;not null"`
	Password          string    `json:"-" gorm:"size:255"`
	ProfilePictureURL string    `json:"profilePictureUrl,omitempty" gorm:"size:255"`
	FirebaseUID       *string   `json:"-" gorm:"size:128;uniqueIndex"` // Link to Firebase User UID
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// FullName is the display string copied onto notifications.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// UserCompact is the public summary of a user embedded in other responses
type UserCompact struct {
	ID                uint   `json:"id"`
	FirstName         string `json:"firstName"`
	LastName          string `json:"lastName"`
	FullName          string `json:"fullName"`
	ProfilePictureURL string `json:"profilePictureUrl,omitempty"`
}

func (u *User) ToCompact() UserCompact {
	return UserCompact{
		ID:                u.ID,
		FirstName:         u.FirstName,
		LastName:          u.LastName,
		FullName:          u.FullName(),
		ProfilePictureURL: u.ProfilePictureURL,
	}
}

type CreateLocalUserRequest struct {
	FirstName string `json:"firstName" validate:"required,min=1,max=50"`
	LastName  string `json:"lastName" validate:"required,min=1,max=50"`
	Email     string `json:"email" validate:"required,email,max=150"`
	Password  string `json:"password" validate:"required,min=8"`
}

type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateUserRequest struct {
	FirstName         string `json:"firstName,omitempty" validate:"omitempty,min=1,max=50"`
	LastName          string `json:"lastName,omitempty" validate:"omitempty,min=1,max=50"`
	ProfilePictureURL string `json:"profilePictureUrl,omitempty" validate:"omitempty,max=255"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}
