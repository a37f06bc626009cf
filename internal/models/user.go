package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a registered user stored in MongoDB
type User struct {
	ID        primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	Name      string             `json:"name" bson:"name"`
	Email     string             `json:"email" bson:"email"`
	Password  string             `json:"-" bson:"password"` // bcrypt hash, never serialized
	Avatar    string             `json:"avatar" bson:"avatar"`
	Bio       string             `json:"bio" bson:"bio"`
	Location  string             `json:"location" bson:"location"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// RegisterRequest defines the request body for user registration
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginRequest defines the request body for user login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest defines the request body for profile updates.
// Changing the password requires the current password as well.
type UpdateProfileRequest struct {
	Name            string `json:"name,omitempty" validate:"omitempty,min=2,max=50"`
	Email           string `json:"email,omitempty" validate:"omitempty,email"`
	Avatar          string `json:"avatar,omitempty"`
	Bio             string `json:"bio,omitempty"`
	Location        string `json:"location,omitempty"`
	Password        string `json:"password,omitempty" validate:"omitempty,min=6"`
	CurrentPassword string `json:"currentPassword,omitempty"`
}

// AuthResponse is returned from register/login/profile-update with a fresh token
type AuthResponse struct {
	ID       primitive.ObjectID `json:"_id"`
	Name     string             `json:"name"`
	Email    string             `json:"email"`
	Avatar   string             `json:"avatar"`
	Bio      string             `json:"bio"`
	Location string             `json:"location"`
	Token    string             `json:"token,omitempty"`
}

// PublicProfile is the subset of a user visible to anyone
type PublicProfile struct {
	ID        primitive.ObjectID `json:"_id"`
	Name      string             `json:"name"`
	Avatar    string             `json:"avatar"`
	Bio       string             `json:"bio"`
	Location  string             `json:"location"`
	CreatedAt time.Time          `json:"createdAt"`
}

// ToAuthResponse builds the auth payload for the user with the given token.
func (u *User) ToAuthResponse(token string) AuthResponse {
	return AuthResponse{
		ID:       u.ID,
		Name:     u.Name,
		Email:    u.Email,
		Avatar:   u.Avatar,
		Bio:      u.Bio,
		Location: u.Location,
		Token:    token,
	}
}

// ToPublicProfile strips the user down to its public fields.
func (u *User) ToPublicProfile() PublicProfile {
	return PublicProfile{
		ID:        u.ID,
		Name:      u.Name,
		Avatar:    u.Avatar,
		Bio:       u.Bio,
		Location:  u.Location,
		CreatedAt: u.CreatedAt,
	}
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}
