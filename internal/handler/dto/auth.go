package dto

import "github.com/abhms/alter/internal/model"

// GoogleSignInRequest represents the request body for Google sign-in.
type GoogleSignInRequest struct {
	Token string `json:"token"`
}

// UserResponse represents a user in API responses.
type UserResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar,omitempty"`
}

// SignInData is returned after a successful sign-in.
type SignInData struct {
	User  UserResponse `json:"user"`
	Token string       `json:"token"`
}

// ToSignInData converts a user and session token to SignInData DTO.
func ToSignInData(user *model.User, token string) *SignInData {
	return &SignInData{
		User: UserResponse{
			ID:     user.ID,
			Name:   user.Name,
			Email:  user.Email,
			Avatar: user.Avatar,
		},
		Token: token,
	}
}
