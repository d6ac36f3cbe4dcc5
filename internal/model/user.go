// Package model defines domain entities for the application.
package model

import "time"

// User is an account created through Google Sign-In.
type User struct {
	ID        string    `json:"id"`
	GoogleID  string    `json:"google_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Avatar    string    `json:"avatar,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
