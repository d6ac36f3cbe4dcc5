// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"time"

	"github.com/abhms/alter/internal/model"
)

// CreateShortURLRequest represents the request body for creating a short URL.
type CreateShortURLRequest struct {
	LongURL     string `json:"longUrl"`
	CustomAlias string `json:"customAlias,omitempty"`
	Topic       string `json:"topic,omitempty"`
}

// CreatedShortURL is the data returned after creating a short URL.
type CreatedShortURL struct {
	ShortURL  string    `json:"shortUrl"`
	CreatedAt time.Time `json:"createdAt"`
}

// ShortURLResponse describes an alias with its live click counters.
type ShortURLResponse struct {
	ID          string    `json:"id"`
	Alias       string    `json:"alias"`
	ShortURL    string    `json:"shortUrl"`
	LongURL     string    `json:"longUrl"`
	Topic       string    `json:"topic,omitempty"`
	TotalClicks int64     `json:"totalClicks"`
	UniqueUsers int64     `json:"uniqueUsers"`
	CreatedAt   time.Time `json:"createdAt"`
}

// MessageResponse wraps a success message and its payload.
type MessageResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// ToCreatedShortURL converts an Alias model to CreatedShortURL DTO.
func ToCreatedShortURL(alias *model.Alias) *CreatedShortURL {
	return &CreatedShortURL{
		ShortURL:  alias.ShortURL,
		CreatedAt: alias.CreatedAt,
	}
}

// ToShortURLResponse converts an Alias model and its counters to ShortURLResponse DTO.
func ToShortURLResponse(alias *model.Alias, totalClicks, uniqueUsers int64) *ShortURLResponse {
	return &ShortURLResponse{
		ID:          alias.ID,
		Alias:       alias.CustomAlias,
		ShortURL:    alias.ShortURL,
		LongURL:     alias.TargetURL,
		Topic:       alias.Topic,
		TotalClicks: totalClicks,
		UniqueUsers: uniqueUsers,
		CreatedAt:   alias.CreatedAt,
	}
}
