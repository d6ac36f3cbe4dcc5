// Package model defines domain entities for the application.
package model

import (
	"strings"
	"time"
)

// Alias represents a shortened URL owned by a user.
type Alias struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	TargetURL   string    `json:"long_url"`
	ShortURL    string    `json:"short_url"`
	CustomAlias string    `json:"custom_alias"`
	Topic       string    `json:"topic,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ShortURLFor joins a base URL and an alias into the public short URL.
func ShortURLFor(baseURL, alias string) string {
	return strings.TrimSuffix(baseURL, "/") + "/" + alias
}

// ShortURLs returns the short URL of every alias, preserving order.
func ShortURLs(aliases []*Alias) []string {
	urls := make([]string, 0, len(aliases))
	for _, a := range aliases {
		urls = append(urls, a.ShortURL)
	}
	return urls
}
