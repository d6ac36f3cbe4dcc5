// Command bootstrap-session creates a local user and prints a session token
// for it, so the API can be exercised without Google Sign-In.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/abhms/alter/internal/auth"
	"github.com/abhms/alter/internal/model"
	"github.com/abhms/alter/internal/repository"
)

type output struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

func main() {
	_ = godotenv.Load()

	var (
		databaseURL = flag.String("database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection string")
		jwtSecret   = flag.String("jwt-secret", os.Getenv("JWT_SECRET"), "Secret used to sign session tokens")
		googleID    = flag.String("google-id", "local-dev", "Google subject to register the user under")
		email       = flag.String("email", "dev@alter.local", "User email")
		name        = flag.String("name", "Local Developer", "User display name")
		ttl         = flag.Duration("ttl", 24*time.Hour, "Token lifetime")
		format      = flag.String("format", "plain", "Output format: plain or json")
	)
	flag.Parse()

	if *databaseURL == "" || *jwtSecret == "" {
		fmt.Fprintln(os.Stderr, "DATABASE_URL and JWT_SECRET are required")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	repo, err := repository.New(ctx, *databaseURL)
	if err != nil {
		fmt.Fprintln(os.Stderr, "connect database:", err)
		os.Exit(1)
	}
	defer repo.Close()

	user, err := repo.GetOrCreateUser(ctx, &model.User{
		GoogleID: *googleID,
		Email:    *email,
		Name:     *name,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "get or create user:", err)
		os.Exit(1)
	}
	if user.Email != *email {
		fmt.Fprintf(os.Stderr, "google id %s already belongs to %s\n", *googleID, user.Email)
		os.Exit(1)
	}

	token, err := auth.NewTokenIssuer(*jwtSecret, *ttl).Issue(user.ID)
	if err != nil {
		fmt.Fprintln(os.Stderr, "issue token:", err)
		os.Exit(1)
	}

	out := output{
		UserID:    user.ID,
		Email:     user.Email,
		Token:     token,
		ExpiresAt: time.Now().Add(*ttl).UTC(),
	}

	switch strings.ToLower(*format) {
	case "plain":
		fmt.Println(out.Token)
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(out)
	default:
		fmt.Fprintln(os.Stderr, "invalid format; use plain or json")
		os.Exit(1)
	}
}
