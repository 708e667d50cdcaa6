// Copyright (c) 2026 Concert Companion. All rights reserved.

package users

import (
	"context"
	"time"
)

// Repository defines the persistence contract for user accounts.
type Repository interface {
	// List returns a page of accounts plus the total count.
	List(ctx context.Context, limit, offset int) ([]*User, int, error)

	// GetByID fetches one account by primary key.
	GetByID(ctx context.Context, id int64) (*User, error)

	// GetBySpotifyID fetches the account linked to a Spotify identity.
	GetBySpotifyID(ctx context.Context, spotifyID string) (*User, error)

	// Create inserts a new account and fills the generated fields.
	Create(ctx context.Context, user *User) error

	// UpsertSpotifyProfile inserts or refreshes the account keyed by its
	// Spotify identity, updating profile fields and OAuth tokens in place.
	UpsertSpotifyProfile(ctx context.Context, user *User) error

	// UpdateTokens persists a refreshed OAuth token pair.
	UpdateTokens(ctx context.Context, userID int64, accessToken, refreshToken string, expiresAt time.Time) error
}
