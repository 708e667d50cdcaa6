// Copyright (c) 2026 Concert Companion. All rights reserved.

// Package users manages account records and their linked Spotify identity.
package users

import "time"

// User is an account in the system.
//
// An account is usually created by the Spotify OAuth callback, which fills the
// Spotify identity and token fields. Accounts created through the plain CRUD
// endpoint have no linked identity until the owner completes a Spotify login.
//
// # Security
//
// The Spotify tokens never leave the server: their fields are excluded from
// JSON marshaling entirely.
type User struct {
	ID              int64      `json:"id"`
	SpotifyID       *string    `json:"spotifyId"`
	Email           *string    `json:"email"`
	DisplayName     *string    `json:"displayName"`
	ProfileImageURL *string    `json:"profileImageUrl"`
	Country         *string    `json:"country"`
	AccessToken     string     `json:"-"`
	RefreshToken    string     `json:"-"`
	TokenExpiresAt  *time.Time `json:"-"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}
