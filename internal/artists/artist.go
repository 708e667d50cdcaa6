// Copyright (c) 2026 Concert Companion. All rights reserved.

// Package artists stores the ranked top-artist snapshot captured from a
// user's Spotify listening history.
package artists

import "time"

// RankedArtist is one entry of a user's top-artist snapshot.
//
// Rank is 1-based and mirrors Spotify's own ordering at capture time; it is
// the canonical order for every consumer of the snapshot.
type RankedArtist struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"-"`
	Name       string    `json:"name"`
	SpotifyID  string    `json:"spotifyId"`
	ImageURL   *string   `json:"imageUrl"`
	Genres     []string  `json:"genres"`
	Popularity int       `json:"popularity"`
	Rank       int       `json:"rank"`
	CreatedAt  time.Time `json:"createdAt"`
}
