// Copyright (c) 2026 Concert Companion. All rights reserved.

package artists

import "context"

// Repository defines the persistence contract for top-artist snapshots.
type Repository interface {
	// ListByUser returns the user's snapshot ordered by ascending rank.
	ListByUser(ctx context.Context, userID int64) ([]*RankedArtist, error)

	// ReplaceForUser atomically swaps the user's snapshot for a new one.
	// The previous snapshot is removed even when the new one is empty.
	ReplaceForUser(ctx context.Context, userID int64, artists []*RankedArtist) error
}
