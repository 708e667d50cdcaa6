// Copyright (c) 2026 Concert Companion. All rights reserved.

package artists

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/landonnguyen77/Concert-Companion/internal/platform/database/schema"
	"github.com/landonnguyen77/Concert-Companion/internal/platform/dberr"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (repository *PostgresRepository) ListByUser(context context.Context, userID int64) ([]*RankedArtist, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1
		ORDER BY %s ASC
	`,
		schema.UserArtists.ID, schema.UserArtists.UserID, schema.UserArtists.Name,
		schema.UserArtists.SpotifyID, schema.UserArtists.ImageURL, schema.UserArtists.Genres,
		schema.UserArtists.Popularity, schema.UserArtists.Rank, schema.UserArtists.CreatedAt,
		schema.UserArtists.Table,
		schema.UserArtists.UserID,
		schema.UserArtists.Rank,
	)

	rows, err := repository.db.Query(context, query, userID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_user_artists")
	}
	defer rows.Close()

	artists := []*RankedArtist{}
	for rows.Next() {
		a := &RankedArtist{}
		if err := rows.Scan(
			&a.ID, &a.UserID, &a.Name, &a.SpotifyID, &a.ImageURL,
			&a.Genres, &a.Popularity, &a.Rank, &a.CreatedAt,
		); err != nil {
			return nil, dberr.Wrap(err, "scan_user_artist")
		}
		artists = append(artists, a)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "list_user_artists")
	}

	return artists, nil
}

// ReplaceForUser runs a clear-and-insert swap inside one transaction so a
// concurrent reader never observes a half-written snapshot.
func (repository *PostgresRepository) ReplaceForUser(context context.Context, userID int64, artists []*RankedArtist) error {
	transaction, err := repository.db.Begin(context)
	if err != nil {
		return fmt.Errorf("postgres: replace snapshot begin failed: %w", err)
	}
	defer transaction.Rollback(context)

	delQuery := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.UserArtists.Table, schema.UserArtists.UserID,
	)
	if _, err := transaction.Exec(context, delQuery, userID); err != nil {
		return dberr.Wrap(err, "clear_user_artists")
	}

	if len(artists) > 0 {
		insQuery := fmt.Sprintf(`
			INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`,
			schema.UserArtists.Table,
			schema.UserArtists.UserID, schema.UserArtists.Name, schema.UserArtists.SpotifyID,
			schema.UserArtists.ImageURL, schema.UserArtists.Genres, schema.UserArtists.Popularity,
			schema.UserArtists.Rank,
		)

		batch := &pgx.Batch{}
		for _, a := range artists {
			batch.Queue(insQuery, userID, a.Name, a.SpotifyID, a.ImageURL, a.Genres, a.Popularity, a.Rank)
		}

		response := transaction.SendBatch(context, batch)
		if err := response.Close(); err != nil {
			return dberr.Wrap(err, "insert_user_artists")
		}
	}

	if err := transaction.Commit(context); err != nil {
		return fmt.Errorf("postgres: replace snapshot commit failed: %w", err)
	}

	return nil
}
