// Copyright (c) 2026 Concert Companion. All rights reserved.

package users

import (
	"context"
	"fmt"
	"time"

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

// userColumns is the canonical SELECT column list, matched by scanUser.
func userColumns() string {
	return fmt.Sprintf("%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s",
		schema.Users.ID, schema.Users.SpotifyID, schema.Users.Email,
		schema.Users.DisplayName, schema.Users.ProfileImageURL, schema.Users.Country,
		schema.Users.AccessToken, schema.Users.RefreshToken, schema.Users.TokenExpiresAt,
		schema.Users.CreatedAt, schema.Users.UpdatedAt,
	)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner, u *User) error {
	return row.Scan(
		&u.ID, &u.SpotifyID, &u.Email,
		&u.DisplayName, &u.ProfileImageURL, &u.Country,
		&u.AccessToken, &u.RefreshToken, &u.TokenExpiresAt,
		&u.CreatedAt, &u.UpdatedAt,
	)
}

func (repository *PostgresRepository) List(context context.Context, limit, offset int) ([]*User, int, error) {
	countQuery := fmt.Sprintf(`SELECT count(*) FROM %s`, schema.Users.Table)

	var total int
	if err := repository.db.QueryRow(context, countQuery).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_users")
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		ORDER BY %s ASC
		LIMIT $1 OFFSET $2
	`, userColumns(), schema.Users.Table, schema.Users.ID)

	rows, err := repository.db.Query(context, query, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_users")
	}
	defer rows.Close()

	users := []*User{}
	for rows.Next() {
		u := &User{}
		if err := scanUser(rows, u); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_user")
		}
		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "list_users")
	}

	return users, total, nil
}

func (repository *PostgresRepository) GetByID(context context.Context, id int64) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		userColumns(), schema.Users.Table, schema.Users.ID,
	)

	u := &User{}
	if err := scanUser(repository.db.QueryRow(context, query, id), u); err != nil {
		return nil, dberr.Wrap(err, "get_user")
	}

	return u, nil
}

func (repository *PostgresRepository) GetBySpotifyID(context context.Context, spotifyID string) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		userColumns(), schema.Users.Table, schema.Users.SpotifyID,
	)

	u := &User{}
	if err := scanUser(repository.db.QueryRow(context, query, spotifyID), u); err != nil {
		return nil, dberr.Wrap(err, "get_user_by_spotify_id")
	}

	return u, nil
}

func (repository *PostgresRepository) Create(context context.Context, user *User) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s)
		VALUES ($1, $2, NOW(), NOW())
		RETURNING %s, %s, %s
	`,
		schema.Users.Table,
		schema.Users.DisplayName, schema.Users.Email,
		schema.Users.CreatedAt, schema.Users.UpdatedAt,
		schema.Users.ID, schema.Users.CreatedAt, schema.Users.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query, user.DisplayName, user.Email).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	return dberr.Wrap(err, "create_user")
}

// UpsertSpotifyProfile inserts the account or, when the Spotify identity is
// already linked, refreshes profile fields and the stored OAuth tokens.
func (repository *PostgresRepository) UpsertSpotifyProfile(context context.Context, user *User) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		ON CONFLICT (%s) DO UPDATE SET
			%s = EXCLUDED.%s,
			%s = EXCLUDED.%s,
			%s = EXCLUDED.%s,
			%s = EXCLUDED.%s,
			%s = EXCLUDED.%s,
			%s = EXCLUDED.%s,
			%s = EXCLUDED.%s,
			%s = NOW()
		RETURNING %s, %s, %s
	`,
		schema.Users.Table,
		schema.Users.SpotifyID, schema.Users.Email, schema.Users.DisplayName,
		schema.Users.ProfileImageURL, schema.Users.Country,
		schema.Users.AccessToken, schema.Users.RefreshToken, schema.Users.TokenExpiresAt,
		schema.Users.CreatedAt, schema.Users.UpdatedAt,
		schema.Users.SpotifyID,
		schema.Users.Email, schema.Users.Email,
		schema.Users.DisplayName, schema.Users.DisplayName,
		schema.Users.ProfileImageURL, schema.Users.ProfileImageURL,
		schema.Users.Country, schema.Users.Country,
		schema.Users.AccessToken, schema.Users.AccessToken,
		schema.Users.RefreshToken, schema.Users.RefreshToken,
		schema.Users.TokenExpiresAt, schema.Users.TokenExpiresAt,
		schema.Users.UpdatedAt,
		schema.Users.ID, schema.Users.CreatedAt, schema.Users.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query,
		user.SpotifyID, user.Email, user.DisplayName,
		user.ProfileImageURL, user.Country,
		user.AccessToken, user.RefreshToken, user.TokenExpiresAt,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	return dberr.Wrap(err, "upsert_spotify_profile")
}

func (repository *PostgresRepository) UpdateTokens(context context.Context, userID int64, accessToken, refreshToken string, expiresAt time.Time) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = NOW()
		WHERE %s = $1
	`,
		schema.Users.Table,
		schema.Users.AccessToken, schema.Users.RefreshToken, schema.Users.TokenExpiresAt,
		schema.Users.UpdatedAt,
		schema.Users.ID,
	)

	cmd, err := repository.db.Exec(context, query, userID, accessToken, refreshToken, expiresAt)
	if err != nil {
		return dberr.Wrap(err, "update_tokens")
	}

	if cmd.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}
