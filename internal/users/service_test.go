// Copyright (c) 2026 Concert Companion. All rights reserved.

package users

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/landonnguyen77/Concert-Companion/internal/artists"
	"github.com/landonnguyen77/Concert-Companion/internal/platform/apperr"
	"github.com/landonnguyen77/Concert-Companion/internal/platform/dberr"
	"github.com/landonnguyen77/Concert-Companion/pkg/pagination"
)

type stubRepository struct {
	users   []*User
	total   int
	listErr error
	byID    *User
	getErr  error
	created *User
}

func (s *stubRepository) List(ctx context.Context, limit, offset int) ([]*User, int, error) {
	return s.users, s.total, s.listErr
}

func (s *stubRepository) GetByID(ctx context.Context, id int64) (*User, error) {
	return s.byID, s.getErr
}

func (s *stubRepository) GetBySpotifyID(ctx context.Context, spotifyID string) (*User, error) {
	return s.byID, s.getErr
}

func (s *stubRepository) Create(ctx context.Context, user *User) error {
	user.ID = 1
	s.created = user
	return nil
}

func (s *stubRepository) UpsertSpotifyProfile(ctx context.Context, user *User) error {
	return nil
}

func (s *stubRepository) UpdateTokens(ctx context.Context, userID int64, accessToken, refreshToken string, expiresAt time.Time) error {
	return nil
}

type stubArtistSource struct {
	artists []*artists.RankedArtist
	err     error
}

func (s *stubArtistSource) ListByUser(ctx context.Context, userID int64) ([]*artists.RankedArtist, error) {
	return s.artists, s.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

/*
TestCreateUser_Validation verifies the field rules on plain account creation.
*/
func TestCreateUser_Validation(t *testing.T) {
	tests := []struct {
		name    string
		input   CreateUserInput
		isValid bool
	}{
		{"valid", CreateUserInput{DisplayName: "Landon", Email: "landon@example.com"}, true},
		{"missing_name", CreateUserInput{Email: "landon@example.com"}, false},
		{"missing_email", CreateUserInput{DisplayName: "Landon"}, false},
		{"bad_email", CreateUserInput{DisplayName: "Landon", Email: "not-an-email"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &stubRepository{}
			service := NewService(repo, &stubArtistSource{}, testLogger())

			user, err := service.CreateUser(context.Background(), tt.input)

			if tt.isValid {
				require.NoError(t, err)
				require.NotNil(t, user)
				assert.Equal(t, int64(1), user.ID)
				require.NotNil(t, repo.created)
			} else {
				assert.Nil(t, user)
				ae := apperr.As(err)
				require.NotNil(t, ae)
				assert.Equal(t, "VALIDATION_ERROR", ae.Code)
				assert.Nil(t, repo.created)
			}
		})
	}
}

/*
TestListUsers verifies pagination metadata assembly.
*/
func TestListUsers(t *testing.T) {
	repo := &stubRepository{
		users: []*User{{ID: 1}, {ID: 2}},
		total: 12,
	}
	service := NewService(repo, &stubArtistSource{}, testLogger())

	users, meta, err := service.ListUsers(context.Background(), pagination.Params{Page: 2, Limit: 5})

	require.NoError(t, err)
	assert.Len(t, users, 2)
	assert.Equal(t, 2, meta.Page)
	assert.Equal(t, 5, meta.Limit)
	assert.Equal(t, 12, meta.Total)
	assert.Equal(t, 3, meta.TotalPages)
}

/*
TestGetProfile verifies the user-plus-snapshot assembly and the 404 mapping.
*/
func TestGetProfile(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		spotifyID := "sp-user"
		repo := &stubRepository{byID: &User{ID: 7, SpotifyID: &spotifyID}}
		source := &stubArtistSource{artists: []*artists.RankedArtist{
			{ID: 1, Name: "Big Thief", Rank: 1},
		}}
		service := NewService(repo, source, testLogger())

		profile, err := service.GetProfile(context.Background(), "sp-user")

		require.NoError(t, err)
		require.NotNil(t, profile)
		assert.Equal(t, int64(7), profile.User.ID)
		require.Len(t, profile.Artists, 1)
		assert.Equal(t, "Big Thief", profile.Artists[0].Name)
	})

	t.Run("unknown_identity", func(t *testing.T) {
		repo := &stubRepository{getErr: dberr.ErrNotFound}
		service := NewService(repo, &stubArtistSource{}, testLogger())

		profile, err := service.GetProfile(context.Background(), "nobody")

		assert.Nil(t, profile)
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, "NOT_FOUND", ae.Code)
	})

	t.Run("empty_identity", func(t *testing.T) {
		service := NewService(&stubRepository{}, &stubArtistSource{}, testLogger())

		profile, err := service.GetProfile(context.Background(), "")

		assert.Nil(t, profile)
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, "VALIDATION_ERROR", ae.Code)
	})
}
