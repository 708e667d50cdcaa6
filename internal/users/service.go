// Copyright (c) 2026 Concert Companion. All rights reserved.

package users

import (
	"context"
	"errors"
	"log/slog"

	"github.com/landonnguyen77/Concert-Companion/internal/artists"
	"github.com/landonnguyen77/Concert-Companion/internal/platform/apperr"
	"github.com/landonnguyen77/Concert-Companion/internal/platform/dberr"
	"github.com/landonnguyen77/Concert-Companion/internal/platform/validate"
	"github.com/landonnguyen77/Concert-Companion/pkg/pagination"
)

// ArtistSource supplies the ranked top-artist snapshot for profile views.
type ArtistSource interface {
	ListByUser(ctx context.Context, userID int64) ([]*artists.RankedArtist, error)
}

// Service implements account use cases on top of the [Repository].
type Service struct {
	repo    Repository
	artists ArtistSource
	logger  *slog.Logger
}

// NewService constructs the user service.
func NewService(repo Repository, artistSource ArtistSource, logger *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		artists: artistSource,
		logger:  logger,
	}
}

// CreateUserInput is the payload for plain account creation.
type CreateUserInput struct {
	DisplayName string
	Email       string
}

// CreateUser validates the input and inserts a bare account with no linked
// Spotify identity.
func (service *Service) CreateUser(ctx context.Context, input CreateUserInput) (*User, error) {
	v := &validate.Validator{}
	v.Required("displayName", input.DisplayName).
		MaxLen("displayName", input.DisplayName, 100).
		Required("email", input.Email)
	if input.Email != "" {
		v.Email("email", input.Email)
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	user := &User{
		DisplayName: &input.DisplayName,
		Email:       &input.Email,
	}

	if err := service.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	service.logger.Info("user created", slog.Int64("user_id", user.ID))
	return user, nil
}

// ListUsers returns one page of accounts with pagination metadata.
func (service *Service) ListUsers(ctx context.Context, params pagination.Params) ([]*User, pagination.Meta, error) {
	users, total, err := service.repo.List(ctx, params.Limit, params.Offset())
	if err != nil {
		return nil, pagination.Meta{}, err
	}

	return users, pagination.NewMeta(params.Page, params.Limit, total), nil
}

// Profile is a user together with their stored top-artist snapshot.
type Profile struct {
	User    *User                   `json:"user"`
	Artists []*artists.RankedArtist `json:"artists"`
}

// GetProfile resolves the account behind a Spotify identity along with its
// ranked artists.
func (service *Service) GetProfile(ctx context.Context, spotifyID string) (*Profile, error) {
	v := &validate.Validator{}
	if err := v.Required("spotifyId", spotifyID).Err(); err != nil {
		return nil, err
	}

	user, err := service.repo.GetBySpotifyID(ctx, spotifyID)
	if err != nil {
		if errors.Is(err, dberr.ErrNotFound) {
			return nil, apperr.NotFound("User")
		}
		return nil, err
	}

	ranked, err := service.artists.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return &Profile{User: user, Artists: ranked}, nil
}
