// Copyright (c) 2026 Concert Companion. All rights reserved.

package spotify

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/oauth2"

	"github.com/landonnguyen77/Concert-Companion/internal/artists"
	"github.com/landonnguyen77/Concert-Companion/internal/platform/apperr"
	"github.com/landonnguyen77/Concert-Companion/internal/platform/constants"
	"github.com/landonnguyen77/Concert-Companion/internal/platform/dberr"
	"github.com/landonnguyen77/Concert-Companion/internal/platform/validate"
	"github.com/landonnguyen77/Concert-Companion/internal/users"
	"github.com/landonnguyen77/Concert-Companion/pkg/pointer"
)

// expiryLeeway renews access tokens slightly before their actual deadline so
// an in-flight API call never races the expiry.
const expiryLeeway = time.Minute

// APIClient is the Spotify surface the service depends on.
type APIClient interface {
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
	RefreshToken(ctx context.Context, refreshToken string) (*oauth2.Token, error)
	GetProfile(ctx context.Context, accessToken string) (*Profile, error)
	GetTopArtists(ctx context.Context, accessToken string, limit int) ([]Artist, error)
}

// UserStore is the account persistence surface the service depends on.
type UserStore interface {
	GetBySpotifyID(ctx context.Context, spotifyID string) (*users.User, error)
	UpsertSpotifyProfile(ctx context.Context, user *users.User) error
	UpdateTokens(ctx context.Context, userID int64, accessToken, refreshToken string, expiresAt time.Time) error
}

// ArtistStore persists the ranked top-artist snapshot.
type ArtistStore interface {
	ListByUser(ctx context.Context, userID int64) ([]*artists.RankedArtist, error)
	ReplaceForUser(ctx context.Context, userID int64, artists []*artists.RankedArtist) error
}

// TokenIssuer mints session tokens after a successful login.
type TokenIssuer interface {
	GenerateSessionToken(userID int64, spotifyID string, timeToLive time.Duration) (string, error)
}

// Service implements the Spotify login and snapshot-refresh use cases.
type Service struct {
	client  APIClient
	users   UserStore
	artists ArtistStore
	latch   Latch
	tokens  TokenIssuer
	logger  *slog.Logger
}

// NewService constructs the Spotify integration service.
func NewService(client APIClient, userStore UserStore, artistStore ArtistStore, latch Latch, tokens TokenIssuer, logger *slog.Logger) *Service {
	return &Service{
		client:  client,
		users:   userStore,
		artists: artistStore,
		latch:   latch,
		tokens:  tokens,
		logger:  logger,
	}
}

// AuthResult is the outcome of a completed Spotify login.
type AuthResult struct {
	User         *users.User             `json:"user"`
	Artists      []*artists.RankedArtist `json:"artists"`
	SessionToken string                  `json:"sessionToken"`
}

// CompleteAuth finishes the OAuth authorization-code flow: it exchanges the
// code, upserts the account, captures the top-artist snapshot, and issues a
// session token.
//
// # Single Execution
//
// The code is latched in Redis before the exchange, so a double-submitted
// callback runs the flow exactly once; the duplicate gets a 409.
func (service *Service) CompleteAuth(ctx context.Context, code string) (*AuthResult, error) {
	v := &validate.Validator{}
	if err := v.Required("code", code).Err(); err != nil {
		return nil, err
	}

	acquired, err := service.latch.Acquire(ctx, code)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if !acquired {
		return nil, apperr.Conflict("Authorization code is already being processed")
	}

	token, err := service.client.Exchange(ctx, code)
	if err != nil {
		service.logger.Warn("spotify code exchange rejected", slog.String("error", err.Error()))
		return nil, apperr.Unauthorized("Invalid or expired authorization code")
	}

	profile, err := service.client.GetProfile(ctx, token.AccessToken)
	if err != nil {
		return nil, apperr.BadGateway("Spotify profile lookup failed", err)
	}

	user := &users.User{
		SpotifyID:       &profile.ID,
		Email:           strPtrOrNil(profile.Email),
		DisplayName:     strPtrOrNil(profile.DisplayName),
		ProfileImageURL: firstImageURL(profile.Images),
		Country:         strPtrOrNil(profile.Country),
		AccessToken:     token.AccessToken,
		RefreshToken:    token.RefreshToken,
		TokenExpiresAt:  pointer.To(token.Expiry),
	}

	if err := service.users.UpsertSpotifyProfile(ctx, user); err != nil {
		return nil, err
	}

	top, err := service.client.GetTopArtists(ctx, token.AccessToken, constants.TopArtistSnapshotSize)
	if err != nil {
		return nil, apperr.BadGateway("Spotify top artists lookup failed", err)
	}

	if err := service.artists.ReplaceForUser(ctx, user.ID, rankArtists(user.ID, top)); err != nil {
		return nil, err
	}

	ranked, err := service.artists.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	sessionToken, err := service.tokens.GenerateSessionToken(user.ID, profile.ID, constants.SessionTokenTTL)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	service.logger.Info("spotify login complete",
		slog.Int64("user_id", user.ID),
		slog.Int("artists_captured", len(ranked)),
	)

	return &AuthResult{
		User:         user,
		Artists:      ranked,
		SessionToken: sessionToken,
	}, nil
}

// RefreshArtists re-captures the authenticated user's top-artist snapshot,
// transparently renewing the stored Spotify access token when it has expired.
func (service *Service) RefreshArtists(ctx context.Context, spotifyID string) ([]*artists.RankedArtist, error) {
	v := &validate.Validator{}
	if err := v.Required("spotifyId", spotifyID).Err(); err != nil {
		return nil, err
	}

	user, err := service.users.GetBySpotifyID(ctx, spotifyID)
	if err != nil {
		if errors.Is(err, dberr.ErrNotFound) {
			return nil, apperr.NotFound("User")
		}
		return nil, err
	}

	accessToken, err := service.freshAccessToken(ctx, user)
	if err != nil {
		return nil, err
	}

	top, err := service.client.GetTopArtists(ctx, accessToken, constants.TopArtistSnapshotSize)
	if err != nil {
		return nil, apperr.BadGateway("Spotify top artists lookup failed", err)
	}

	if err := service.artists.ReplaceForUser(ctx, user.ID, rankArtists(user.ID, top)); err != nil {
		return nil, err
	}

	ranked, err := service.artists.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	service.logger.Info("artist snapshot refreshed",
		slog.Int64("user_id", user.ID),
		slog.Int("artists_captured", len(ranked)),
	)

	return ranked, nil
}

// freshAccessToken returns a usable access token for the user, refreshing and
// persisting it when the stored one is expired or about to expire.
func (service *Service) freshAccessToken(ctx context.Context, user *users.User) (string, error) {
	if user.AccessToken == "" {
		return "", apperr.Unauthorized("Spotify account is not linked")
	}

	stillValid := user.TokenExpiresAt == nil ||
		time.Now().Before(user.TokenExpiresAt.Add(-expiryLeeway))
	if stillValid {
		return user.AccessToken, nil
	}

	if user.RefreshToken == "" {
		return "", apperr.Unauthorized("Spotify session expired, please log in again")
	}

	renewed, err := service.client.RefreshToken(ctx, user.RefreshToken)
	if err != nil {
		return "", apperr.Unauthorized("Spotify session expired, please log in again")
	}

	// Spotify may omit the refresh token on renewal; keep the old one then.
	refreshToken := renewed.RefreshToken
	if refreshToken == "" {
		refreshToken = user.RefreshToken
	}

	if err := service.users.UpdateTokens(ctx, user.ID, renewed.AccessToken, refreshToken, renewed.Expiry); err != nil {
		return "", err
	}

	return renewed.AccessToken, nil
}

// rankArtists converts the Spotify ranking into snapshot rows. Rank is the
// 1-based position in the listening order.
func rankArtists(userID int64, top []Artist) []*artists.RankedArtist {
	ranked := make([]*artists.RankedArtist, 0, len(top))

	for i, artist := range top {
		genres := artist.Genres
		if genres == nil {
			genres = []string{}
		}

		ranked = append(ranked, &artists.RankedArtist{
			UserID:     userID,
			Name:       artist.Name,
			SpotifyID:  artist.ID,
			ImageURL:   firstImageURL(artist.Images),
			Genres:     genres,
			Popularity: artist.Popularity,
			Rank:       i + 1,
		})
	}

	return ranked
}

func firstImageURL(images []Image) *string {
	if len(images) == 0 || images[0].URL == "" {
		return nil
	}
	return &images[0].URL
}

func strPtrOrNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
