// Copyright (c) 2026 Concert Companion. All rights reserved.

// Package spotify integrates with the Spotify Web API: OAuth code exchange,
// profile lookup, and the top-artist listening snapshot.
package spotify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/oauth2"

	"github.com/landonnguyen77/Concert-Companion/internal/platform/config"
)

const (
	authURL    = "https://accounts.spotify.com/authorize"
	tokenURL   = "https://accounts.spotify.com/api/token"
	apiBaseURL = "https://api.spotify.com/v1"

	// apiTimeout bounds a single Web API call.
	apiTimeout = 10 * time.Second
)

// scopes are the OAuth permissions the companion needs: profile, email, and
// listening history.
var scopes = []string{"user-read-private", "user-read-email", "user-top-read"}

// Image is one entry of a Spotify image set.
type Image struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

// Profile is the authenticated user's Spotify profile.
type Profile struct {
	ID          string  `json:"id"`
	DisplayName string  `json:"display_name"`
	Email       string  `json:"email"`
	Country     string  `json:"country"`
	Images      []Image `json:"images"`
}

// Artist is one artist from the user's top-artist listening ranking.
type Artist struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Genres     []string `json:"genres"`
	Popularity int      `json:"popularity"`
	Images     []Image  `json:"images"`
}

type topArtistsResponse struct {
	Items []Artist `json:"items"`
}

// apiError is Spotify's standard error body.
type apiError struct {
	Error struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
	} `json:"error"`
}

// Client talks to the Spotify accounts service and Web API.
type Client struct {
	oauth      *oauth2.Config
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient builds a Spotify client from the application OAuth credentials.
func NewClient(cfg *config.Config, logger *slog.Logger) *Client {
	return &Client{
		oauth: &oauth2.Config{
			ClientID:     cfg.SpotifyClientID,
			ClientSecret: cfg.SpotifyClientSecret,
			RedirectURL:  cfg.SpotifyRedirectURI,
			Scopes:       scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:  authURL,
				TokenURL: tokenURL,
			},
		},
		baseURL: apiBaseURL,
		httpClient: &http.Client{
			Timeout: apiTimeout,
		},
		logger: logger,
	}
}

// Exchange trades an authorization code for an OAuth token pair.
func (client *Client) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := client.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("spotify: code exchange failed: %w", err)
	}
	return token, nil
}

// RefreshToken obtains a fresh access token from a stored refresh token.
//
// Spotify does not always rotate the refresh token; callers should keep the
// old one when the returned token carries none.
func (client *Client) RefreshToken(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
	source := client.oauth.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})

	token, err := source.Token()
	if err != nil {
		return nil, fmt.Errorf("spotify: token refresh failed: %w", err)
	}
	return token, nil
}

// GetProfile fetches the profile of the user owning the access token.
func (client *Client) GetProfile(ctx context.Context, accessToken string) (*Profile, error) {
	profile := &Profile{}
	if err := client.get(ctx, "/me", accessToken, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// GetTopArtists fetches the user's medium-term top artists, most-listened
// first.
func (client *Client) GetTopArtists(ctx context.Context, accessToken string, limit int) ([]Artist, error) {
	path := "/me/top/artists?time_range=medium_term&limit=" + strconv.Itoa(limit)

	var payload topArtistsResponse
	if err := client.get(ctx, path, accessToken, &payload); err != nil {
		return nil, err
	}
	return payload.Items, nil
}

// get performs an authenticated Web API GET and decodes the JSON body.
func (client *Client) get(ctx context.Context, path, accessToken string, target any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, client.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("spotify: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := client.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("spotify: request %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("spotify: read response %s: %w", path, err)
	}

	if resp.StatusCode != http.StatusOK {
		message := "status " + strconv.Itoa(resp.StatusCode)
		var parsed apiError
		if json.Unmarshal(body, &parsed) == nil && parsed.Error.Message != "" {
			message = parsed.Error.Message
		}

		client.logger.Warn("spotify API call failed",
			slog.String("path", path),
			slog.Int("status", resp.StatusCode),
		)

		return fmt.Errorf("spotify: %s failed: %s", path, message)
	}

	if err := json.Unmarshal(body, target); err != nil {
		return fmt.Errorf("spotify: decode response %s: %w", path, err)
	}

	return nil
}
