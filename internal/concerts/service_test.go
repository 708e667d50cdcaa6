// Copyright (c) 2026 Concert Companion. All rights reserved.

package concerts

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/landonnguyen77/Concert-Companion/internal/artists"
	"github.com/landonnguyen77/Concert-Companion/internal/platform/apperr"
	"github.com/landonnguyen77/Concert-Companion/internal/platform/dberr"
	"github.com/landonnguyen77/Concert-Companion/internal/users"
)

type stubUserResolver struct {
	user *users.User
	err  error
}

func (s *stubUserResolver) GetBySpotifyID(ctx context.Context, spotifyID string) (*users.User, error) {
	return s.user, s.err
}

type stubArtistSource struct {
	artists []*artists.RankedArtist
	err     error
}

func (s *stubArtistSource) ListByUser(ctx context.Context, userID int64) ([]*artists.RankedArtist, error) {
	return s.artists, s.err
}

// stubSearcher records every call and answers from the byArtist table.
type stubSearcher struct {
	mu       sync.Mutex
	calls    []string
	opts     []SearchOptions
	byArtist map[string]func() ([]Event, error)
}

func (s *stubSearcher) SearchEvents(ctx context.Context, artistName string, opts SearchOptions) ([]Event, error) {
	s.mu.Lock()
	s.calls = append(s.calls, artistName)
	s.opts = append(s.opts, opts)
	answer := s.byArtist[artistName]
	s.mu.Unlock()

	if answer == nil {
		return []Event{}, nil
	}
	return answer()
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func rankedArtist(id int64, name string, rank int) *artists.RankedArtist {
	return &artists.RankedArtist{
		ID:        id,
		UserID:    1,
		Name:      name,
		SpotifyID: "sp-" + name,
		Rank:      rank,
		Genres:    []string{},
	}
}

func eventsNamed(names ...string) func() ([]Event, error) {
	return func() ([]Event, error) {
		events := make([]Event, 0, len(names))
		for _, name := range names {
			events = append(events, Event{ID: name, Name: name, Classifications: []Classification{}})
		}
		return events, nil
	}
}

func testUser(country *string) *users.User {
	spotifyID := "sp-user"
	return &users.User{ID: 1, SpotifyID: &spotifyID, Country: country}
}

/*
TestAggregateForUser_UnknownUser verifies that an unknown Spotify identity
maps to a 404 domain error.
*/
func TestAggregateForUser_UnknownUser(t *testing.T) {
	service := NewService(
		&stubUserResolver{err: dberr.ErrNotFound},
		&stubArtistSource{},
		&stubSearcher{},
		testLogger(),
	)

	result, err := service.AggregateForUser(context.Background(), "nobody", AggregateOptions{})

	assert.Nil(t, result)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "NOT_FOUND", ae.Code)
	assert.Equal(t, "User not found", ae.Message)
}

/*
TestAggregateForUser_EmptySnapshot verifies the short-circuit for users with
no stored artists: an empty result, no provider calls.
*/
func TestAggregateForUser_EmptySnapshot(t *testing.T) {
	searcher := &stubSearcher{}
	service := NewService(
		&stubUserResolver{user: testUser(nil)},
		&stubArtistSource{artists: []*artists.RankedArtist{}},
		searcher,
		testLogger(),
	)

	result, err := service.AggregateForUser(context.Background(), "sp-user", AggregateOptions{})

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.NotNil(t, result.Results)
	assert.Empty(t, result.Results)
	assert.Zero(t, result.ArtistCount)
	assert.Zero(t, result.TotalEvents)
	assert.False(t, result.GeneratedAt.IsZero())
	assert.Empty(t, searcher.calls)
}

/*
TestAggregateForUser_OrderPreserved verifies that results follow the stored
rank order even when searches complete out of order.
*/
func TestAggregateForUser_OrderPreserved(t *testing.T) {
	slowFirst := func() ([]Event, error) {
		time.Sleep(30 * time.Millisecond)
		return eventsNamed("alpha-1", "alpha-2")()
	}

	searcher := &stubSearcher{byArtist: map[string]func() ([]Event, error){
		"Alpha": slowFirst,
		"Beta":  eventsNamed("beta-1"),
		"Gamma": eventsNamed(),
	}}

	service := NewService(
		&stubUserResolver{user: testUser(nil)},
		&stubArtistSource{artists: []*artists.RankedArtist{
			rankedArtist(1, "Alpha", 1),
			rankedArtist(2, "Beta", 2),
			rankedArtist(3, "Gamma", 3),
		}},
		searcher,
		testLogger(),
	)

	result, err := service.AggregateForUser(context.Background(), "sp-user", AggregateOptions{})

	require.NoError(t, err)
	require.Len(t, result.Results, 3)
	assert.Equal(t, "Alpha", result.Results[0].Artist.Name)
	assert.Equal(t, "Beta", result.Results[1].Artist.Name)
	assert.Equal(t, "Gamma", result.Results[2].Artist.Name)

	assert.Equal(t, 3, result.ArtistCount)
	assert.Equal(t, 3, result.TotalEvents)
	assert.Len(t, result.Results[0].Events, 2)
	assert.Len(t, result.Results[1].Events, 1)
	assert.Empty(t, result.Results[2].Events)
}

/*
TestAggregateForUser_PartialFailure verifies per-artist isolation: a failed
search yields a group carrying its error while siblings keep their events.
*/
func TestAggregateForUser_PartialFailure(t *testing.T) {
	searcher := &stubSearcher{byArtist: map[string]func() ([]Event, error){
		"Alpha": eventsNamed("a-1"),
		"Beta": func() ([]Event, error) {
			return nil, &SearchError{Artist: "Beta", Message: "rate limit exceeded"}
		},
		"Gamma": eventsNamed("g-1", "g-2"),
	}}

	service := NewService(
		&stubUserResolver{user: testUser(nil)},
		&stubArtistSource{artists: []*artists.RankedArtist{
			rankedArtist(1, "Alpha", 1),
			rankedArtist(2, "Beta", 2),
			rankedArtist(3, "Gamma", 3),
		}},
		searcher,
		testLogger(),
	)

	result, err := service.AggregateForUser(context.Background(), "sp-user", AggregateOptions{})

	require.NoError(t, err)
	require.Len(t, result.Results, 3)

	failed := result.Results[1]
	assert.NotEmpty(t, failed.Error)
	assert.Contains(t, failed.Error, "rate limit exceeded")
	assert.NotNil(t, failed.Events)
	assert.Empty(t, failed.Events)

	assert.Empty(t, result.Results[0].Error)
	assert.Empty(t, result.Results[2].Error)

	// Failed branch contributes nothing to the totals.
	assert.Equal(t, 3, result.ArtistCount)
	assert.Equal(t, 3, result.TotalEvents)
}

/*
TestAggregateForUser_Clamping verifies the bounds applied to the two
fan-out knobs: events per artist (default 3, max 10) and artist count
(default 5, max 20).
*/
func TestAggregateForUser_Clamping(t *testing.T) {
	manyArtists := make([]*artists.RankedArtist, 25)
	for i := range manyArtists {
		manyArtists[i] = rankedArtist(int64(i+1), "Artist", i+1)
	}

	tests := []struct {
		name            string
		opts            AggregateOptions
		expectedSize    int
		expectedArtists int
	}{
		{"defaults", AggregateOptions{}, 3, 5},
		{"negative_values", AggregateOptions{EventsPerArtist: -2, ArtistLimit: -1}, 3, 5},
		{"above_max", AggregateOptions{EventsPerArtist: 99, ArtistLimit: 99}, 10, 20},
		{"in_range", AggregateOptions{EventsPerArtist: 7, ArtistLimit: 2}, 7, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			searcher := &stubSearcher{}
			service := NewService(
				&stubUserResolver{user: testUser(nil)},
				&stubArtistSource{artists: manyArtists},
				searcher,
				testLogger(),
			)

			result, err := service.AggregateForUser(context.Background(), "sp-user", tt.opts)
			require.NoError(t, err)

			assert.Len(t, searcher.calls, tt.expectedArtists)
			assert.Equal(t, tt.expectedArtists, result.ArtistCount)
			for _, opts := range searcher.opts {
				assert.Equal(t, tt.expectedSize, opts.Size)
			}
		})
	}
}

/*
TestAggregateForUser_CountryResolution verifies the filter precedence:
explicit override, then the user's stored country, then none. Codes are
always upper-cased.
*/
func TestAggregateForUser_CountryResolution(t *testing.T) {
	userCountry := "de"

	tests := []struct {
		name        string
		override    string
		userCountry *string
		expected    string
		resultCode  *string
	}{
		{"override_wins", "us", &userCountry, "US", strPtr("US")},
		{"user_country_fallback", "", &userCountry, "DE", strPtr("DE")},
		{"no_filter", "", nil, "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			searcher := &stubSearcher{}
			service := NewService(
				&stubUserResolver{user: testUser(tt.userCountry)},
				&stubArtistSource{artists: []*artists.RankedArtist{rankedArtist(1, "Alpha", 1)}},
				searcher,
				testLogger(),
			)

			result, err := service.AggregateForUser(context.Background(), "sp-user", AggregateOptions{
				CountryCode: tt.override,
			})
			require.NoError(t, err)

			require.Len(t, searcher.opts, 1)
			assert.Equal(t, tt.expected, searcher.opts[0].CountryCode)

			if tt.resultCode == nil {
				assert.Nil(t, result.CountryCode)
			} else {
				require.NotNil(t, result.CountryCode)
				assert.Equal(t, *tt.resultCode, *result.CountryCode)
			}
		})
	}
}

/*
TestAggregateForUser_InvalidCountry verifies that an unrecognizable country
filter is rejected up front.
*/
func TestAggregateForUser_InvalidCountry(t *testing.T) {
	service := NewService(
		&stubUserResolver{user: testUser(nil)},
		&stubArtistSource{},
		&stubSearcher{},
		testLogger(),
	)

	result, err := service.AggregateForUser(context.Background(), "sp-user", AggregateOptions{
		CountryCode: "not-a-country",
	})

	assert.Nil(t, result)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "VALIDATION_ERROR", ae.Code)
}

/*
TestAggregateForUser_MissingAPIKey verifies that an unconfigured provider
key aborts the whole request as a configuration error instead of producing
per-artist error groups.
*/
func TestAggregateForUser_MissingAPIKey(t *testing.T) {
	searcher := &stubSearcher{byArtist: map[string]func() ([]Event, error){
		"Alpha": func() ([]Event, error) { return nil, ErrMissingAPIKey },
		"Beta":  func() ([]Event, error) { return nil, ErrMissingAPIKey },
	}}

	service := NewService(
		&stubUserResolver{user: testUser(nil)},
		&stubArtistSource{artists: []*artists.RankedArtist{
			rankedArtist(1, "Alpha", 1),
			rankedArtist(2, "Beta", 2),
		}},
		searcher,
		testLogger(),
	)

	result, err := service.AggregateForUser(context.Background(), "sp-user", AggregateOptions{})

	assert.Nil(t, result)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "CONFIGURATION_ERROR", ae.Code)
}
