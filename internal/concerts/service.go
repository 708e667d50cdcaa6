// Copyright (c) 2026 Concert Companion. All rights reserved.

package concerts

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/landonnguyen77/Concert-Companion/internal/artists"
	"github.com/landonnguyen77/Concert-Companion/internal/platform/apperr"
	"github.com/landonnguyen77/Concert-Companion/internal/platform/constants"
	"github.com/landonnguyen77/Concert-Companion/internal/platform/ctxutil"
	"github.com/landonnguyen77/Concert-Companion/internal/platform/dberr"
	"github.com/landonnguyen77/Concert-Companion/internal/platform/validate"
	"github.com/landonnguyen77/Concert-Companion/internal/users"
)

// EventSearcher finds upcoming events for a single artist.
type EventSearcher interface {
	SearchEvents(ctx context.Context, artistName string, opts SearchOptions) ([]Event, error)
}

// UserResolver maps a Spotify identity to a stored account.
type UserResolver interface {
	GetBySpotifyID(ctx context.Context, spotifyID string) (*users.User, error)
}

// ArtistSource supplies a user's ranked top-artist snapshot.
type ArtistSource interface {
	ListByUser(ctx context.Context, userID int64) ([]*artists.RankedArtist, error)
}

// Service orchestrates the concert aggregation pipeline.
type Service struct {
	users    UserResolver
	artists  ArtistSource
	searcher EventSearcher
	logger   *slog.Logger
}

// NewService constructs the aggregation service.
func NewService(userResolver UserResolver, artistSource ArtistSource, searcher EventSearcher, logger *slog.Logger) *Service {
	return &Service{
		users:    userResolver,
		artists:  artistSource,
		searcher: searcher,
		logger:   logger,
	}
}

// AggregateOptions tunes one aggregation request. Out-of-range values are
// clamped, never rejected.
type AggregateOptions struct {
	// EventsPerArtist is how many events to fetch per artist (1..10, default 3).
	EventsPerArtist int

	// ArtistLimit is how many top-ranked artists to query (1..20, default 5).
	ArtistLimit int

	// CountryCode overrides the user's stored country filter when set.
	CountryCode string
}

// AggregateForUser fans out one event search per stored top artist and folds
// the answers into a single [AggregationResult].
//
// # Isolation
//
// Each artist search runs in its own goroutine and fails independently: a
// provider error for one artist yields a group carrying that error while the
// siblings keep their events. Only a missing API key aborts the whole request.
//
// # Ordering
//
// Results always follow the stored rank order, regardless of which search
// finished first.
func (service *Service) AggregateForUser(ctx context.Context, spotifyID string, opts AggregateOptions) (*AggregationResult, error) {
	v := &validate.Validator{}
	v.Required("spotifyId", spotifyID).
		CountryCode("countryCode", opts.CountryCode)
	if err := v.Err(); err != nil {
		return nil, err
	}

	eventsPerArtist := clamp(opts.EventsPerArtist, constants.DefaultEventsPerArtist, constants.MaxEventsPerArtist)
	artistLimit := clamp(opts.ArtistLimit, constants.DefaultArtistLimit, constants.MaxArtistLimit)

	user, err := service.users.GetBySpotifyID(ctx, spotifyID)
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

	countryCode := resolveCountry(opts.CountryCode, user.Country)

	if len(ranked) == 0 {
		return &AggregationResult{
			GeneratedAt: time.Now().UTC(),
			CountryCode: countryCode,
			Results:     []ArtistConcertGroup{},
		}, nil
	}

	if len(ranked) > artistLimit {
		ranked = ranked[:artistLimit]
	}

	searchOpts := SearchOptions{Size: eventsPerArtist}
	if countryCode != nil {
		searchOpts.CountryCode = *countryCode
	}

	// Each goroutine writes only its own slot, so no mutex is needed and the
	// rank order survives out-of-order completion.
	groups := make([]ArtistConcertGroup, len(ranked))
	searchErrs := make([]error, len(ranked))

	var wg sync.WaitGroup
	for i, artist := range ranked {
		wg.Add(1)
		go func(slot int, artist *artists.RankedArtist) {
			defer wg.Done()

			group := ArtistConcertGroup{
				Artist: ArtistSummary{
					ID:        artist.ID,
					Name:      artist.Name,
					SpotifyID: artist.SpotifyID,
					Rank:      artist.Rank,
					ImageURL:  artist.ImageURL,
				},
				Events: []Event{},
			}

			events, err := service.searcher.SearchEvents(ctx, artist.Name, searchOpts)
			if err != nil {
				searchErrs[slot] = err
				group.Error = err.Error()
			} else if events != nil {
				group.Events = events
			}

			groups[slot] = group
		}(i, artist)
	}
	wg.Wait()

	logger := ctxutil.GetLogger(ctx)

	totalEvents := 0
	failed := 0
	for i, group := range groups {
		if searchErrs[i] != nil {
			// A missing provider key fails every branch identically; report
			// it once as a request-fatal configuration problem.
			if errors.Is(searchErrs[i], ErrMissingAPIKey) {
				return nil, apperr.Configuration(
					"Concert search is not configured on this server", ErrMissingAPIKey,
				)
			}

			failed++
			logger.Warn("artist search failed",
				slog.String("artist", group.Artist.Name),
				slog.String("error", searchErrs[i].Error()),
			)
			continue
		}
		totalEvents += len(group.Events)
	}

	logger.Info("concert aggregation complete",
		slog.String("spotify_id", spotifyID),
		slog.Int("artists_queried", len(groups)),
		slog.Int("artists_failed", failed),
		slog.Int("total_events", totalEvents),
	)

	return &AggregationResult{
		GeneratedAt: time.Now().UTC(),
		CountryCode: countryCode,
		ArtistCount: len(groups),
		TotalEvents: totalEvents,
		Results:     groups,
	}, nil
}

// clamp normalizes a caller-supplied bound: zero or negative falls back to the
// default, anything above max is capped.
func clamp(value, fallback, max int) int {
	if value <= 0 {
		return fallback
	}
	if value > max {
		return max
	}
	return value
}

// resolveCountry picks the effective country filter: an explicit override
// wins, then the user's stored country, then none. The result is always
// upper-cased ISO alpha-2.
func resolveCountry(override string, userCountry *string) *string {
	if override != "" {
		code := strings.ToUpper(override)
		return &code
	}
	if userCountry != nil && *userCountry != "" {
		code := strings.ToUpper(*userCountry)
		return &code
	}
	return nil
}
