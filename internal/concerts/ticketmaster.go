// Copyright (c) 2026 Concert Companion. All rights reserved.

package concerts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	ticketmasterBaseURL = "https://app.ticketmaster.com/discovery/v2"

	// searchTimeout bounds a single Discovery API call, including body read.
	searchTimeout = 10 * time.Second

	defaultSearchSize = 5
)

// ErrMissingAPIKey is returned when the client was constructed without a
// Discovery API key. It signals a deployment problem, not a search failure,
// and callers treat it as fatal for the whole request.
var ErrMissingAPIKey = errors.New("ticketmaster API key is not configured")

// SearchError describes a failed event search for a single artist. It covers
// transport failures and non-success provider responses alike.
type SearchError struct {
	Artist  string
	Message string
}

func (e *SearchError) Error() string {
	return fmt.Sprintf("failed to fetch concerts for %s: %s", e.Artist, e.Message)
}

// SearchOptions tunes a single event search.
type SearchOptions struct {
	// Size is the maximum number of events to request. Zero or negative
	// falls back to the provider default of 5.
	Size int

	// CountryCode optionally restricts results to one ISO 3166-1 alpha-2
	// country. Empty means worldwide.
	CountryCode string
}

// TicketmasterClient searches the Ticketmaster Discovery API for upcoming
// music events and normalizes them into the canonical [Event] shape.
type TicketmasterClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewTicketmasterClient builds a Discovery API client. An empty apiKey is
// accepted so the server can boot without one; searches then fail with
// [ErrMissingAPIKey] until the key is provided.
func NewTicketmasterClient(apiKey string, logger *slog.Logger) *TicketmasterClient {
	return &TicketmasterClient{
		baseURL: ticketmasterBaseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: searchTimeout,
		},
		logger: logger,
	}
}

// SearchEvents returns upcoming music events for one artist, soonest first.
//
// # Behavior
//
//   - An empty or whitespace-only artist name returns an empty slice without
//     contacting the provider.
//   - A provider 404 means "no events" and returns an empty slice, not an
//     error.
//   - Any other failure returns a [*SearchError] naming the artist.
func (client *TicketmasterClient) SearchEvents(ctx context.Context, artistName string, opts SearchOptions) ([]Event, error) {
	if client.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	artistName = strings.TrimSpace(artistName)
	if artistName == "" {
		return []Event{}, nil
	}

	size := opts.Size
	if size <= 0 {
		size = defaultSearchSize
	}

	query := url.Values{}
	query.Set("apikey", client.apiKey)
	query.Set("keyword", artistName)
	query.Set("size", strconv.Itoa(size))
	query.Set("sort", "date,asc")
	query.Set("segmentName", "Music")
	query.Set("locale", "*")
	if opts.CountryCode != "" {
		query.Set("countryCode", opts.CountryCode)
	}

	endpoint := client.baseURL + "/events.json?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &SearchError{Artist: artistName, Message: err.Error()}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.httpClient.Do(req)
	if err != nil {
		return nil, &SearchError{Artist: artistName, Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return []Event{}, nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &SearchError{Artist: artistName, Message: err.Error()}
	}

	if resp.StatusCode != http.StatusOK {
		message := providerErrorMessage(body)
		if message == "" {
			message = fmt.Sprintf("ticketmaster responded with status %d", resp.StatusCode)
		}

		client.logger.Warn("ticketmaster search failed",
			slog.String("artist", artistName),
			slog.Int("status", resp.StatusCode),
			slog.String("provider_message", message),
		)

		return nil, &SearchError{Artist: artistName, Message: message}
	}

	var payload tmEventsResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &SearchError{Artist: artistName, Message: "invalid response body: " + err.Error()}
	}

	if payload.Embedded == nil || len(payload.Embedded.Events) == 0 {
		return []Event{}, nil
	}

	events := make([]Event, 0, len(payload.Embedded.Events))
	for _, raw := range payload.Embedded.Events {
		events = append(events, normalizeEvent(raw))
	}

	return events, nil
}

// tmErrorResponse covers the two error body shapes the Discovery API emits.
type tmErrorResponse struct {
	Fault *struct {
		FaultString string `json:"faultstring"`
	} `json:"fault"`
	Message string `json:"message"`
}

// providerErrorMessage extracts the most specific error description from a
// non-success provider body. The gateway faultstring wins over the generic
// message field.
func providerErrorMessage(body []byte) string {
	var parsed tmErrorResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return ""
	}

	if parsed.Fault != nil && parsed.Fault.FaultString != "" {
		return parsed.Fault.FaultString
	}

	return parsed.Message
}
