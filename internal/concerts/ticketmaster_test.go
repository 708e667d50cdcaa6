// Copyright (c) 2026 Concert Companion. All rights reserved.

package concerts

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*TicketmasterClient, *atomic.Int32) {
	t.Helper()

	calls := &atomic.Int32{}
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		calls.Add(1)
		handler(writer, request)
	}))
	t.Cleanup(server.Close)

	client := NewTicketmasterClient("test-key", slog.New(slog.NewTextHandler(io.Discard, nil)))
	client.baseURL = server.URL
	return client, calls
}

/*
TestSearchEvents_MissingAPIKey verifies the configuration sentinel is
returned without any network traffic.
*/
func TestSearchEvents_MissingAPIKey(t *testing.T) {
	client := NewTicketmasterClient("", slog.New(slog.NewTextHandler(io.Discard, nil)))

	events, err := client.SearchEvents(context.Background(), "Big Thief", SearchOptions{})

	assert.Nil(t, events)
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

/*
TestSearchEvents_EmptyArtistName verifies that blank names short-circuit to
an empty result without contacting the provider.
*/
func TestSearchEvents_EmptyArtistName(t *testing.T) {
	client, calls := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
		writer.Write([]byte(`{}`))
	})

	for _, name := range []string{"", "   "} {
		events, err := client.SearchEvents(context.Background(), name, SearchOptions{})

		require.NoError(t, err)
		assert.Empty(t, events)
		assert.NotNil(t, events)
	}

	assert.Equal(t, int32(0), calls.Load())
}

/*
TestSearchEvents_QueryParameters verifies the fixed Discovery API query
contract: music segment, ascending date sort, wildcard locale, and the
optional country filter.
*/
func TestSearchEvents_QueryParameters(t *testing.T) {
	var captured map[string]string

	client, _ := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
		query := request.URL.Query()
		captured = map[string]string{
			"apikey":      query.Get("apikey"),
			"keyword":     query.Get("keyword"),
			"size":        query.Get("size"),
			"sort":        query.Get("sort"),
			"segmentName": query.Get("segmentName"),
			"locale":      query.Get("locale"),
			"countryCode": query.Get("countryCode"),
		}
		writer.Write([]byte(`{}`))
	})

	t.Run("defaults", func(t *testing.T) {
		_, err := client.SearchEvents(context.Background(), "Big Thief", SearchOptions{})
		require.NoError(t, err)

		assert.Equal(t, "test-key", captured["apikey"])
		assert.Equal(t, "Big Thief", captured["keyword"])
		assert.Equal(t, "5", captured["size"])
		assert.Equal(t, "date,asc", captured["sort"])
		assert.Equal(t, "Music", captured["segmentName"])
		assert.Equal(t, "*", captured["locale"])
		assert.Empty(t, captured["countryCode"])
	})

	t.Run("explicit_options", func(t *testing.T) {
		_, err := client.SearchEvents(context.Background(), "Big Thief", SearchOptions{Size: 8, CountryCode: "DE"})
		require.NoError(t, err)

		assert.Equal(t, "8", captured["size"])
		assert.Equal(t, "DE", captured["countryCode"])
	})
}

/*
TestSearchEvents_Success verifies decoding and normalization of a realistic
provider payload.
*/
func TestSearchEvents_Success(t *testing.T) {
	payload := `{
		"_embedded": {
			"events": [
				{
					"id": "ev-1",
					"name": "Big Thief Live",
					"url": "https://tm.example/ev-1",
					"dates": {"start": {"dateTime": "2026-09-12T19:30:00Z"}, "status": {"code": "onsale"}},
					"images": [{"url": "wide.jpg", "width": 1024}],
					"priceRanges": [{"currency": "USD", "min": 35, "max": 95}]
				},
				{
					"id": "ev-2",
					"name": "Big Thief Acoustic",
					"url": "https://tm.example/ev-2"
				}
			]
		}
	}`

	client, _ := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
		writer.Write([]byte(payload))
	})

	events, err := client.SearchEvents(context.Background(), "Big Thief", SearchOptions{})
	require.NoError(t, err)
	require.Len(t, events, 2)

	first := events[0]
	assert.Equal(t, "ev-1", first.ID)
	require.NotNil(t, first.Date)
	assert.Equal(t, "2026-09-12T19:30:00Z", *first.Date)
	require.NotNil(t, first.Status)
	assert.Equal(t, "onsale", *first.Status)
	require.NotNil(t, first.ImageURL)
	assert.Equal(t, "wide.jpg", *first.ImageURL)
	require.NotNil(t, first.Price.Min)
	assert.Equal(t, 35.0, *first.Price.Min)

	// Sparse events still normalize with explicit nulls.
	second := events[1]
	assert.Equal(t, "ev-2", second.ID)
	assert.Nil(t, second.Date)
	assert.Nil(t, second.ImageURL)
}

/*
TestSearchEvents_NotFound verifies that a provider 404 means "no events",
not an error.
*/
func TestSearchEvents_NotFound(t *testing.T) {
	client, _ := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusNotFound)
	})

	events, err := client.SearchEvents(context.Background(), "Obscure Band", SearchOptions{})

	require.NoError(t, err)
	assert.NotNil(t, events)
	assert.Empty(t, events)
}

/*
TestSearchEvents_NoEmbeddedBlock verifies that a 200 with no _embedded
section yields an empty, non-nil slice.
*/
func TestSearchEvents_NoEmbeddedBlock(t *testing.T) {
	client, _ := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
		writer.Write([]byte(`{"page": {"totalElements": 0}}`))
	})

	events, err := client.SearchEvents(context.Background(), "Big Thief", SearchOptions{})

	require.NoError(t, err)
	assert.NotNil(t, events)
	assert.Empty(t, events)
}

/*
TestSearchEvents_ProviderErrors verifies the error message preference:
gateway faultstring, then message field, then a status fallback.
*/
func TestSearchEvents_ProviderErrors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		expected string
	}{
		{
			"faultstring_preferred",
			http.StatusUnauthorized,
			`{"fault": {"faultstring": "Invalid ApiKey"}, "message": "generic"}`,
			"Invalid ApiKey",
		},
		{
			"message_fallback",
			http.StatusBadRequest,
			`{"message": "Bad request parameters"}`,
			"Bad request parameters",
		},
		{
			"status_fallback_on_unparseable_body",
			http.StatusInternalServerError,
			`<html>oops</html>`,
			"ticketmaster responded with status 500",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
				writer.WriteHeader(tt.status)
				writer.Write([]byte(tt.body))
			})

			events, err := client.SearchEvents(context.Background(), "Big Thief", SearchOptions{})

			assert.Nil(t, events)
			require.Error(t, err)

			var searchErr *SearchError
			require.ErrorAs(t, err, &searchErr)
			assert.Equal(t, "Big Thief", searchErr.Artist)
			assert.Equal(t, tt.expected, searchErr.Message)
		})
	}
}

/*
TestSearchEvents_TransportError verifies that an unreachable provider
surfaces as a SearchError naming the artist.
*/
func TestSearchEvents_TransportError(t *testing.T) {
	client := NewTicketmasterClient("test-key", slog.New(slog.NewTextHandler(io.Discard, nil)))
	client.baseURL = "http://127.0.0.1:1"

	events, err := client.SearchEvents(context.Background(), "Big Thief", SearchOptions{})

	assert.Nil(t, events)

	var searchErr *SearchError
	require.ErrorAs(t, err, &searchErr)
	assert.Equal(t, "Big Thief", searchErr.Artist)
}
