// Copyright (c) 2026 Concert Companion. All rights reserved.

package concerts

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/*
TestNormalizeEvent_DateResolution verifies the start date fallback chain:
full dateTime first, then localDate joined with localTime, then nothing.
*/
func TestNormalizeEvent_DateResolution(t *testing.T) {
	tests := []struct {
		name     string
		dates    *tmDates
		expected *string
	}{
		{
			"datetime_wins",
			&tmDates{Start: &struct {
				LocalDate string `json:"localDate"`
				LocalTime string `json:"localTime"`
				DateTime  string `json:"dateTime"`
			}{LocalDate: "2026-09-01", LocalTime: "20:00:00", DateTime: "2026-09-01T20:00:00Z"}},
			strPtr("2026-09-01T20:00:00Z"),
		},
		{
			"local_date_and_time_composed",
			&tmDates{Start: &struct {
				LocalDate string `json:"localDate"`
				LocalTime string `json:"localTime"`
				DateTime  string `json:"dateTime"`
			}{LocalDate: "2026-09-01", LocalTime: "20:00:00"}},
			strPtr("2026-09-01T20:00:00"),
		},
		{
			"local_date_only",
			&tmDates{Start: &struct {
				LocalDate string `json:"localDate"`
				LocalTime string `json:"localTime"`
				DateTime  string `json:"dateTime"`
			}{LocalDate: "2026-09-01"}},
			strPtr("2026-09-01"),
		},
		{"no_start_block", &tmDates{}, nil},
		{"no_dates_at_all", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := normalizeEvent(tmEvent{ID: "e1", Dates: tt.dates})

			if tt.expected == nil {
				assert.Nil(t, event.Date)
			} else {
				require.NotNil(t, event.Date)
				assert.Equal(t, *tt.expected, *event.Date)
			}
		})
	}
}

/*
TestNormalizeEvent_ImageSelection verifies that the first image at least
640px wide is preferred, with the first image as fallback.
*/
func TestNormalizeEvent_ImageSelection(t *testing.T) {
	tests := []struct {
		name     string
		images   []tmImage
		expected *string
	}{
		{
			"first_wide_image_wins",
			[]tmImage{
				{URL: "small.jpg", Width: 100},
				{URL: "wide-a.jpg", Width: 640},
				{URL: "wide-b.jpg", Width: 1024},
			},
			strPtr("wide-a.jpg"),
		},
		{
			"fallback_to_first_when_none_wide",
			[]tmImage{
				{URL: "small-a.jpg", Width: 100},
				{URL: "small-b.jpg", Width: 200},
			},
			strPtr("small-a.jpg"),
		},
		{"no_images", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := normalizeEvent(tmEvent{ID: "e1", Images: tt.images})

			if tt.expected == nil {
				assert.Nil(t, event.ImageURL)
			} else {
				require.NotNil(t, event.ImageURL)
				assert.Equal(t, *tt.expected, *event.ImageURL)
			}
		})
	}
}

/*
TestNormalizeEvent_Price verifies that only the first price range is read
and each of min/max/currency degrades to nil independently.
*/
func TestNormalizeEvent_Price(t *testing.T) {
	t.Run("first_range_wins", func(t *testing.T) {
		event := normalizeEvent(tmEvent{PriceRanges: []tmPriceRange{
			{Currency: "USD", Min: floatPtr(25), Max: floatPtr(120)},
			{Currency: "EUR", Min: floatPtr(99), Max: floatPtr(999)},
		}})

		require.NotNil(t, event.Price.Min)
		assert.Equal(t, 25.0, *event.Price.Min)
		require.NotNil(t, event.Price.Max)
		assert.Equal(t, 120.0, *event.Price.Max)
		require.NotNil(t, event.Price.Currency)
		assert.Equal(t, "USD", *event.Price.Currency)
	})

	t.Run("partial_range", func(t *testing.T) {
		event := normalizeEvent(tmEvent{PriceRanges: []tmPriceRange{
			{Currency: "GBP"},
		}})

		assert.Nil(t, event.Price.Min)
		assert.Nil(t, event.Price.Max)
		require.NotNil(t, event.Price.Currency)
		assert.Equal(t, "GBP", *event.Price.Currency)
	})

	t.Run("no_ranges", func(t *testing.T) {
		event := normalizeEvent(tmEvent{})

		assert.Nil(t, event.Price.Min)
		assert.Nil(t, event.Price.Max)
		assert.Nil(t, event.Price.Currency)
	})
}

/*
TestNormalizeEvent_Venue verifies flattening of the first embedded venue,
the state-name-over-code preference, and coordinate parsing.
*/
func TestNormalizeEvent_Venue(t *testing.T) {
	raw := tmEvent{Embedded: &struct {
		Venues []tmVenue `json:"venues"`
	}{Venues: []tmVenue{
		{
			Name: "Red Rocks Amphitheatre",
			City: &struct {
				Name string `json:"name"`
			}{Name: "Morrison"},
			State: &struct {
				Name      string `json:"name"`
				StateCode string `json:"stateCode"`
			}{Name: "Colorado", StateCode: "CO"},
			Country: &struct {
				CountryCode string `json:"countryCode"`
			}{CountryCode: "US"},
			Address: &struct {
				Line1 string `json:"line1"`
			}{Line1: "18300 W Alameda Pkwy"},
			Location: &struct {
				Latitude  string `json:"latitude"`
				Longitude string `json:"longitude"`
			}{Latitude: "39.665278", Longitude: "-105.205278"},
		},
		{Name: "Second Venue Ignored"},
	}}}

	event := normalizeEvent(raw)

	require.NotNil(t, event.Venue.Name)
	assert.Equal(t, "Red Rocks Amphitheatre", *event.Venue.Name)
	require.NotNil(t, event.Venue.City)
	assert.Equal(t, "Morrison", *event.Venue.City)
	require.NotNil(t, event.Venue.State)
	assert.Equal(t, "Colorado", *event.Venue.State)
	require.NotNil(t, event.Venue.Country)
	assert.Equal(t, "US", *event.Venue.Country)
	require.NotNil(t, event.Venue.Address)
	assert.Equal(t, "18300 W Alameda Pkwy", *event.Venue.Address)
	require.NotNil(t, event.Venue.Latitude)
	assert.InDelta(t, 39.665278, *event.Venue.Latitude, 1e-9)
	require.NotNil(t, event.Venue.Longitude)
	assert.InDelta(t, -105.205278, *event.Venue.Longitude, 1e-9)
}

/*
TestNormalizeEvent_Venue_Degraded covers missing venues, the state-code
fallback, and malformed coordinates.
*/
func TestNormalizeEvent_Venue_Degraded(t *testing.T) {
	t.Run("no_venue", func(t *testing.T) {
		event := normalizeEvent(tmEvent{})

		assert.Nil(t, event.Venue.Name)
		assert.Nil(t, event.Venue.City)
		assert.Nil(t, event.Venue.State)
		assert.Nil(t, event.Venue.Country)
		assert.Nil(t, event.Venue.Address)
		assert.Nil(t, event.Venue.Latitude)
		assert.Nil(t, event.Venue.Longitude)
	})

	t.Run("state_code_fallback", func(t *testing.T) {
		event := normalizeEvent(tmEvent{Embedded: &struct {
			Venues []tmVenue `json:"venues"`
		}{Venues: []tmVenue{{
			State: &struct {
				Name      string `json:"name"`
				StateCode string `json:"stateCode"`
			}{StateCode: "TX"},
		}}}})

		require.NotNil(t, event.Venue.State)
		assert.Equal(t, "TX", *event.Venue.State)
	})

	t.Run("malformed_coordinates", func(t *testing.T) {
		event := normalizeEvent(tmEvent{Embedded: &struct {
			Venues []tmVenue `json:"venues"`
		}{Venues: []tmVenue{{
			Location: &struct {
				Latitude  string `json:"latitude"`
				Longitude string `json:"longitude"`
			}{Latitude: "not-a-number", Longitude: ""},
		}}}})

		assert.Nil(t, event.Venue.Latitude)
		assert.Nil(t, event.Venue.Longitude)
	})
}

/*
TestNormalizeEvent_Classifications verifies that every entry is mapped and
the slice is never nil.
*/
func TestNormalizeEvent_Classifications(t *testing.T) {
	t.Run("all_entries_mapped", func(t *testing.T) {
		event := normalizeEvent(tmEvent{Classifications: []tmClassification{
			{
				Segment:  &tmNamed{Name: "Music"},
				Genre:    &tmNamed{Name: "Rock"},
				SubGenre: &tmNamed{Name: "Indie"},
			},
			{Genre: &tmNamed{Name: "Pop"}},
		}})

		require.Len(t, event.Classifications, 2)

		first := event.Classifications[0]
		require.NotNil(t, first.Segment)
		assert.Equal(t, "Music", *first.Segment)
		require.NotNil(t, first.Genre)
		assert.Equal(t, "Rock", *first.Genre)
		require.NotNil(t, first.SubGenre)
		assert.Equal(t, "Indie", *first.SubGenre)

		second := event.Classifications[1]
		assert.Nil(t, second.Segment)
		require.NotNil(t, second.Genre)
		assert.Equal(t, "Pop", *second.Genre)
		assert.Nil(t, second.SubGenre)
	})

	t.Run("empty_marshals_as_array", func(t *testing.T) {
		event := normalizeEvent(tmEvent{ID: "e1"})
		require.NotNil(t, event.Classifications)

		raw, err := json.Marshal(event)
		require.NoError(t, err)
		assert.Contains(t, string(raw), `"classifications":[]`)
	})
}

/*
TestNormalizeEvent_NullContract verifies that unknown fields marshal as
explicit JSON nulls rather than being omitted.
*/
func TestNormalizeEvent_NullContract(t *testing.T) {
	event := normalizeEvent(tmEvent{ID: "bare", Name: "Bare Event", URL: "https://tm.example/e/bare"})

	raw, err := json.Marshal(event)
	require.NoError(t, err)

	payload := string(raw)
	assert.Contains(t, payload, `"date":null`)
	assert.Contains(t, payload, `"status":null`)
	assert.Contains(t, payload, `"imageUrl":null`)
	assert.Contains(t, payload, `"saleWindow":{"start":null,"end":null}`)
	assert.Contains(t, payload, `"price":{"min":null,"max":null,"currency":null}`)
	assert.Contains(t, payload, `"latitude":null`)
}

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }
