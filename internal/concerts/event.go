// Copyright (c) 2026 Concert Companion. All rights reserved.

// Package concerts implements the artist-to-concert aggregation pipeline:
// it cross-references a user's stored top artists with the Ticketmaster
// Discovery API and assembles the grouped, best-effort result.
package concerts

import "time"

// Event is the canonical concert record, independent of the provider's raw
// schema.
//
// # Null Contract
//
// Every field the provider did not supply is encoded as JSON null, never
// omitted and never defaulted to an empty string, so downstream consumers can
// distinguish "unknown" from "empty". None of the fields carry omitempty.
type Event struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	URL             string           `json:"url"`
	Date            *string          `json:"date"`
	SaleWindow      SaleWindow       `json:"saleWindow"`
	Status          *string          `json:"status"`
	ImageURL        *string          `json:"imageUrl"`
	Price           Price            `json:"price"`
	Venue           Venue            `json:"venue"`
	Classifications []Classification `json:"classifications"`
}

// SaleWindow is the public ticket sale period, when announced.
type SaleWindow struct {
	Start *string `json:"start"`
	End   *string `json:"end"`
}

// Price is the provider's first advertised price range.
//
// Currency is never assumed: a price with no currency keeps Currency null.
type Price struct {
	Min      *float64 `json:"min"`
	Max      *float64 `json:"max"`
	Currency *string  `json:"currency"`
}

// Venue describes where the event takes place.
type Venue struct {
	Name      *string  `json:"name"`
	City      *string  `json:"city"`
	State     *string  `json:"state"`
	Country   *string  `json:"country"`
	Address   *string  `json:"address"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// Classification is one genre/subGenre/segment triple; each member is
// independently nullable.
type Classification struct {
	Genre    *string `json:"genre"`
	SubGenre *string `json:"subGenre"`
	Segment  *string `json:"segment"`
}

// ArtistSummary is the slice of a stored ranked artist echoed back in each
// concert group.
type ArtistSummary struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	SpotifyID string  `json:"spotifyId"`
	Rank      int     `json:"rank"`
	ImageURL  *string `json:"imageUrl"`
}

// ArtistConcertGroup pairs one ranked artist with the events found for it.
//
// Events is empty whenever Error is set: a failed search yields no partial
// results for that artist, but does not affect sibling artists.
type ArtistConcertGroup struct {
	Artist ArtistSummary `json:"artist"`
	Events []Event       `json:"events"`
	Error  string        `json:"error,omitempty"`
}

// AggregationResult is the top-level response of the aggregation pipeline.
//
// Results preserves the rank order of the queried artists regardless of which
// search settled first.
type AggregationResult struct {
	GeneratedAt time.Time            `json:"generatedAt"`
	CountryCode *string              `json:"countryCode"`
	ArtistCount int                  `json:"artistCount"`
	TotalEvents int                  `json:"totalEvents"`
	Results     []ArtistConcertGroup `json:"results"`
}
