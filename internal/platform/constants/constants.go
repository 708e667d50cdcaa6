// Copyright (c) 2026 Concert Companion. All rights reserved.

/*
Package constants provides centralized, immutable values for the entire platform.

It defines default timeouts, rate limits, clamping bounds, and cross-cutting
keys that are shared between different layers of the system.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: Burst capacities and IP tracking TTLs.
  - Concert Search: Default and maximum fan-out sizes.
  - Security: JWT issuer and session token lifetime.

Using this package ensures Magic Strings and Magic Numbers are eliminated
from the business logic.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "concert-companion-api"
	AppVersion = "1.0.0"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 30 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	// It must leave room for a full concert fan-out against a slow provider.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP.
	DefaultRateLimitRPS = 100.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 150

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # Concert Search

const (
	// DefaultEventsPerArtist is the events fetched per artist when the caller
	// supplies no limit or an out-of-range one.
	DefaultEventsPerArtist = 3

	// MaxEventsPerArtist is the hard cap on events fetched per artist.
	MaxEventsPerArtist = 10

	// DefaultArtistLimit is the number of top artists considered by default.
	DefaultArtistLimit = 5

	// MaxArtistLimit bounds the concurrent fan-out against the event provider.
	MaxArtistLimit = 20

	// TopArtistSnapshotSize is how many artists we pull from Spotify when
	// refreshing a user's ranked snapshot.
	TopArtistSnapshotSize = 20
)

// # Authentication

const (
	// AuthIssuer is the standard 'iss' claim in session JWTs.
	AuthIssuer = "concert-companion"

	// SessionTokenTTL is the lifetime of an issued session token.
	SessionTokenTTL = 24 * time.Hour

	// AuthCodeLatchTTL is how long a consumed Spotify authorization code stays
	// latched in Redis. Codes are single-use upstream; the latch only needs to
	// outlive duplicate in-flight callbacks.
	AuthCodeLatchTTL = 10 * time.Minute
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
	HeaderAuthorization = "Authorization"
)

// # JSON Field Identifiers

const (
	FieldError   = "error"
	FieldCode    = "code"
	FieldMessage = "message"
	FieldStatus  = "status"
	FieldChecks  = "checks"
)

// # Redis Prefixes (Cache Taxonomy)

const (
	RedisPrefixAuthCodeLatch = "auth:code_latch:"
)
