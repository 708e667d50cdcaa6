// Copyright (c) 2026 Concert Companion. All rights reserved.

package middleware

import (
	"net/http"
	"strings"

	"github.com/landonnguyen77/Concert-Companion/internal/platform/constants"
	"github.com/landonnguyen77/Concert-Companion/internal/platform/ctxutil"
	"github.com/landonnguyen77/Concert-Companion/internal/platform/sec"
)

// TokenVerifier defines the contract for validating session tokens.
type TokenVerifier interface {
	VerifyToken(tokenString string) (*sec.SessionClaims, error)
}

// Authenticate parses an optional Bearer token and, when valid, attaches the
// session claims to the request context.
//
// It never rejects a request on its own since most endpoints are public.
// Guarded endpoints opt in with [RequireSession].
func Authenticate(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			header := request.Header.Get(constants.HeaderAuthorization)
			if header == "" {
				next.ServeHTTP(writer, request)
				return
			}

			token, found := strings.CutPrefix(header, "Bearer ")
			if !found || token == "" {
				next.ServeHTTP(writer, request)
				return
			}

			claims, err := verifier.VerifyToken(token)
			if err != nil {
				// Invalid tokens are ignored, not fatal; the request simply
				// proceeds unauthenticated.
				next.ServeHTTP(writer, request)
				return
			}

			ctx := ctxutil.WithSession(request.Context(), claims)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireSession rejects requests that carry no valid session claims.
func RequireSession() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if ctxutil.GetSession(request.Context()) == nil {
				writeError(writer, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
				return
			}
			next.ServeHTTP(writer, request)
		})
	}
}
