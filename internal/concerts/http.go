// Copyright (c) 2026 Concert Companion. All rights reserved.

package concerts

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/landonnguyen77/Concert-Companion/internal/platform/request"
	"github.com/landonnguyen77/Concert-Companion/internal/platform/respond"
)

// Handler implements the concert aggregation HTTP endpoint.
type Handler struct {
	concertService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{concertService: service}
}

// Routes returns a [chi.Router] with the concert discovery endpoints.
//
// # Endpoints
//   - GET /top-artists/{spotifyId} : Aggregated concerts for a user's top artists.
//
// Query parameters: limit (events per artist), artists (how many top artists),
// countryCode (ISO alpha-2 filter). All optional; out-of-range values clamp.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/top-artists/{spotifyId}", handler.topArtistConcerts)

	return router
}

func (handler *Handler) topArtistConcerts(writer http.ResponseWriter, request *http.Request) {
	spotifyID := requestutil.Param(request, "spotifyId")

	result, err := handler.concertService.AggregateForUser(request.Context(), spotifyID, AggregateOptions{
		EventsPerArtist: requestutil.QueryInt(request, "limit", 0),
		ArtistLimit:     requestutil.QueryInt(request, "artists", 0),
		CountryCode:     request.URL.Query().Get("countryCode"),
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, result)
}
