// Copyright (c) 2026 Concert Companion. All rights reserved.

package spotify

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/landonnguyen77/Concert-Companion/internal/platform/request"
	"github.com/landonnguyen77/Concert-Companion/internal/platform/respond"
)

// Handler implements the Spotify authentication HTTP endpoints.
type Handler struct {
	spotifyService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{spotifyService: service}
}

// AuthRoutes returns a [chi.Router] with the OAuth endpoints.
//
// # Endpoints
//   - POST /callback : Completes the authorization-code flow.
func (handler *Handler) AuthRoutes() chi.Router {
	router := chi.NewRouter()

	router.Post("/callback", handler.callback)

	return router
}

// RegisterUserRoutes mounts the session-guarded user actions onto an existing
// router. The caller is responsible for wrapping them in the session
// middleware.
func (handler *Handler) RegisterUserRoutes(router chi.Router) {
	router.Post("/refresh-artists", handler.refreshArtists)
}

// callbackRequest is the JSON payload of the OAuth callback relay.
type callbackRequest struct {
	Code string `json:"code"`
}

func (handler *Handler) callback(writer http.ResponseWriter, request *http.Request) {
	var input callbackRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.spotifyService.CompleteAuth(request.Context(), input.Code)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, result)
}

func (handler *Handler) refreshArtists(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredSession(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	ranked, err := handler.spotifyService.RefreshArtists(request.Context(), claims.SpotifyID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		"artists": ranked,
		"count":   len(ranked),
	})
}
