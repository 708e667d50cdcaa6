// Copyright (c) 2026 Concert Companion. All rights reserved.

package users

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/landonnguyen77/Concert-Companion/internal/platform/request"
	"github.com/landonnguyen77/Concert-Companion/internal/platform/respond"
	"github.com/landonnguyen77/Concert-Companion/pkg/pagination"
)

// Handler implements the account HTTP endpoints.
type Handler struct {
	userService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{userService: service}
}

// Routes returns a [chi.Router] with the account CRUD endpoints.
//
// # Endpoints
//   - GET  /  : Lists accounts with pagination.
//   - POST /  : Creates a bare account.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)
	router.Post("/", handler.create)

	return router
}

// RegisterProfileRoutes mounts the profile lookup endpoint onto an existing
// router. It lives apart from the CRUD routes because it is addressed by
// Spotify identity rather than account ID.
func (handler *Handler) RegisterProfileRoutes(router chi.Router) {
	router.Get("/profile/{spotifyId}", handler.profile)
}

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	users, meta, err := handler.userService.ListUsers(request.Context(), params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		"users":      users,
		"pagination": meta,
	})
}

// createUserRequest is the JSON payload for account creation.
type createUserRequest struct {
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
}

func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input createUserRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.userService.CreateUser(request.Context(), CreateUserInput{
		DisplayName: input.DisplayName,
		Email:       input.Email,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, user)
}

func (handler *Handler) profile(writer http.ResponseWriter, request *http.Request) {
	spotifyID := requestutil.Param(request, "spotifyId")

	profile, err := handler.userService.GetProfile(request.Context(), spotifyID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, profile)
}
