package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/mcoot/webgame/internal/api/request"
	"github.com/mcoot/webgame/internal/api/response"
	"github.com/mcoot/webgame/internal/model"
	"github.com/mcoot/webgame/internal/services/user"
)

// UsersAllow is the capability list advertised for the users collection
const UsersAllow = "GET, POST, OPTIONS"

// UserHandler handles user endpoints
type UserHandler struct {
	users  *user.Service
	links  *Links
	logger *slog.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(users *user.Service, links *Links, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		users:  users,
		links:  links,
		logger: logger,
	}
}

// Options handles OPTIONS /api/users
func (h *UserHandler) Options(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Allow", UsersAllow)
	w.WriteHeader(http.StatusOK)
}

// List handles GET /api/users
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	pageNumber, err := request.QueryInt(r, "pageNumber", user.DefaultPageNumber)
	if err != nil {
		WriteError(w, NewInvalidRequestError(err.Error()))
		return
	}
	pageSize, err := request.QueryInt(r, "pageSize", user.DefaultPageSize)
	if err != nil {
		WriteError(w, NewInvalidRequestError(err.Error()))
		return
	}

	page, err := h.users.List(r.Context(), pageNumber, pageSize)
	if err != nil {
		WriteError(w, err)
		return
	}

	pagination := response.Pagination{
		TotalCount:  page.TotalCount,
		PageSize:    page.PageSize,
		CurrentPage: page.CurrentPage,
		TotalPages:  page.TotalPages,
	}
	if page.HasPrevious() {
		link := h.links.Users(r, page.CurrentPage-1, page.PageSize)
		pagination.PreviousPageLink = &link
	}
	if page.HasNext() {
		link := h.links.Users(r, page.CurrentPage+1, page.PageSize)
		pagination.NextPageLink = &link
	}
	if err := response.SetPagination(w, pagination); err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.UsersFromModel(page.Items))
}

// Get handles GET and HEAD /api/users/{userId}
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := request.PathUUID(r, "userId")
	if !ok {
		WriteError(w, model.ErrUserNotFound)
		return
	}

	u, err := h.users.Get(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	etag, err := userETag(u)
	if err != nil {
		WriteError(w, err)
		return
	}
	w.Header().Set("ETag", etag)
	if etagMatches(r, etag) {
		response.NotModified(w)
		return
	}

	if r.Method == http.MethodHead {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		return
	}
	response.JSON(w, http.StatusOK, response.UserFromModel(u))
}

// Create handles POST /api/users
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var fields user.CreateFields
	if err := request.DecodeJSON(r, &fields); err != nil {
		WriteError(w, NewInvalidRequestError(err.Error()))
		return
	}

	u, err := h.users.Create(r.Context(), fields)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.Created(w, h.links.User(r, u.ID), u.ID.String())
}

// Put handles PUT /api/users/{userId}
func (h *UserHandler) Put(w http.ResponseWriter, r *http.Request) {
	id, ok := request.PathUUID(r, "userId")
	if !ok || id == uuid.Nil {
		WriteError(w, NewInvalidRequestError("userId must be a non-empty UUID"))
		return
	}

	var fields user.UpdateFields
	if err := request.DecodeJSON(r, &fields); err != nil {
		WriteError(w, NewInvalidRequestError(err.Error()))
		return
	}

	inserted, err := h.users.Upsert(r.Context(), id, fields)
	if err != nil {
		WriteError(w, err)
		return
	}

	if inserted {
		response.Created(w, h.links.User(r, id), id.String())
		return
	}
	response.NoContent(w)
}

// Patch handles PATCH /api/users/{userId} with a JSON-Patch document
func (h *UserHandler) Patch(w http.ResponseWriter, r *http.Request) {
	body, err := request.ReadBody(r)
	if err != nil {
		WriteError(w, NewInvalidRequestError(err.Error()))
		return
	}

	id, ok := request.PathUUID(r, "userId")
	if !ok {
		WriteError(w, model.ErrUserNotFound)
		return
	}

	if err := h.users.Patch(r.Context(), id, body); err != nil {
		if !errors.Is(err, model.ErrUserNotFound) {
			h.logger.Debug("patch rejected",
				slog.String("user_id", id.String()),
				slog.String("error", err.Error()),
			)
		}
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// Delete handles DELETE /api/users/{userId}
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := request.PathUUID(r, "userId")
	if !ok {
		WriteError(w, model.ErrUserNotFound)
		return
	}

	if err := h.users.Delete(r.Context(), id); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}
