// Package handlers provides HTTP request handlers for the portal's API
// endpoints. Handlers return their responses to the responder, which owns
// error classification and envelope rendering.
package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/porchest/portal-api/internal/adapters/http/dto"
	"github.com/porchest/portal-api/internal/adapters/http/respond"
	"github.com/porchest/portal-api/internal/ports"
)

// UserHandler handles HTTP requests for account CRUD and verification.
type UserHandler struct {
	svc ports.UserService
}

// NewUserHandler creates a new UserHandler with the given service port.
func NewUserHandler(svc ports.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// Register handles POST /api/v1/users.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) (*respond.Response, error) {
	var req dto.RegisterUserRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		return nil, err
	}

	created, err := h.svc.Register(r.Context(), req.ToUser(), req.Password)
	if err != nil {
		return nil, err
	}

	return respond.Created(dto.ToUserResponse(created), "/api/v1/users/"+created.ID), nil
}

// ListUsers handles GET /api/v1/users.
func (h *UserHandler) ListUsers(_ http.ResponseWriter, r *http.Request) (*respond.Response, error) {
	page, err := h.svc.ListUsers(r.Context(), queryInt(r, "page", 1), queryInt(r, "limit", 0))
	if err != nil {
		return nil, err
	}

	// Account listings are per-operator views and must not be cached.
	return respond.Paginated(dto.ToUserPage(page)).WithCacheHeaders(0), nil
}

// GetUser handles GET /api/v1/users/{id}.
func (h *UserHandler) GetUser(_ http.ResponseWriter, r *http.Request) (*respond.Response, error) {
	u, err := h.svc.GetUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		return nil, err
	}

	return respond.Success(dto.ToUserResponse(u)).WithCacheHeaders(0), nil
}

// UpdateUser handles PATCH /api/v1/users/{id}.
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) (*respond.Response, error) {
	var req dto.UpdateUserRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		return nil, err
	}

	updated, err := h.svc.UpdateUser(r.Context(), chi.URLParam(r, "id"), req.ToUser())
	if err != nil {
		return nil, err
	}

	return respond.Success(dto.ToUserResponse(updated)), nil
}

// DeleteUser handles DELETE /api/v1/users/{id}.
func (h *UserHandler) DeleteUser(_ http.ResponseWriter, r *http.Request) (*respond.Response, error) {
	if err := h.svc.DeleteUser(r.Context(), chi.URLParam(r, "id")); err != nil {
		return nil, err
	}

	return respond.NoContent(), nil
}

// VerifyUser handles POST /api/v1/users/{id}/verify.
func (h *UserHandler) VerifyUser(_ http.ResponseWriter, r *http.Request) (*respond.Response, error) {
	u, err := h.svc.VerifyUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		return nil, err
	}

	return respond.Success(dto.ToUserResponse(u)), nil
}

// RejectUser handles POST /api/v1/users/{id}/reject.
func (h *UserHandler) RejectUser(_ http.ResponseWriter, r *http.Request) (*respond.Response, error) {
	u, err := h.svc.RejectUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		return nil, err
	}

	return respond.Success(dto.ToUserResponse(u)), nil
}
