// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/danielhkuo/rankedvote/auth"
	"github.com/danielhkuo/rankedvote/cliparse"
	"github.com/danielhkuo/rankedvote/db"
	"github.com/danielhkuo/rankedvote/middleware"
	"github.com/danielhkuo/rankedvote/models"
	"github.com/danielhkuo/rankedvote/token"
	"github.com/danielhkuo/rankedvote/validate"
)

type TokenHandler struct {
	db        *db.DB
	cfg       cliparse.Config
	authority *token.Authority
}

func NewTokenHandler(database *db.DB, cfg cliparse.Config) *TokenHandler {
	return &TokenHandler{db: database, cfg: cfg, authority: token.NewAuthority(database)}
}

// Issue handles POST /polls/:id/tokens
//
// Idempotent: issuing twice for the same (poll, email) returns the same
// token, so re-sending an invitation never creates a second credential.
func (h *TokenHandler) Issue(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	pollID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		middleware.FieldErrorResponse(w, []string{"poll_id"})
		return
	}

	var req models.IssueTokenRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if !validate.IsValidEmail(req.Email) {
		middleware.FieldErrorResponse(w, []string{"email"})
		return
	}

	if !h.isPollAdmin(w, pollID, claims.UserID) {
		return
	}

	tok, err := h.authority.IssueOrFetch(pollID, req.Email)
	switch {
	case errors.Is(err, token.ErrPollNotFound):
		middleware.FieldErrorResponse(w, []string{"poll_id"})
		return
	case errors.Is(err, token.ErrSecretSpace), errors.Is(err, token.ErrConsistency):
		slog.Error("token issuance fault", "error", err, "poll_id", pollID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to issue token")
		return
	case err != nil:
		slog.Error("failed to issue token", "error", err, "poll_id", pollID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to issue token")
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.TokenResponse{
		Token: tok.Value,
	})
}

// Fetch handles GET /polls/:id/tokens?email=
//
// Re-delivery of a lost token. 404 when no token has been issued for the
// pair - issuance is a separate, explicit act.
func (h *TokenHandler) Fetch(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	pollID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		middleware.FieldErrorResponse(w, []string{"poll_id"})
		return
	}

	email := r.URL.Query().Get("email")
	if !validate.IsValidEmail(email) {
		middleware.FieldErrorResponse(w, []string{"email"})
		return
	}

	if !h.isPollAdmin(w, pollID, claims.UserID) {
		return
	}

	value, err := h.authority.FetchValue(pollID, email)
	switch {
	case errors.Is(err, token.ErrNoToken):
		middleware.ErrorResponse(w, http.StatusNotFound, "No token issued")
		return
	case errors.Is(err, token.ErrConsistency):
		slog.Error("token consistency fault", "error", err, "poll_id", pollID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to fetch token")
		return
	case err != nil:
		slog.Error("failed to fetch token", "error", err, "poll_id", pollID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to fetch token")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.TokenResponse{
		Token: value,
	})
}

// isPollAdmin writes the error response and returns false unless userID
// administers the poll. Unknown polls fall through to the authority's own
// ErrPollNotFound handling on the issue path, so a 404 here is fine too.
func (h *TokenHandler) isPollAdmin(w http.ResponseWriter, pollID, userID int64) bool {
	var adminID int64
	err := h.db.QueryRow(`SELECT admin_id FROM poll WHERE id = ?`, pollID).Scan(&adminID)
	if err != nil {
		// No row (or a read fault) both end the request; the distinction
		// does not matter for an admin-gated lookup.
		middleware.ErrorResponse(w, http.StatusNotFound, "Poll not found")
		return false
	}
	if adminID != userID {
		middleware.ErrorResponse(w, http.StatusForbidden, "Not the poll admin")
		return false
	}
	return true
}
