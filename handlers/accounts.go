// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/rankedvote/auth"
	"github.com/danielhkuo/rankedvote/cliparse"
	"github.com/danielhkuo/rankedvote/db"
	"github.com/danielhkuo/rankedvote/middleware"
	"github.com/danielhkuo/rankedvote/models"
	"github.com/danielhkuo/rankedvote/validate"
)

type AccountHandler struct {
	db  *db.DB
	cfg cliparse.Config
}

func NewAccountHandler(database *db.DB, cfg cliparse.Config) *AccountHandler {
	return &AccountHandler{db: database, cfg: cfg}
}

// Register handles POST /accounts/register
//
// If a bare invited account already exists for the email (created lazily by
// token issuance, ref set but no name), registration claims it: name, email
// and password are filled in on the existing row so the voter's issued
// tokens keep working.
func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	var bad []string
	if !validate.IsValidEmail(req.Email) {
		bad = append(bad, "email")
	}
	if req.Name == "" {
		bad = append(bad, "name")
	}
	if len(req.Password) < 8 {
		bad = append(bad, "password")
	}
	if len(bad) > 0 {
		middleware.FieldErrorResponse(w, bad)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		slog.Error("failed to hash password", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to register")
		return
	}

	var userID int64
	var existingName sql.NullString
	err = h.db.QueryRow(`
		SELECT id, name FROM user_account WHERE ref = ?
	`, req.Email).Scan(&userID, &existingName)

	switch {
	case err == sql.ErrNoRows:
		userID, err = h.db.InsertID(`
			INSERT INTO user_account (ref, email, name, password_hash, created_at)
			VALUES (?, ?, ?, ?, ?)
		`, req.Email, req.Email, req.Name, hash, time.Now())
		if err != nil {
			if db.IsUniqueViolation(err) {
				middleware.ErrorResponse(w, http.StatusConflict, "Account already exists")
				return
			}
			slog.Error("failed to insert account", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to register")
			return
		}

	case err != nil:
		slog.Error("failed to query account", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return

	case existingName.Valid:
		middleware.ErrorResponse(w, http.StatusConflict, "Account already exists")
		return

	default:
		// Claim the invited account.
		_, err = h.db.Exec(`
			UPDATE user_account SET email = ?, name = ?, password_hash = ? WHERE id = ?
		`, req.Email, req.Name, hash, userID)
		if err != nil {
			slog.Error("failed to claim account", "error", err, "user_id", userID)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to register")
			return
		}
	}

	session, err := auth.SignSession(userID, req.Email, h.cfg.SessionSecret)
	if err != nil {
		slog.Error("failed to sign session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to register")
		return
	}

	slog.Info("account registered", "user_id", userID)

	middleware.JSONResponse(w, http.StatusCreated, models.AuthResponse{
		Token:  session,
		UserID: userID,
	})
}

// Login handles POST /accounts/login
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Email == "" || req.Password == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "email and password are required")
		return
	}

	var userID int64
	var hash sql.NullString
	err := h.db.QueryRow(`
		SELECT id, password_hash FROM user_account WHERE email = ?
	`, req.Email).Scan(&userID, &hash)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err != nil {
		slog.Error("failed to query account", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	// Invited-only voters have no password and cannot log in.
	if !hash.Valid {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err := auth.CheckPassword(hash.String, req.Password); err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		slog.Error("failed to check password", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to log in")
		return
	}

	session, err := auth.SignSession(userID, req.Email, h.cfg.SessionSecret)
	if err != nil {
		slog.Error("failed to sign session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to log in")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.AuthResponse{
		Token:  session,
		UserID: userID,
	})
}
