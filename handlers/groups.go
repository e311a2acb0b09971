// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
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

type GroupHandler struct {
	db        *db.DB
	cfg       cliparse.Config
	authority *token.Authority
}

func NewGroupHandler(database *db.DB, cfg cliparse.Config) *GroupHandler {
	return &GroupHandler{db: database, cfg: cfg, authority: token.NewAuthority(database)}
}

// Create handles POST /groups
func (h *GroupHandler) Create(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	var req models.CreateGroupRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	var bad []string
	if req.Name == "" {
		bad = append(bad, "name")
	}
	if !validate.IsUniqueList(req.Emails) {
		bad = append(bad, "emails")
	}
	for _, email := range req.Emails {
		if !validate.IsValidEmail(email) {
			bad = append(bad, "emails")
			break
		}
	}
	if len(bad) > 0 {
		middleware.FieldErrorResponse(w, bad)
		return
	}

	groupID, err := h.db.InsertID(`
		INSERT INTO voter_group (name, admin_id) VALUES (?, ?)
	`, req.Name, claims.UserID)
	if err != nil {
		slog.Error("failed to insert group", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create group")
		return
	}

	if err := h.addMembers(groupID, req.Emails); err != nil {
		slog.Error("failed to add group members", "error", err, "group_id", groupID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create group")
		return
	}

	slog.Info("group created", "group_id", groupID, "members", len(req.Emails))

	middleware.JSONResponse(w, http.StatusCreated, models.CreateGroupResponse{
		GroupID: groupID,
	})
}

// AddMembers handles POST /groups/:id/members
func (h *GroupHandler) AddMembers(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	groupID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		middleware.FieldErrorResponse(w, []string{"group_id"})
		return
	}

	var req models.AddGroupMembersRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if len(req.Emails) == 0 || !validate.IsUniqueList(req.Emails) {
		middleware.FieldErrorResponse(w, []string{"emails"})
		return
	}
	for _, email := range req.Emails {
		if !validate.IsValidEmail(email) {
			middleware.FieldErrorResponse(w, []string{"emails"})
			return
		}
	}

	var adminID int64
	err = h.db.QueryRow(`SELECT admin_id FROM voter_group WHERE id = ?`, groupID).Scan(&adminID)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Group not found")
		return
	}
	if err != nil {
		slog.Error("failed to query group", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if adminID != claims.UserID {
		middleware.ErrorResponse(w, http.StatusForbidden, "Not the group admin")
		return
	}

	if err := h.addMembers(groupID, req.Emails); err != nil {
		slog.Error("failed to add group members", "error", err, "group_id", groupID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to add members")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.CreateGroupResponse{GroupID: groupID})
}

// addMembers resolves each email to an account (creating bare invited
// accounts as needed) and links it to the group. Re-adding an existing
// member is a no-op.
func (h *GroupHandler) addMembers(groupID int64, emails []string) error {
	for _, email := range emails {
		userID, err := h.authority.EnsureVoter(email)
		if err != nil {
			return err
		}
		_, err = h.db.Exec(`
			INSERT INTO voter_group_member (group_id, user_id) VALUES (?, ?)
		`, groupID, userID)
		if err != nil && !db.IsUniqueViolation(err) {
			return err
		}
	}
	return nil
}
