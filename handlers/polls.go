// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/danielhkuo/rankedvote/auth"
	"github.com/danielhkuo/rankedvote/cliparse"
	"github.com/danielhkuo/rankedvote/db"
	"github.com/danielhkuo/rankedvote/middleware"
	"github.com/danielhkuo/rankedvote/models"
	"github.com/danielhkuo/rankedvote/validate"
)

type PollHandler struct {
	db  *db.DB
	cfg cliparse.Config
}

func NewPollHandler(database *db.DB, cfg cliparse.Config) *PollHandler {
	return &PollHandler{db: database, cfg: cfg}
}

// Create handles POST /polls
func (h *PollHandler) Create(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	var req models.CreatePollRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	var bad []string
	if req.Name == "" {
		bad = append(bad, "name")
	}
	if req.Type == "" {
		bad = append(bad, "type")
	}
	if !validate.IsAfterToday(req.Deadline) {
		bad = append(bad, "deadline")
	}
	if req.WinnersNumber == 0 {
		req.WinnersNumber = 1
	}
	if !validate.IsPositive(req.WinnersNumber) {
		bad = append(bad, "winners_number")
	}
	if req.RankingsSum != nil && !validate.IsPositive(*req.RankingsSum) {
		bad = append(bad, "rankings_sum")
	}
	if len(bad) > 0 {
		middleware.FieldErrorResponse(w, bad)
		return
	}

	if req.GroupID != nil {
		var adminID int64
		err := h.db.QueryRow(`SELECT admin_id FROM voter_group WHERE id = ?`, *req.GroupID).Scan(&adminID)
		if err == sql.ErrNoRows {
			middleware.FieldErrorResponse(w, []string{"group_id"})
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
	}

	secretVote := 0
	if req.SecretVote {
		secretVote = 1
	}

	pollID, err := h.db.InsertID(`
		INSERT INTO poll (name, type, description, deadline, secret_vote,
			admin_id, winners_number, group_id, rankings_sum, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, req.Name, req.Type, req.Description, req.Deadline, secretVote,
		claims.UserID, req.WinnersNumber, req.GroupID, req.RankingsSum, time.Now())
	if err != nil {
		slog.Error("failed to insert poll", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create poll")
		return
	}

	slog.Info("poll created", "poll_id", pollID, "admin_id", claims.UserID, "type", req.Type)

	middleware.JSONResponse(w, http.StatusCreated, models.CreatePollResponse{
		PollID: pollID,
	})
}

// AddOption handles POST /polls/:id/options
func (h *PollHandler) AddOption(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	pollID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		middleware.FieldErrorResponse(w, []string{"poll_id"})
		return
	}

	var req models.AddOptionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Name == "" {
		middleware.FieldErrorResponse(w, []string{"name"})
		return
	}

	var adminID int64
	err = h.db.QueryRow(`SELECT admin_id FROM poll WHERE id = ?`, pollID).Scan(&adminID)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Poll not found")
		return
	}
	if err != nil {
		slog.Error("failed to query poll", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if adminID != claims.UserID {
		middleware.ErrorResponse(w, http.StatusForbidden, "Not the poll admin")
		return
	}

	optionID, err := h.db.InsertID(`
		INSERT INTO option (poll_id, name, description) VALUES (?, ?, ?)
	`, pollID, req.Name, req.Description)
	if err != nil {
		slog.Error("failed to insert option", "error", err, "poll_id", pollID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to add option")
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.AddOptionResponse{
		OptionID: optionID,
	})
}

// Get handles GET /polls/:id
func (h *PollHandler) Get(w http.ResponseWriter, r *http.Request) {
	pollID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		middleware.FieldErrorResponse(w, []string{"poll_id"})
		return
	}

	var poll models.Poll
	var description sql.NullString
	var secretVote int
	var groupID sql.NullInt64
	var rankingsSum sql.NullInt64
	err = h.db.QueryRow(`
		SELECT id, name, type, description, deadline, secret_vote,
			admin_id, winners_number, group_id, rankings_sum, created_at
		FROM poll WHERE id = ?
	`, pollID).Scan(&poll.ID, &poll.Name, &poll.Type, &description, &poll.Deadline,
		&secretVote, &poll.AdminID, &poll.WinnersNumber, &groupID, &rankingsSum, &poll.CreatedAt)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Poll not found")
		return
	}
	if err != nil {
		slog.Error("failed to query poll", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	poll.Description = description.String
	poll.SecretVote = secretVote != 0
	if groupID.Valid {
		poll.GroupID = &groupID.Int64
	}
	if rankingsSum.Valid {
		sum := int(rankingsSum.Int64)
		poll.RankingsSum = &sum
	}

	rows, err := h.db.Query(`
		SELECT id, poll_id, name, description FROM option WHERE poll_id = ? ORDER BY id
	`, pollID)
	if err != nil {
		slog.Error("failed to query options", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	var options []models.Option
	for rows.Next() {
		var opt models.Option
		var desc sql.NullString
		if err := rows.Scan(&opt.ID, &opt.PollID, &opt.Name, &desc); err != nil {
			slog.Error("failed to scan option", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		opt.Description = desc.String
		options = append(options, opt)
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to read options", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.PollWithOptions{
		Poll:    poll,
		Options: options,
	})
}
