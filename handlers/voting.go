// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/rankedvote/cliparse"
	"github.com/danielhkuo/rankedvote/db"
	"github.com/danielhkuo/rankedvote/ledger"
	"github.com/danielhkuo/rankedvote/middleware"
	"github.com/danielhkuo/rankedvote/models"
)

type VotingHandler struct {
	db     *db.DB
	cfg    cliparse.Config
	ledger *ledger.Ledger
}

func NewVotingHandler(database *db.DB, cfg cliparse.Config) *VotingHandler {
	return &VotingHandler{db: database, cfg: cfg, ledger: ledger.New(database)}
}

// CastVote handles POST /votes
func (h *VotingHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	var req models.CastVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Token == "" {
		middleware.FieldErrorResponse(w, []string{"token"})
		return
	}

	ballotID, err := h.ledger.CastVote(req.Token, req.OptionID, req.Ranking)
	if err != nil {
		h.writeLedgerError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.CastVoteResponse{
		BallotID: ballotID,
		Message:  "Vote recorded",
	})
}

// CastBallot handles POST /ballots
func (h *VotingHandler) CastBallot(w http.ResponseWriter, r *http.Request) {
	var req models.CastBallotRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Token == "" {
		middleware.FieldErrorResponse(w, []string{"token"})
		return
	}
	if len(req.Votes) == 0 {
		middleware.FieldErrorResponse(w, []string{"votes"})
		return
	}

	entries := make([]ledger.Entry, 0, len(req.Votes))
	for _, v := range req.Votes {
		entries = append(entries, ledger.Entry{OptionID: v.OptionID, Ranking: v.Ranking})
	}

	ballotID, err := h.ledger.CastBallot(req.Token, entries)
	if err != nil {
		h.writeLedgerError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.CastVoteResponse{
		BallotID: ballotID,
		Message:  "Ballot recorded",
	})
}

// writeLedgerError maps ledger refusals to HTTP statuses. Business-rule
// refusals are surfaced verbatim; anything else is an internal error.
func (h *VotingHandler) writeLedgerError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ledger.ErrInvalidToken):
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid access token")
	case errors.Is(err, ledger.ErrDeadlinePassed):
		middleware.ErrorResponse(w, http.StatusConflict, "Poll deadline has passed")
	case errors.Is(err, ledger.ErrAlreadyVoted):
		middleware.ErrorResponse(w, http.StatusConflict, "Ballot already cast for this poll")
	case errors.Is(err, ledger.ErrInvalidOption):
		middleware.ErrorResponse(w, http.StatusUnprocessableEntity, "Option does not belong to this poll")
	case errors.Is(err, ledger.ErrInvalidRanking):
		middleware.ErrorResponse(w, http.StatusUnprocessableEntity, "Invalid ranking")
	case errors.Is(err, ledger.ErrEmptyBallot):
		middleware.ErrorResponse(w, http.StatusUnprocessableEntity, "Ballot has no votes")
	default:
		slog.Error("failed to record ballot", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to record ballot")
	}
}
