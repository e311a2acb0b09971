// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/rankedvote/cliparse"
	"github.com/danielhkuo/rankedvote/db"
	"github.com/danielhkuo/rankedvote/handlers"
	"github.com/danielhkuo/rankedvote/middleware"
)

func NewRouter(database *db.DB, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	accountHandler := handlers.NewAccountHandler(database, cfg)
	groupHandler := handlers.NewGroupHandler(database, cfg)
	pollHandler := handlers.NewPollHandler(database, cfg)
	tokenHandler := handlers.NewTokenHandler(database, cfg)
	votingHandler := handlers.NewVotingHandler(database, cfg)

	admin := func(h middleware.AdminHandler) http.HandlerFunc {
		return middleware.WithLogging(middleware.WithAdmin(cfg.SessionSecret, h))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Accounts
	mux.HandleFunc("POST /accounts/register", middleware.WithLogging(accountHandler.Register))
	mux.HandleFunc("POST /accounts/login", middleware.WithLogging(accountHandler.Login))

	// Groups (admin)
	mux.HandleFunc("POST /groups", admin(groupHandler.Create))
	mux.HandleFunc("POST /groups/{id}/members", admin(groupHandler.AddMembers))

	// Poll management (admin)
	mux.HandleFunc("POST /polls", admin(pollHandler.Create))
	mux.HandleFunc("POST /polls/{id}/options", admin(pollHandler.AddOption))
	mux.HandleFunc("GET /polls/{id}", middleware.WithLogging(pollHandler.Get))

	// Voter token issuance and re-delivery (admin)
	mux.HandleFunc("POST /polls/{id}/tokens", admin(tokenHandler.Issue))
	mux.HandleFunc("GET /polls/{id}/tokens", admin(tokenHandler.Fetch))

	// Voting (authenticated by access token in the request body)
	mux.HandleFunc("POST /votes", middleware.WithLogging(votingHandler.CastVote))
	mux.HandleFunc("POST /ballots", middleware.WithLogging(votingHandler.CastBallot))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("rankedvote API v1"))
	})

	return mux
}
