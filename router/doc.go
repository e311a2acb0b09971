// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the rankedvote API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(conn, cfg)

# Endpoints

Health:

	GET /health

Accounts (public):

	POST /accounts/register - Register (claims invited accounts)
	POST /accounts/login    - Log in, returns session token

Groups (admin, requires Authorization: Bearer):

	POST /groups              - Create group with member emails
	POST /groups/{id}/members - Add member emails

Poll management (admin):

	POST /polls              - Create poll
	POST /polls/{id}/options - Add option
	GET  /polls/{id}         - Poll info and options (public)

Voter tokens (admin):

	POST /polls/{id}/tokens - Issue-or-fetch token for an email
	GET  /polls/{id}/tokens - Re-deliver an existing token (?email=)

Voting (public, authenticated by the access token itself):

	POST /votes   - Cast a single ranked choice
	POST /ballots - Cast a complete ranked ballot

# Handler Initialization

The router creates handler instances with dependency injection:

	accountHandler := handlers.NewAccountHandler(conn, cfg)
	tokenHandler := handlers.NewTokenHandler(conn, cfg)

All handlers receive the database connection and configuration.
*/
package router
