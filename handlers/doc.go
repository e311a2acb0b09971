// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the rankedvote API.

# Handler Types

Each handler is a struct with database and config dependencies:

  - AccountHandler: Registration and login
  - GroupHandler: Named email groups for bulk invitations
  - PollHandler: Poll and option creation, poll retrieval
  - TokenHandler: Voter access token issuance and re-delivery
  - VotingHandler: Ballot casting

Handlers are created via constructor functions that accept *db.DB and Config:

	pollHandler := handlers.NewPollHandler(conn, cfg)

# Admin Flow

Administrators hold accounts and authenticate with a Bearer session token:

	POST /accounts/register → Register (claims invited accounts)
	POST /accounts/login    → Login
	POST /groups            → Create group with member emails
	POST /polls             → Create poll (deadline must be after today)
	POST /polls/{id}/options → AddOption
	POST /polls/{id}/tokens  → Issue voter token (idempotent per email)
	GET  /polls/{id}/tokens  → Fetch existing token for re-delivery

# Voting Flow

Voters authenticate with the access token delivered out-of-band:

	POST /votes   → CastVote (single ranked choice)
	POST /ballots → CastBallot (complete ranked ballot)

Either form terminally marks the voter as having voted for that poll.

# Error Mapping

Field validation failures are 422 with the offending field names. Ledger
refusals map to: InvalidToken 401, DeadlinePassed 409, AlreadyVoted 409,
InvalidOption 422, InvalidRanking 422. Consistency faults and secret-space
exhaustion are logged and returned as 500 - they are system faults, not
business outcomes.
*/
package handlers
