// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package token implements the token authority: issuing and retrieving the
access credential that binds a voter to a poll.

# Issuance

IssueOrFetch is idempotent per (poll, email):

	authority := token.NewAuthority(conn)
	tok, err := authority.IssueOrFetch(pollID, "voter@example.com")

The first call creates the voter account (if the email was never seen) and a
token row; every later call returns the same token. The secret is 375 random
bytes from crypto/rand, base64url encoded to 500 characters. The token value
is the sole voting credential, so it is never derived from the email or poll
id - deriving it would let one invitee compute another's credential.

# Uniqueness

Two storage constraints back the invariants:

  - UNIQUE (poll_id, user_id): at most one token per pair. Concurrent
    issuance races resolve by re-fetching the winner's row.
  - UNIQUE (token): global secret uniqueness. A collision regenerates the
    secret, at most maxSecretAttempts times; beyond that IssueOrFetch
    returns ErrSecretSpace, which callers treat as an internal fault.

# Retrieval

FetchValue is a pure read for re-delivering a lost token:

	secret, err := authority.FetchValue(pollID, email)

It returns ErrNoToken when nothing was issued. Multiple rows for one pair
would mean broken storage invariants and surface as ErrConsistency.

Tokens are never mutated or deleted.
*/
package token
