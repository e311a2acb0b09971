// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database connections and schema creation.

# Opening a Connection

Open connects for the configured driver and applies driver settings:

	conn, err := db.Open("sqlite", "rankedvote.db")
	conn, err := db.Open("postgres", "postgres://...")

SQLite connections get foreign keys enabled, a busy timeout, and a single
pooled connection. The returned *db.DB wraps *sql.DB and rewrites ?
placeholders to $1..$N when talking to PostgreSQL, so every query in the
codebase is written once with ? placeholders.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - user_account: administrators and invited voters (ref = invitation email)
  - voter_group / voter_group_member: admin-owned email groups
  - poll: poll metadata, deadline, secrecy, rankings-sum ceiling
  - option: voting options per poll
  - access_token: one secret per (poll, voter); secret globally unique
  - ballot: has-voted marker, one row per (poll, voter)
  - vote: ranked choices; voter_id NULL on secret polls

# Constraints

The voting invariants live in the schema, not only in application code:

  - access_token.token UNIQUE closes the race between the application-level
    collision pre-check and the insert
  - access_token (poll_id, user_id) UNIQUE makes token issuance idempotent
    under concurrent requests
  - ballot (poll_id, user_id) PRIMARY KEY makes the second concurrent
    CastBallot for the same voter fail its marker insert

IsUniqueViolation identifies these constraint failures for both drivers so
callers can fall back to re-fetching the winner's row.

# Generated IDs

InsertID bridges PostgreSQL's RETURNING clause and SQLite's LastInsertId:

	id, err := conn.InsertID("INSERT INTO poll (...) VALUES (?, ?)", a, b)
*/
package db
