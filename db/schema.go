// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import "fmt"

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(d *DB) error {
	schema := schemaSQLite
	if d.driver == DriverPostgres {
		schema = schemaPostgres
	}

	if _, err := d.sql.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// Dialect notes:
//   - deadline is stored as an ISO YYYY-MM-DD string in both dialects so
//     date comparisons reduce to string comparisons.
//   - secret_vote is an INTEGER 0/1 in both dialects so scans behave the
//     same under lib/pq and modernc.org/sqlite.
//   - ballot is the has-voted marker: one row per (poll, voter), inserted
//     before any vote rows. It carries identity even for secret polls;
//     vote rows for secret polls carry a NULL voter_id instead.

const schemaSQLite = `
-- Accounts (administrators and invited voters)
CREATE TABLE IF NOT EXISTS user_account (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    ref TEXT NOT NULL UNIQUE,
    email TEXT UNIQUE,
    name TEXT,
    password_hash TEXT,
    is_staff INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_user_account_email ON user_account(email);

-- Groups
CREATE TABLE IF NOT EXISTS voter_group (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    admin_id INTEGER NOT NULL REFERENCES user_account(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS voter_group_member (
    group_id INTEGER NOT NULL REFERENCES voter_group(id) ON DELETE CASCADE,
    user_id INTEGER NOT NULL REFERENCES user_account(id) ON DELETE CASCADE,
    PRIMARY KEY (group_id, user_id)
);

-- Polls
CREATE TABLE IF NOT EXISTS poll (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    type TEXT NOT NULL,
    description TEXT,
    deadline TEXT NOT NULL,
    secret_vote INTEGER NOT NULL DEFAULT 0,
    admin_id INTEGER NOT NULL REFERENCES user_account(id) ON DELETE CASCADE,
    winners_number INTEGER NOT NULL DEFAULT 1,
    group_id INTEGER REFERENCES voter_group(id) ON DELETE SET NULL,
    rankings_sum INTEGER,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

-- Options
CREATE TABLE IF NOT EXISTS option (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    poll_id INTEGER NOT NULL REFERENCES poll(id) ON DELETE CASCADE,
    name TEXT NOT NULL,
    description TEXT
);

CREATE INDEX IF NOT EXISTS idx_option_poll_id ON option(poll_id);

-- Access tokens: one per (poll, voter), secret globally unique
CREATE TABLE IF NOT EXISTS access_token (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    token TEXT NOT NULL UNIQUE,
    poll_id INTEGER NOT NULL REFERENCES poll(id) ON DELETE CASCADE,
    user_id INTEGER NOT NULL REFERENCES user_account(id) ON DELETE CASCADE,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    UNIQUE (poll_id, user_id)
);

CREATE INDEX IF NOT EXISTS idx_access_token_poll_id ON access_token(poll_id);

-- Has-voted markers: one per (poll, voter)
CREATE TABLE IF NOT EXISTS ballot (
    poll_id INTEGER NOT NULL REFERENCES poll(id) ON DELETE CASCADE,
    user_id INTEGER NOT NULL REFERENCES user_account(id) ON DELETE CASCADE,
    voted_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (poll_id, user_id)
);

-- Votes: ranked choices; ballot_id groups one voter's ballot
CREATE TABLE IF NOT EXISTS vote (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    poll_id INTEGER NOT NULL REFERENCES poll(id) ON DELETE CASCADE,
    option_id INTEGER NOT NULL REFERENCES option(id) ON DELETE CASCADE,
    voter_id INTEGER REFERENCES user_account(id) ON DELETE SET NULL,
    ballot_id TEXT NOT NULL,
    ranking INTEGER NOT NULL CHECK (ranking > 0)
);

CREATE INDEX IF NOT EXISTS idx_vote_poll_voter ON vote(poll_id, voter_id);
CREATE INDEX IF NOT EXISTS idx_vote_ballot_id ON vote(ballot_id);
`

const schemaPostgres = `
-- Accounts (administrators and invited voters)
CREATE TABLE IF NOT EXISTS user_account (
    id BIGSERIAL PRIMARY KEY,
    ref TEXT NOT NULL UNIQUE,
    email TEXT UNIQUE,
    name TEXT,
    password_hash TEXT,
    is_staff INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMP NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_user_account_email ON user_account(email);

-- Groups
CREATE TABLE IF NOT EXISTS voter_group (
    id BIGSERIAL PRIMARY KEY,
    name TEXT NOT NULL,
    admin_id BIGINT NOT NULL REFERENCES user_account(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS voter_group_member (
    group_id BIGINT NOT NULL REFERENCES voter_group(id) ON DELETE CASCADE,
    user_id BIGINT NOT NULL REFERENCES user_account(id) ON DELETE CASCADE,
    PRIMARY KEY (group_id, user_id)
);

-- Polls
CREATE TABLE IF NOT EXISTS poll (
    id BIGSERIAL PRIMARY KEY,
    name TEXT NOT NULL,
    type TEXT NOT NULL,
    description TEXT,
    deadline TEXT NOT NULL,
    secret_vote INTEGER NOT NULL DEFAULT 0,
    admin_id BIGINT NOT NULL REFERENCES user_account(id) ON DELETE CASCADE,
    winners_number INTEGER NOT NULL DEFAULT 1,
    group_id BIGINT REFERENCES voter_group(id) ON DELETE SET NULL,
    rankings_sum INTEGER,
    created_at TIMESTAMP NOT NULL DEFAULT NOW()
);

-- Options
CREATE TABLE IF NOT EXISTS option (
    id BIGSERIAL PRIMARY KEY,
    poll_id BIGINT NOT NULL REFERENCES poll(id) ON DELETE CASCADE,
    name TEXT NOT NULL,
    description TEXT
);

CREATE INDEX IF NOT EXISTS idx_option_poll_id ON option(poll_id);

-- Access tokens: one per (poll, voter), secret globally unique
CREATE TABLE IF NOT EXISTS access_token (
    id BIGSERIAL PRIMARY KEY,
    token TEXT NOT NULL UNIQUE,
    poll_id BIGINT NOT NULL REFERENCES poll(id) ON DELETE CASCADE,
    user_id BIGINT NOT NULL REFERENCES user_account(id) ON DELETE CASCADE,
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),
    UNIQUE (poll_id, user_id)
);

CREATE INDEX IF NOT EXISTS idx_access_token_poll_id ON access_token(poll_id);

-- Has-voted markers: one per (poll, voter)
CREATE TABLE IF NOT EXISTS ballot (
    poll_id BIGINT NOT NULL REFERENCES poll(id) ON DELETE CASCADE,
    user_id BIGINT NOT NULL REFERENCES user_account(id) ON DELETE CASCADE,
    voted_at TIMESTAMP NOT NULL DEFAULT NOW(),
    PRIMARY KEY (poll_id, user_id)
);

-- Votes: ranked choices; ballot_id groups one voter's ballot
CREATE TABLE IF NOT EXISTS vote (
    id BIGSERIAL PRIMARY KEY,
    poll_id BIGINT NOT NULL REFERENCES poll(id) ON DELETE CASCADE,
    option_id BIGINT NOT NULL REFERENCES option(id) ON DELETE CASCADE,
    voter_id BIGINT REFERENCES user_account(id) ON DELETE SET NULL,
    ballot_id TEXT NOT NULL,
    ranking INTEGER NOT NULL CHECK (ranking > 0)
);

CREATE INDEX IF NOT EXISTS idx_vote_poll_voter ON vote(poll_id, voter_id);
CREATE INDEX IF NOT EXISTS idx_vote_ballot_id ON vote(ballot_id);
`
