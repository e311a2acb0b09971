// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the rankedvote API server.

rankedvote is an invitation-based polling service: administrators create
polls with options and a deadline, invite voters by email, and each invited
voter receives a single-use access token to cast a ranked ballot. One token
per (poll, email), one ballot per token, enforced by database constraints.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=rankedvote.db SESSION_SECRET=... go run main.go

Or with flags:

	go run main.go -p 3410 -d rankedvote.db --session-secret ...

A .env file in the working directory is loaded automatically.

# Configuration

Required settings:

  - DATABASE_URL (-d): SQLite path or PostgreSQL connection string
  - SESSION_SECRET (--session-secret): Admin session signing secret

Optional settings:

  - PORT (-p): Server port (default: 3410)
  - DATABASE_TYPE (-t): sqlite (default) or postgres

# Architecture

The server uses a handler-based architecture with dependency injection:

  - token: Token authority (issue-or-fetch voter credentials)
  - ledger: Vote ledger (exactly-once ballot recording)
  - handlers: HTTP request handlers (accounts, groups, polls, tokens, voting)
  - router: Route definitions using Go 1.22+ routing
  - middleware: Sessions, CORS, logging, JSON helpers
  - models: Request/response types
  - auth: Password hashing and session tokens
  - db: Connections, schema, placeholder rebinding
  - validate: Field-level request predicates
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
