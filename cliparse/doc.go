// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3410)
  - DatabaseURL: Database connection string or SQLite path (required)
  - DatabaseType: "sqlite" (default) or "postgres"
  - SessionSecret: Signing secret for admin session tokens (required)

# CLI Flags

	-p              Server port
	-d              Database URL
	-t              Database type
	--session-secret Session signing secret

# Environment Variables

Flags fall back to environment variables:

	PORT           → -p
	DATABASE_URL   → -d
	DATABASE_TYPE  → -t
	SESSION_SECRET → --session-secret

CLI flags take precedence over environment variables. main loads a .env file
via godotenv before parsing, so a local .env works for development.

# Validation

ParseFlags returns an error if required values are missing:

  - DATABASE_URL must be provided
  - DATABASE_TYPE must be sqlite or postgres
  - SESSION_SECRET must be provided
*/
package cliparse
