// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package token

import (
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/danielhkuo/rankedvote/db"
)

var (
	// ErrPollNotFound means the poll id does not resolve to an existing poll.
	ErrPollNotFound = errors.New("poll not found")

	// ErrNoToken means no token has been issued for the (poll, email) pair.
	ErrNoToken = errors.New("no token issued for this poll and email")

	// ErrSecretSpace means secret generation kept colliding with existing
	// tokens. With 3000-bit secrets this indicates a broken entropy source
	// or storage fault, not bad luck.
	ErrSecretSpace = errors.New("could not generate a unique token secret")

	// ErrConsistency means a uniqueness invariant is already broken in
	// storage (more than one token row for a single (poll, voter) pair).
	ErrConsistency = errors.New("token uniqueness invariant violated")
)

// secretBytes sizes the random secret. 375 bytes encode to a 500-character
// base64url string - far beyond network-scale guessing.
const secretBytes = 375

// maxSecretAttempts bounds the regenerate-on-collision loop.
const maxSecretAttempts = 5

// Token binds a secret value to a (poll, voter) pair.
type Token struct {
	ID     int64
	Value  string
	PollID int64
	UserID int64
}

// Authority issues and retrieves voter access tokens. All uniqueness
// guarantees are ultimately enforced by storage constraints; the Authority
// detects constraint violations and converges on the winning row.
type Authority struct {
	db *db.DB

	// generate produces a candidate secret. Swappable in tests to force
	// collisions.
	generate func() (string, error)
}

func NewAuthority(database *db.DB) *Authority {
	return &Authority{db: database, generate: GenerateSecret}
}

// GenerateSecret returns a new random URL-safe token secret.
func GenerateSecret() (string, error) {
	b := make([]byte, secretBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate token secret: %w", err)
	}
	return strings.TrimRight(base64.URLEncoding.EncodeToString(b), "="), nil
}

// IssueOrFetch returns the token for (pollID, email), creating it on first
// request. Calling twice for the same pair always returns the same token;
// concurrent callers converge on a single row via the (poll_id, user_id)
// unique constraint.
func (a *Authority) IssueOrFetch(pollID int64, email string) (Token, error) {
	tok, err := a.lookup(pollID, email)
	if err == nil {
		return tok, nil
	}
	if !errors.Is(err, ErrNoToken) {
		return Token{}, err
	}

	var exists bool
	err = a.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM poll WHERE id = ?)`, pollID).Scan(&exists)
	if err != nil {
		return Token{}, fmt.Errorf("failed to check poll: %w", err)
	}
	if !exists {
		return Token{}, ErrPollNotFound
	}

	userID, err := a.EnsureVoter(email)
	if err != nil {
		return Token{}, err
	}

	for attempt := 0; attempt < maxSecretAttempts; attempt++ {
		secret, err := a.generate()
		if err != nil {
			return Token{}, err
		}

		id, err := a.db.InsertID(`
			INSERT INTO access_token (token, poll_id, user_id, created_at)
			VALUES (?, ?, ?, ?)
		`, secret, pollID, userID, time.Now())
		if err == nil {
			slog.Info("token issued", "poll_id", pollID, "user_id", userID)
			return Token{ID: id, Value: secret, PollID: pollID, UserID: userID}, nil
		}
		if !db.IsUniqueViolation(err) {
			return Token{}, fmt.Errorf("failed to insert token: %w", err)
		}

		// Two unique constraints can fire here. If a concurrent caller won
		// the (poll_id, user_id) race, their row is the token - return it.
		// Otherwise the secret itself collided - regenerate.
		tok, lerr := a.lookup(pollID, email)
		if lerr == nil {
			return tok, nil
		}
		if !errors.Is(lerr, ErrNoToken) {
			return Token{}, lerr
		}
		slog.Warn("token secret collision, regenerating", "poll_id", pollID, "attempt", attempt+1)
	}

	return Token{}, ErrSecretSpace
}

// FetchValue returns the secret of the existing token for (pollID, email),
// or ErrNoToken if none has been issued. Pure read.
func (a *Authority) FetchValue(pollID int64, email string) (string, error) {
	tok, err := a.lookup(pollID, email)
	if err != nil {
		return "", err
	}
	return tok.Value, nil
}

// EnsureVoter resolves the account for an invitation email, creating a bare
// account (ref only, no name or password) on first sight. Idempotent: the
// unique constraint on ref makes concurrent callers converge on one row.
func (a *Authority) EnsureVoter(email string) (int64, error) {
	var id int64
	err := a.db.QueryRow(`SELECT id FROM user_account WHERE ref = ?`, email).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, fmt.Errorf("failed to look up voter: %w", err)
	}

	id, err = a.db.InsertID(`
		INSERT INTO user_account (ref, created_at) VALUES (?, ?)
	`, email, time.Now())
	if err == nil {
		return id, nil
	}
	if !db.IsUniqueViolation(err) {
		return 0, fmt.Errorf("failed to create voter: %w", err)
	}

	// Lost the race; the winner's row is the voter.
	if err := a.db.QueryRow(`SELECT id FROM user_account WHERE ref = ?`, email).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to re-fetch voter after race: %w", err)
	}
	return id, nil
}

// lookup finds the token row for (pollID, email). Finding more than one row
// is a consistency fault: it is logged and reported as ErrConsistency, never
// as a normal miss.
func (a *Authority) lookup(pollID int64, email string) (Token, error) {
	rows, err := a.db.Query(`
		SELECT t.id, t.token, t.user_id
		FROM access_token t
		JOIN user_account u ON u.id = t.user_id
		WHERE t.poll_id = ? AND u.ref = ?
	`, pollID, email)
	if err != nil {
		return Token{}, fmt.Errorf("failed to query token: %w", err)
	}
	defer rows.Close()

	var found []Token
	for rows.Next() {
		tok := Token{PollID: pollID}
		if err := rows.Scan(&tok.ID, &tok.Value, &tok.UserID); err != nil {
			return Token{}, fmt.Errorf("failed to scan token: %w", err)
		}
		found = append(found, tok)
	}
	if err := rows.Err(); err != nil {
		return Token{}, fmt.Errorf("failed to read tokens: %w", err)
	}

	switch len(found) {
	case 0:
		return Token{}, ErrNoToken
	case 1:
		return found[0], nil
	default:
		slog.Error("multiple tokens for one voter and poll",
			"poll_id", pollID, "count", len(found))
		return Token{}, ErrConsistency
	}
}
