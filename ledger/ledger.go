// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/rankedvote/db"
)

var (
	ErrInvalidToken   = errors.New("invalid access token")
	ErrDeadlinePassed = errors.New("poll deadline has passed")
	ErrAlreadyVoted   = errors.New("voter has already cast a ballot for this poll")
	ErrInvalidOption  = errors.New("option does not belong to this poll")
	ErrInvalidRanking = errors.New("invalid ranking")
	ErrEmptyBallot    = errors.New("ballot has no votes")
)

// Entry is one ranked choice within a ballot.
type Entry struct {
	OptionID int64
	Ranking  int
}

// Ledger records ballots exactly once per (poll, voter). All checks and
// writes for one ballot run inside a single transaction; the has-voted
// marker's primary key resolves concurrent submissions to one winner.
type Ledger struct {
	db *db.DB

	// now is swappable in tests for deadline checks.
	now func() time.Time
}

func New(database *db.DB) *Ledger {
	return &Ledger{db: database, now: time.Now}
}

// CastVote records a single-choice ballot. See CastBallot.
func (l *Ledger) CastVote(tokenValue string, optionID int64, ranking int) (string, error) {
	return l.CastBallot(tokenValue, []Entry{{OptionID: optionID, Ranking: ranking}})
}

// CastBallot validates the presented token and entries, then durably records
// the voter's complete ballot. Returns the ballot id grouping the vote rows.
//
// Failure order: ErrInvalidToken, ErrDeadlinePassed, ErrAlreadyVoted,
// ErrInvalidOption, ErrInvalidRanking. A voter gets exactly one successful
// call per poll; everything after is ErrAlreadyVoted.
func (l *Ledger) CastBallot(tokenValue string, entries []Entry) (string, error) {
	if len(entries) == 0 {
		return "", ErrEmptyBallot
	}

	tx, err := l.db.Begin()
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Resolve the token to its (poll, voter) binding.
	var pollID, userID int64
	var deadline string
	var secretVote int
	var rankingsSum sql.NullInt64
	err = tx.QueryRow(`
		SELECT t.poll_id, t.user_id, p.deadline, p.secret_vote, p.rankings_sum
		FROM access_token t
		JOIN poll p ON p.id = t.poll_id
		WHERE t.token = ?
	`, tokenValue).Scan(&pollID, &userID, &deadline, &secretVote, &rankingsSum)
	if err == sql.ErrNoRows {
		return "", ErrInvalidToken
	}
	if err != nil {
		return "", fmt.Errorf("failed to resolve token: %w", err)
	}

	// Deadline day itself is still votable; only strictly past deadlines
	// refuse. ISO dates compare as strings.
	if deadline < l.now().Format("2006-01-02") {
		return "", ErrDeadlinePassed
	}

	var voted bool
	err = tx.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM ballot WHERE poll_id = ? AND user_id = ?)
	`, pollID, userID).Scan(&voted)
	if err != nil {
		return "", fmt.Errorf("failed to check ballot marker: %w", err)
	}
	if voted {
		return "", ErrAlreadyVoted
	}

	if err := l.checkOptions(tx, pollID, entries); err != nil {
		return "", err
	}
	if err := checkRankings(entries, rankingsSum); err != nil {
		return "", err
	}

	// Marker first: it carries identity even for secret polls, so duplicate
	// detection keeps working after ballot content is anonymized. Losing a
	// concurrent race surfaces here as a primary key violation.
	_, err = tx.Exec(`
		INSERT INTO ballot (poll_id, user_id, voted_at) VALUES (?, ?, ?)
	`, pollID, userID, l.now())
	if err != nil {
		if db.IsUniqueViolation(err) {
			return "", ErrAlreadyVoted
		}
		return "", fmt.Errorf("failed to insert ballot marker: %w", err)
	}

	// Ballot content. Secret polls record votes with no voter identity from
	// the start; the rows are grouped only by the random ballot id.
	ballotID := uuid.NewString()
	voterID := sql.NullInt64{Int64: userID, Valid: secretVote == 0}
	for _, e := range entries {
		_, err = tx.Exec(`
			INSERT INTO vote (poll_id, option_id, voter_id, ballot_id, ranking)
			VALUES (?, ?, ?, ?, ?)
		`, pollID, e.OptionID, voterID, ballotID, e.Ranking)
		if err != nil {
			return "", fmt.Errorf("failed to insert vote: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit ballot: %w", err)
	}

	slog.Info("ballot recorded", "poll_id", pollID, "ballot_id", ballotID,
		"votes", len(entries), "secret", secretVote != 0)
	return ballotID, nil
}

// checkOptions verifies every entry's option belongs to the poll.
func (l *Ledger) checkOptions(tx *db.Tx, pollID int64, entries []Entry) error {
	for _, e := range entries {
		var ok bool
		err := tx.QueryRow(`
			SELECT EXISTS(SELECT 1 FROM option WHERE id = ? AND poll_id = ?)
		`, e.OptionID, pollID).Scan(&ok)
		if err != nil {
			return fmt.Errorf("failed to check option: %w", err)
		}
		if !ok {
			return ErrInvalidOption
		}
	}
	return nil
}

// checkRankings enforces ballot-level ranking validity: every ranking
// positive, no duplicate ranking or option within the ballot, and the
// ranking sum within the poll's ceiling when one is configured.
func checkRankings(entries []Entry, ceiling sql.NullInt64) error {
	seenRank := make(map[int]struct{}, len(entries))
	seenOption := make(map[int64]struct{}, len(entries))
	sum := 0
	for _, e := range entries {
		if e.Ranking <= 0 {
			return ErrInvalidRanking
		}
		if _, dup := seenRank[e.Ranking]; dup {
			return ErrInvalidRanking
		}
		if _, dup := seenOption[e.OptionID]; dup {
			return ErrInvalidOption
		}
		seenRank[e.Ranking] = struct{}{}
		seenOption[e.OptionID] = struct{}{}
		sum += e.Ranking
	}
	if ceiling.Valid && int64(sum) > ceiling.Int64 {
		return ErrInvalidRanking
	}
	return nil
}
