// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package ledger implements the vote ledger: validating a presented access
token and durably recording a voter's ballot exactly once.

# Casting

CastBallot is the primitive - a voter's complete set of ranked choices
submitted, validated, and written in one transaction:

	ledg := ledger.New(conn)
	ballotID, err := ledg.CastBallot(tokenValue, []ledger.Entry{
		{OptionID: o1, Ranking: 1},
		{OptionID: o2, Ranking: 2},
	})

CastVote is the one-entry form. Either way, a successful call terminally
marks the (poll, voter) pair as voted; any later call returns
ErrAlreadyVoted. Per pair the states are NoToken → TokenIssued → Voted,
one-directional.

# Validation Order

	ErrInvalidToken    - token does not exist
	ErrDeadlinePassed  - poll deadline strictly before today
	ErrAlreadyVoted    - pair already marked as voted
	ErrInvalidOption   - option not owned by the token's poll (or listed twice)
	ErrInvalidRanking  - ranking ≤ 0, duplicated within the ballot, or the
	                     ballot's ranking sum exceeds the poll's ceiling

# Atomicity

The has-voted marker and the vote rows commit or roll back together. The
marker is inserted before the vote rows and its (poll_id, user_id) primary
key is what resolves two concurrent submissions to exactly one success - the
loser's insert fails and maps to ErrAlreadyVoted.

# Secret Polls

The marker row always carries the voter's identity; for secret polls the
vote rows are written with a NULL voter_id from the start and grouped only
by a random ballot id. Duplicate detection therefore survives anonymization.
*/
package ledger
