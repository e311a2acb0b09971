// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Poll type constants. Types are opaque to the voting core except that
// weighted types carry a rankings-sum ceiling enforced at ballot time.
const (
	TypeSimpleMajority = "simple-majority"
	TypeInstantRunoff  = "instant-runoff"
	TypeCumulative     = "cumulative"
)

// Request types

type RegisterRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type CreateGroupRequest struct {
	Name   string   `json:"name"`
	Emails []string `json:"emails"`
}

type AddGroupMembersRequest struct {
	Emails []string `json:"emails"`
}

type CreatePollRequest struct {
	Name          string `json:"name"`
	Type          string `json:"type"`
	Description   string `json:"description"`
	Deadline      string `json:"deadline"` // YYYY-MM-DD, must be after today
	SecretVote    bool   `json:"secret_vote"`
	WinnersNumber int    `json:"winners_number"`
	GroupID       *int64 `json:"group_id,omitempty"`
	RankingsSum   *int   `json:"rankings_sum,omitempty"`
}

type AddOptionRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type IssueTokenRequest struct {
	Email string `json:"email"`
}

type CastVoteRequest struct {
	Token    string `json:"token"`
	OptionID int64  `json:"option_id"`
	Ranking  int    `json:"ranking"`
}

type BallotVote struct {
	OptionID int64 `json:"option_id"`
	Ranking  int   `json:"ranking"`
}

type CastBallotRequest struct {
	Token string       `json:"token"`
	Votes []BallotVote `json:"votes"`
}

// Response types

type AuthResponse struct {
	Token  string `json:"token"`
	UserID int64  `json:"user_id"`
}

type CreateGroupResponse struct {
	GroupID int64 `json:"group_id"`
}

type CreatePollResponse struct {
	PollID int64 `json:"poll_id"`
}

type AddOptionResponse struct {
	OptionID int64 `json:"option_id"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

type CastVoteResponse struct {
	BallotID string `json:"ballot_id"`
	Message  string `json:"message"`
}

// Error response

type ErrorResponse struct {
	Error   string   `json:"error"`
	Message string   `json:"message,omitempty"`
	Fields  []string `json:"fields,omitempty"`
}

// Domain types

type User struct {
	ID      int64   `json:"id"`
	Ref     string  `json:"ref"`
	Email   *string `json:"email,omitempty"`
	Name    *string `json:"name,omitempty"`
	IsStaff bool    `json:"is_staff"`
}

type Group struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	AdminID int64  `json:"admin_id"`
}

type Poll struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Type          string    `json:"type"`
	Description   string    `json:"description,omitempty"`
	Deadline      string    `json:"deadline"`
	SecretVote    bool      `json:"secret_vote"`
	AdminID       int64     `json:"admin_id"`
	WinnersNumber int       `json:"winners_number"`
	GroupID       *int64    `json:"group_id,omitempty"`
	RankingsSum   *int      `json:"rankings_sum,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

type Option struct {
	ID          int64  `json:"id"`
	PollID      int64  `json:"poll_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type PollWithOptions struct {
	Poll    Poll     `json:"poll"`
	Options []Option `json:"options"`
}

type Vote struct {
	ID       int64  `json:"id"`
	PollID   int64  `json:"poll_id"`
	OptionID int64  `json:"option_id"`
	VoterID  *int64 `json:"-"` // Never expose in JSON; nil once anonymized
	BallotID string `json:"-"`
	Ranking  int    `json:"ranking"`
}
