// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - RegisterRequest / LoginRequest: account credentials
  - CreateGroupRequest / AddGroupMembersRequest: named email groups
  - CreatePollRequest: name, type, deadline, secrecy, winners, rankings_sum
  - AddOptionRequest: name, description
  - IssueTokenRequest: voter email
  - CastVoteRequest / CastBallotRequest: token plus ranked choices

# Response Types

Types for JSON responses:

  - AuthResponse: session token, user_id
  - CreatePollResponse: poll_id
  - AddOptionResponse: option_id
  - TokenResponse: the voter's access token
  - CastVoteResponse: ballot_id, message
  - ErrorResponse: error, message, offending fields

# Domain Types

Internal data structures:

  - User: account row; invited-only voters have nil name and password
  - Group: admin-owned set of member emails
  - Poll: voting event with deadline and tally configuration
  - Option: one selectable choice within a poll
  - Vote: a single ranked choice; VoterID is nil on secret polls

# Constants

Poll types:

	TypeSimpleMajority = "simple-majority"
	TypeInstantRunoff  = "instant-runoff"
	TypeCumulative     = "cumulative"
*/
package models
