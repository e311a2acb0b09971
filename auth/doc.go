// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides admin account credentials and session tokens.

# Passwords

Passwords are stored as bcrypt hashes:

	hash, err := auth.HashPassword(password)
	err = auth.CheckPassword(hash, candidate)

CheckPassword returns ErrInvalidCredentials on mismatch so handlers never
distinguish "no such account" from "wrong password".

# Sessions

Admin sessions are HS256 JWTs carrying the user id and email:

	token, err := auth.SignSession(userID, email, cfg.SessionSecret)
	claims, err := auth.ParseSession(token, cfg.SessionSecret)

ParseSession rejects unexpected signing methods and expired tokens with
ErrInvalidSession.

Voter access tokens are a separate concept entirely - see the token package.
They authenticate a (poll, voter) pair, are stored in the database, and never
expire.
*/
package auth
