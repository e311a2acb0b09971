// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/danielhkuo/rankedvote/auth"
	"github.com/danielhkuo/rankedvote/cliparse"
	"github.com/danielhkuo/rankedvote/db"
	"github.com/danielhkuo/rankedvote/token"
)

// SetupTestDB creates a fresh in-memory SQLite database with the full schema.
func SetupTestDB(t *testing.T) *db.DB {
	t.Helper()

	conn, err := db.Open(db.DriverSQLite, ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:          3410,
		DatabaseURL:   ":memory:",
		DatabaseType:  "sqlite",
		SessionSecret: "test-session-secret",
	}
}

// CreateTestAdmin creates an admin account and returns its id and a valid
// session token.
func CreateTestAdmin(t *testing.T, conn *db.DB, cfg cliparse.Config, email string) (int64, string) {
	t.Helper()

	hash, err := auth.HashPassword("admin-password")
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	userID, err := conn.InsertID(`
		INSERT INTO user_account (ref, email, name, password_hash, is_staff, created_at)
		VALUES (?, ?, 'Test Admin', ?, 1, ?)
	`, email, email, hash, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test admin: %v", err)
	}

	session, err := auth.SignSession(userID, email, cfg.SessionSecret)
	if err != nil {
		t.Fatalf("Failed to sign test session: %v", err)
	}

	return userID, session
}

// CreateTestPoll creates a poll and returns its ID. deadline is YYYY-MM-DD;
// rankingsSum may be nil.
func CreateTestPoll(t *testing.T, conn *db.DB, adminID int64, deadline string, secret bool, rankingsSum *int) int64 {
	t.Helper()

	secretInt := 0
	if secret {
		secretInt = 1
	}

	pollID, err := conn.InsertID(`
		INSERT INTO poll (name, type, description, deadline, secret_vote,
			admin_id, winners_number, rankings_sum, created_at)
		VALUES ('Test Poll', 'instant-runoff', 'A test poll', ?, ?, ?, 1, ?, ?)
	`, deadline, secretInt, adminID, rankingsSum, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test poll: %v", err)
	}

	return pollID
}

// AddTestOption adds an option to a poll and returns the option ID
func AddTestOption(t *testing.T, conn *db.DB, pollID int64, name string) int64 {
	t.Helper()

	optionID, err := conn.InsertID(`
		INSERT INTO option (poll_id, name, description) VALUES (?, ?, '')
	`, pollID, name)
	if err != nil {
		t.Fatalf("Failed to create test option: %v", err)
	}

	return optionID
}

// IssueTestToken issues an access token for the voter email via the token
// authority and returns its secret value.
func IssueTestToken(t *testing.T, conn *db.DB, pollID int64, email string) string {
	t.Helper()

	tok, err := token.NewAuthority(conn).IssueOrFetch(pollID, email)
	if err != nil {
		t.Fatalf("Failed to issue test token: %v", err)
	}

	return tok.Value
}

// Today, Tomorrow and Yesterday return ISO dates relative to today for
// deadline fixtures.
func Today() string     { return time.Now().Format("2006-01-02") }
func Tomorrow() string  { return time.Now().AddDate(0, 0, 1).Format("2006-01-02") }
func Yesterday() string { return time.Now().AddDate(0, 0, -1).Format("2006-01-02") }

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
