// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/danielhkuo/rankedvote/testutil"
)

func TestHealthEndpoint(t *testing.T) {
	conn := testutil.SetupTestDB(t)

	cfg := testutil.GetTestConfig()
	mux := NewRouter(conn, cfg)

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	if w.Body.String() != "OK" {
		t.Errorf("Expected body 'OK', got '%s'", w.Body.String())
	}
}

func TestRootEndpoint(t *testing.T) {
	conn := testutil.SetupTestDB(t)

	cfg := testutil.GetTestConfig()
	mux := NewRouter(conn, cfg)

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	expected := "rankedvote API v1"
	if w.Body.String() != expected {
		t.Errorf("Expected body '%s', got '%s'", expected, w.Body.String())
	}
}

func TestRouteExistence(t *testing.T) {
	conn := testutil.SetupTestDB(t)

	cfg := testutil.GetTestConfig()
	mux := NewRouter(conn, cfg)

	// Routes should be matched; 400/401/404/422 are all valid handler
	// responses with no fixture data behind them
	testCases := []struct {
		method string
		path   string
	}{
		{"GET", "/health"},
		{"GET", "/"},

		{"POST", "/accounts/register"},
		{"POST", "/accounts/login"},

		{"POST", "/groups"},
		{"POST", "/groups/1/members"},

		{"POST", "/polls"},
		{"POST", "/polls/1/options"},
		{"GET", "/polls/1"},

		{"POST", "/polls/1/tokens"},
		{"GET", "/polls/1/tokens"},

		{"POST", "/votes"},
		{"POST", "/ballots"},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			if w.Code == http.StatusMethodNotAllowed {
				t.Errorf("Route %s %s returned 405, expected route handler to exist", tc.method, tc.path)
			}
		})
	}
}

func TestMethodNotAllowed(t *testing.T) {
	conn := testutil.SetupTestDB(t)

	cfg := testutil.GetTestConfig()
	mux := NewRouter(conn, cfg)

	testCases := []struct {
		method string
		path   string
	}{
		{"POST", "/health"},  // Only GET is defined
		{"DELETE", "/votes"}, // Only POST is defined
		{"PUT", "/polls/1/options"},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			if w.Code != http.StatusMethodNotAllowed {
				t.Errorf("Expected 405 for %s %s, got %d", tc.method, tc.path, w.Code)
			}
		})
	}
}

func TestAdminRoutesRejectMissingSession(t *testing.T) {
	conn := testutil.SetupTestDB(t)

	cfg := testutil.GetTestConfig()
	mux := NewRouter(conn, cfg)

	testCases := []struct {
		method string
		path   string
	}{
		{"POST", "/groups"},
		{"POST", "/polls"},
		{"POST", "/polls/1/tokens"},
		{"GET", "/polls/1/tokens"},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			if w.Code != http.StatusUnauthorized {
				t.Errorf("Expected 401 without a session, got %d", w.Code)
			}
		})
	}
}

func TestPathParameterExtraction(t *testing.T) {
	conn := testutil.SetupTestDB(t)

	cfg := testutil.GetTestConfig()

	adminID, _ := testutil.CreateTestAdmin(t, conn, cfg, "admin@x.com")
	pollID := testutil.CreateTestPoll(t, conn, adminID, testutil.Tomorrow(), false, nil)

	mux := NewRouter(conn, cfg)

	t.Run("poll ID extraction", func(t *testing.T) {
		req := testutil.MakeRequest("GET", "/polls/"+strconv.FormatInt(pollID, 10), nil, nil)
		w := httptest.NewRecorder()

		mux.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Expected 200 for existing poll %d, got %d. Body: %s", pollID, w.Code, w.Body.String())
		}
	})
}
