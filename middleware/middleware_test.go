package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danielhkuo/rankedvote/auth"
	"github.com/danielhkuo/rankedvote/models"
)

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		expected string
	}{
		{"valid bearer", "Bearer abc123", "abc123"},
		{"trims whitespace", "Bearer  abc123 ", "abc123"},
		{"missing header", "", ""},
		{"wrong scheme", "Basic abc123", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			if got := BearerToken(r); got != tt.expected {
				t.Errorf("BearerToken() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestWithAdmin(t *testing.T) {
	const secret = "test-secret"

	session, err := auth.SignSession(7, "admin@x.com", secret)
	if err != nil {
		t.Fatalf("SignSession failed: %v", err)
	}

	var gotClaims *auth.Claims
	handler := WithAdmin(secret, func(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
		gotClaims = claims
		w.WriteHeader(http.StatusOK)
	})

	// Valid session passes claims through.
	r := httptest.NewRequest("POST", "/polls", nil)
	r.Header.Set("Authorization", "Bearer "+session)
	w := httptest.NewRecorder()
	handler(w, r)
	if w.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", w.Code)
	}
	if gotClaims == nil || gotClaims.UserID != 7 {
		t.Errorf("Claims not passed through: %+v", gotClaims)
	}

	// Missing and invalid sessions are rejected before the handler runs.
	for _, header := range []string{"", "Bearer garbage"} {
		gotClaims = nil
		r := httptest.NewRequest("POST", "/polls", nil)
		if header != "" {
			r.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		handler(w, r)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("Expected 401 for %q, got %d", header, w.Code)
		}
		if gotClaims != nil {
			t.Error("Handler ran without a valid session")
		}
	}
}

func TestJSONResponse(t *testing.T) {
	w := httptest.NewRecorder()
	JSONResponse(w, http.StatusCreated, models.TokenResponse{Token: "abc"})

	if w.Code != http.StatusCreated {
		t.Errorf("Expected 201, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Expected application/json, got %q", ct)
	}
	if !strings.Contains(w.Body.String(), `"token":"abc"`) {
		t.Errorf("Unexpected body: %s", w.Body.String())
	}
}

func TestFieldErrorResponse(t *testing.T) {
	w := httptest.NewRecorder()
	FieldErrorResponse(w, []string{"email", "deadline"})

	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("Expected 422, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "email") || !strings.Contains(body, "deadline") {
		t.Errorf("Offending fields missing from body: %s", body)
	}
}

func TestCORSPreflights(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	handler := CORS(inner)

	// Preflight is answered without reaching the inner handler.
	r := httptest.NewRequest("OPTIONS", "/votes", nil)
	r.Header.Set("Origin", "https://app.example.com")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	if w.Code != http.StatusOK {
		t.Errorf("Expected 200 for preflight, got %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example.com" {
		t.Errorf("Expected origin echo, got %q", got)
	}

	// Normal requests pass through.
	r = httptest.NewRequest("POST", "/votes", nil)
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	if w.Code != http.StatusTeapot {
		t.Errorf("Expected inner handler to run, got %d", w.Code)
	}
}
