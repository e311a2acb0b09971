package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/rankedvote/models"
	"github.com/danielhkuo/rankedvote/testutil"
	"github.com/danielhkuo/rankedvote/token"
)

func TestRegister(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewAccountHandler(conn, cfg)

	tests := []struct {
		name           string
		requestBody    interface{}
		expectedStatus int
		checkResponse  func(t *testing.T, resp *models.AuthResponse)
	}{
		{
			name: "valid registration",
			requestBody: models.RegisterRequest{
				Email:    "alice@x.com",
				Name:     "Alice",
				Password: "long-enough-pw",
			},
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, resp *models.AuthResponse) {
				if resp.Token == "" {
					t.Error("Expected non-empty session token")
				}

				var name string
				err := conn.QueryRow(`
					SELECT name FROM user_account WHERE ref = 'alice@x.com'
				`).Scan(&name)
				if err != nil {
					t.Fatalf("Failed to query account: %v", err)
				}
				if name != "Alice" {
					t.Errorf("Expected name Alice, got %q", name)
				}
			},
		},
		{
			name: "bad email",
			requestBody: models.RegisterRequest{
				Email:    "not-an-email",
				Name:     "Alice",
				Password: "long-enough-pw",
			},
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name: "short password",
			requestBody: models.RegisterRequest{
				Email:    "bob@x.com",
				Name:     "Bob",
				Password: "short",
			},
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name: "missing name",
			requestBody: models.RegisterRequest{
				Email:    "bob@x.com",
				Password: "long-enough-pw",
			},
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name: "duplicate registration",
			requestBody: models.RegisterRequest{
				Email:    "alice@x.com",
				Name:     "Alice Again",
				Password: "long-enough-pw",
			},
			expectedStatus: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/accounts/register", tt.requestBody, nil)
			w := httptest.NewRecorder()
			handler.Register(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)
			if tt.checkResponse != nil {
				var resp models.AuthResponse
				testutil.AssertJSON(t, w, &resp)
				tt.checkResponse(t, &resp)
			}
		})
	}
}

// TestRegisterClaimsInvitedAccount verifies that a voter who was invited by
// email (bare account created during token issuance) can later register and
// keep the same account row, so issued tokens remain bound to them.
func TestRegisterClaimsInvitedAccount(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewAccountHandler(conn, cfg)

	adminID, _ := testutil.CreateTestAdmin(t, conn, cfg, "admin@x.com")
	pollID := testutil.CreateTestPoll(t, conn, adminID, testutil.Tomorrow(), false, nil)
	testutil.IssueTestToken(t, conn, pollID, "invited@x.com")

	var invitedID int64
	if err := conn.QueryRow(`SELECT id FROM user_account WHERE ref = 'invited@x.com'`).Scan(&invitedID); err != nil {
		t.Fatalf("Invited account missing: %v", err)
	}

	req := testutil.MakeRequest("POST", "/accounts/register", models.RegisterRequest{
		Email:    "invited@x.com",
		Name:     "Invited Voter",
		Password: "long-enough-pw",
	}, nil)
	w := httptest.NewRecorder()
	handler.Register(w, req)
	testutil.AssertStatus(t, w, http.StatusCreated)

	var resp models.AuthResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.UserID != invitedID {
		t.Errorf("Registration created a new account (%d) instead of claiming %d", resp.UserID, invitedID)
	}

	// The claimed account still resolves the original token.
	value, err := token.NewAuthority(conn).FetchValue(pollID, "invited@x.com")
	if err != nil || value == "" {
		t.Errorf("Token lost after account claim: %v", err)
	}
}

func TestLogin(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewAccountHandler(conn, cfg)

	// Register an account to log into.
	req := testutil.MakeRequest("POST", "/accounts/register", models.RegisterRequest{
		Email:    "alice@x.com",
		Name:     "Alice",
		Password: "long-enough-pw",
	}, nil)
	w := httptest.NewRecorder()
	handler.Register(w, req)
	testutil.AssertStatus(t, w, http.StatusCreated)

	tests := []struct {
		name           string
		requestBody    interface{}
		expectedStatus int
	}{
		{
			name:           "valid login",
			requestBody:    models.LoginRequest{Email: "alice@x.com", Password: "long-enough-pw"},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "wrong password",
			requestBody:    models.LoginRequest{Email: "alice@x.com", Password: "wrong"},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "unknown account",
			requestBody:    models.LoginRequest{Email: "nobody@x.com", Password: "long-enough-pw"},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "missing fields",
			requestBody:    models.LoginRequest{},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/accounts/login", tt.requestBody, nil)
			w := httptest.NewRecorder()
			handler.Login(w, req)
			testutil.AssertStatus(t, w, tt.expectedStatus)
		})
	}
}

// TestLoginInvitedOnlyVoterRefused: accounts created purely by invitation
// have no password and must not be able to log in.
func TestLoginInvitedOnlyVoterRefused(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewAccountHandler(conn, cfg)

	adminID, _ := testutil.CreateTestAdmin(t, conn, cfg, "admin@x.com")
	pollID := testutil.CreateTestPoll(t, conn, adminID, testutil.Tomorrow(), false, nil)
	testutil.IssueTestToken(t, conn, pollID, "invited@x.com")

	// The bare account has ref but no email column value; login by that
	// address must fail either way.
	req := testutil.MakeRequest("POST", "/accounts/login", models.LoginRequest{
		Email:    "invited@x.com",
		Password: "anything-at-all",
	}, nil)
	w := httptest.NewRecorder()
	handler.Login(w, req)
	testutil.AssertStatus(t, w, http.StatusUnauthorized)
}
