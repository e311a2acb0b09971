package handlers

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/danielhkuo/rankedvote/models"
	"github.com/danielhkuo/rankedvote/testutil"
)

func TestCreateGroup(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewGroupHandler(conn, cfg)
	adminID, _ := testutil.CreateTestAdmin(t, conn, cfg, "admin@x.com")

	tests := []struct {
		name           string
		requestBody    interface{}
		expectedStatus int
		wantMembers    int
	}{
		{
			name: "valid group",
			requestBody: models.CreateGroupRequest{
				Name:   "Engineering",
				Emails: []string{"a@x.com", "b@x.com"},
			},
			expectedStatus: http.StatusCreated,
			wantMembers:    2,
		},
		{
			name: "empty member list is fine",
			requestBody: models.CreateGroupRequest{
				Name: "Empty",
			},
			expectedStatus: http.StatusCreated,
			wantMembers:    0,
		},
		{
			name: "missing name",
			requestBody: models.CreateGroupRequest{
				Emails: []string{"a@x.com"},
			},
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name: "duplicate emails",
			requestBody: models.CreateGroupRequest{
				Name:   "Dupes",
				Emails: []string{"a@x.com", "a@x.com"},
			},
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name: "bad email",
			requestBody: models.CreateGroupRequest{
				Name:   "Bad",
				Emails: []string{"not-an-email"},
			},
			expectedStatus: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/groups", tt.requestBody, nil)
			w := httptest.NewRecorder()
			handler.Create(w, req, adminClaims(adminID, "admin@x.com"))

			testutil.AssertStatus(t, w, tt.expectedStatus)
			if tt.expectedStatus != http.StatusCreated {
				return
			}

			var resp models.CreateGroupResponse
			testutil.AssertJSON(t, w, &resp)

			var members int
			err := conn.QueryRow(`
				SELECT COUNT(*) FROM voter_group_member WHERE group_id = ?
			`, resp.GroupID).Scan(&members)
			if err != nil {
				t.Fatalf("Failed to count members: %v", err)
			}
			if members != tt.wantMembers {
				t.Errorf("Expected %d members, got %d", tt.wantMembers, members)
			}
		})
	}
}

func TestAddGroupMembers(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewGroupHandler(conn, cfg)

	adminID, _ := testutil.CreateTestAdmin(t, conn, cfg, "admin@x.com")
	otherID, _ := testutil.CreateTestAdmin(t, conn, cfg, "other@x.com")

	groupID, err := conn.InsertID(`
		INSERT INTO voter_group (name, admin_id) VALUES ('Team', ?)
	`, adminID)
	if err != nil {
		t.Fatalf("Failed to create group: %v", err)
	}
	groupPath := strconv.FormatInt(groupID, 10)

	add := func(pathID string, emails []string, userID int64) *httptest.ResponseRecorder {
		req := testutil.MakeRequest("POST", "/groups/"+pathID+"/members",
			models.AddGroupMembersRequest{Emails: emails}, nil)
		req.SetPathValue("id", pathID)
		w := httptest.NewRecorder()
		handler.AddMembers(w, req, adminClaims(userID, "admin@x.com"))
		return w
	}

	// Owner adds members; invited voters get bare accounts.
	w := add(groupPath, []string{"a@x.com", "b@x.com"}, adminID)
	testutil.AssertStatus(t, w, http.StatusOK)

	var members int
	if err := conn.QueryRow(`
		SELECT COUNT(*) FROM voter_group_member WHERE group_id = ?
	`, groupID).Scan(&members); err != nil {
		t.Fatalf("Failed to count members: %v", err)
	}
	if members != 2 {
		t.Errorf("Expected 2 members, got %d", members)
	}

	// Re-adding an existing member is a no-op, not an error.
	w = add(groupPath, []string{"a@x.com"}, adminID)
	testutil.AssertStatus(t, w, http.StatusOK)
	if err := conn.QueryRow(`
		SELECT COUNT(*) FROM voter_group_member WHERE group_id = ?
	`, groupID).Scan(&members); err != nil {
		t.Fatalf("Failed to count members: %v", err)
	}
	if members != 2 {
		t.Errorf("Expected 2 members after re-add, got %d", members)
	}

	// A different admin cannot touch the group.
	w = add(groupPath, []string{"c@x.com"}, otherID)
	testutil.AssertStatus(t, w, http.StatusForbidden)

	// Unknown group.
	w = add("9999", []string{"c@x.com"}, adminID)
	testutil.AssertStatus(t, w, http.StatusNotFound)

	// Empty email list.
	w = add(groupPath, nil, adminID)
	testutil.AssertStatus(t, w, http.StatusUnprocessableEntity)
}
