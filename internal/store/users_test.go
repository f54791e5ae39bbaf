package store

import (
	"context"
	"errors"
	"testing"

	"github.com/erazemk/inventura/internal/db"
	"github.com/erazemk/inventura/internal/model"
)

func TestCreateAndGetUser(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user, err := CreateUser(ctx, database, "testuser", "hash123", "Test User", model.RoleUser)
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if user.Username != "testuser" {
		t.Errorf("expected username 'testuser', got %q", user.Username)
	}
	if user.DisplayName != "Test User" {
		t.Errorf("expected display name 'Test User', got %q", user.DisplayName)
	}
	if !user.Active {
		t.Error("expected new user to be active")
	}

	got, err := GetUser(ctx, database, user.ID)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if got.Username != "testuser" {
		t.Errorf("expected username 'testuser', got %q", got.Username)
	}

	missing, err := GetUser(ctx, database, user.ID+100)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for missing user")
	}
}

func TestCreateUserDuplicate(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	mustCreateUser(t, database, "alice", model.RoleUser)

	_, err := CreateUser(ctx, database, "alice", "hash", "Other", model.RoleUser)
	if !errors.Is(err, ErrUsernameTaken) {
		t.Errorf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestGetUserByUsername(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	mustCreateUser(t, database, "alice", model.RoleAdmin)

	user, err := GetUserByUsername(ctx, database, "alice")
	if err != nil {
		t.Fatalf("GetUserByUsername: %v", err)
	}
	if user == nil || user.Username != "alice" {
		t.Fatalf("expected alice, got %+v", user)
	}

	missing, err := GetUserByUsername(ctx, database, "bob")
	if err != nil {
		t.Fatalf("GetUserByUsername: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for missing user")
	}
}

func TestListUsersWithCounts(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	a := mustCreateUser(t, database, "a", model.RoleUser)
	mustCreateUser(t, database, "b", model.RoleAdmin)

	s := mustCreateSession(t, database, a.ID, "S1")
	mustCreateSession(t, database, a.ID, "S2")
	mustAddItem(t, database, s.ID, a.ID, "X", 5)
	mustAddItem(t, database, s.ID, a.ID, "Y", 1)

	users, err := ListUsers(ctx, database)
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}

	for _, u := range users {
		switch u.Username {
		case "a":
			if u.SessionCount != 2 || u.TotalScans != 2 {
				t.Errorf("user a: expected 2 sessions and 2 scans, got %d and %d", u.SessionCount, u.TotalScans)
			}
		case "b":
			if u.SessionCount != 0 || u.TotalScans != 0 {
				t.Errorf("user b: expected no activity, got %d and %d", u.SessionCount, u.TotalScans)
			}
		}
	}
}

func TestUpdateUserFields(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user := mustCreateUser(t, database, "upd", model.RoleUser)

	name := "Renamed"
	inactive := false
	role := model.RoleAdmin
	if err := UpdateUser(ctx, database, user.ID, UserUpdate{DisplayName: &name, Active: &inactive, Role: &role}); err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}

	got, _ := GetUser(ctx, database, user.ID)
	if got.DisplayName != "Renamed" {
		t.Errorf("expected display name 'Renamed', got %q", got.DisplayName)
	}
	if got.Active {
		t.Error("expected user to be inactive")
	}
	if got.Role != model.RoleAdmin {
		t.Errorf("expected role admin, got %q", got.Role)
	}
	if got.PasswordHash != "hash" {
		t.Errorf("expected password hash unchanged, got %q", got.PasswordHash)
	}
}

func TestUpdateUserMissing(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	name := "x"
	if err := UpdateUser(ctx, database, 999, UserUpdate{DisplayName: &name}); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := UpdateUser(ctx, database, 999, UserUpdate{}); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for empty update, got %v", err)
	}
}

func TestUpdateUserPassword(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user := mustCreateUser(t, database, "pwuser", model.RoleUser)
	if err := UpdateUserPassword(ctx, database, user.ID, "newhash"); err != nil {
		t.Fatalf("UpdateUserPassword: %v", err)
	}

	got, _ := GetUser(ctx, database, user.ID)
	if got.PasswordHash != "newhash" {
		t.Errorf("expected password hash 'newhash', got %q", got.PasswordHash)
	}
}

func TestDeleteUserCascades(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	victim := mustCreateUser(t, database, "victim", model.RoleUser)
	other := mustCreateUser(t, database, "other", model.RoleUser)

	s := mustCreateSession(t, database, victim.ID, "S")
	mustAddItem(t, database, s.ID, victim.ID, "A", 1)
	kept := mustCreateSession(t, database, other.ID, "O")
	mustAddItem(t, database, kept.ID, other.ID, "B", 1)

	if err := DeleteUser(ctx, database, victim.ID); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}

	var sessions, items int
	database.QueryRow(`SELECT COUNT(*) FROM scan_sessions`).Scan(&sessions)
	database.QueryRow(`SELECT COUNT(*) FROM scan_items`).Scan(&items)
	if sessions != 1 || items != 1 {
		t.Errorf("expected only the other user's data to remain, got %d sessions and %d items", sessions, items)
	}

	if err := DeleteUser(ctx, database, victim.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestHasAdmin(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	ok, err := HasAdmin(ctx, database)
	if err != nil {
		t.Fatalf("HasAdmin: %v", err)
	}
	if ok {
		t.Error("expected no admin in empty database")
	}

	mustCreateUser(t, database, "admin", model.RoleAdmin)
	ok, _ = HasAdmin(ctx, database)
	if !ok {
		t.Error("expected admin to exist")
	}
}
