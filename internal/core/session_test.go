package core

import (
	"testing"

	"carebridge/internal/models"
)

func TestLoginAssignsIDAndPersists(t *testing.T) {
	e, store, _, _ := newTestEngine(InitialState{})

	u := loginParent(t, e)
	if u.ID == "" {
		t.Error("Login should assign an id")
	}
	if current := e.CurrentUser(); current == nil || current.ID != u.ID {
		t.Error("CurrentUser should return the logged-in user")
	}
	if store.saved("user") != 1 {
		t.Errorf("user blob saved %d times, want 1", store.saved("user"))
	}
}

func TestLoginRejectsInvalidIdentity(t *testing.T) {
	e, _, _, _ := newTestEngine(InitialState{})

	if _, err := e.Login(models.User{Name: "", Email: "a@b.com", Role: models.RoleParent}); err != models.ErrNameRequired {
		t.Errorf("expected ErrNameRequired, got %v", err)
	}
	if _, err := e.Login(models.User{Name: "A", Email: "bad", Role: models.RoleParent}); err != models.ErrInvalidEmail {
		t.Errorf("expected ErrInvalidEmail, got %v", err)
	}
	if e.CurrentUser() != nil {
		t.Error("failed login must not set a current user")
	}
}

func TestLogoutTearsDownSession(t *testing.T) {
	e, _, _, _ := newTestEngine(InitialState{})
	loginParent(t, e)
	addChild(t, e, "Leo")

	e.Logout()

	if e.CurrentUser() != nil {
		t.Error("CurrentUser should be nil after logout")
	}
	if _, ok := e.ActiveChild(); ok {
		t.Error("no child should be active after logout")
	}
	if _, ok := e.LatestPrediction(); ok {
		t.Error("predictions should not survive logout")
	}
}

func TestParentSelectionIsFirstChildAndSticky(t *testing.T) {
	e, _, _, _ := newTestEngine(InitialState{})
	loginParent(t, e)

	first := addChild(t, e, "Leo")
	second := addChild(t, e, "Mia")

	// Saving a child selects it; switch back and make sure unrelated
	// activity leaves the selection alone.
	if err := e.SwitchChild(first.ID); err != nil {
		t.Fatalf("SwitchChild() error: %v", err)
	}
	appendMood(t, e, second.ID)
	if active, _ := e.ActiveChild(); active.ID != first.ID {
		t.Errorf("selection should be sticky, got %s", active.Name)
	}

	// Deleting the active child forces a deterministic reselection:
	// first child in creation order for a parent.
	if err := e.DeleteChild(first.ID); err != nil {
		t.Fatalf("DeleteChild() error: %v", err)
	}
	if active, _ := e.ActiveChild(); active.ID != second.ID {
		t.Errorf("parent reselection = %s, want first remaining child", active.Name)
	}
}

func TestEducatorSelectionIsFirstConnection(t *testing.T) {
	children := []models.ChildProfile{
		{ID: "c1", Name: "Leo", Age: 6, InviteCode: "LEO-1111"},
		{ID: "c2", Name: "Mia", Age: 7, InviteCode: "MIA-2222"},
	}
	e, _, _, _ := newTestEngine(InitialState{Children: children, Connections: []string{"c2", "c1"}})
	loginEducator(t, e)

	if active, _ := e.ActiveChild(); active.ID != "c2" {
		t.Errorf("educator selection = %s, want first id in connection set", active.ID)
	}
}

func TestVisibleChildrenByRole(t *testing.T) {
	children := []models.ChildProfile{
		{ID: "c1", Name: "Leo", Age: 6, InviteCode: "LEO-1111"},
		{ID: "c2", Name: "Mia", Age: 7, InviteCode: "MIA-2222"},
	}
	e, _, _, _ := newTestEngine(InitialState{Children: children, Connections: []string{"c1"}})

	loginParent(t, e)
	if got := len(e.VisibleChildren()); got != 2 {
		t.Errorf("parent sees %d children, want 2", got)
	}

	loginEducator(t, e)
	visible := e.VisibleChildren()
	if len(visible) != 1 || visible[0].ID != "c1" {
		t.Errorf("educator should see only connected children, got %v", visible)
	}
}

func TestDanglingConnectionsPrunedAtLoad(t *testing.T) {
	e, _, _, _ := newTestEngine(InitialState{
		Children:    []models.ChildProfile{{ID: "c1", Name: "Leo", Age: 6, InviteCode: "LEO-1111"}},
		Connections: []string{"c1", "gone"},
	})

	if got := e.Connections(); len(got) != 1 || got[0] != "c1" {
		t.Errorf("Connections() = %v, want only resolvable ids", got)
	}
}

func TestUpsertChildInsertIssuesInviteCode(t *testing.T) {
	e, _, _, _ := newTestEngine(InitialState{})
	loginParent(t, e)

	child := addChild(t, e, "Leo")
	if child.ID == "" {
		t.Error("insert should assign an id")
	}
	if child.InviteCode == "" {
		t.Error("insert should issue an invite code")
	}
	if active, _ := e.ActiveChild(); active.ID != child.ID {
		t.Error("saved child should become the active selection")
	}
}

func TestUpsertChildReplaceKeepsInviteCode(t *testing.T) {
	e, _, _, _ := newTestEngine(InitialState{})
	loginParent(t, e)
	child := addChild(t, e, "Leo")

	child.Name = "Leonard"
	child.CareNotes = "Prefers quiet rooms."
	child.InviteCode = "HACKED-0000"
	updated, err := e.UpsertChild(child)
	if err != nil {
		t.Fatalf("UpsertChild() error: %v", err)
	}

	if updated.Name != "Leonard" || updated.CareNotes != "Prefers quiet rooms." {
		t.Error("replace should overwrite editable fields")
	}
	code, _ := e.InviteCode(child.ID)
	if updated.InviteCode != code || code == "HACKED-0000" {
		t.Errorf("invite code must be immutable once issued, got %s", updated.InviteCode)
	}
	if got := len(e.VisibleChildren()); got != 1 {
		t.Errorf("replace must not duplicate the profile, have %d", got)
	}
}

func TestUpsertChildRejectsDuplicateInviteCode(t *testing.T) {
	e, _, _, _ := newTestEngine(InitialState{})
	loginParent(t, e)

	if _, err := e.UpsertChild(models.ChildProfile{Name: "Leo", Age: 6, InviteCode: "LEO-2024"}); err != nil {
		t.Fatalf("first profile with explicit code should succeed: %v", err)
	}
	if _, err := e.UpsertChild(models.ChildProfile{Name: "Ben", Age: 5, InviteCode: "leo-2024"}); err != ErrInviteCodeTaken {
		t.Errorf("expected ErrInviteCodeTaken for duplicate code, got %v", err)
	}
	if got := len(e.VisibleChildren()); got != 1 {
		t.Errorf("rejected insert must not mutate state, have %d children", got)
	}
}

func TestDeleteChildCascade(t *testing.T) {
	e, store, _, _ := newTestEngine(InitialState{})
	loginParent(t, e)
	leo := addChild(t, e, "Leo")
	mia := addChild(t, e, "Mia")
	appendMood(t, e, leo.ID)
	appendMood(t, e, leo.ID)
	appendMood(t, e, mia.ID)

	// Connect an educator to Leo, then come back as the parent.
	loginEducator(t, e)
	if _, err := e.Redeem(leo.InviteCode); err != nil {
		t.Fatalf("Redeem() error: %v", err)
	}
	loginParent(t, e)

	if err := e.DeleteChild(leo.ID); err != nil {
		t.Fatalf("DeleteChild() error: %v", err)
	}

	if got := e.LogsByChild(leo.ID); len(got) != 0 {
		t.Errorf("cascade should purge logs, %d remain", len(got))
	}
	for _, id := range e.Connections() {
		if id == leo.ID {
			t.Error("cascade should prune the connection set")
		}
	}
	if active, ok := e.ActiveChild(); !ok || active.ID == leo.ID {
		t.Error("deleted child must leave the active selection")
	}
	if got := len(e.LogsByChild(mia.ID)); got != 1 {
		t.Errorf("other children's logs must survive, got %d", got)
	}
	if store.saved("snapshot") != 1 {
		t.Errorf("cascade should flush one snapshot, got %d", store.saved("snapshot"))
	}
}

func TestDeleteChildUnknown(t *testing.T) {
	e, _, _, _ := newTestEngine(InitialState{})
	loginParent(t, e)

	if err := e.DeleteChild("nope"); err != ErrChildNotFound {
		t.Errorf("expected ErrChildNotFound, got %v", err)
	}
}

func TestSwitchChildRequiresVisibility(t *testing.T) {
	children := []models.ChildProfile{
		{ID: "c1", Name: "Leo", Age: 6, InviteCode: "LEO-1111"},
		{ID: "c2", Name: "Mia", Age: 7, InviteCode: "MIA-2222"},
	}
	e, _, _, _ := newTestEngine(InitialState{Children: children, Connections: []string{"c1"}})
	loginEducator(t, e)

	if err := e.SwitchChild("c2"); err != ErrChildNotVisible {
		t.Errorf("expected ErrChildNotVisible, got %v", err)
	}
	if err := e.SwitchChild("c1"); err != nil {
		t.Errorf("SwitchChild(c1) error: %v", err)
	}
}

func TestStorageFailureDoesNotSurface(t *testing.T) {
	e, store, _, _ := newTestEngine(InitialState{})
	store.fail = true

	loginParent(t, e)
	child := addChild(t, e, "Leo")
	appendMood(t, e, child.ID)

	// All mutations above succeeded in memory despite failing writes.
	if got := len(e.LogsByChild(child.ID)); got != 1 {
		t.Errorf("in-memory state must stay authoritative, got %d logs", got)
	}
}
