package handlers

import (
	"carebridge/internal/models"
)

// ChildView is a child profile as presented to the current user. The
// invite code is withheld from educators.
type ChildView struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Age              int    `json:"age"`
	CareNotes        string `json:"careNotes,omitempty"`
	ParentName       string `json:"parentName,omitempty"`
	EmergencyContact string `json:"emergencyContact,omitempty"`
	InviteCode       string `json:"inviteCode,omitempty"`
}

// SessionView is the full picture the client renders after login: who
// is signed in, which child is selected, and which children are
// available to switch to.
type SessionView struct {
	User        models.User `json:"user"`
	ActiveChild *ChildView  `json:"activeChild,omitempty"`
	Children    []ChildView `json:"children"`
}

// RiskView pairs the scheduler state with the latest prediction.
type RiskView struct {
	Status     string             `json:"status"`
	Prediction *models.Prediction `json:"prediction,omitempty"`
}

func childViewFor(user *models.User, child models.ChildProfile) ChildView {
	v := ChildView{
		ID:               child.ID,
		Name:             child.Name,
		Age:              child.Age,
		CareNotes:        child.CareNotes,
		ParentName:       child.ParentName,
		EmergencyContact: child.EmergencyContact,
	}
	if user != nil && user.Role == models.RoleParent {
		v.InviteCode = child.InviteCode
	}
	return v
}

func sessionViewFor(engine engineView, user *models.User) SessionView {
	view := SessionView{User: *user, Children: []ChildView{}}
	for _, c := range engine.VisibleChildren() {
		view.Children = append(view.Children, childViewFor(user, c))
	}
	if active, ok := engine.ActiveChild(); ok {
		v := childViewFor(user, active)
		view.ActiveChild = &v
	}
	return view
}

// engineView is the read surface the session view needs.
type engineView interface {
	VisibleChildren() []models.ChildProfile
	ActiveChild() (models.ChildProfile, bool)
}
