// Package ui holds the client's view-state machine and its terminal rendering.
package ui

import (
	"context"
	"strings"

	"simple-crud/client"
	"simple-crud/models"
)

// API is what the session needs from the server. *client.Client implements it.
type API interface {
	Login(ctx context.Context, username, password string) (string, error)
	SetToken(token string)
	ListItems(ctx context.Context) ([]models.Item, error)
	CreateItem(ctx context.Context, name string) (models.Item, error)
	UpdateItem(ctx context.Context, id int64, name string) (models.Item, error)
	DeleteItem(ctx context.Context, id int64) error
}

type Screen int

const (
	ScreenLogin Screen = iota
	ScreenItems
)

// Messages shown to the user.
const (
	MsgNameRequired  = "Item name is required."
	MsgNameEmpty     = "Item name cannot be empty."
	MsgLoginFailed   = "An unexpected error occurred during login."
	MsgLoadFailed    = "Failed to load items."
	MsgCreateFailed  = "Failed to create item."
	MsgUpdateFailed  = "Failed to update item."
	MsgDeleteFailed  = "Failed to delete item."
	MsgConfirmDelete = "Are you sure you want to delete this item?"
)

// EditDraft is the one item currently in edit mode.
type EditDraft struct {
	ID   int64
	Name string
}

// PendingAction is an action waiting for confirmation. A nil PendingAction means none.
type PendingAction interface {
	pendingAction()
}

// PendingDelete asks to delete the item with ID.
type PendingDelete struct {
	ID int64
}

func (PendingDelete) pendingAction() {}

// Session is the whole client state. Every change goes through its methods,
// and item state is only ever replaced by a fresh list from the server.
type Session struct {
	api API

	Screen   Screen
	LoggedIn bool
	Token    string

	Username string
	Password string

	Items   []models.Item
	NewName string
	Editing *EditDraft
	Pending PendingAction

	LoginError string
	ItemError  string
}

func NewSession(api API) *Session {
	return &Session{api: api, Screen: ScreenLogin}
}

// Login submits the current credentials. On success the session moves to the
// items screen and loads the list.
func (s *Session) Login(ctx context.Context) {
	s.LoginError = ""
	s.ItemError = ""

	token, err := s.api.Login(ctx, s.Username, s.Password)
	if err != nil {
		s.LoginError = errorText(err, MsgLoginFailed)
		return
	}

	s.LoggedIn = true
	s.Token = token
	s.Screen = ScreenItems
	s.Refresh(ctx)
}

// Logout drops every piece of client state and returns to the login screen.
func (s *Session) Logout() {
	s.api.SetToken("")
	*s = Session{api: s.api, Screen: ScreenLogin}
}

// Refresh replaces the item list with the server's.
func (s *Session) Refresh(ctx context.Context) {
	items, err := s.api.ListItems(ctx)
	if err != nil {
		s.ItemError = MsgLoadFailed
		return
	}
	s.Items = items
}

// Create adds NewName as an item and reports whether the server accepted it.
func (s *Session) Create(ctx context.Context) bool {
	s.ItemError = ""
	if strings.TrimSpace(s.NewName) == "" {
		s.ItemError = MsgNameRequired
		return false
	}

	if _, err := s.api.CreateItem(ctx, s.NewName); err != nil {
		s.ItemError = errorText(err, MsgCreateFailed)
		return false
	}
	s.NewName = ""
	s.Refresh(ctx)
	return true
}

// BeginEdit puts the item with id into edit mode, replacing any other draft.
func (s *Session) BeginEdit(id int64) {
	for _, it := range s.Items {
		if it.ID == id {
			s.Editing = &EditDraft{ID: it.ID, Name: it.Name}
			return
		}
	}
}

func (s *Session) SetEditName(name string) {
	if s.Editing != nil {
		s.Editing.Name = name
	}
}

func (s *Session) CancelEdit() {
	s.Editing = nil
}

func (s *Session) SaveEdit(ctx context.Context) {
	if s.Editing == nil {
		return
	}
	s.ItemError = ""
	if strings.TrimSpace(s.Editing.Name) == "" {
		s.ItemError = MsgNameEmpty
		return
	}

	if _, err := s.api.UpdateItem(ctx, s.Editing.ID, s.Editing.Name); err != nil {
		s.ItemError = errorText(err, MsgUpdateFailed)
		return
	}
	s.Editing = nil
	s.Refresh(ctx)
}

// RequestDelete asks for confirmation before deleting id.
func (s *Session) RequestDelete(id int64) {
	s.Pending = PendingDelete{ID: id}
}

func (s *Session) CancelPending() {
	s.Pending = nil
}

// ConfirmPending runs the pending action. The prompt closes whatever the outcome.
func (s *Session) ConfirmPending(ctx context.Context) {
	switch p := s.Pending.(type) {
	case PendingDelete:
		s.ItemError = ""
		err := s.api.DeleteItem(ctx, p.ID)
		s.Pending = nil
		if err != nil {
			s.ItemError = errorText(err, MsgDeleteFailed)
			return
		}
		s.Refresh(ctx)
	}
}

// errorText prefers the server's own message over the generic fallback.
func errorText(err error, fallback string) string {
	if msg, ok := client.ServerMessage(err); ok {
		return msg
	}
	return fallback
}
