package domain

import "time"

// Modal identifies which overlay form is open on the process page.
type Modal string

const (
	ModalNone   Modal = ""
	ModalEdit   Modal = "edit"
	ModalDelete Modal = "delete"
)

// FlashKind styles a one-shot message.
type FlashKind string

const (
	FlashSuccess FlashKind = "success"
	FlashError   FlashKind = "error"
)

// Flash is a message shown once on the next render.
type Flash struct {
	Kind    FlashKind `json:"kind"`
	Message string    `json:"message"`
}

// SessionState is the per-browser state kept between requests.
type SessionState struct {
	Authenticated       bool      `json:"authenticated"`
	Username            string    `json:"username,omitempty"`
	ActiveModal         Modal     `json:"active_modal,omitempty"`
	SelectedRecord      *Process  `json:"selected_record,omitempty"`
	PendingDeleteID     *int64    `json:"pending_delete_id,omitempty"`
	PendingDeleteNumber string    `json:"pending_delete_number,omitempty"`
	Flash               *Flash    `json:"flash,omitempty"`
	LastActivity        time.Time `json:"last_activity,omitempty"`
}

// SignIn marks the session as belonging to username.
func (s *SessionState) SignIn(username string) {
	s.Authenticated = true
	s.Username = username
}

// Clear drops everything, including authentication.
func (s *SessionState) Clear() {
	*s = SessionState{}
}

// OpenCreate opens the edit modal with no record selected.
func (s *SessionState) OpenCreate() {
	s.CloseModal()
	s.ActiveModal = ModalEdit
}

// OpenEdit opens the edit modal on a snapshot of p.
func (s *SessionState) OpenEdit(p Process) {
	s.CloseModal()
	snapshot := p
	if p.EndDate != nil {
		end := *p.EndDate
		snapshot.EndDate = &end
	}
	s.ActiveModal = ModalEdit
	s.SelectedRecord = &snapshot
}

// OpenDelete opens the delete confirmation for record id.
func (s *SessionState) OpenDelete(id int64, number string) {
	s.CloseModal()
	s.ActiveModal = ModalDelete
	s.PendingDeleteID = &id
	s.PendingDeleteNumber = number
}

// CloseModal returns to the plain list view.
func (s *SessionState) CloseModal() {
	s.ActiveModal = ModalNone
	s.SelectedRecord = nil
	s.PendingDeleteID = nil
	s.PendingDeleteNumber = ""
}

// SetFlash queues a message for the next render.
func (s *SessionState) SetFlash(kind FlashKind, message string) {
	s.Flash = &Flash{Kind: kind, Message: message}
}

// TakeFlash returns the queued message, if any, and clears it.
func (s *SessionState) TakeFlash() *Flash {
	f := s.Flash
	s.Flash = nil
	return f
}
