package web

import (
	"time"

	"github.com/spec-kit/process-desk/internal/domain"
)

// Shell is the chrome shared by every authenticated page.
type Shell struct {
	Username     string
	Menu         []MenuItem
	Flash        *domain.Flash
	LastActivity time.Time
}

// LoginView feeds the login page.
type LoginView struct {
	Title    string
	Shell    *Shell
	Username string
	Error    string
}

// PageView feeds the simple menu pages.
type PageView struct {
	Title string
	Shell *Shell
}

// ProcessForm holds the create/edit modal fields exactly as typed.
type ProcessForm struct {
	Number      string
	Title       string
	Description string
	Status      string
	StartDate   string
	EndDate     string
}

// ProcessPageView feeds the process list and its modals.
type ProcessPageView struct {
	Title     string
	Shell     *Shell
	Processes []domain.Process
	Error     string

	Modal               domain.Modal
	Editing             bool
	Form                ProcessForm
	FormError           string
	FieldErrors         map[string]string
	PendingDeleteNumber string
}

// ModalTitle is the heading of the create/edit modal.
func (v ProcessPageView) ModalTitle() string {
	if v.Editing {
		return "Editar Processo"
	}
	return "Novo Processo"
}

// ErrorView feeds the standalone error page.
type ErrorView struct {
	Title   string
	Shell   *Shell
	Status  int
	Message string
}
