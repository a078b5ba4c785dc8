package web

import (
	"bytes"
	"testing"
	"time"

	"github.com/gofiber/template/html/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/process-desk/internal/domain"
)

func loadedEngine(t *testing.T) *html.Engine {
	t.Helper()
	e := NewEngine()
	require.NoError(t, e.Load())
	return e
}

func TestEngine_RendersLoginWithoutShell(t *testing.T) {
	var buf bytes.Buffer
	err := loadedEngine(t).Render(&buf, "login", LoginView{Title: "Login", Username: "al<ice", Error: "Usuário ou senha inválidos"}, LayoutName)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `value="al&lt;ice"`)
	assert.Contains(t, out, "Usuário ou senha inválidos")
	assert.NotContains(t, out, "Logout")
}

func TestEngine_UnknownTemplate(t *testing.T) {
	err := loadedEngine(t).Render(&bytes.Buffer{}, "missing", nil)
	assert.Error(t, err)
}

func TestEngine_ErrorPageWithoutLayout(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, loadedEngine(t).Render(&buf, "error", ErrorView{Title: "Erro", Status: 404, Message: "Página não encontrada"}))
	assert.Contains(t, buf.String(), "Página não encontrada")
	assert.NotContains(t, buf.String(), "<!DOCTYPE html>")
}

func TestEngine_ProcessListAndEmptyState(t *testing.T) {
	e := loadedEngine(t)
	shell := &Shell{Username: "alice", Menu: Menu(PageProcesses)}

	var empty bytes.Buffer
	require.NoError(t, e.Render(&empty, "processos", ProcessPageView{Title: "Processos", Shell: shell}, LayoutName))
	assert.Contains(t, empty.String(), "Nenhum processo cadastrado ainda.")
	assert.Contains(t, empty.String(), "Bem-vindo, alice!")
	assert.Contains(t, empty.String(), `<li class="active"><a href="/processos">Processos</a>`)

	end := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	view := ProcessPageView{
		Title: "Processos",
		Shell: shell,
		Processes: []domain.Process{
			{ID: 7, Number: "P-007", Title: "Audit", Status: domain.ProcessStatusInProgress, StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), EndDate: &end},
		},
	}
	var list bytes.Buffer
	require.NoError(t, e.Render(&list, "processos", view, LayoutName))
	out := list.String()
	assert.Contains(t, out, "P-007")
	assert.Contains(t, out, "01/01/2024")
	assert.Contains(t, out, "01/02/2024")
	assert.Contains(t, out, `action="/processos/7/edit"`)
	assert.NotContains(t, out, "Nenhum processo cadastrado ainda.")
}

func TestEngine_EditModalRetainsValues(t *testing.T) {
	view := ProcessPageView{
		Title:       "Processos",
		Shell:       &Shell{Username: "alice", Menu: Menu(PageProcesses)},
		Modal:       domain.ModalEdit,
		Form:        ProcessForm{Title: "Audit", Description: "keep me", Status: string(domain.ProcessStatusCancelled)},
		FormError:   "Campos obrigatórios (*) devem ser preenchidos",
		FieldErrors: map[string]string{"number": "Campo obrigatório"},
	}

	var buf bytes.Buffer
	require.NoError(t, loadedEngine(t).Render(&buf, "processos", view, LayoutName))
	out := buf.String()
	assert.Contains(t, out, "Novo Processo</h3>")
	assert.Contains(t, out, `value="Audit"`)
	assert.Contains(t, out, "keep me</textarea>")
	assert.Contains(t, out, `<option value="Cancelado" selected>`)
	assert.Contains(t, out, "Campo obrigatório")
}

func TestEngine_DeleteModal(t *testing.T) {
	view := ProcessPageView{
		Title:               "Processos",
		Shell:               &Shell{Username: "alice"},
		Modal:               domain.ModalDelete,
		PendingDeleteNumber: "P-009",
	}
	var buf bytes.Buffer
	require.NoError(t, loadedEngine(t).Render(&buf, "processos", view, LayoutName))
	assert.Contains(t, buf.String(), "excluir o processo P-009?")
	assert.Contains(t, buf.String(), `action="/processos/delete/confirm"`)
}

func TestMenu(t *testing.T) {
	items := Menu(PageReports)
	require.Len(t, items, 5)
	assert.Equal(t, "/dashboard", items[0].Path)
	assert.True(t, items[3].Active)
	assert.False(t, items[0].Active)

	label, ok := PageLabel(PageConfiguration)
	assert.True(t, ok)
	assert.Equal(t, "Configurações", label)

	_, ok = PageLabel("admin")
	assert.False(t, ok)
}
