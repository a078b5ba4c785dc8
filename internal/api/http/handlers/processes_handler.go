package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/process-desk/internal/api/dto"
	"github.com/spec-kit/process-desk/internal/domain"
	"github.com/spec-kit/process-desk/internal/service"
	"github.com/spec-kit/process-desk/internal/session"
	"github.com/spec-kit/process-desk/internal/web"
	apperrors "github.com/spec-kit/process-desk/pkg/util"
)

const processesPath = "/" + web.PageProcesses

// ProcessesHandler serves the process list and its create, edit and delete
// modals. Every action mutates the session or the database and redirects
// back to the list, which is rebuilt from scratch.
type ProcessesHandler struct {
	processes *service.ProcessService
	logger    *zap.Logger
}

// NewProcessesHandler constructs handler.
func NewProcessesHandler(processes *service.ProcessService, logger *zap.Logger) *ProcessesHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProcessesHandler{processes: processes, logger: logger}
}

// formState overrides the modal form when a submission is re-shown.
type formState struct {
	form   web.ProcessForm
	err    error
	status int
}

// List renders GET /processos.
func (h *ProcessesHandler) List(c *fiber.Ctx, sess *session.Session) error {
	view, status := h.buildView(c, sess, nil)
	return render(c, status, "processos", view)
}

func (h *ProcessesHandler) buildView(c *fiber.Ctx, sess *session.Session, submitted *formState) (web.ProcessPageView, int) {
	status := fiber.StatusOK
	view := web.ProcessPageView{
		Title: "Processos",
		Shell: shellFor(sess, web.PageProcesses),
		Modal: sess.State.ActiveModal,
	}

	processes, err := h.processes.List(c.UserContext())
	if err != nil {
		h.logger.Warn("list processes failed", zap.Error(err))
		view.Error = UserMessage(err)
		status = statusOf(err)
	} else {
		view.Processes = processes
	}

	switch sess.State.ActiveModal {
	case domain.ModalEdit:
		view.Editing = sess.State.SelectedRecord != nil
		if view.Editing {
			view.Form = formFromInput(service.InputFromProcess(*sess.State.SelectedRecord))
		} else {
			view.Form = web.ProcessForm{Status: string(domain.ProcessStatusPending)}
		}
	case domain.ModalDelete:
		view.PendingDeleteNumber = sess.State.PendingDeleteNumber
	}

	if submitted != nil {
		view.Form = submitted.form
		view.FormError = UserMessage(submitted.err)
		view.FieldErrors = fieldErrors(submitted.err)
		status = submitted.status
	}
	return view, status
}

// OpenCreate handles POST /processos/new.
func (h *ProcessesHandler) OpenCreate(c *fiber.Ctx) error {
	session.FromContext(c).State.OpenCreate()
	return redirect(c, processesPath)
}

// OpenEdit handles POST /processos/:id/edit.
func (h *ProcessesHandler) OpenEdit(c *fiber.Ctx) error {
	sess := session.FromContext(c)
	process, ok := h.lookup(c, sess)
	if ok {
		sess.State.OpenEdit(*process)
	}
	return redirect(c, processesPath)
}

// Save handles POST /processos/save.
func (h *ProcessesHandler) Save(c *fiber.Ctx) error {
	sess := session.FromContext(c)

	var form dto.ProcessForm
	if err := c.BodyParser(&form); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid form")
	}
	input := service.ProcessInput{
		Number:      form.Number,
		Title:       form.Title,
		Description: form.Description,
		Status:      form.Status,
		StartDate:   form.StartDate,
		EndDate:     form.EndDate,
	}

	var selected *domain.Process
	if sess.State.ActiveModal == domain.ModalEdit {
		selected = sess.State.SelectedRecord
	} else {
		sess.State.OpenCreate()
	}

	if _, err := h.processes.Save(c.UserContext(), sess.State.Username, input, selected); err != nil {
		if !apperrors.IsCode(err, apperrors.CodeValidation) {
			h.logger.Warn("save process failed", zap.Error(err))
		}
		view, status := h.buildView(c, sess, &formState{form: formFromInput(input), err: err, status: statusOf(err)})
		return render(c, status, "processos", view)
	}

	sess.State.CloseModal()
	sess.State.SetFlash(domain.FlashSuccess, msgSaved)
	return redirect(c, processesPath)
}

// Cancel handles POST /processos/cancel and POST /processos/delete/cancel.
func (h *ProcessesHandler) Cancel(c *fiber.Ctx) error {
	session.FromContext(c).State.CloseModal()
	return redirect(c, processesPath)
}

// OpenDelete handles POST /processos/:id/delete.
func (h *ProcessesHandler) OpenDelete(c *fiber.Ctx) error {
	sess := session.FromContext(c)
	process, ok := h.lookup(c, sess)
	if ok {
		sess.State.OpenDelete(process.ID, process.Number)
	}
	return redirect(c, processesPath)
}

// ConfirmDelete handles POST /processos/delete/confirm.
func (h *ProcessesHandler) ConfirmDelete(c *fiber.Ctx) error {
	sess := session.FromContext(c)
	if sess.State.ActiveModal != domain.ModalDelete || sess.State.PendingDeleteID == nil {
		sess.State.CloseModal()
		return redirect(c, processesPath)
	}

	id := *sess.State.PendingDeleteID
	if err := h.processes.Delete(c.UserContext(), sess.State.Username, id, sess.State.PendingDeleteNumber); err != nil {
		h.logger.Warn("delete process failed", zap.Int64("process_id", id), zap.Error(err))
		sess.State.SetFlash(domain.FlashError, UserMessage(err))
		return redirect(c, processesPath)
	}

	sess.State.CloseModal()
	sess.State.SetFlash(domain.FlashSuccess, msgDeleted)
	return redirect(c, processesPath)
}

// lookup loads the record named by :id, flashing an error when it cannot.
func (h *ProcessesHandler) lookup(c *fiber.Ctx, sess *session.Session) (*domain.Process, bool) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		sess.State.SetFlash(domain.FlashError, msgProcessNotFound)
		return nil, false
	}

	process, err := h.processes.Get(c.UserContext(), int64(id))
	if err != nil {
		if !apperrors.IsCode(err, apperrors.CodeNotFound) {
			h.logger.Warn("load process failed", zap.Int("process_id", id), zap.Error(err))
		}
		sess.State.SetFlash(domain.FlashError, UserMessage(err))
		return nil, false
	}
	return process, true
}

func formFromInput(in service.ProcessInput) web.ProcessForm {
	return web.ProcessForm{
		Number:      in.Number,
		Title:       in.Title,
		Description: in.Description,
		Status:      in.Status,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
	}
}

func fieldErrors(err error) map[string]string {
	var de *apperrors.DomainError
	if !errors.As(err, &de) || de.Code != apperrors.CodeValidation {
		return nil
	}
	out := make(map[string]string, len(de.Details))
	for field, problem := range de.Details {
		if problem == "required" {
			out[field] = msgRequiredField
		} else {
			out[field] = msgInvalidField
		}
	}
	return out
}
