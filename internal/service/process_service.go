package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/process-desk/internal/domain"
	"github.com/spec-kit/process-desk/internal/events"
	"github.com/spec-kit/process-desk/internal/repository"
	apperrors "github.com/spec-kit/process-desk/pkg/util"
)

// RequiredFieldsMessage is reported when the process form is incomplete or invalid.
const RequiredFieldsMessage = "Campos obrigatórios (*) devem ser preenchidos"

// ProcessService coordinates process record workflows.
type ProcessService struct {
	processes  repository.ProcessRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// ProcessDependencies bundles collaborators for the process service.
type ProcessDependencies struct {
	ProcessRepo repository.ProcessRepository
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
}

// ProcessInput is the raw form submission. Values are kept as typed so a
// rejected form can be shown again unchanged.
type ProcessInput struct {
	Number      string
	Title       string
	Description string
	Status      string
	StartDate   string
	EndDate     string
}

// InputFromProcess prefills a form from a stored record.
func InputFromProcess(p domain.Process) ProcessInput {
	in := ProcessInput{
		Number:      p.Number,
		Title:       p.Title,
		Description: p.Description,
		Status:      string(p.Status),
		StartDate:   p.StartDate.Format(domain.DateLayout),
	}
	if p.EndDate != nil {
		in.EndDate = p.EndDate.Format(domain.DateLayout)
	}
	return in
}

// NewProcessService builds the service.
func NewProcessService(deps ProcessDependencies) *ProcessService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProcessService{
		processes:  deps.ProcessRepo,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// List returns every record, newest start date first.
func (s *ProcessService) List(ctx context.Context) ([]domain.Process, error) {
	processes, err := s.processes.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return processes, nil
}

// Get loads one record.
func (s *ProcessService) Get(ctx context.Context, id int64) (*domain.Process, error) {
	process, err := s.processes.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return process, nil
}

// Save validates the input, then updates selected when it is set or inserts
// a new record otherwise. Invalid input never reaches the database.
func (s *ProcessService) Save(ctx context.Context, actor string, in ProcessInput, selected *domain.Process) (*domain.Process, error) {
	process, err := in.Validate()
	if err != nil {
		return nil, err
	}

	if selected != nil {
		process.ID = selected.ID
		if err := s.processes.Update(ctx, &process); err != nil {
			return nil, apperrors.MapError(err)
		}
		s.publish(ctx, events.EventProcessUpdated, actor, process.ID, events.ProcessChangedPayload{
			Number:    process.Number,
			Title:     process.Title,
			OldStatus: selected.Status,
			NewStatus: process.Status,
		})
		return &process, nil
	}

	if err := s.processes.Create(ctx, &process); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publish(ctx, events.EventProcessCreated, actor, process.ID, events.ProcessChangedPayload{
		Number:    process.Number,
		Title:     process.Title,
		NewStatus: process.Status,
	})
	return &process, nil
}

// Delete removes the record with id. A missing record is not an error.
func (s *ProcessService) Delete(ctx context.Context, actor string, id int64, number string) error {
	found, err := s.processes.Delete(ctx, id)
	if err != nil {
		return apperrors.MapError(err)
	}
	if !found {
		s.logger.Info("delete of missing process ignored", zap.Int64("process_id", id))
	}
	s.publish(ctx, events.EventProcessDeleted, actor, id, events.ProcessDeletedPayload{Number: number, Found: found})
	return nil
}

func (s *ProcessService) publish(ctx context.Context, t events.EventType, actor string, id int64, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	event := events.New(t, actor, payload)
	event.ProcessID = id
	_ = s.dispatcher.Publish(ctx, event)
}

// Validate checks the form and converts it into a record. All field
// problems are reported together in the error details.
func (in ProcessInput) Validate() (domain.Process, error) {
	details := map[string]any{}

	number := strings.TrimSpace(in.Number)
	title := strings.TrimSpace(in.Title)
	if number == "" {
		details["number"] = "required"
	}
	if title == "" {
		details["title"] = "required"
	}

	status := domain.ProcessStatus(strings.TrimSpace(in.Status))
	if status == "" {
		status = domain.ProcessStatusPending
	}
	if !status.Valid() {
		details["status"] = "invalid"
	}

	var start time.Time
	if raw := strings.TrimSpace(in.StartDate); raw == "" {
		details["start_date"] = "required"
	} else if parsed, err := time.Parse(domain.DateLayout, raw); err != nil {
		details["start_date"] = "invalid"
	} else {
		start = parsed
	}

	var end *time.Time
	if raw := strings.TrimSpace(in.EndDate); raw != "" {
		if parsed, err := time.Parse(domain.DateLayout, raw); err != nil {
			details["end_date"] = "invalid"
		} else {
			end = &parsed
		}
	}

	if len(details) > 0 {
		return domain.Process{}, apperrors.NewValidationError(RequiredFieldsMessage, details)
	}

	return domain.Process{
		Number:      number,
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Status:      status,
		StartDate:   start,
		EndDate:     end,
	}, nil
}
