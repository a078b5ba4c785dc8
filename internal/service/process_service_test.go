package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/process-desk/internal/domain"
	"github.com/spec-kit/process-desk/internal/events"
	apperrors "github.com/spec-kit/process-desk/pkg/util"
)

func date(s string) time.Time {
	t, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestProcessService_CreateInsertsOneRow(t *testing.T) {
	repo := newFakeProcessRepo()
	svc := NewProcessService(ProcessDependencies{ProcessRepo: repo})
	ctx := context.Background()

	created, err := svc.Save(ctx, "alice", ProcessInput{
		Number:    "P-001",
		Title:     "Audit",
		Status:    string(domain.ProcessStatusPending),
		StartDate: "2024-01-01",
	}, nil)
	require.NoError(t, err)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	want := []domain.Process{{
		ID:        created.ID,
		Number:    "P-001",
		Title:     "Audit",
		Status:    domain.ProcessStatusPending,
		StartDate: date("2024-01-01"),
	}}
	if diff := cmp.Diff(want, list); diff != "" {
		t.Fatalf("list mismatch (-want +got):\n%s", diff)
	}
}

func TestProcessService_RejectsMissingRequiredFields(t *testing.T) {
	repo := newFakeProcessRepo()
	svc := NewProcessService(ProcessDependencies{ProcessRepo: repo})

	_, err := svc.Save(context.Background(), "alice", ProcessInput{
		Title:       "Audit",
		Description: "kept",
		StartDate:   "2024-01-01",
	}, nil)
	require.Error(t, err)

	var de *apperrors.DomainError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, apperrors.CodeValidation, de.Code)
	assert.Equal(t, RequiredFieldsMessage, de.Message)
	assert.Equal(t, map[string]any{"number": "required"}, de.Details)
	assert.Zero(t, repo.writes)
}

func TestProcessInput_Validate(t *testing.T) {
	tests := []struct {
		name    string
		in      ProcessInput
		invalid []string
	}{
		{"empty", ProcessInput{}, []string{"number", "title", "start_date"}},
		{"blank strings", ProcessInput{Number: "  ", Title: " ", StartDate: "2024-01-01"}, []string{"number", "title"}},
		{"bad status", ProcessInput{Number: "1", Title: "t", Status: "Archived", StartDate: "2024-01-01"}, []string{"status"}},
		{"bad dates", ProcessInput{Number: "1", Title: "t", StartDate: "01/02/2024", EndDate: "soon"}, []string{"start_date", "end_date"}},
		{"valid", ProcessInput{Number: "1", Title: "t", StartDate: "2024-01-01", EndDate: "2024-02-01"}, nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p, err := tc.in.Validate()
			if tc.invalid == nil {
				require.NoError(t, err)
				assert.Equal(t, domain.ProcessStatusPending, p.Status)
				require.NotNil(t, p.EndDate)
				assert.Equal(t, date("2024-02-01"), *p.EndDate)
				return
			}
			var de *apperrors.DomainError
			require.True(t, errors.As(err, &de))
			keys := make([]string, 0, len(de.Details))
			for k := range de.Details {
				keys = append(keys, k)
			}
			assert.ElementsMatch(t, tc.invalid, keys)
		})
	}
}

func TestProcessService_EditChangesOnlyTarget(t *testing.T) {
	repo := newFakeProcessRepo()
	svc := NewProcessService(ProcessDependencies{ProcessRepo: repo})
	ctx := context.Background()

	first, err := svc.Save(ctx, "alice", ProcessInput{Number: "P-1", Title: "One", StartDate: "2024-01-01"}, nil)
	require.NoError(t, err)
	second, err := svc.Save(ctx, "alice", ProcessInput{Number: "P-2", Title: "Two", StartDate: "2024-02-01"}, nil)
	require.NoError(t, err)

	snapshot, err := svc.Get(ctx, first.ID)
	require.NoError(t, err)
	in := InputFromProcess(*snapshot)
	in.Title = "One (edited)"
	in.Status = string(domain.ProcessStatusCompleted)
	in.EndDate = "2024-03-01"

	_, err = svc.Save(ctx, "alice", in, snapshot)
	require.NoError(t, err)

	got, err := svc.Get(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "One (edited)", got.Title)
	assert.Equal(t, domain.ProcessStatusCompleted, got.Status)
	require.NotNil(t, got.EndDate)

	untouched, err := svc.Get(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, *second, *untouched)
}

func TestProcessService_EditOfVanishedRecordIsNotFound(t *testing.T) {
	svc := NewProcessService(ProcessDependencies{ProcessRepo: newFakeProcessRepo()})
	ghost := &domain.Process{ID: 42}

	_, err := svc.Save(context.Background(), "alice", ProcessInput{Number: "1", Title: "t", StartDate: "2024-01-01"}, ghost)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
}

func TestProcessService_DeleteTargetsOnlyIDAndMissingIsNoop(t *testing.T) {
	repo := newFakeProcessRepo()
	dispatcher := events.NewInMemoryDispatcher(nil)
	var payloads []events.ProcessDeletedPayload
	dispatcher.Subscribe(events.EventProcessDeleted, func(_ context.Context, e events.Event) error {
		payloads = append(payloads, e.Payload.(events.ProcessDeletedPayload))
		return nil
	})
	svc := NewProcessService(ProcessDependencies{ProcessRepo: repo, Dispatcher: dispatcher})
	ctx := context.Background()

	a, err := svc.Save(ctx, "alice", ProcessInput{Number: "A", Title: "a", StartDate: "2024-01-01"}, nil)
	require.NoError(t, err)
	b, err := svc.Save(ctx, "alice", ProcessInput{Number: "B", Title: "b", StartDate: "2024-01-02"}, nil)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, "alice", a.ID, "A"))
	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, b.ID, list[0].ID)

	require.NoError(t, svc.Delete(ctx, "alice", 999, ""))
	assert.Equal(t, []events.ProcessDeletedPayload{{Number: "A", Found: true}, {Found: false}}, payloads)
}

func TestProcessService_ListOrderedByStartDateDesc(t *testing.T) {
	svc := NewProcessService(ProcessDependencies{ProcessRepo: newFakeProcessRepo()})
	ctx := context.Background()

	for _, d := range []string{"2024-03-01", "2023-12-31", "2024-06-15", "2024-03-01"} {
		_, err := svc.Save(ctx, "alice", ProcessInput{Number: d, Title: d, StartDate: d}, nil)
		require.NoError(t, err)
	}

	list, err := svc.List(ctx)
	require.NoError(t, err)
	for i := 1; i < len(list); i++ {
		assert.False(t, list[i].StartDate.After(list[i-1].StartDate), "row %d out of order", i)
	}
}

func TestProcessService_ListErrorIsClassified(t *testing.T) {
	repo := newFakeProcessRepo()
	repo.listErr = apperrors.NewConfigurationError("DATABASE_URL não encontrada")
	svc := NewProcessService(ProcessDependencies{ProcessRepo: repo})

	_, err := svc.List(context.Background())
	assert.True(t, apperrors.IsCode(err, apperrors.CodeConfiguration))
}
