package worker

import (
	"context"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/spec-kit/process-desk/internal/events"
)

// AuditWorker writes an audit line for every login and record change.
type AuditWorker struct {
	logger *zap.Logger

	mu     sync.Mutex
	counts map[events.EventType]int
}

// EventCount is the number of audited events of one type.
type EventCount struct {
	Type  events.EventType `json:"type"`
	Count int              `json:"count"`
}

// StartAuditWorker subscribes the worker to the dispatcher.
func StartAuditWorker(dispatcher events.Dispatcher, logger *zap.Logger) *AuditWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	w := &AuditWorker{
		logger: logger.Named("audit"),
		counts: make(map[events.EventType]int),
	}
	if dispatcher == nil {
		return w
	}
	for _, t := range []events.EventType{
		events.EventUserLoggedIn,
		events.EventUserLoginFailed,
		events.EventUserLoggedOut,
		events.EventProcessCreated,
		events.EventProcessUpdated,
		events.EventProcessDeleted,
	} {
		dispatcher.Subscribe(t, w.handle)
	}
	return w
}

func (w *AuditWorker) handle(_ context.Context, event events.Event) error {
	w.mu.Lock()
	w.counts[event.Type]++
	w.mu.Unlock()

	fields := []zap.Field{
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)),
		zap.Time("at", event.Timestamp),
	}
	if event.Actor != "" {
		fields = append(fields, zap.String("actor", event.Actor))
	}
	if event.ProcessID != 0 {
		fields = append(fields, zap.Int64("process_id", event.ProcessID))
	}
	if event.Payload != nil {
		fields = append(fields, zap.Any("payload", event.Payload))
	}

	if event.Type == events.EventUserLoginFailed {
		w.logger.Warn("audit", fields...)
		return nil
	}
	w.logger.Info("audit", fields...)
	return nil
}

// Counts returns audited totals ordered by event type.
func (w *AuditWorker) Counts() []EventCount {
	w.mu.Lock()
	defer w.mu.Unlock()

	out := make([]EventCount, 0, len(w.counts))
	for t, n := range w.counts {
		out = append(out, EventCount{Type: t, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Type < out[j].Type })
	return out
}
