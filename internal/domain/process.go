package domain

import "time"

// ProcessStatus enumerates lifecycle states for a process record.
// Values are the labels stored in the processos.status column.
type ProcessStatus string

const (
	ProcessStatusPending    ProcessStatus = "Pendente"
	ProcessStatusInProgress ProcessStatus = "Em Andamento"
	ProcessStatusCompleted  ProcessStatus = "Concluído"
	ProcessStatusCancelled  ProcessStatus = "Cancelado"
)

// DateLayout is the wire format of start and end dates in forms.
const DateLayout = "2006-01-02"

// ProcessStatuses lists every status in display order.
func ProcessStatuses() []ProcessStatus {
	return []ProcessStatus{
		ProcessStatusPending,
		ProcessStatusInProgress,
		ProcessStatusCompleted,
		ProcessStatusCancelled,
	}
}

// Valid reports whether s is one of the known statuses.
func (s ProcessStatus) Valid() bool {
	for _, known := range ProcessStatuses() {
		if s == known {
			return true
		}
	}
	return false
}

// Process is a tracked case or workflow item.
type Process struct {
	ID          int64         `json:"id"`
	Number      string        `json:"number"`
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	Status      ProcessStatus `json:"status"`
	StartDate   time.Time     `json:"start_date"`
	EndDate     *time.Time    `json:"end_date,omitempty"`
}
