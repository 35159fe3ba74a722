package domain

import "time"

// TicketStatus enumerates lifecycle states for maintenance tickets.
// Any status may follow any other; there is no transition table.
type TicketStatus string

const (
	TicketStatusPending    TicketStatus = "Pendiente"
	TicketStatusInProgress TicketStatus = "En Progreso"
	TicketStatusCompleted  TicketStatus = "Completado"
)

// TicketStatuses lists statuses in display order.
var TicketStatuses = []TicketStatus{TicketStatusPending, TicketStatusInProgress, TicketStatusCompleted}

// Valid reports whether s is a known status.
func (s TicketStatus) Valid() bool {
	switch s {
	case TicketStatusPending, TicketStatusInProgress, TicketStatusCompleted:
		return true
	}
	return false
}

// TicketPriority enumerates urgency levels.
type TicketPriority string

const (
	TicketPriorityLow      TicketPriority = "Baja"
	TicketPriorityMedium   TicketPriority = "Media"
	TicketPriorityHigh     TicketPriority = "Alta"
	TicketPriorityCritical TicketPriority = "Crítica"
)

// TicketPriorities lists priorities from lowest to highest.
var TicketPriorities = []TicketPriority{TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh, TicketPriorityCritical}

// Valid reports whether p is one of the four priorities.
func (p TicketPriority) Valid() bool {
	switch p {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh, TicketPriorityCritical:
		return true
	}
	return false
}

const (
	DefaultCategory    = "General"
	UnknownUnit        = "Desconocido"
	UntitledTicketName = "Nueva Solicitud"
)

// Ticket is one reported facility issue. History is newest-first and
// always holds at least the creation entry.
type Ticket struct {
	ID          string
	Title       string
	Description string
	Unit        string
	Priority    TicketPriority
	Status      TicketStatus
	Category    string
	CreatedAt   time.Time
	ReportedBy  string
	AssignedTo  string
	AIAnalysis  string
	History     []HistoryItem
}

// Clone returns a copy that shares no history backing array with t.
func (t *Ticket) Clone() *Ticket {
	if t == nil {
		return nil
	}
	cp := *t
	cp.History = append([]HistoryItem(nil), t.History...)
	return &cp
}
