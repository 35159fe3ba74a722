package events

import (
	"time"

	"github.com/spec-kit/maintenance-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated       EventType = "ticket_created"
	EventTicketStatusChanged EventType = "ticket_status_changed"
	EventTicketAssigned      EventType = "ticket_assigned"
	EventTicketNoteAdded     EventType = "ticket_note_added"
)

// AllEventTypes lists every event the maintenance core emits.
var AllEventTypes = []EventType{
	EventTicketCreated,
	EventTicketStatusChanged,
	EventTicketAssigned,
	EventTicketNoteAdded,
}

// Event represents a ticket mutation. Subscribers treat it as the signal to
// re-read the ticket.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id"`
	Actor     string      `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	Title      string                `json:"title"`
	Unit       string                `json:"unit"`
	Category   string                `json:"category"`
	Priority   domain.TicketPriority `json:"priority"`
	ReportedBy string                `json:"reported_by,omitempty"`
	Classified bool                  `json:"classified"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
	Note      string              `json:"note,omitempty"`
}

// TicketAssignedPayload payload.
type TicketAssignedPayload struct {
	OldAssignee string `json:"old_assignee,omitempty"`
	NewAssignee string `json:"new_assignee,omitempty"`
	Note        string `json:"note,omitempty"`
}

// TicketNoteAddedPayload payload.
type TicketNoteAddedPayload struct {
	NotePreview string `json:"note_preview"`
}
