package domain

import (
	"fmt"
	"time"
)

// History actions recorded on tickets.
const (
	ActionTicketCreated = "Ticket Creado"
	ActionNoteAdded     = "Nota agregada"
)

// HistoryItem is an immutable audit entry owned by a single ticket.
type HistoryItem struct {
	ID     string
	Date   time.Time
	Action string
	Note   string
	User   string
}

// StatusChangedAction renders the history action for a status change.
func StatusChangedAction(status TicketStatus) string {
	return fmt.Sprintf("Estado cambiado a %s", status)
}

// AssignedAction renders the history action for an assignment change.
// Unassigning leaves the name empty: "Asignado a ".
func AssignedAction(staffName string) string {
	return fmt.Sprintf("Asignado a %s", staffName)
}
