package domain

// ResidentStatus represents lifecycle states for a tenant.
type ResidentStatus string

const (
	ResidentStatusActive   ResidentStatus = "Activo"
	ResidentStatusInactive ResidentStatus = "Inactivo"
	ResidentStatusPast     ResidentStatus = "Pasado"
)

// Resident is a tenant known to the directory. Only the fields the ticket
// core needs are modelled.
type Resident struct {
	ID     string
	Name   string
	Email  string
	Phone  string
	Unit   string
	Status ResidentStatus
}
