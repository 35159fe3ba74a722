package repository

import (
	"context"
	"sync"

	"github.com/spec-kit/maintenance-service/internal/domain"
	apperrors "github.com/spec-kit/maintenance-service/pkg/util/errorutil"
)

// TicketPatch lists the ticket fields an update may change. Nil fields are
// left untouched.
type TicketPatch struct {
	Status     *domain.TicketStatus
	AssignedTo *string
}

// TicketRepository encapsulates ticket storage.
type TicketRepository interface {
	Insert(ctx context.Context, ticket *domain.Ticket) error
	Update(ctx context.Context, id string, patch TicketPatch, entry domain.HistoryItem) (TicketUpdate, bool)
	GetByID(ctx context.Context, id string) (*domain.Ticket, bool)
	List(ctx context.Context) []domain.Ticket
}

// ticketStore keeps tickets newest-created first for the life of the process.
type ticketStore struct {
	mu      sync.RWMutex
	tickets []*domain.Ticket
	byID    map[string]*domain.Ticket
}

// NewTicketStore instantiates an empty in-memory store.
func NewTicketStore() TicketRepository {
	return &ticketStore{byID: make(map[string]*domain.Ticket)}
}

// Insert prepends a fully formed ticket.
func (s *ticketStore) Insert(_ context.Context, ticket *domain.Ticket) error {
	if ticket == nil || ticket.ID == "" {
		return apperrors.NewValidationError("ticket id required", nil)
	}
	if len(ticket.History) == 0 {
		return apperrors.NewValidationError("ticket history must contain the creation entry", map[string]any{"ticket_id": ticket.ID})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byID[ticket.ID]; exists {
		return apperrors.NewConflict("ticket id already in use", map[string]any{"ticket_id": ticket.ID})
	}
	stored := ticket.Clone()
	s.tickets = append([]*domain.Ticket{stored}, s.tickets...)
	s.byID[stored.ID] = stored
	return nil
}

// TicketUpdate is the outcome of Update: the patched ticket and the values
// it held before the patch, read under the same lock.
type TicketUpdate struct {
	Ticket           *domain.Ticket
	PreviousStatus   domain.TicketStatus
	PreviousAssignee string
}

// Update merges patch into the ticket and prepends entry to its history.
// An unknown id is a no-op reported through the boolean.
func (s *ticketStore) Update(_ context.Context, id string, patch TicketPatch, entry domain.HistoryItem) (TicketUpdate, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ticket, ok := s.byID[id]
	if !ok {
		return TicketUpdate{}, false
	}
	result := TicketUpdate{
		PreviousStatus:   ticket.Status,
		PreviousAssignee: ticket.AssignedTo,
	}
	if patch.Status != nil {
		ticket.Status = *patch.Status
	}
	if patch.AssignedTo != nil {
		ticket.AssignedTo = *patch.AssignedTo
	}
	history := make([]domain.HistoryItem, 0, len(ticket.History)+1)
	history = append(history, entry)
	ticket.History = append(history, ticket.History...)
	result.Ticket = ticket.Clone()
	return result, true
}

func (s *ticketStore) GetByID(_ context.Context, id string) (*domain.Ticket, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ticket, ok := s.byID[id]
	if !ok {
		return nil, false
	}
	return ticket.Clone(), true
}

func (s *ticketStore) List(_ context.Context) []domain.Ticket {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.Ticket, 0, len(s.tickets))
	for _, ticket := range s.tickets {
		result = append(result, *ticket.Clone())
	}
	return result
}
