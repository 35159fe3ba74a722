package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/maintenance-service/internal/domain"
	"github.com/spec-kit/maintenance-service/internal/events"
	"github.com/spec-kit/maintenance-service/internal/repository"
	apperrors "github.com/spec-kit/maintenance-service/pkg/util/errorutil"
)

// MaintenanceService drives the ticket lifecycle. Every mutation appends
// exactly one history entry.
type MaintenanceService struct {
	tickets    repository.TicketRepository
	residents  repository.ResidentRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	actingUser string
	now        func() time.Time
	newID      func() string
}

// MaintenanceDependencies bundles collaborators for the service.
type MaintenanceDependencies struct {
	TicketRepo   repository.TicketRepository
	ResidentRepo repository.ResidentRepository
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
	ActingUser   string
	Clock        func() time.Time
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	ReportedBy     string
	Description    string
	Classification *domain.ClassificationResult
}

// TicketStats summarizes the ticket list for the dashboard.
type TicketStats struct {
	Total      int
	Open       int
	ByStatus   []CountEntry
	ByCategory []CountEntry
}

// CountEntry is one labelled count.
type CountEntry struct {
	Name  string
	Value int
}

// NewMaintenanceService constructs the service.
func NewMaintenanceService(deps MaintenanceDependencies) *MaintenanceService {
	s := &MaintenanceService{
		tickets:    deps.TicketRepo,
		residents:  deps.ResidentRepo,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
		actingUser: strings.TrimSpace(deps.ActingUser),
		now:        deps.Clock,
		newID:      uuid.NewString,
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.actingUser == "" {
		s.actingUser = "Admin"
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// ResolveUnit returns the reporter's unit, or the unknown-unit marker.
func (s *MaintenanceService) ResolveUnit(ctx context.Context, reporter string) string {
	if s.residents != nil {
		if resident, ok := s.residents.FindByName(ctx, reporter); ok && resident.Unit != "" {
			return resident.Unit
		}
	}
	return domain.UnknownUnit
}

// CreateTicket creates a pending ticket, folding in the classification if one
// was obtained beforehand.
func (s *MaintenanceService) CreateTicket(ctx context.Context, input TicketCreateInput) (*domain.Ticket, error) {
	reporter := strings.TrimSpace(input.ReportedBy)
	description := strings.TrimSpace(input.Description)
	if reporter == "" || description == "" {
		return nil, apperrors.NewValidationError("reported_by and description required", nil)
	}
	if input.Classification != nil {
		if err := input.Classification.Validate(); err != nil {
			return nil, apperrors.NewValidationError("invalid classification", map[string]any{"reason": err.Error()})
		}
	}

	now := s.now()
	ticket := &domain.Ticket{
		ID:          s.newID(),
		Title:       domain.UntitledTicketName,
		Description: description,
		Unit:        s.ResolveUnit(ctx, reporter),
		Priority:    domain.TicketPriorityMedium,
		Status:      domain.TicketStatusPending,
		Category:    domain.DefaultCategory,
		CreatedAt:   now,
		ReportedBy:  reporter,
		History: []domain.HistoryItem{{
			ID:     s.newID(),
			Date:   now,
			Action: domain.ActionTicketCreated,
			User:   s.actingUser,
		}},
	}
	if c := input.Classification; c != nil {
		ticket.Title = c.TicketTitle()
		ticket.Category = c.Category
		ticket.Priority = c.Priority
		ticket.AIAnalysis = c.SuggestedAction
	}

	if err := s.tickets.Insert(ctx, ticket); err != nil {
		return nil, err
	}
	s.logger.Info("ticket created",
		zap.String("ticket_id", ticket.ID),
		zap.String("unit", ticket.Unit),
		zap.String("category", ticket.Category),
		zap.Bool("classified", input.Classification != nil))
	s.publishEvent(ctx, events.EventTicketCreated, ticket.ID, events.TicketCreatedPayload{
		Title:      ticket.Title,
		Unit:       ticket.Unit,
		Category:   ticket.Category,
		Priority:   ticket.Priority,
		ReportedBy: ticket.ReportedBy,
		Classified: input.Classification != nil,
	})
	return ticket, nil
}

// ChangeStatus sets the status unconditionally. Repeating the current status
// still records an entry.
func (s *MaintenanceService) ChangeStatus(ctx context.Context, ticketID string, status domain.TicketStatus, note string) (*domain.Ticket, error) {
	if !status.Valid() {
		return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": status})
	}
	result, err := s.apply(ctx, ticketID, repository.TicketPatch{Status: &status}, domain.StatusChangedAction(status), note)
	if err != nil {
		return nil, err
	}
	ticket := result.Ticket
	s.publishEvent(ctx, events.EventTicketStatusChanged, ticket.ID, events.TicketStatusChangedPayload{
		OldStatus: result.PreviousStatus,
		NewStatus: status,
		Note:      strings.TrimSpace(note),
	})
	return ticket, nil
}

// Assign sets or clears the assignee. Only roster members are accepted.
func (s *MaintenanceService) Assign(ctx context.Context, ticketID, staffName, note string) (*domain.Ticket, error) {
	staffName = strings.TrimSpace(staffName)
	if !domain.IsAssignable(staffName) {
		return nil, apperrors.NewValidationError("assignee not in staff roster", map[string]any{"assigned_to": staffName})
	}
	result, err := s.apply(ctx, ticketID, repository.TicketPatch{AssignedTo: &staffName}, domain.AssignedAction(staffName), note)
	if err != nil {
		return nil, err
	}
	ticket := result.Ticket
	s.publishEvent(ctx, events.EventTicketAssigned, ticket.ID, events.TicketAssignedPayload{
		OldAssignee: result.PreviousAssignee,
		NewAssignee: staffName,
		Note:        strings.TrimSpace(note),
	})
	return ticket, nil
}

// AddNote records a note without changing any ticket field.
func (s *MaintenanceService) AddNote(ctx context.Context, ticketID, note string) (*domain.Ticket, error) {
	note = strings.TrimSpace(note)
	if note == "" {
		return nil, apperrors.NewValidationError("note required", nil)
	}
	result, err := s.apply(ctx, ticketID, repository.TicketPatch{}, domain.ActionNoteAdded, note)
	if err != nil {
		return nil, err
	}
	ticket := result.Ticket
	s.publishEvent(ctx, events.EventTicketNoteAdded, ticket.ID, events.TicketNoteAddedPayload{
		NotePreview: stringPreview(note, 120),
	})
	return ticket, nil
}

// GetTicket returns one ticket with its history.
func (s *MaintenanceService) GetTicket(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	return s.getTicket(ctx, ticketID)
}

// ListTickets returns tickets newest-created first.
func (s *MaintenanceService) ListTickets(ctx context.Context) []domain.Ticket {
	return s.tickets.List(ctx)
}

// ListResidents returns the resident directory.
func (s *MaintenanceService) ListResidents(ctx context.Context) []domain.Resident {
	if s.residents == nil {
		return nil
	}
	return s.residents.List(ctx)
}

// Stats computes dashboard counts. Open means anything not completed.
func (s *MaintenanceService) Stats(ctx context.Context) TicketStats {
	tickets := s.tickets.List(ctx)
	stats := TicketStats{Total: len(tickets)}

	statusCounts := make(map[domain.TicketStatus]int, len(domain.TicketStatuses))
	categoryIndex := map[string]int{}
	for _, ticket := range tickets {
		statusCounts[ticket.Status]++
		if ticket.Status != domain.TicketStatusCompleted {
			stats.Open++
		}
		if idx, ok := categoryIndex[ticket.Category]; ok {
			stats.ByCategory[idx].Value++
			continue
		}
		categoryIndex[ticket.Category] = len(stats.ByCategory)
		stats.ByCategory = append(stats.ByCategory, CountEntry{Name: ticket.Category, Value: 1})
	}
	for _, status := range domain.TicketStatuses {
		stats.ByStatus = append(stats.ByStatus, CountEntry{Name: string(status), Value: statusCounts[status]})
	}
	return stats
}

func (s *MaintenanceService) getTicket(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	ticket, ok := s.tickets.GetByID(ctx, ticketID)
	if !ok {
		return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
	}
	return ticket, nil
}

// apply performs one store update with its history entry. The store ignores
// unknown ids; that surfaces here as NOT_FOUND with the store untouched.
func (s *MaintenanceService) apply(ctx context.Context, ticketID string, patch repository.TicketPatch, action, note string) (repository.TicketUpdate, error) {
	entry := domain.HistoryItem{
		ID:     s.newID(),
		Date:   s.now(),
		Action: action,
		Note:   strings.TrimSpace(note),
		User:   s.actingUser,
	}
	result, ok := s.tickets.Update(ctx, ticketID, patch, entry)
	if !ok {
		s.logger.Debug("update for unknown ticket ignored", zap.String("ticket_id", ticketID), zap.String("action", action))
		return repository.TicketUpdate{}, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
	}
	s.logger.Info("ticket updated", zap.String("ticket_id", ticketID), zap.String("action", action))
	return result, nil
}

func (s *MaintenanceService) publishEvent(ctx context.Context, eventType events.EventType, ticketID string, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		TicketID:  ticketID,
		Actor:     s.actingUser,
		Timestamp: s.now(),
		Payload:   payload,
	})
}

func stringPreview(body string, max int) string {
	body = strings.TrimSpace(body)
	runes := []rune(body)
	if len(runes) <= max {
		return body
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
