package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/maintenance-service/internal/classifier"
	"github.com/spec-kit/maintenance-service/internal/domain"
	apperrors "github.com/spec-kit/maintenance-service/pkg/util/errorutil"
)

// ErrDraftAbandoned is returned when a classification arrives for a draft
// that was closed or submitted while the call was in flight.
var ErrDraftAbandoned = apperrors.NewConflict("draft abandoned before analysis completed", nil)

// Draft is an in-progress ticket creation form.
type Draft struct {
	ID             string
	ReportedBy     string
	Unit           string
	Description    string
	Classification *domain.ClassificationResult
	Analyzing      bool
	OpenedAt       time.Time
}

// DraftInput carries the editable draft fields.
type DraftInput struct {
	ReportedBy  string
	Description string
}

// DraftService holds open drafts and applies classification results only
// to drafts that are still open. Draft ids are never reused, so a draft that
// left the registry cannot come back.
type DraftService struct {
	mu     sync.Mutex
	drafts map[string]*Draft

	maintenance *MaintenanceService
	classifier  classifier.Classifier
	logger      *zap.Logger
}

// NewDraftService constructs the service.
func NewDraftService(maintenance *MaintenanceService, c classifier.Classifier, logger *zap.Logger) *DraftService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DraftService{
		drafts:      make(map[string]*Draft),
		maintenance: maintenance,
		classifier:  c,
		logger:      logger,
	}
}

// OpenDraft starts a new draft.
func (s *DraftService) OpenDraft(ctx context.Context, input DraftInput) *Draft {
	reporter := strings.TrimSpace(input.ReportedBy)
	draft := &Draft{
		ID:          uuid.NewString(),
		ReportedBy:  reporter,
		Unit:        s.unitFor(ctx, reporter),
		Description: strings.TrimSpace(input.Description),
		OpenedAt:    time.Now(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts[draft.ID] = draft
	return cloneDraft(draft)
}

// GetDraft returns a snapshot of an open draft.
func (s *DraftService) GetDraft(_ context.Context, id string) (*Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	draft, ok := s.drafts[id]
	if !ok {
		return nil, draftNotFound(id)
	}
	return cloneDraft(draft), nil
}

// UpdateDraft edits the form. Drafts stay editable while an analysis is pending.
func (s *DraftService) UpdateDraft(ctx context.Context, id string, input DraftInput) (*Draft, error) {
	reporter := strings.TrimSpace(input.ReportedBy)
	unit := s.unitFor(ctx, reporter)

	s.mu.Lock()
	defer s.mu.Unlock()
	draft, ok := s.drafts[id]
	if !ok {
		return nil, draftNotFound(id)
	}
	draft.ReportedBy = reporter
	draft.Unit = unit
	draft.Description = strings.TrimSpace(input.Description)
	return cloneDraft(draft), nil
}

// AnalyzeDraft classifies the draft's description. The classifier runs without
// any lock held; its result is dropped with ErrDraftAbandoned if the draft was
// closed in the meantime. The ticket store is never touched here.
func (s *DraftService) AnalyzeDraft(ctx context.Context, id string) (*Draft, error) {
	s.mu.Lock()
	draft, ok := s.drafts[id]
	if !ok {
		s.mu.Unlock()
		return nil, draftNotFound(id)
	}
	description := draft.Description
	if description == "" {
		s.mu.Unlock()
		return nil, apperrors.NewValidationError("description required before analysis", map[string]any{"draft_id": id})
	}
	draft.Analyzing = true
	s.mu.Unlock()

	result := s.classifier.Classify(ctx, description)

	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.drafts[id]
	if !ok || current != draft {
		s.logger.Info("discarding classification for abandoned draft", zap.String("draft_id", id))
		return nil, ErrDraftAbandoned
	}
	current.Analyzing = false
	current.Classification = &result
	return cloneDraft(current), nil
}

// CloseDraft abandons the draft. Closing an unknown draft is not an error.
func (s *DraftService) CloseDraft(_ context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, id)
}

// SubmitDraft creates the ticket from the draft and closes it.
func (s *DraftService) SubmitDraft(ctx context.Context, id string) (*domain.Ticket, error) {
	s.mu.Lock()
	draft, ok := s.drafts[id]
	if !ok {
		s.mu.Unlock()
		return nil, draftNotFound(id)
	}
	snapshot := cloneDraft(draft)
	s.mu.Unlock()

	ticket, err := s.maintenance.CreateTicket(ctx, TicketCreateInput{
		ReportedBy:     snapshot.ReportedBy,
		Description:    snapshot.Description,
		Classification: snapshot.Classification,
	})
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if current, ok := s.drafts[id]; ok && current == draft {
		delete(s.drafts, id)
	}
	s.mu.Unlock()
	return ticket, nil
}

// OpenDrafts reports how many drafts are currently open.
func (s *DraftService) OpenDrafts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.drafts)
}

func (s *DraftService) unitFor(ctx context.Context, reporter string) string {
	if reporter == "" || s.maintenance == nil {
		return ""
	}
	return s.maintenance.ResolveUnit(ctx, reporter)
}

func draftNotFound(id string) error {
	return apperrors.NewNotFound("draft", map[string]any{"draft_id": id})
}

func cloneDraft(d *Draft) *Draft {
	cp := *d
	if d.Classification != nil {
		c := *d.Classification
		cp.Classification = &c
	}
	return &cp
}

// IsDraftAbandoned reports whether err signals a discarded analysis.
func IsDraftAbandoned(err error) bool {
	return errors.Is(err, ErrDraftAbandoned)
}
