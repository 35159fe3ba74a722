// Package seed loads the initial residents and tickets the in-memory stores
// start with. Nothing is persisted, so every boot reseeds from here.
package seed

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/spec-kit/maintenance-service/internal/domain"
	"github.com/spec-kit/maintenance-service/internal/repository"
)

//go:embed demo.yaml
var demoData []byte

// Data is the on-disk seed layout.
type Data struct {
	Residents []Resident `yaml:"residents"`
	Tickets   []Ticket   `yaml:"tickets"`
}

// Resident is a seeded tenant.
type Resident struct {
	ID     string `yaml:"id"`
	Name   string `yaml:"name"`
	Email  string `yaml:"email"`
	Phone  string `yaml:"phone"`
	Unit   string `yaml:"unit"`
	Status string `yaml:"status"`
}

// Ticket is a seeded maintenance ticket.
type Ticket struct {
	ID          string        `yaml:"id"`
	Title       string        `yaml:"title"`
	Description string        `yaml:"description"`
	Unit        string        `yaml:"unit"`
	Priority    string        `yaml:"priority"`
	Status      string        `yaml:"status"`
	Category    string        `yaml:"category"`
	CreatedAt   string        `yaml:"created_at"`
	ReportedBy  string        `yaml:"reported_by"`
	AssignedTo  string        `yaml:"assigned_to"`
	AIAnalysis  string        `yaml:"ai_analysis"`
	History     []HistoryItem `yaml:"history"`
}

// HistoryItem is a seeded history entry, newest first.
type HistoryItem struct {
	ID     string `yaml:"id"`
	Date   string `yaml:"date"`
	Action string `yaml:"action"`
	Note   string `yaml:"note"`
	User   string `yaml:"user"`
}

// Demo returns the embedded demo data set.
func Demo() (*Data, error) {
	return Parse(demoData)
}

// LoadFile reads a YAML seed file.
func LoadFile(path string) (*Data, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed %s: %w", path, err)
	}
	return Parse(raw)
}

// Parse decodes YAML seed data.
func Parse(raw []byte) (*Data, error) {
	var data Data
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decode seed: %w", err)
	}
	return &data, nil
}

// Apply loads residents and tickets into the stores. Tickets are inserted so
// the first ticket in the file ends up first in the store. Tickets without
// history receive a creation entry attributed to actingUser.
func Apply(ctx context.Context, data *Data, tickets repository.TicketRepository, residents repository.ResidentRepository, actingUser string, logger *zap.Logger) error {
	if data == nil {
		return nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	for _, r := range data.Residents {
		residents.Add(ctx, domain.Resident{
			ID:     r.ID,
			Name:   strings.TrimSpace(r.Name),
			Email:  r.Email,
			Phone:  r.Phone,
			Unit:   r.Unit,
			Status: domain.ResidentStatus(r.Status),
		})
	}
	for i := len(data.Tickets) - 1; i >= 0; i-- {
		ticket, err := data.Tickets[i].toDomain(actingUser)
		if err != nil {
			return err
		}
		if err := tickets.Insert(ctx, ticket); err != nil {
			return fmt.Errorf("seed ticket %s: %w", ticket.ID, err)
		}
	}
	logger.Info("seed data applied",
		zap.Int("residents", len(data.Residents)),
		zap.Int("tickets", len(data.Tickets)))
	return nil
}

func (t Ticket) toDomain(actingUser string) (*domain.Ticket, error) {
	createdAt, err := parseDate(t.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("seed ticket %s created_at: %w", t.ID, err)
	}
	ticket := &domain.Ticket{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Unit:        t.Unit,
		Priority:    domain.TicketPriority(t.Priority),
		Status:      domain.TicketStatus(t.Status),
		Category:    t.Category,
		CreatedAt:   createdAt,
		ReportedBy:  t.ReportedBy,
		AssignedTo:  t.AssignedTo,
		AIAnalysis:  t.AIAnalysis,
	}
	if ticket.ID == "" {
		ticket.ID = uuid.NewString()
	}
	if ticket.Title == "" {
		ticket.Title = domain.UntitledTicketName
	}
	if ticket.Unit == "" {
		ticket.Unit = domain.UnknownUnit
	}
	if ticket.Category == "" {
		ticket.Category = domain.DefaultCategory
	}
	if ticket.Priority == "" {
		ticket.Priority = domain.TicketPriorityMedium
	}
	if ticket.Status == "" {
		ticket.Status = domain.TicketStatusPending
	}
	if !ticket.Priority.Valid() {
		return nil, fmt.Errorf("seed ticket %s: invalid priority %q", ticket.ID, ticket.Priority)
	}
	if !ticket.Status.Valid() {
		return nil, fmt.Errorf("seed ticket %s: invalid status %q", ticket.ID, ticket.Status)
	}

	for _, h := range t.History {
		date, err := parseDate(h.Date)
		if err != nil {
			return nil, fmt.Errorf("seed ticket %s history: %w", ticket.ID, err)
		}
		item := domain.HistoryItem{ID: h.ID, Date: date, Action: h.Action, Note: h.Note, User: h.User}
		if item.ID == "" {
			item.ID = uuid.NewString()
		}
		ticket.History = append(ticket.History, item)
	}
	if len(ticket.History) == 0 {
		ticket.History = []domain.HistoryItem{{
			ID:     uuid.NewString(),
			Date:   createdAt,
			Action: domain.ActionTicketCreated,
			User:   actingUser,
		}}
	}
	return ticket, nil
}

func parseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Now(), nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse(time.DateOnly, value)
}
