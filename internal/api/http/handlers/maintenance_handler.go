package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/maintenance-service/internal/api/dto"
	"github.com/spec-kit/maintenance-service/internal/classifier"
	"github.com/spec-kit/maintenance-service/internal/domain"
	"github.com/spec-kit/maintenance-service/internal/service"
	apperrors "github.com/spec-kit/maintenance-service/pkg/util/errorutil"
)

// MaintenanceHandler exposes the ticket lifecycle.
type MaintenanceHandler struct {
	service    *service.MaintenanceService
	classifier classifier.Classifier
}

// NewMaintenanceHandler constructs handler.
func NewMaintenanceHandler(maintenanceService *service.MaintenanceService, c classifier.Classifier) *MaintenanceHandler {
	return &MaintenanceHandler{service: maintenanceService, classifier: c}
}

// ListTickets GET /maintenance/tickets.
func (h *MaintenanceHandler) ListTickets(c *fiber.Ctx) error {
	tickets := h.service.ListTickets(c.UserContext())
	items := make([]dto.TicketSummary, 0, len(tickets))
	for i := range tickets {
		items = append(items, ticketSummary(&tickets[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetTicket GET /maintenance/tickets/:id.
func (h *MaintenanceHandler) GetTicket(c *fiber.Ctx) error {
	ticket, err := h.service.GetTicket(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketDetail(ticket)})
}

// CreateTicket POST /maintenance/tickets.
func (h *MaintenanceHandler) CreateTicket(c *fiber.Ctx) error {
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.ReportedBy) == "" || strings.TrimSpace(req.Description) == "" {
		return apperrors.NewValidationError("reported_by and description required", nil)
	}

	input := service.TicketCreateInput{
		ReportedBy:  req.ReportedBy,
		Description: req.Description,
	}
	if req.Classification != nil {
		input.Classification = &domain.ClassificationResult{
			Category:        strings.TrimSpace(req.Classification.Category),
			Priority:        req.Classification.Priority,
			SuggestedAction: strings.TrimSpace(req.Classification.SuggestedAction),
		}
	}
	ticket, err := h.service.CreateTicket(c.UserContext(), input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": ticketDetail(ticket)})
}

// ChangeStatus POST /maintenance/tickets/:id/status.
func (h *MaintenanceHandler) ChangeStatus(c *fiber.Ctx) error {
	var req dto.ChangeStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.service.ChangeStatus(c.UserContext(), c.Params("id"), req.Status, req.Note)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketDetail(ticket)})
}

// Assign POST /maintenance/tickets/:id/assignee.
func (h *MaintenanceHandler) Assign(c *fiber.Ctx) error {
	var req dto.AssignRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.service.Assign(c.UserContext(), c.Params("id"), req.AssignedTo, req.Note)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketDetail(ticket)})
}

// AddNote POST /maintenance/tickets/:id/notes.
func (h *MaintenanceHandler) AddNote(c *fiber.Ctx) error {
	var req dto.AddNoteRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Note) == "" {
		return apperrors.NewValidationError("note required", nil)
	}
	ticket, err := h.service.AddNote(c.UserContext(), c.Params("id"), req.Note)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": ticketDetail(ticket)})
}

// Stats GET /maintenance/stats.
func (h *MaintenanceHandler) Stats(c *fiber.Ctx) error {
	stats := h.service.Stats(c.UserContext())
	return c.JSON(fiber.Map{"data": dto.TicketStatsResponse{
		Total:      stats.Total,
		Open:       stats.Open,
		ByStatus:   countResponses(stats.ByStatus),
		ByCategory: countResponses(stats.ByCategory),
	}})
}

// Staff GET /maintenance/staff.
func (h *MaintenanceHandler) Staff(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": domain.StaffRoster})
}

// Residents GET /maintenance/residents.
func (h *MaintenanceHandler) Residents(c *fiber.Ctx) error {
	residents := h.service.ListResidents(c.UserContext())
	items := make([]dto.ResidentResponse, 0, len(residents))
	for _, r := range residents {
		items = append(items, dto.ResidentResponse{ID: r.ID, Name: r.Name, Unit: r.Unit, Status: string(r.Status)})
	}
	return c.JSON(fiber.Map{"data": items})
}

// Classify POST /maintenance/classify. The result is a preview only and is
// not attached to any ticket.
func (h *MaintenanceHandler) Classify(c *fiber.Ctx) error {
	var req dto.ClassifyRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	description := strings.TrimSpace(req.Description)
	if description == "" {
		return apperrors.NewValidationError("description required", nil)
	}
	result := h.classifier.Classify(c.UserContext(), description)
	return c.JSON(fiber.Map{"data": classificationPayload(result)})
}
