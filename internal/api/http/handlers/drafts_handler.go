package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/maintenance-service/internal/api/dto"
	"github.com/spec-kit/maintenance-service/internal/service"
	apperrors "github.com/spec-kit/maintenance-service/pkg/util/errorutil"
)

// DraftsHandler exposes ticket creation drafts.
type DraftsHandler struct {
	drafts *service.DraftService
}

// NewDraftsHandler constructs handler.
func NewDraftsHandler(draftService *service.DraftService) *DraftsHandler {
	return &DraftsHandler{drafts: draftService}
}

// OpenDraft POST /maintenance/drafts.
func (h *DraftsHandler) OpenDraft(c *fiber.Ctx) error {
	var req dto.DraftRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return apperrors.NewValidationError("invalid payload", nil)
		}
	}
	draft := h.drafts.OpenDraft(c.UserContext(), service.DraftInput{ReportedBy: req.ReportedBy, Description: req.Description})
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": draftResponse(draft)})
}

// GetDraft GET /maintenance/drafts/:id.
func (h *DraftsHandler) GetDraft(c *fiber.Ctx) error {
	draft, err := h.drafts.GetDraft(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": draftResponse(draft)})
}

// UpdateDraft PUT /maintenance/drafts/:id.
func (h *DraftsHandler) UpdateDraft(c *fiber.Ctx) error {
	var req dto.DraftRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	draft, err := h.drafts.UpdateDraft(c.UserContext(), c.Params("id"), service.DraftInput{ReportedBy: req.ReportedBy, Description: req.Description})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": draftResponse(draft)})
}

// AnalyzeDraft POST /maintenance/drafts/:id/analyze.
func (h *DraftsHandler) AnalyzeDraft(c *fiber.Ctx) error {
	draft, err := h.drafts.AnalyzeDraft(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": draftResponse(draft)})
}

// CloseDraft DELETE /maintenance/drafts/:id.
func (h *DraftsHandler) CloseDraft(c *fiber.Ctx) error {
	h.drafts.CloseDraft(c.UserContext(), c.Params("id"))
	return c.SendStatus(http.StatusNoContent)
}

// SubmitDraft POST /maintenance/drafts/:id/submit.
func (h *DraftsHandler) SubmitDraft(c *fiber.Ctx) error {
	ticket, err := h.drafts.SubmitDraft(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": ticketDetail(ticket)})
}
