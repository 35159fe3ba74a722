package handlers

import (
	"github.com/spec-kit/maintenance-service/internal/api/dto"
	"github.com/spec-kit/maintenance-service/internal/domain"
	"github.com/spec-kit/maintenance-service/internal/service"
)

const dateLayout = "2006-01-02"

func ticketSummary(ticket *domain.Ticket) dto.TicketSummary {
	return dto.TicketSummary{
		ID:         ticket.ID,
		Title:      ticket.Title,
		Unit:       ticket.Unit,
		Priority:   ticket.Priority,
		Status:     ticket.Status,
		Category:   ticket.Category,
		CreatedAt:  ticket.CreatedAt.Format(dateLayout),
		ReportedBy: ticket.ReportedBy,
		AssignedTo: ticket.AssignedTo,
	}
}

func ticketDetail(ticket *domain.Ticket) dto.TicketDetailResponse {
	return dto.TicketDetailResponse{
		TicketSummary: ticketSummary(ticket),
		Description:   ticket.Description,
		AIAnalysis:    ticket.AIAnalysis,
		History:       historyResponses(ticket.History),
	}
}

func historyResponses(entries []domain.HistoryItem) []dto.TicketHistoryResponse {
	resp := make([]dto.TicketHistoryResponse, 0, len(entries))
	for _, entry := range entries {
		resp = append(resp, dto.TicketHistoryResponse{
			ID:        entry.ID,
			Date:      entry.Date.Format(dateLayout),
			Timestamp: entry.Date,
			Action:    entry.Action,
			Note:      entry.Note,
			User:      entry.User,
		})
	}
	return resp
}

func classificationPayload(result domain.ClassificationResult) dto.ClassificationPayload {
	return dto.ClassificationPayload{
		Category:        result.Category,
		Priority:        result.Priority,
		SuggestedAction: result.SuggestedAction,
	}
}

func draftResponse(draft *service.Draft) dto.DraftResponse {
	resp := dto.DraftResponse{
		ID:          draft.ID,
		ReportedBy:  draft.ReportedBy,
		Unit:        draft.Unit,
		Description: draft.Description,
		Analyzing:   draft.Analyzing,
		OpenedAt:    draft.OpenedAt,
	}
	if draft.Classification != nil {
		payload := classificationPayload(*draft.Classification)
		resp.Classification = &payload
	}
	return resp
}

func countResponses(entries []service.CountEntry) []dto.CountResponse {
	resp := make([]dto.CountResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, dto.CountResponse{Name: e.Name, Value: e.Value})
	}
	return resp
}
