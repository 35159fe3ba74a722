package dto

import (
	"time"

	"github.com/spec-kit/maintenance-service/internal/domain"
)

// ClassificationPayload carries a classification result over the wire.
type ClassificationPayload struct {
	Category        string                `json:"category" form:"category"`
	Priority        domain.TicketPriority `json:"priority" form:"priority"`
	SuggestedAction string                `json:"suggestedAction" form:"suggestedAction"`
}

// CreateTicketRequest payload. Classification is the optional result of a
// prior preview.
type CreateTicketRequest struct {
	ReportedBy     string                 `json:"reported_by" form:"reported_by"`
	Description    string                 `json:"description" form:"description"`
	Classification *ClassificationPayload `json:"classification,omitempty" form:"classification"`
}

// ChangeStatusRequest payload.
type ChangeStatusRequest struct {
	Status domain.TicketStatus `json:"status" form:"status"`
	Note   string              `json:"note,omitempty" form:"note"`
}

// AssignRequest payload. An empty assigned_to unassigns.
type AssignRequest struct {
	AssignedTo string `json:"assigned_to" form:"assigned_to"`
	Note       string `json:"note,omitempty" form:"note"`
}

// AddNoteRequest payload.
type AddNoteRequest struct {
	Note string `json:"note" form:"note"`
}

// ClassifyRequest payload.
type ClassifyRequest struct {
	Description string `json:"description" form:"description"`
}

// TicketSummary response.
type TicketSummary struct {
	ID         string                `json:"id"`
	Title      string                `json:"title"`
	Unit       string                `json:"unit"`
	Priority   domain.TicketPriority `json:"priority"`
	Status     domain.TicketStatus   `json:"status"`
	Category   string                `json:"category"`
	CreatedAt  string                `json:"created_at"`
	ReportedBy string                `json:"reported_by,omitempty"`
	AssignedTo string                `json:"assigned_to,omitempty"`
}

// TicketDetailResponse provides full ticket info.
type TicketDetailResponse struct {
	TicketSummary
	Description string                  `json:"description"`
	AIAnalysis  string                  `json:"ai_analysis,omitempty"`
	History     []TicketHistoryResponse `json:"history"`
}

// TicketHistoryResponse is one audit entry.
type TicketHistoryResponse struct {
	ID        string    `json:"id"`
	Date      string    `json:"date"`
	Timestamp time.Time `json:"timestamp"`
	Action    string    `json:"action"`
	Note      string    `json:"note,omitempty"`
	User      string    `json:"user"`
}

// CountResponse is one labelled count.
type CountResponse struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// TicketStatsResponse summarizes tickets for the dashboard.
type TicketStatsResponse struct {
	Total      int             `json:"total"`
	Open       int             `json:"open"`
	ByStatus   []CountResponse `json:"by_status"`
	ByCategory []CountResponse `json:"by_category"`
}

// ResidentResponse is a directory entry.
type ResidentResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Unit   string `json:"unit"`
	Status string `json:"status,omitempty"`
}
