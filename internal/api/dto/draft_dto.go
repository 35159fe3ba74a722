package dto

import "time"

// DraftRequest opens or edits a draft.
type DraftRequest struct {
	ReportedBy  string `json:"reported_by" form:"reported_by"`
	Description string `json:"description" form:"description"`
}

// DraftResponse mirrors an open draft.
type DraftResponse struct {
	ID             string                 `json:"id"`
	ReportedBy     string                 `json:"reported_by"`
	Unit           string                 `json:"unit,omitempty"`
	Description    string                 `json:"description"`
	Analyzing      bool                   `json:"analyzing"`
	Classification *ClassificationPayload `json:"classification,omitempty"`
	OpenedAt       time.Time              `json:"opened_at"`
}
