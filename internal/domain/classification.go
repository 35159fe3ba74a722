package domain

import "fmt"

// ClassificationResult is the category/priority/suggestion triple produced by
// the classifier or one of its fallbacks.
type ClassificationResult struct {
	Category        string         `json:"category"`
	Priority        TicketPriority `json:"priority"`
	SuggestedAction string         `json:"suggestedAction"`
}

// UnconfiguredClassification is returned when no classifier credential exists.
func UnconfiguredClassification() ClassificationResult {
	return ClassificationResult{
		Category:        DefaultCategory,
		Priority:        TicketPriorityMedium,
		SuggestedAction: "Revisar manualmente.",
	}
}

// FailedClassification is returned when a configured call fails in any way.
func FailedClassification() ClassificationResult {
	return ClassificationResult{
		Category:        "Desconocido",
		Priority:        TicketPriorityMedium,
		SuggestedAction: "Análisis fallido. Revisar manualmente.",
	}
}

// Validate rejects results with missing fields or a priority outside the enum.
func (r ClassificationResult) Validate() error {
	if r.Category == "" {
		return fmt.Errorf("classification: missing category")
	}
	if r.SuggestedAction == "" {
		return fmt.Errorf("classification: missing suggested action")
	}
	if !r.Priority.Valid() {
		return fmt.Errorf("classification: invalid priority %q", r.Priority)
	}
	return nil
}

// TicketTitle renders the title a classified ticket receives.
func (r ClassificationResult) TicketTitle() string {
	return "Problema de " + r.Category
}
