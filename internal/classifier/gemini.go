package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/spec-kit/maintenance-service/internal/domain"
)

const systemInstruction = "Eres un asistente experto en gestión de instalaciones. " +
	"Analiza las solicitudes de mantenimiento para categorizarlas y priorizarlas eficientemente. " +
	"Responde siempre en Español."

// maxResponseBytes caps how much of a generateContent response is read.
const maxResponseBytes = 1 << 20

const promptTemplate = "Analiza esta descripción de solicitud de mantenimiento de un inquilino y clasifícala. Descripción: %q"

// --- Gemini wire format types ---

type generateRequest struct {
	SystemInstruction *content         `json:"systemInstruction,omitempty"`
	Contents          []content        `json:"contents"`
	GenerationConfig  generationConfig `json:"generationConfig"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	ResponseMimeType string  `json:"responseMimeType"`
	ResponseSchema   *schema `json:"responseSchema,omitempty"`
}

type schema struct {
	Type        string             `json:"type"`
	Description string             `json:"description,omitempty"`
	Enum        []string           `json:"enum,omitempty"`
	Properties  map[string]*schema `json:"properties,omitempty"`
	Required    []string           `json:"required,omitempty"`
}

type generateResponse struct {
	Candidates []candidate `json:"candidates"`
}

type candidate struct {
	Content      content `json:"content"`
	FinishReason string  `json:"finishReason,omitempty"`
}

// classificationPayload uses pointers so absent fields are detectable.
type classificationPayload struct {
	Category        *string `json:"category"`
	Priority        *string `json:"priority"`
	SuggestedAction *string `json:"suggestedAction"`
}

func analysisSchema() *schema {
	priorities := make([]string, 0, len(domain.TicketPriorities))
	for _, p := range domain.TicketPriorities {
		priorities = append(priorities, string(p))
	}
	return &schema{
		Type: "OBJECT",
		Properties: map[string]*schema{
			"category": {
				Type:        "STRING",
				Description: "The technical category of the issue (e.g., Plomería, Eléctrico, HVAC, General). in Spanish.",
			},
			"priority": {
				Type:        "STRING",
				Enum:        priorities,
				Description: "Recommended priority level based on severity and potential damage.",
			},
			"suggestedAction": {
				Type:        "STRING",
				Description: "A short, actionable suggestion for the property manager in Spanish (max 15 words).",
			},
		},
		Required: []string{"category", "priority", "suggestedAction"},
	}
}

func buildRequest(description string) generateRequest {
	return generateRequest{
		SystemInstruction: &content{Parts: []part{{Text: systemInstruction}}},
		Contents: []content{{
			Role:  "user",
			Parts: []part{{Text: fmt.Sprintf(promptTemplate, description)}},
		}},
		GenerationConfig: generationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   analysisSchema(),
		},
	}
}

// generate posts the request and returns the first candidate's text.
func (g *Gateway) generate(ctx context.Context, body generateRequest) (string, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", g.baseURL, g.model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", g.apiKey)

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes+1))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if len(respBody) > maxResponseBytes {
		return "", fmt.Errorf("response exceeds %d bytes", maxResponseBytes)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("api error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var genResp generateResponse
	if err := json.Unmarshal(respBody, &genResp); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	if len(genResp.Candidates) == 0 {
		return "", errors.New("no candidates in response")
	}
	var sb strings.Builder
	for _, p := range genResp.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	if strings.TrimSpace(sb.String()) == "" {
		return "", errors.New("no text response")
	}
	return sb.String(), nil
}

func parseClassification(text string) (domain.ClassificationResult, error) {
	var payload classificationPayload
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		return domain.ClassificationResult{}, fmt.Errorf("decode classification: %w", err)
	}
	if payload.Category == nil || payload.Priority == nil || payload.SuggestedAction == nil {
		return domain.ClassificationResult{}, errors.New("classification missing required field")
	}
	result := domain.ClassificationResult{
		Category:        strings.TrimSpace(*payload.Category),
		Priority:        domain.TicketPriority(strings.TrimSpace(*payload.Priority)),
		SuggestedAction: strings.TrimSpace(*payload.SuggestedAction),
	}
	if err := result.Validate(); err != nil {
		return domain.ClassificationResult{}, err
	}
	return result, nil
}
