package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/maintenance-service/internal/domain"
	"github.com/spec-kit/maintenance-service/internal/observability"
)

func geminiServer(t *testing.T, text string, status int) (*httptest.Server, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		if status != http.StatusOK {
			http.Error(w, `{"error":"boom"}`, status)
			return
		}
		resp := generateResponse{Candidates: []candidate{{Content: content{Role: "model", Parts: []part{{Text: text}}}}}}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func TestClassify_UnconfiguredReturnsManualReviewWithoutNetwork(t *testing.T) {
	srv, calls := geminiServer(t, `{}`, http.StatusOK)
	metrics := observability.NewMetrics()
	g := NewGateway("", WithBaseURL(srv.URL), WithMetrics(metrics))

	got := g.Classify(context.Background(), "Grifo goteando")

	assert.Equal(t, domain.ClassificationResult{
		Category:        "General",
		Priority:        domain.TicketPriorityMedium,
		SuggestedAction: "Revisar manualmente.",
	}, got)
	assert.Zero(t, atomic.LoadInt32(calls))
	assert.Equal(t, int64(1), metrics.Snapshot().Classifications[OutcomeUnconfigured])
}

func TestClassify_Success(t *testing.T) {
	var captured generateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/gemini-2.5-flash:generateContent", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		text := `{"category":"Plomería","priority":"Alta","suggestedAction":"Enviar plomero hoy."}`
		_ = json.NewEncoder(w).Encode(generateResponse{Candidates: []candidate{{Content: content{Parts: []part{{Text: text}}}}}})
	}))
	defer srv.Close()

	g := NewGateway("test-key", WithBaseURL(srv.URL+"/"))
	got := g.Classify(context.Background(), "Fuga de agua en la cocina")

	assert.Equal(t, "Plomería", got.Category)
	assert.Equal(t, domain.TicketPriorityHigh, got.Priority)
	assert.Equal(t, "Enviar plomero hoy.", got.SuggestedAction)

	require.Len(t, captured.Contents, 1)
	assert.Contains(t, captured.Contents[0].Parts[0].Text, "Fuga de agua en la cocina")
	require.NotNil(t, captured.SystemInstruction)
	assert.Contains(t, captured.SystemInstruction.Parts[0].Text, "Español")
	assert.Equal(t, "application/json", captured.GenerationConfig.ResponseMimeType)
	require.NotNil(t, captured.GenerationConfig.ResponseSchema)
	assert.ElementsMatch(t, []string{"category", "priority", "suggestedAction"}, captured.GenerationConfig.ResponseSchema.Required)
	assert.Equal(t, []string{"Baja", "Media", "Alta", "Crítica"}, captured.GenerationConfig.ResponseSchema.Properties["priority"].Enum)
}

func TestClassify_FailuresFallBack(t *testing.T) {
	cases := []struct {
		name   string
		text   string
		status int
	}{
		{name: "server error", text: "", status: http.StatusInternalServerError},
		{name: "unauthorized", text: "", status: http.StatusUnauthorized},
		{name: "malformed json", text: `{"category":`, status: http.StatusOK},
		{name: "missing field", text: `{"category":"HVAC","priority":"Alta"}`, status: http.StatusOK},
		{name: "priority outside enum", text: `{"category":"HVAC","priority":"Urgente","suggestedAction":"x"}`, status: http.StatusOK},
		{name: "empty category", text: `{"category":"","priority":"Baja","suggestedAction":"x"}`, status: http.StatusOK},
		{name: "empty text", text: "  ", status: http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv, calls := geminiServer(t, tc.text, tc.status)
			metrics := observability.NewMetrics()
			g := NewGateway("k", WithBaseURL(srv.URL), WithMetrics(metrics))

			got := g.Classify(context.Background(), "Ruido en el ascensor")

			assert.Equal(t, domain.FailedClassification(), got)
			assert.Equal(t, int32(1), atomic.LoadInt32(calls), "single attempt, no retries")
			assert.Equal(t, int64(1), metrics.Snapshot().Classifications[OutcomeFailure])
		})
	}
}

func TestClassify_NoCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	got := NewGateway("k", WithBaseURL(srv.URL)).Classify(context.Background(), "x")
	assert.Equal(t, "Desconocido", got.Category)
	assert.Equal(t, domain.TicketPriorityMedium, got.Priority)
	assert.Equal(t, "Análisis fallido. Revisar manualmente.", got.SuggestedAction)
}

func TestClassify_OversizedResponseFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		// Valid JSON preceded by padding that pushes it past the read cap.
		_, _ = w.Write(bytes.Repeat([]byte(" "), maxResponseBytes))
		resp := generateResponse{Candidates: []candidate{{Content: content{Parts: []part{{Text: `{"category":"Plomería","priority":"Alta","suggestedAction":"Cerrar llave."}`}}}}}}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	metrics := observability.NewMetrics()

	got := NewGateway("k", WithBaseURL(srv.URL), WithMetrics(metrics)).Classify(context.Background(), "Fuga")

	assert.Equal(t, domain.FailedClassification(), got)
	assert.Equal(t, int64(1), metrics.Snapshot().Classifications[OutcomeFailure])
}

func TestClassify_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	got := NewGateway("k", WithBaseURL(url)).Classify(context.Background(), "x")
	assert.Equal(t, domain.FailedClassification(), got)
}

func TestClassify_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	g := NewGateway("k", WithBaseURL(srv.URL), WithTimeout(50*time.Millisecond))
	got := g.Classify(context.Background(), "x")
	assert.Equal(t, domain.FailedClassification(), got)
}

func TestClassify_RateLimitedCallFallsBackWhenContextExpires(t *testing.T) {
	srv, calls := geminiServer(t, `{"category":"HVAC","priority":"Baja","suggestedAction":"Revisar filtro."}`, http.StatusOK)
	g := NewGateway("k", WithBaseURL(srv.URL), WithRateLimit(1), WithTimeout(50*time.Millisecond))

	first := g.Classify(context.Background(), "aire acondicionado")
	assert.Equal(t, "HVAC", first.Category)

	second := g.Classify(context.Background(), "aire acondicionado")
	assert.Equal(t, domain.FailedClassification(), second)
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
}

func TestBuildRequest_QuotesDescription(t *testing.T) {
	req := buildRequest(`dijo "urgente"`)
	assert.True(t, strings.HasSuffix(req.Contents[0].Parts[0].Text, `"dijo \"urgente\""`))
}
