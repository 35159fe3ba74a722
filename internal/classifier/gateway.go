// Package classifier wraps the generative-AI call that suggests a category,
// priority and next action for a maintenance report. Callers always receive a
// usable result: a missing credential or any failure maps to a fixed fallback.
package classifier

import (
	"context"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/spec-kit/maintenance-service/internal/config"
	"github.com/spec-kit/maintenance-service/internal/domain"
	"github.com/spec-kit/maintenance-service/internal/observability"
)

// Outcomes recorded in metrics and logs.
const (
	OutcomeUnconfigured = "unconfigured"
	OutcomeSuccess      = "success"
	OutcomeFailure      = "failure"
)

// Classifier classifies a maintenance description. It never fails.
type Classifier interface {
	Classify(ctx context.Context, description string) domain.ClassificationResult
}

// Gateway calls the Gemini generateContent endpoint.
type Gateway struct {
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
	timeout time.Duration
	limiter *rate.Limiter
	logger  *zap.Logger
	metrics *observability.Metrics
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithBaseURL sets a custom API base URL.
func WithBaseURL(url string) Option {
	return func(g *Gateway) { g.baseURL = strings.TrimRight(url, "/") }
}

// WithModel sets the model name.
func WithModel(model string) Option {
	return func(g *Gateway) { g.model = model }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(g *Gateway) { g.client = c }
}

// WithTimeout bounds a single classification call.
func WithTimeout(d time.Duration) Option {
	return func(g *Gateway) { g.timeout = d }
}

// WithRateLimit caps outbound calls per minute. Zero or less disables the limiter.
func WithRateLimit(perMinute int) Option {
	return func(g *Gateway) {
		if perMinute <= 0 {
			g.limiter = nil
			return
		}
		g.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute)
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(g *Gateway) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithMetrics records outcomes into m.
func WithMetrics(m *observability.Metrics) Option {
	return func(g *Gateway) { g.metrics = m }
}

// NewGateway creates a gateway. An empty apiKey yields a gateway that never
// touches the network.
func NewGateway(apiKey string, opts ...Option) *Gateway {
	g := &Gateway{
		client:  &http.Client{},
		baseURL: "https://generativelanguage.googleapis.com/v1beta",
		apiKey:  strings.TrimSpace(apiKey),
		model:   "gemini-2.5-flash",
		timeout: 20 * time.Second,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// NewFromConfig builds a gateway from service configuration.
func NewFromConfig(cfg config.ClassifierConfig, logger *zap.Logger, metrics *observability.Metrics) *Gateway {
	return NewGateway(cfg.APIKey,
		WithBaseURL(cfg.BaseURL),
		WithModel(cfg.Model),
		WithTimeout(cfg.Timeout()),
		WithRateLimit(cfg.RatePerMinute),
		WithLogger(logger),
		WithMetrics(metrics),
	)
}

// Configured reports whether a credential is present.
func (g *Gateway) Configured() bool {
	return g.apiKey != ""
}

// Classify performs at most one outbound call and never returns an error.
func (g *Gateway) Classify(ctx context.Context, description string) domain.ClassificationResult {
	if !g.Configured() {
		g.logger.Warn("classifier credential not configured; returning manual review fallback")
		g.metrics.RecordClassification(OutcomeUnconfigured)
		return domain.UnconfiguredClassification()
	}

	result, err := g.classify(ctx, description)
	if err != nil {
		g.logger.Error("classification failed", zap.String("model", g.model), zap.Error(err))
		g.metrics.RecordClassification(OutcomeFailure)
		return domain.FailedClassification()
	}

	g.logger.Debug("classification succeeded",
		zap.String("category", result.Category),
		zap.String("priority", string(result.Priority)))
	g.metrics.RecordClassification(OutcomeSuccess)
	return result
}

func (g *Gateway) classify(ctx context.Context, description string) (domain.ClassificationResult, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}
	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return domain.ClassificationResult{}, err
		}
	}
	text, err := g.generate(ctx, buildRequest(description))
	if err != nil {
		return domain.ClassificationResult{}, err
	}
	return parseClassification(text)
}
