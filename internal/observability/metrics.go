package observability

import (
	"context"
	"fmt"
	"time"

	"fastresume/internal/config"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Business metric names accepted by RecordBusinessMetric.
const (
	MetricResumeAnalyzed     = "resume_analyzed"
	MetricCareerPredicted    = "career_predicted"
	MetricStrategyGenerated  = "strategy_generated"
	MetricAssistantReply     = "assistant_reply"
	MetricLayoutOperation    = "layout_operation"
	MetricHistoryOperation   = "history_operation"
	MetricRateLimitHit       = "rate_limit_hit"
	MetricPromptFileReloaded = "prompt_file_reloaded"
)

// Metrics holds the custom fastresume instruments. The zero value records nothing.
type Metrics struct {
	AIProcessingTime metric.Float64Histogram
	AIRequestCount   metric.Int64Counter
	AIErrorCount     metric.Int64Counter
	AITokenUsage     metric.Int64Histogram

	ResumesAnalyzed     metric.Int64Counter
	CareersPredicted    metric.Int64Counter
	StrategiesGenerated metric.Int64Counter
	AssistantReplies    metric.Int64Counter
	LayoutOperations    metric.Int64Counter

	HistoryOperations metric.Int64Counter
	RateLimitHits     metric.Int64Counter
	PromptReloads     metric.Int64Counter

	settings config.CustomMetricsConfig
}

// AIOperationResult holds the result of an AI operation including token usage
type AIOperationResult struct {
	Error      error
	TokenUsage *TokenUsage
}

// TokenUsage represents token usage information from AI responses
type TokenUsage struct {
	InputTokens  int64
	OutputTokens int64
	TotalTokens  int64
}

type instrument struct {
	name, description, unit string
	counter                 *metric.Int64Counter
	histogram               *metric.Int64Histogram
	floatHistogram          *metric.Float64Histogram
}

// NewMetrics creates every custom instrument on meter.
func NewMetrics(meter metric.Meter, settings config.CustomMetricsConfig) (*Metrics, error) {
	m := &Metrics{settings: settings}
	instruments := []instrument{
		{name: "fastresume_ai_processing_duration_seconds", description: "Time spent processing AI requests", unit: "s", floatHistogram: &m.AIProcessingTime},
		{name: "fastresume_ai_requests_total", description: "Total number of AI requests", counter: &m.AIRequestCount},
		{name: "fastresume_ai_errors_total", description: "Total number of AI request errors", counter: &m.AIErrorCount},
		{name: "fastresume_ai_token_usage", description: "Token usage for AI requests (input, output, total)", unit: "tokens", histogram: &m.AITokenUsage},
		{name: "fastresume_resumes_analyzed_total", description: "Total number of resumes analyzed", counter: &m.ResumesAnalyzed},
		{name: "fastresume_careers_predicted_total", description: "Total number of career predictions", counter: &m.CareersPredicted},
		{name: "fastresume_strategies_generated_total", description: "Total number of career strategies generated", counter: &m.StrategiesGenerated},
		{name: "fastresume_assistant_replies_total", description: "Total number of project suggestions, coach replies and document summaries", counter: &m.AssistantReplies},
		{name: "fastresume_layout_operations_total", description: "Total number of layout operations", counter: &m.LayoutOperations},
		{name: "fastresume_history_operations_total", description: "Total number of history store operations", counter: &m.HistoryOperations},
		{name: "fastresume_rate_limit_hits_total", description: "Total number of rate limit hits", counter: &m.RateLimitHits},
		{name: "fastresume_prompt_reloads_total", description: "Total number of prompt file reloads", counter: &m.PromptReloads},
	}

	for _, in := range instruments {
		var err error
		switch {
		case in.counter != nil:
			*in.counter, err = meter.Int64Counter(in.name, metric.WithDescription(in.description))
		case in.histogram != nil:
			*in.histogram, err = meter.Int64Histogram(in.name, metric.WithDescription(in.description), metric.WithUnit(in.unit))
		case in.floatHistogram != nil:
			*in.floatHistogram, err = meter.Float64Histogram(in.name, metric.WithDescription(in.description), metric.WithUnit(in.unit))
		}
		if err != nil {
			return nil, fmt.Errorf("failed to create metric %s: %w", in.name, err)
		}
	}
	return m, nil
}

// TrackAIOperation runs fn inside an "ai.<operation>" span and records
// duration, request, error and token metrics for it.
func (m *Metrics) TrackAIOperation(ctx context.Context, operation string, fn func(context.Context) *AIOperationResult) error {
	if m.AIRequestCount == nil || !m.settings.AIOperations.Enabled {
		if result := fn(ctx); result != nil {
			return result.Error
		}
		return nil
	}

	ctx, span := otel.Tracer("fastresume.ai").Start(ctx, "ai."+operation)
	defer span.End()

	start := time.Now()
	result := fn(ctx)
	duration := time.Since(start).Seconds()

	var err error
	if result != nil {
		err = result.Error
	}

	attrs := []attribute.KeyValue{
		attribute.String("operation", operation),
		attribute.Bool("success", err == nil),
	}
	opt := metric.WithAttributes(attrs...)

	if m.settings.AIOperations.TrackDuration {
		m.AIProcessingTime.Record(ctx, duration, opt)
	}
	m.AIRequestCount.Add(ctx, 1, opt)
	if err != nil {
		m.AIErrorCount.Add(ctx, 1, opt)
		span.RecordError(err)
	}

	if result != nil && result.TokenUsage != nil {
		usage := result.TokenUsage
		if m.settings.AIOperations.TrackTokenUsage {
			for tokenType, value := range map[string]int64{
				"input":  usage.InputTokens,
				"output": usage.OutputTokens,
				"total":  usage.TotalTokens,
			} {
				m.AITokenUsage.Record(ctx, value, metric.WithAttributes(
					attribute.String("operation", operation),
					attribute.String("token_type", tokenType),
				))
			}
		}
		span.SetAttributes(
			attribute.Int64("ai.tokens.input", usage.InputTokens),
			attribute.Int64("ai.tokens.output", usage.OutputTokens),
			attribute.Int64("ai.tokens.total", usage.TotalTokens),
		)
	}

	span.SetAttributes(attrs...)
	return err
}

// RecordBusinessMetric increments the counter behind metricType, honouring
// the per-group enable switches.
func (m *Metrics) RecordBusinessMetric(ctx context.Context, metricType string, success bool, attributes ...attribute.KeyValue) {
	counter, enabled := m.counterFor(metricType)
	if counter == nil || !enabled {
		return
	}
	attrs := append([]attribute.KeyValue{attribute.Bool("success", success)}, attributes...)
	counter.Add(ctx, 1, metric.WithAttributes(attrs...))
}

func (m *Metrics) counterFor(metricType string) (metric.Int64Counter, bool) {
	business := m.settings.BusinessMetrics
	infra := m.settings.Infrastructure
	switch metricType {
	case MetricResumeAnalyzed:
		return m.ResumesAnalyzed, business.Enabled
	case MetricCareerPredicted:
		return m.CareersPredicted, business.Enabled
	case MetricStrategyGenerated:
		return m.StrategiesGenerated, business.Enabled
	case MetricAssistantReply:
		return m.AssistantReplies, business.Enabled
	case MetricLayoutOperation:
		return m.LayoutOperations, business.Enabled && business.TrackLayout
	case MetricHistoryOperation:
		return m.HistoryOperations, infra.Enabled && infra.TrackHistory
	case MetricRateLimitHit:
		return m.RateLimitHits, infra.Enabled && infra.TrackRateLimits
	case MetricPromptFileReloaded:
		return m.PromptReloads, infra.Enabled
	}
	return nil, false
}
