package server

import (
	"context"
	"net/http"

	"fastresume/internal/ai"
	"fastresume/internal/config"
	"fastresume/internal/observability"
	"fastresume/internal/types"

	"go.opentelemetry.io/otel/attribute"
)

// assistantHandler serves one of the single-shot assistant operations. These
// never persist history; a failed model call already degrades to a fallback
// inside the service, so errors here are cancellations or service creation.
func assistantHandler[In, Out any](s *Server, om *observability.ObservabilityManager, operation string,
	call func(*ai.Service, context.Context, In) (Out, *ai.TokenUsage, error),
	describe func(In) []attribute.KeyValue,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := om.Tracer(tracerName).Start(r.Context(), "api."+operation)
		defer span.End()

		var req In
		if !s.decodeRequest(w, r, span, &req) {
			return
		}
		span.SetAttributes(append(describe(req), attribute.String("operation", operation))...)

		svc, err := s.service(operation)
		if err != nil {
			recordSpanError(span, err, "service_creation")
			writeAppError(w, "Failed to create AI service", err)
			return
		}

		metrics := om.GetMetrics()
		var result Out
		err = metrics.TrackAIOperation(ctx, operation, func(ctx context.Context) *observability.AIOperationResult {
			output, usage, aiErr := call(svc, ctx, req)
			result = output
			return &observability.AIOperationResult{Error: aiErr, TokenUsage: (*observability.TokenUsage)(usage)}
		})
		metrics.RecordBusinessMetric(ctx, observability.MetricAssistantReply, err == nil,
			attribute.String("operation", operation))
		if err != nil {
			recordSpanError(span, err, "ai_processing")
			writeAppError(w, "Failed to run "+operation, err)
			return
		}

		span.SetAttributes(attribute.Bool("success", true))
		writeJSON(w, http.StatusOK, result)
	}
}

// createSuggestHandler proposes a project proving a missing skill.
func (s *Server) createSuggestHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return assistantHandler(s, om, config.OperationSuggest, (*ai.Service).SuggestProject,
		func(in types.ProjectSuggestionInput) []attribute.KeyValue {
			return []attribute.KeyValue{
				attribute.String("request.skill", in.Skill),
				attribute.Bool("request.has_resume", in.Resume != nil),
			}
		})
}

// createCoachHandler answers the last message of a coaching conversation.
func (s *Server) createCoachHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return assistantHandler(s, om, config.OperationCoach, (*ai.Service).Coach,
		func(in types.CoachInput) []attribute.KeyValue {
			return []attribute.KeyValue{
				attribute.Int("request.messages", len(in.Messages)),
				attribute.Bool("request.has_jd", in.JobDescription != ""),
			}
		})
}

// createSummarizeHandler summarizes document text for a portfolio entry.
func (s *Server) createSummarizeHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return assistantHandler(s, om, config.OperationSummarize, (*ai.Service).SummarizeDocument,
		func(in types.DocumentSummaryInput) []attribute.KeyValue {
			return []attribute.KeyValue{
				attribute.Int("request.text_length", len(in.Text)),
				attribute.Bool("request.has_context", in.Context != ""),
			}
		})
}
