package server

import (
	"context"
	"net/http"

	"fastresume/internal/config"
	"fastresume/internal/observability"
	"fastresume/internal/store"
	"fastresume/internal/types"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "fastresume.api"

// historyIDHeader carries the id of the history record a result was saved as.
const historyIDHeader = "X-History-ID"

// createAnalyzeHandler scores a resume against a job description and saves
// the result to the analysis history.
func (s *Server) createAnalyzeHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := om.Tracer(tracerName).Start(r.Context(), "api.analyze")
		defer span.End()

		var req AnalyzeRequest
		if !s.decodeRequest(w, r, span, &req) {
			return
		}
		if req.EnglishVariant == "" && s.AppConfig != nil {
			req.EnglishVariant = types.EnglishVariant(s.AppConfig.App.EnglishVariant)
		}

		span.SetAttributes(
			attribute.Int("request.job_length", len(req.JobDescription)),
			attribute.Int("request.resume_length", len(req.Resume)),
			attribute.String("request.english_variant", string(req.EnglishVariant)),
			attribute.String("operation", config.OperationAnalyze),
		)

		svc, err := s.service(config.OperationAnalyze)
		if err != nil {
			recordSpanError(span, err, "service_creation")
			writeAppError(w, "Failed to create AI service", err)
			return
		}

		metrics := om.GetMetrics()
		var result types.AnalysisResult
		err = metrics.TrackAIOperation(ctx, config.OperationAnalyze, func(ctx context.Context) *observability.AIOperationResult {
			output, usage, aiErr := svc.AnalyzeResume(ctx, req.AnalyzeResumeInput)
			result = output
			return &observability.AIOperationResult{Error: aiErr, TokenUsage: (*observability.TokenUsage)(usage)}
		})
		if err != nil {
			recordSpanError(span, err, "ai_processing")
			metrics.RecordBusinessMetric(ctx, observability.MetricResumeAnalyzed, false)
			writeAppError(w, "Failed to analyze resume", err)
			return
		}

		metrics.RecordBusinessMetric(ctx, observability.MetricResumeAnalyzed, true,
			attribute.Int("overall_score", result.OverallScore),
			attribute.Int("missing_skills", len(result.MissingSkills)))
		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Int("overall_score", result.OverallScore),
		)

		if wantSave(req.Save) {
			s.saveHistory(ctx, w, om, store.KindAnalysis, result)
		}
		writeJSON(w, http.StatusOK, result)
	}
}

// createPredictHandler predicts career paths from projects and a resume.
func (s *Server) createPredictHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := om.Tracer(tracerName).Start(r.Context(), "api.predict")
		defer span.End()

		var req types.PredictCareerInput
		if !s.decodeRequest(w, r, span, &req) {
			return
		}

		span.SetAttributes(
			attribute.Int("request.projects", len(req.Projects)),
			attribute.Bool("request.has_resume", req.Resume != nil),
			attribute.String("request.target_role", req.TargetRole),
			attribute.String("operation", config.OperationPredict),
		)

		svc, err := s.service(config.OperationPredict)
		if err != nil {
			recordSpanError(span, err, "service_creation")
			writeAppError(w, "Failed to create AI service", err)
			return
		}

		metrics := om.GetMetrics()
		var result types.CareerPrediction
		err = metrics.TrackAIOperation(ctx, config.OperationPredict, func(ctx context.Context) *observability.AIOperationResult {
			output, usage, aiErr := svc.PredictCareer(ctx, req)
			result = output
			return &observability.AIOperationResult{Error: aiErr, TokenUsage: (*observability.TokenUsage)(usage)}
		})
		if err != nil {
			recordSpanError(span, err, "ai_processing")
			metrics.RecordBusinessMetric(ctx, observability.MetricCareerPredicted, false)
			writeAppError(w, "Failed to predict career", err)
			return
		}

		metrics.RecordBusinessMetric(ctx, observability.MetricCareerPredicted, true,
			attribute.Int("paths", len(result.Paths)))
		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.String("current_level", result.CurrentLevel),
			attribute.Int("paths", len(result.Paths)),
		)

		writeJSON(w, http.StatusOK, result)
	}
}

// createStrategyHandler builds a preparation strategy for a target role and
// saves it to the career strategy history.
func (s *Server) createStrategyHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := om.Tracer(tracerName).Start(r.Context(), "api.strategy")
		defer span.End()

		var req StrategyRequest
		if !s.decodeRequest(w, r, span, &req) {
			return
		}

		span.SetAttributes(
			attribute.String("request.target_role", req.TargetRole),
			attribute.Int("request.missing_skills", len(req.MissingSkills)),
			attribute.String("operation", config.OperationStrategy),
		)

		svc, err := s.service(config.OperationStrategy)
		if err != nil {
			recordSpanError(span, err, "service_creation")
			writeAppError(w, "Failed to create AI service", err)
			return
		}

		metrics := om.GetMetrics()
		var result types.CareerStrategy
		err = metrics.TrackAIOperation(ctx, config.OperationStrategy, func(ctx context.Context) *observability.AIOperationResult {
			output, usage, aiErr := svc.GenerateCareerStrategy(ctx, req.CareerStrategyInput)
			result = output
			return &observability.AIOperationResult{Error: aiErr, TokenUsage: (*observability.TokenUsage)(usage)}
		})
		if err != nil {
			recordSpanError(span, err, "ai_processing")
			metrics.RecordBusinessMetric(ctx, observability.MetricStrategyGenerated, false)
			writeAppError(w, "Failed to generate career strategy", err)
			return
		}

		metrics.RecordBusinessMetric(ctx, observability.MetricStrategyGenerated, true,
			attribute.Int("gap_fixes", len(result.GapFix)),
			attribute.Int("interview_questions", len(result.InterviewPrep)))
		span.SetAttributes(attribute.Bool("success", true))

		if wantSave(req.Save) {
			s.saveHistory(ctx, w, om, store.KindCareerStrategy, types.StrategyRecord{
				TargetRole:     req.TargetRole,
				CareerStrategy: result,
			})
		}
		writeJSON(w, http.StatusOK, result)
	}
}

func wantSave(save *bool) bool {
	return save == nil || *save
}

// saveHistory stores payload when a history store is configured. A failed
// save is logged and never fails the request.
func (s *Server) saveHistory(ctx context.Context, w http.ResponseWriter, om *observability.ObservabilityManager, kind store.Kind, payload any) {
	if s.History == nil {
		return
	}
	rec, err := s.History.Save(ctx, kind, payload)
	om.GetMetrics().RecordBusinessMetric(ctx, observability.MetricHistoryOperation, err == nil,
		attribute.String("operation", "save"),
		attribute.String("kind", string(kind)))
	if err != nil {
		s.Logger.LogError(err, "Failed to save history record", "kind", kind)
		return
	}
	w.Header().Set(historyIDHeader, rec.ID)
}

func recordSpanError(span trace.Span, err error, errorType string) {
	span.RecordError(err)
	span.SetAttributes(attribute.String("error.type", errorType))
}
