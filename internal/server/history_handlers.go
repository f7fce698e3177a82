package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"fastresume/internal/errors"
	"fastresume/internal/observability"
	"fastresume/internal/store"

	"go.opentelemetry.io/otel/attribute"
)

// historyHandler resolves the {kind} path value and the store before
// running fn; it answers 503 when no store is configured.
func (s *Server) historyHandler(om *observability.ObservabilityManager, operation string,
	fn func(ctx context.Context, w http.ResponseWriter, r *http.Request, kind store.Kind) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := om.Tracer(tracerName).Start(r.Context(), "api.history."+operation)
		defer span.End()

		if s.History == nil {
			writeErrorResponse(w, "History unavailable", "no history store is configured", http.StatusServiceUnavailable)
			return
		}

		kind, err := store.ParseKind(r.PathValue("kind"))
		if err != nil {
			recordSpanError(span, err, "validation")
			writeAppError(w, "Unknown history kind", err)
			return
		}
		span.SetAttributes(attribute.String("history.kind", string(kind)))

		err = fn(ctx, w, r, kind)
		om.GetMetrics().RecordBusinessMetric(ctx, observability.MetricHistoryOperation, err == nil,
			attribute.String("operation", operation),
			attribute.String("kind", string(kind)))
		if err != nil {
			recordSpanError(span, err, string(errors.TypeOf(err)))
			writeAppError(w, "History operation failed", err)
		}
	}
}

// createListHistoryHandler lists records newest first; ?limit=N caps the count.
func (s *Server) createListHistoryHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return s.historyHandler(om, "list", func(ctx context.Context, w http.ResponseWriter, r *http.Request, kind store.Kind) error {
		limit := 0
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 0 {
				return errors.NewValidationError(errors.ErrCodeInvalidRequest, "limit must be a non-negative integer", err)
			}
			limit = n
		}

		records, err := s.History.List(ctx, kind, limit)
		if err != nil {
			return err
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"kind":    kind,
			"count":   len(records),
			"records": records,
		})
		return nil
	})
}

// createSaveHistoryHandler stores a client-produced record, such as a
// finished interview session, verbatim.
func (s *Server) createSaveHistoryHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return s.historyHandler(om, "save", func(ctx context.Context, w http.ResponseWriter, r *http.Request, kind store.Kind) error {
		var payload json.RawMessage
		if err := parseJSONRequest(r, &payload); err != nil {
			return errors.NewValidationError(errors.ErrCodeInvalidRequest, err.Error(), err)
		}

		rec, err := s.History.Save(ctx, kind, payload)
		if err != nil {
			return err
		}
		w.Header().Set(historyIDHeader, rec.ID)
		writeJSON(w, http.StatusCreated, rec)
		return nil
	})
}

func (s *Server) createClearHistoryHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return s.historyHandler(om, "clear", func(ctx context.Context, w http.ResponseWriter, r *http.Request, kind store.Kind) error {
		removed, err := s.History.Clear(ctx, kind)
		if err != nil {
			return err
		}
		s.Logger.Info("History cleared", "kind", kind, "removed", removed)
		writeJSON(w, http.StatusOK, map[string]any{"kind": kind, "removed": removed})
		return nil
	})
}

func (s *Server) createDeleteHistoryHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return s.historyHandler(om, "delete", func(ctx context.Context, w http.ResponseWriter, r *http.Request, kind store.Kind) error {
		if err := s.History.Delete(ctx, kind, r.PathValue("id")); err != nil {
			return err
		}
		w.WriteHeader(http.StatusNoContent)
		return nil
	})
}
