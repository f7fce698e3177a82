package server

import (
	"fmt"
	"net/http"

	"fastresume/internal/errors"
	"fastresume/internal/layout"
	"fastresume/internal/observability"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Layout endpoints are stateless: each request loads the posted document
// into a fresh Editor, applies one change and returns the new document.

func (s *Server) createComposeHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return s.layoutHandler(om, "compose", func(r *http.Request, span trace.Span) (*layout.Editor, string, error) {
		var req ComposeRequest
		if err := s.parseAndValidate(r, &req); err != nil {
			return nil, "", err
		}
		return layout.NewEditor(req.Document, s.defaultPageSettings()), "", nil
	})
}

func (s *Server) createDeletePageHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return s.layoutHandler(om, "delete_page", func(r *http.Request, span trace.Span) (*layout.Editor, string, error) {
		var req DeletePageRequest
		if err := s.parseAndValidate(r, &req); err != nil {
			return nil, "", err
		}
		editor := layout.NewEditor(req.Document, s.defaultPageSettings())
		if count := editor.PageCount(); req.Page >= count {
			return nil, "", errors.NewValidationError(errors.ErrCodeInvalidRequest,
				fmt.Sprintf("page %d does not exist (document has %d pages)", req.Page, count), nil)
		}

		outcome := editor.DeletePage(req.Page, func() bool { return req.Confirm })
		span.SetAttributes(
			attribute.Int("layout.page", req.Page),
			attribute.String("layout.outcome", outcome.String()),
		)
		return editor, outcome.String(), nil
	})
}

func (s *Server) createMoveHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return s.layoutHandler(om, "move", func(r *http.Request, span trace.Span) (*layout.Editor, string, error) {
		var req MoveRequest
		if err := s.parseAndValidate(r, &req); err != nil {
			return nil, "", err
		}
		editor := layout.NewEditor(req.Document, s.defaultPageSettings())
		if _, ok := layout.FindEntry(req.Document.Content, req.EntryID); !ok {
			return nil, "", errors.NewNotFoundError(errors.ErrCodeEntryNotFound,
				fmt.Sprintf("entry %q is not in the document", req.EntryID), nil)
		}
		editor.MoveToPage(req.EntryID, req.Page)
		span.SetAttributes(attribute.Int("layout.page", req.Page))
		return editor, "", nil
	})
}

func (s *Server) createSettingsHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return s.layoutHandler(om, "settings", func(r *http.Request, span trace.Span) (*layout.Editor, string, error) {
		var req SettingsRequest
		if err := s.parseAndValidate(r, &req); err != nil {
			return nil, "", err
		}
		region, err := layout.ParseRegion(req.Region)
		if err != nil {
			return nil, "", errors.NewValidationError(errors.ErrCodeInvalidRequest, err.Error(), err)
		}
		editor := layout.NewEditor(req.Document, s.defaultPageSettings())
		editor.Settings().Update(region, req.Patch)
		span.SetAttributes(attribute.String("layout.region", region.String()))
		return editor, "", nil
	})
}

func (s *Server) createRemoveLastPageHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return s.layoutHandler(om, "remove_last_page", func(r *http.Request, span trace.Span) (*layout.Editor, string, error) {
		var req RemoveLastPageRequest
		if err := s.parseAndValidate(r, &req); err != nil {
			return nil, "", err
		}
		editor := layout.NewEditor(req.Document, s.defaultPageSettings())
		outcome := editor.RemoveLastPage(func() bool { return req.Confirm })
		span.SetAttributes(attribute.String("layout.outcome", outcome.String()))
		return editor, outcome.String(), nil
	})
}

func (s *Server) createEntryHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return s.layoutHandler(om, "entry", func(r *http.Request, span trace.Span) (*layout.Editor, string, error) {
		var req EntryRequest
		if err := s.parseAndValidate(r, &req); err != nil {
			return nil, "", err
		}
		editor := layout.NewEditor(req.Document, s.defaultPageSettings())
		span.SetAttributes(attribute.String("layout.action", req.Action))

		if req.Action == "remove" {
			kind, ok := layout.FindEntry(req.Document.Content, req.EntryID)
			if !ok {
				return nil, "", errors.NewNotFoundError(errors.ErrCodeEntryNotFound,
					fmt.Sprintf("entry %q is not in the document", req.EntryID), nil)
			}
			editor.RemoveEntry(kind, req.EntryID)
			return editor, "", nil
		}

		kind, err := layout.ParseSectionKind(req.Kind)
		if err != nil {
			return nil, "", errors.NewValidationError(errors.ErrCodeInvalidRequest, err.Error(), err)
		}
		id, err := editor.AddEntry(kind, *req.Entry)
		if err != nil {
			return nil, "", errors.NewValidationError(errors.ErrCodeInvalidRequest, err.Error(), err)
		}
		span.SetAttributes(attribute.String("layout.entry_id", id))
		return editor, "", nil
	})
}

func (s *Server) createCoverLetterHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return s.layoutHandler(om, "cover_letter", func(r *http.Request, span trace.Span) (*layout.Editor, string, error) {
		var req CoverLetterRequest
		if err := s.parseAndValidate(r, &req); err != nil {
			return nil, "", err
		}
		editor := layout.NewEditor(req.Document, s.defaultPageSettings())
		cl := editor.CoverLetter()
		span.SetAttributes(attribute.String("layout.action", req.Action))

		switch req.Action {
		case "add-page":
			cl.AddPage()
		case "remove-last-page":
			cl.RemoveLastPage()
		case "delete-page":
			if !cl.DeletePage(req.Page) {
				return nil, "", errors.NewValidationError(errors.ErrCodeInvalidRequest,
					fmt.Sprintf("cannot delete cover letter page %d of %d", req.Page, cl.PageCount()), nil)
			}
		case "set-page":
			if req.Page > cl.PageCount() {
				return nil, "", errors.NewValidationError(errors.ErrCodeInvalidRequest,
					fmt.Sprintf("cover letter page %d does not exist", req.Page), nil)
			}
			cl.SetPage(req.Page, req.Text)
		}
		return editor, "", nil
	})
}

// createUndoHandler steps the document's content history back, or forward
// when redo is set.
func (s *Server) createUndoHandler(om *observability.ObservabilityManager, redo bool) http.HandlerFunc {
	operation, step := "undo", (*layout.Editor).Undo
	if redo {
		operation, step = "redo", (*layout.Editor).Redo
	}
	return s.layoutHandler(om, operation, func(r *http.Request, span trace.Span) (*layout.Editor, string, error) {
		var req ComposeRequest
		if err := s.parseAndValidate(r, &req); err != nil {
			return nil, "", err
		}
		editor := layout.NewEditor(req.Document, s.defaultPageSettings())
		if !step(editor) {
			return nil, "", errors.NewValidationError(errors.ErrCodeInvalidRequest, "nothing to "+operation, nil)
		}
		return editor, "", nil
	})
}

// layoutHandler wraps one layout change with tracing, metrics and the
// common response.
func (s *Server) layoutHandler(om *observability.ObservabilityManager, operation string,
	apply func(r *http.Request, span trace.Span) (*layout.Editor, string, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := om.Tracer(tracerName).Start(r.Context(), "api.layout."+operation)
		defer span.End()

		metrics := om.GetMetrics()
		editor, outcome, err := apply(r, span)
		if err != nil {
			recordSpanError(span, err, "validation")
			metrics.RecordBusinessMetric(ctx, observability.MetricLayoutOperation, false,
				attribute.String("operation", operation))
			writeAppError(w, "Invalid layout request", err)
			return
		}

		resp := editor.Plan()
		resp.Outcome = outcome
		metrics.RecordBusinessMetric(ctx, observability.MetricLayoutOperation, true,
			attribute.String("operation", operation),
			attribute.Int("page_count", resp.PageCount))
		span.SetAttributes(attribute.Int("layout.page_count", resp.PageCount))

		writeJSON(w, http.StatusOK, resp)
	}
}
