package server

import (
	"net/http"
	"strings"

	"fastresume/internal/observability"
)

// setupRoutes configures all HTTP routes and middleware
func (s *Server) setupRoutes(om *observability.ObservabilityManager) *http.ServeMux {
	mux := http.NewServeMux()

	rateLimitHandler := s.createRateLimitMiddleware(om)
	requestLimitHandler := s.requestSizeLimitMiddleware()
	protected := func(h http.HandlerFunc) http.HandlerFunc {
		return rateLimitHandler(s.authMiddleware(requestLimitHandler(h)))
	}

	mux.HandleFunc("GET /health", s.healthHandler)
	mux.HandleFunc("GET /stats", s.statsHandler)

	mux.HandleFunc("POST /analyze", protected(s.createAnalyzeHandler(om)))
	mux.HandleFunc("POST /predict", protected(s.createPredictHandler(om)))
	mux.HandleFunc("POST /strategy", protected(s.createStrategyHandler(om)))
	mux.HandleFunc("POST /suggest-project", protected(s.createSuggestHandler(om)))
	mux.HandleFunc("POST /coach", protected(s.createCoachHandler(om)))
	mux.HandleFunc("POST /summarize", protected(s.createSummarizeHandler(om)))

	mux.HandleFunc("POST /layout/compose", protected(s.createComposeHandler(om)))
	mux.HandleFunc("POST /layout/delete-page", protected(s.createDeletePageHandler(om)))
	mux.HandleFunc("POST /layout/move", protected(s.createMoveHandler(om)))
	mux.HandleFunc("POST /layout/settings", protected(s.createSettingsHandler(om)))
	mux.HandleFunc("POST /layout/remove-last-page", protected(s.createRemoveLastPageHandler(om)))
	mux.HandleFunc("POST /layout/entries", protected(s.createEntryHandler(om)))
	mux.HandleFunc("POST /layout/cover-letter", protected(s.createCoverLetterHandler(om)))
	mux.HandleFunc("POST /layout/undo", protected(s.createUndoHandler(om, false)))
	mux.HandleFunc("POST /layout/redo", protected(s.createUndoHandler(om, true)))

	mux.HandleFunc("GET /history/{kind}", protected(s.createListHistoryHandler(om)))
	mux.HandleFunc("POST /history/{kind}", protected(s.createSaveHistoryHandler(om)))
	mux.HandleFunc("DELETE /history/{kind}", protected(s.createClearHistoryHandler(om)))
	mux.HandleFunc("DELETE /history/{kind}/{id}", protected(s.createDeleteHistoryHandler(om)))

	return mux
}

// authMiddleware provides API key authentication
func (s *Server) authMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if len(s.APIKeys) == 0 {
			next(w, r)
			return
		}

		apiKey := requestAPIKey(r)
		if apiKey == "" {
			s.Logger.Info("Authentication failed: missing API key",
				"endpoint", r.URL.Path,
				"client_ip", r.RemoteAddr)
			writeErrorResponse(w, "Missing API key", "X-API-Key header or Authorization Bearer token required", http.StatusUnauthorized)
			return
		}

		if !s.APIKeys[apiKey] {
			s.Logger.Info("Authentication failed: invalid API key",
				"endpoint", r.URL.Path,
				"client_ip", r.RemoteAddr,
				"api_key_prefix", maskAPIKey(apiKey))
			writeErrorResponse(w, "Invalid API key", "Unauthorized access", http.StatusUnauthorized)
			return
		}

		s.Logger.Debug("API authentication successful",
			"endpoint", r.URL.Path,
			"client_ip", r.RemoteAddr,
			"api_key_prefix", maskAPIKey(apiKey))

		next(w, r)
	}
}

// requestAPIKey reads X-API-Key, falling back to an Authorization Bearer token.
func requestAPIKey(r *http.Request) string {
	if key := r.Header.Get("X-API-Key"); key != "" {
		return key
	}
	if after, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
		return after
	}
	return ""
}

// requestSizeLimitMiddleware limits the size of incoming requests
func (s *Server) requestSizeLimitMiddleware() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if s.MaxRequestSize > 0 {
				r.Body = http.MaxBytesReader(w, r.Body, s.MaxRequestSize)
			}
			next(w, r)
		}
	}
}

// maskAPIKey masks an API key for logging (shows only first 8 characters)
func maskAPIKey(apiKey string) string {
	if len(apiKey) <= 8 {
		return "****"
	}
	return apiKey[:8] + "****"
}
