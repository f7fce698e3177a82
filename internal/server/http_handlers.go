package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"log"
	"mime"
	"net/http"
	"strings"
	"time"

	"fastresume/internal/config"
	"fastresume/internal/errors"
	"fastresume/internal/store"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel/trace"
)

const defaultHealthCheckTimeout = 15 * time.Second

func (s *Server) getHealthCheckTimeout() time.Duration {
	if s.AppConfig == nil || s.AppConfig.Observability.HealthCheck.Timeout <= 0 {
		return defaultHealthCheckTimeout
	}
	return s.AppConfig.Observability.HealthCheck.Timeout
}

// healthHandler reports AI model availability per operation, breaker state
// and history store reachability. Any unavailable part makes it 503.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), s.getHealthCheckTimeout())
	defer cancel()

	aiStatus, aiHealthy := s.checkAIModelsHealth(ctx)
	historyStatus, historyHealthy := s.checkHistoryHealth(ctx)

	response := map[string]any{
		"status":           "healthy",
		"service":          "fastresume",
		"version":          s.Version,
		"ai_models":        aiStatus,
		"circuit_breakers": s.checkCircuitBreakerHealth(),
		"history":          historyStatus,
	}

	status := http.StatusOK
	if !aiHealthy || !historyHealthy {
		response["status"] = "degraded"
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, response)
}

func (s *Server) checkAIModelsHealth(ctx context.Context) (map[string]any, bool) {
	aiStatus := make(map[string]any, len(config.Operations))
	healthy := true

	for _, op := range config.Operations {
		svc, err := s.service(op)
		if err != nil {
			healthy = false
			aiStatus[op] = map[string]any{
				"available": false,
				"error":     fmt.Sprintf("Failed to create %s service: %v", op, err),
			}
			continue
		}
		info := svc.GetModelInfo(ctx)
		if info == nil || !info.Available {
			healthy = false
		}
		aiStatus[op] = info
	}
	return aiStatus, healthy
}

// checkCircuitBreakerHealth reports breakers of services created so far;
// it never creates a service itself.
func (s *Server) checkCircuitBreakerHealth() map[string]any {
	s.servicesMu.Lock()
	defer s.servicesMu.Unlock()

	status := make(map[string]any, len(s.services))
	for op, svc := range s.services {
		status[op] = svc.CircuitBreakerStats()
	}
	return status
}

func (s *Server) checkHistoryHealth(ctx context.Context) (map[string]any, bool) {
	if s.History == nil {
		return map[string]any{"enabled": false}, true
	}
	if _, err := s.History.List(ctx, store.KindAnalysis, 1); err != nil {
		return map[string]any{"enabled": true, "available": false, "error": err.Error()}, false
	}
	return map[string]any{"enabled": true, "available": true}, true
}

// statsHandler provides server statistics including rate limiting info
func (s *Server) statsHandler(w http.ResponseWriter, r *http.Request) {
	response := map[string]any{
		"service": "fastresume",
		"version": s.Version,
		"server": map[string]any{
			"max_request_size_bytes": s.MaxRequestSize,
			"auth_enabled":           len(s.APIKeys) > 0,
		},
	}

	if s.RateLimiter != nil {
		response["rate_limiting"] = s.RateLimiter.GetStats()
	} else {
		response["rate_limiting"] = map[string]any{"enabled": false}
	}

	if s.RateLimit != nil {
		response["rate_limit_config"] = map[string]any{
			"enabled":          s.RateLimit.Enabled,
			"requests_per_min": s.RateLimit.RequestsPerMin,
			"burst_capacity":   s.RateLimit.BurstCapacity,
			"by_ip":            s.RateLimit.ByIP,
			"by_api_key":       s.RateLimit.ByAPIKey,
		}
	}

	if s.PromptWatcher != nil {
		response["prompt_watcher"] = map[string]any{
			"running":       s.PromptWatcher.IsRunning(),
			"watched_files": s.PromptWatcher.WatchedFiles(),
			"reload_count":  s.PromptWatcher.ReloadCount(),
		}
	}

	writeJSON(w, http.StatusOK, response)
}

// decodeRequest parses and validates the body into v, writing a 400 and
// recording the error on span when that fails.
func (s *Server) decodeRequest(w http.ResponseWriter, r *http.Request, span trace.Span, v any) bool {
	if err := s.parseAndValidate(r, v); err != nil {
		recordSpanError(span, err, "validation")
		writeAppError(w, "Invalid request body", err)
		return false
	}
	return true
}

// parseAndValidate parses the JSON body into v and checks its validate tags.
func (s *Server) parseAndValidate(r *http.Request, v any) error {
	if err := parseJSONRequest(r, v); err != nil {
		return errors.NewValidationError(errors.ErrCodeInvalidRequest, err.Error(), err)
	}
	if err := s.validate.Struct(v); err != nil {
		return errors.NewValidationError(errors.ErrCodeInvalidRequest, validationMessage(err), err)
	}
	return nil
}

// validationMessage turns validator errors into "field: rule" pairs.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		parts = append(parts, fmt.Sprintf("%s: %s", fe.Namespace(), rule))
	}
	return "invalid fields: " + strings.Join(parts, ", ")
}

// parseJSONRequest parses JSON request body into the provided struct
func parseJSONRequest(r *http.Request, v any) error {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "application/json" {
		return fmt.Errorf("content-type must be application/json")
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if stderrors.As(err, &maxBytesErr) {
			return fmt.Errorf("request body too large (limit is %d bytes)", maxBytesErr.Limit)
		}
		return fmt.Errorf("failed to read request body: %w", err)
	}
	defer func() {
		if err := r.Body.Close(); err != nil {
			log.Printf("Failed to close request body: %v", err)
		}
	}()

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to parse JSON: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

// writeErrorResponse writes a standardized error response
func writeErrorResponse(w http.ResponseWriter, error, message string, statusCode int) {
	writeJSON(w, statusCode, ErrorResponse{Error: error, Message: message})
}

// writeAppError picks the status from the error's type.
func writeAppError(w http.ResponseWriter, summary string, err error) {
	message := err.Error()
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		message = appErr.Message
	}
	writeErrorResponse(w, summary, message, statusFor(err))
}

func statusFor(err error) int {
	switch errors.TypeOf(err) {
	case errors.ErrorTypeValidation:
		return http.StatusBadRequest
	case errors.ErrorTypeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
