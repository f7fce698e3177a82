package ai

import (
	"context"
	stderrors "errors"
	"fmt"
	"net"
	"net/http"
	"testing"
	"time"

	"fastresume/internal/config"

	"google.golang.org/api/googleapi"
	"google.golang.org/genai"
)

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain", stderrors.New("invalid argument"), false},
		{"network", &net.OpError{Op: "dial", Err: stderrors.New("connection refused")}, true},
		{"rate limited", &googleapi.Error{Code: http.StatusTooManyRequests}, true},
		{"unavailable wrapped", fmt.Errorf("call: %w", &googleapi.Error{Code: http.StatusServiceUnavailable}), true},
		{"bad request", &googleapi.Error{Code: http.StatusBadRequest}, false},
		{"genai server error", genai.APIError{Code: http.StatusInternalServerError}, true},
		{"genai forbidden", genai.APIError{Code: http.StatusForbidden}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isRetryableError(tt.err); got != tt.want {
				t.Errorf("isRetryableError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestRetryBackoff(t *testing.T) {
	for attempt, base := range map[int]time.Duration{1: time.Second, 2: 2 * time.Second, 3: 4 * time.Second} {
		got := retryBackoff(attempt)
		if got < base || got > base+base/10 {
			t.Errorf("attempt %d: backoff %v outside [%v, %v]", attempt, got, base, base+base/10)
		}
	}
	if got := retryBackoff(10); got != 30*time.Second {
		t.Errorf("backoff not capped: %v", got)
	}
}

func newRetryProvider(maxRetries int) *GeminiProvider {
	return &GeminiProvider{
		config: &config.OperationAIConfig{MaxRetries: ptr(maxRetries)},
		logger: testLogger,
	}
}

func TestExecuteWithRetryStopsOnPermanentError(t *testing.T) {
	calls := 0
	_, err := newRetryProvider(3).executeWithRetry(context.Background(), "analyze_resume", func() (*genai.GenerateContentResponse, error) {
		calls++
		return nil, &googleapi.Error{Code: http.StatusUnauthorized}
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Errorf("permanent error retried: %d calls", calls)
	}
}

func TestExecuteWithRetryHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	_, err := newRetryProvider(3).executeWithRetry(ctx, "predict_career", func() (*genai.GenerateContentResponse, error) {
		calls++
		cancel()
		return nil, &googleapi.Error{Code: http.StatusServiceUnavailable}
	})
	if !stderrors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestExecuteWithRetrySucceedsFirstTry(t *testing.T) {
	want := &genai.GenerateContentResponse{}
	got, err := newRetryProvider(0).executeWithRetry(context.Background(), "career_strategy", func() (*genai.GenerateContentResponse, error) {
		return want, nil
	})
	if err != nil || got != want {
		t.Errorf("got %v, %v", got, err)
	}
}

func TestExtractTokenUsage(t *testing.T) {
	if extractTokenUsage(nil) != nil {
		t.Error("nil response should have no usage")
	}
	usage := extractTokenUsage(&genai.GenerateContentResponse{
		UsageMetadata: &genai.GenerateContentResponseUsageMetadata{
			PromptTokenCount:     100,
			CandidatesTokenCount: 50,
			TotalTokenCount:      150,
		},
	})
	if usage == nil || usage.InputTokens != 100 || usage.OutputTokens != 50 || usage.TotalTokens != 150 {
		t.Errorf("usage = %+v", usage)
	}
}

func TestSchemasApplyTemperature(t *testing.T) {
	g := &GeminiProvider{config: &config.OperationAIConfig{Temperature: ptr(float32(0.4))}}
	for name, cfg := range map[string]*genai.GenerateContentConfig{
		"analyze":  g.buildAnalyzeSchema(),
		"predict":  g.buildPredictSchema(),
		"strategy": g.buildStrategySchema(),
	} {
		if cfg.ResponseMIMEType != "application/json" {
			t.Errorf("%s: mime type %q", name, cfg.ResponseMIMEType)
		}
		if cfg.Temperature == nil || *cfg.Temperature != 0.4 {
			t.Errorf("%s: temperature not applied", name)
		}
	}

	g.config.Temperature = ptr(float32(0))
	if g.buildAnalyzeSchema().Temperature != nil {
		t.Error("zero temperature should leave the model default")
	}
}
