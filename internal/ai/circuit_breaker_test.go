package ai

import (
	stderrors "errors"
	"testing"
	"time"

	"fastresume/internal/config"

	"github.com/sony/gobreaker/v2"
	"google.golang.org/genai"
)

func breakerConfig(minRequests uint32, threshold float64) *config.OperationAIConfig {
	return &config.OperationAIConfig{
		Provider: "gemini",
		Model:    "test-model",
		CircuitBreaker: config.CircuitBreakerConfig{
			Enabled:          true,
			MaxRequests:      1,
			Interval:         time.Minute,
			Timeout:          time.Minute,
			MinRequests:      minRequests,
			FailureThreshold: threshold,
		},
	}
}

func TestIndependentCircuitBreakers(t *testing.T) {
	analyzeCB := NewAICircuitBreaker(config.OperationAnalyze, breakerConfig(3, 0.6), nil)
	predictCB := NewAICircuitBreaker(config.OperationPredict, breakerConfig(2, 0.7), nil)
	strategyCB := NewAICircuitBreaker(config.OperationStrategy, breakerConfig(5, 0.5), nil)

	tests := []struct {
		cb   *AICircuitBreaker
		name string
	}{
		{analyzeCB, "AI-analyze"},
		{predictCB, "AI-predict"},
		{strategyCB, "AI-strategy"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats := tt.cb.Stats()
			if got, _ := stats["name"].(string); got != tt.name {
				t.Errorf("name = %q, want %q", got, tt.name)
			}
			if got, _ := stats["state"].(string); got != "closed" {
				t.Errorf("initial state = %q, want closed", got)
			}
			if enabled, _ := stats["enabled"].(bool); !enabled {
				t.Error("breaker should be enabled")
			}
			if !tt.cb.IsHealthy() {
				t.Error("breaker should be healthy initially")
			}
		})
	}

	if analyzeCB == predictCB || predictCB == strategyCB {
		t.Error("each operation must get its own breaker")
	}
}

func TestCircuitBreakerTrips(t *testing.T) {
	cb := NewAICircuitBreaker(config.OperationAnalyze, breakerConfig(2, 0.5), nil)
	failing := func() (*genai.GenerateContentResponse, error) {
		return nil, stderrors.New("upstream unavailable")
	}

	for range 2 {
		if _, err := cb.Execute(failing); err == nil {
			t.Fatal("expected the failing call to return an error")
		}
	}

	if cb.State() != gobreaker.StateOpen {
		t.Fatalf("state = %s, want open", cb.State())
	}
	if cb.IsHealthy() {
		t.Error("open breaker reported healthy")
	}

	called := false
	_, err := cb.Execute(func() (*genai.GenerateContentResponse, error) {
		called = true
		return &genai.GenerateContentResponse{}, nil
	})
	if !stderrors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("err = %v, want ErrOpenState", err)
	}
	if called {
		t.Error("open breaker must not run the call")
	}
}

func TestModelCircuitBreakerIsLenient(t *testing.T) {
	cb := NewModelCircuitBreaker(config.OperationAnalyze, breakerConfig(1, 0.1), nil)
	failing := func() (*genai.Model, error) { return nil, stderrors.New("not found") }

	for range 4 {
		_, _ = cb.Execute(failing)
	}
	if cb.State() != gobreaker.StateClosed {
		t.Fatalf("model breaker tripped after 4 failures, state = %s", cb.State())
	}

	_, _ = cb.Execute(failing)
	if cb.State() != gobreaker.StateOpen {
		t.Fatalf("model breaker should trip after 5 failures, state = %s", cb.State())
	}
}

func TestCircuitBreakerDisabled(t *testing.T) {
	cfg := &config.OperationAIConfig{Provider: "gemini", Model: "test-model"}

	cb := NewAICircuitBreaker("disabled", cfg, nil)
	if cb != nil {
		t.Fatal("breaker should be nil when disabled")
	}
	if NewModelCircuitBreaker("disabled", cfg, nil) != nil {
		t.Fatal("model breaker should be nil when disabled")
	}

	resp := &genai.GenerateContentResponse{}
	got, err := cb.Execute(func() (*genai.GenerateContentResponse, error) { return resp, nil })
	if err != nil || got != resp {
		t.Errorf("nil breaker should pass the call through, got %v, %v", got, err)
	}
	if enabled, _ := cb.Stats()["enabled"].(bool); enabled {
		t.Error("nil breaker reported enabled")
	}
	if !cb.IsHealthy() {
		t.Error("nil breaker should be healthy")
	}
}
