package ai

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/big"
	"net"
	"net/http"
	"time"

	"fastresume/internal/config"
	appErrors "fastresume/internal/errors"
	"fastresume/internal/types"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/api/googleapi"
	"google.golang.org/genai"
)

const modelCheckTimeout = 10 * time.Second

// GeminiProvider implements AIProvider for Google Gemini
type GeminiProvider struct {
	client         *genai.Client
	config         *config.OperationAIConfig
	operation      string
	circuitBreaker *AICircuitBreaker
	modelBreaker   *ModelCircuitBreaker
	logger         *appErrors.Logger
	now            func() time.Time
}

var _ AIProvider = (*GeminiProvider)(nil)

// NewGeminiProvider creates a Gemini provider for one operation.
func NewGeminiProvider(cfg *config.OperationAIConfig, operation string, logger *appErrors.Logger) (*GeminiProvider, error) {
	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: *cfg.Timeout},
	})
	if err != nil {
		return nil, appErrors.NewAIError(appErrors.ErrCodeAIServiceFailed,
			"Failed to create Gemini client", err)
	}

	return &GeminiProvider{
		client:         client,
		config:         cfg,
		operation:      operation,
		circuitBreaker: NewAICircuitBreaker(operation, cfg, logger),
		modelBreaker:   NewModelCircuitBreaker(operation, cfg, logger),
		logger:         logger,
		now:            time.Now,
	}, nil
}

// GetModelInfo checks the readiness and availability of the configured model
func (g *GeminiProvider) GetModelInfo(ctx context.Context) *ModelInfo {
	info := &ModelInfo{Name: g.config.Model}

	checkCtx, cancel := context.WithTimeout(ctx, modelCheckTimeout)
	defer cancel()

	model, err := g.modelBreaker.Execute(func() (*genai.Model, error) {
		return g.client.Models.Get(checkCtx, g.config.Model, &genai.GetModelConfig{})
	})
	if err != nil {
		info.Error = fmt.Sprintf("Failed to get model info: %v", err)
		g.logger.Warn("Model availability check failed",
			"model", g.config.Model,
			"operation", g.operation,
			"error", err.Error())
		return info
	}

	info.Available = true
	info.DisplayName = model.DisplayName
	info.Version = model.Version

	g.logger.Debug("Model availability check successful",
		"model", g.config.Model,
		"display_name", info.DisplayName,
		"version", info.Version)
	return info
}

// executeWithRetry runs fn with exponential backoff between attempts.
func (g *GeminiProvider) executeWithRetry(ctx context.Context, operation string, fn func() (*genai.GenerateContentResponse, error)) (*genai.GenerateContentResponse, error) {
	maxRetries := *g.config.MaxRetries
	var lastErr error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			backoff := retryBackoff(attempt)
			g.logger.Warn("Retrying AI operation",
				"operation", operation,
				"attempt", attempt,
				"max_retries", maxRetries,
				"backoff", backoff.String(),
				"error", lastErr.Error())

			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		result, err := fn()
		if err == nil {
			if attempt > 0 {
				g.logger.Info("AI operation succeeded after retry",
					"operation", operation,
					"total_attempts", attempt+1)
			}
			return result, nil
		}
		lastErr = err

		if !isRetryableError(err) {
			g.logger.Debug("Error is not retryable, stopping retry attempts",
				"operation", operation,
				"error", err.Error())
			break
		}
	}

	g.logger.LogError(lastErr, "AI operation failed after all retry attempts",
		"operation", operation,
		"max_attempts", maxRetries+1)

	return nil, fmt.Errorf("operation '%s' failed after %d retries: %w", operation, maxRetries, lastErr)
}

// retryBackoff is 2^(attempt-1) seconds plus up to 10% jitter, capped at 30s.
func retryBackoff(attempt int) time.Duration {
	base := time.Duration(math.Pow(2, float64(attempt-1))) * time.Second
	var jitter time.Duration
	if n, err := rand.Int(rand.Reader, big.NewInt(int64(float64(base)*0.1)+1)); err == nil {
		jitter = time.Duration(n.Int64())
	}
	return min(base+jitter, 30*time.Second)
}

// isRetryableError reports whether err is transient: any network error or a
// Google API throttling/server error.
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		}
	}

	var genaiErr genai.APIError
	if errors.As(err, &genaiErr) {
		return genaiErr.Code == http.StatusTooManyRequests || genaiErr.Code >= http.StatusInternalServerError
	}

	return false
}

// executeAIOperation runs one generation with tracing, the operation timeout,
// the circuit breaker and retries, then decodes the JSON reply into Out.
func executeAIOperation[Out any](
	g *GeminiProvider,
	ctx context.Context,
	operationName string,
	prompts Prompts,
	genaiConfig *genai.GenerateContentConfig,
	spanAttributes ...attribute.KeyValue,
) (Out, *TokenUsage, error) {
	var output Out
	tracer := otel.Tracer("fastresume.ai.gemini")
	ctx, span := tracer.Start(ctx, "gemini."+operationName)
	defer span.End()

	span.SetAttributes(
		attribute.String("ai.provider", "gemini"),
		attribute.String("ai.model", g.config.Model),
		attribute.Float64("ai.temperature", float64(*g.config.Temperature)),
	)
	span.SetAttributes(spanAttributes...)

	userPrompt := prompts.User
	if prompts.System != "" {
		if *g.config.UseSystemPrompts {
			genaiConfig.SystemInstruction = genai.NewContentFromText(prompts.System, genai.RoleUser)
		} else {
			userPrompt = prompts.System + "\n\n" + userPrompt
		}
	}

	if *g.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *g.config.Timeout)
		defer cancel()
	}

	result, err := g.circuitBreaker.Execute(func() (*genai.GenerateContentResponse, error) {
		return g.executeWithRetry(ctx, operationName, func() (*genai.GenerateContentResponse, error) {
			return g.client.Models.GenerateContent(ctx, g.config.Model, genai.Text(userPrompt), genaiConfig)
		})
	})
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		code := appErrors.ErrCodeAIServiceFailed
		if errors.Is(err, context.DeadlineExceeded) {
			code = appErrors.ErrCodeAITimeout
		}
		return output, nil, appErrors.NewAIError(code, "Failed to generate content for "+operationName, err)
	}

	if err := json.Unmarshal([]byte(result.Text()), &output); err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		return output, nil, appErrors.NewAIError(appErrors.ErrCodeAIResponseParse,
			"Failed to parse AI response for "+operationName, err)
	}

	tokenUsage := extractTokenUsage(result)
	if tokenUsage != nil {
		span.SetAttributes(
			attribute.Int64("ai.tokens.input", tokenUsage.InputTokens),
			attribute.Int64("ai.tokens.output", tokenUsage.OutputTokens),
			attribute.Int64("ai.tokens.total", tokenUsage.TotalTokens),
		)
	}

	span.SetAttributes(attribute.Bool("success", true))
	return output, tokenUsage, nil
}

func (g *GeminiProvider) prompts() Prompts {
	return promptsFor(g.operation, g.config.Prompts, config.GetPromptsForOperation(g.operation))
}

// AnalyzeResume scores a resume against a job description.
func (g *GeminiProvider) AnalyzeResume(ctx context.Context, input types.AnalyzeResumeInput) (types.AnalysisResult, *TokenUsage, error) {
	p := g.prompts()
	p.User = analyzeUserPrompt(p.User, input)

	output, usage, err := executeAIOperation[types.AnalysisResult](g, ctx, "analyze_resume", p, g.buildAnalyzeSchema(),
		attribute.Int("input.job_length", len(input.JobDescription)),
		attribute.Int("input.resume_length", len(input.Resume)),
		attribute.String("input.english_variant", string(input.EnglishVariant)),
	)
	if err != nil {
		return types.AnalysisResult{}, nil, err
	}

	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		span.SetAttributes(
			attribute.Int("output.overall_score", output.OverallScore),
			attribute.Int("output.missing_skills", len(output.MissingSkills)),
		)
	}
	return output, usage, nil
}

// PredictCareer predicts career paths from projects and a resume.
func (g *GeminiProvider) PredictCareer(ctx context.Context, input types.PredictCareerInput) (types.CareerPrediction, *TokenUsage, error) {
	p := g.prompts()
	p.User = predictUserPrompt(p.User, input, g.now().Year())

	output, usage, err := executeAIOperation[types.CareerPrediction](g, ctx, "predict_career", p, g.buildPredictSchema(),
		attribute.Int("input.projects", len(input.Projects)),
		attribute.Bool("input.has_resume", input.Resume != nil),
		attribute.Bool("input.targeted", input.TargetRole != ""),
	)
	if err != nil {
		return types.CareerPrediction{}, nil, err
	}
	return output, usage, nil
}

// GenerateCareerStrategy builds a preparation plan for a target role.
func (g *GeminiProvider) GenerateCareerStrategy(ctx context.Context, input types.CareerStrategyInput) (types.CareerStrategy, *TokenUsage, error) {
	p := g.prompts()
	p.User = strategyUserPrompt(p.User, input)

	output, usage, err := executeAIOperation[types.CareerStrategy](g, ctx, "career_strategy", p, g.buildStrategySchema(),
		attribute.String("input.target_role", input.TargetRole),
		attribute.Int("input.missing_skills", len(input.MissingSkills)),
	)
	if err != nil {
		return types.CareerStrategy{}, nil, err
	}
	return output, usage, nil
}

// SuggestProject proposes a project that proves a missing skill.
func (g *GeminiProvider) SuggestProject(ctx context.Context, input types.ProjectSuggestionInput) (types.ProjectSuggestion, *TokenUsage, error) {
	p := g.prompts()
	p.User = suggestUserPrompt(p.User, input)

	output, usage, err := executeAIOperation[types.ProjectSuggestion](g, ctx, "suggest_project", p, g.buildSuggestSchema(),
		attribute.String("input.skill", input.Skill),
		attribute.Bool("input.has_resume", input.Resume != nil),
	)
	if err != nil {
		return types.ProjectSuggestion{}, nil, err
	}
	return output, usage, nil
}

// Coach answers the last message of a coaching conversation.
func (g *GeminiProvider) Coach(ctx context.Context, input types.CoachInput) (types.CoachReply, *TokenUsage, error) {
	p := g.prompts()
	p.User = coachUserPrompt(p.User, input)

	output, usage, err := executeAIOperation[types.CoachReply](g, ctx, "coach", p, g.buildCoachSchema(),
		attribute.Int("input.messages", len(input.Messages)),
		attribute.Bool("input.has_jd", input.JobDescription != ""),
	)
	if err != nil {
		return types.CoachReply{}, nil, err
	}
	return output, usage, nil
}

// SummarizeDocument writes a portfolio summary of a document's text.
func (g *GeminiProvider) SummarizeDocument(ctx context.Context, input types.DocumentSummaryInput) (types.DocumentSummary, *TokenUsage, error) {
	p := g.prompts()
	p.User = summarizeUserPrompt(p.User, input)

	output, usage, err := executeAIOperation[types.DocumentSummary](g, ctx, "summarize_document", p, g.buildSummarizeSchema(),
		attribute.Int("input.text_length", len(input.Text)),
		attribute.Bool("input.has_context", input.Context != ""),
	)
	if err != nil {
		return types.DocumentSummary{}, nil, err
	}
	return output, usage, nil
}

// GetCircuitBreakerStats returns circuit breaker statistics
func (g *GeminiProvider) GetCircuitBreakerStats() map[string]any {
	return map[string]any{
		"ai_operations":    g.circuitBreaker.Stats(),
		"model_operations": g.modelBreaker.Stats(),
		"overall_healthy":  g.circuitBreaker.IsHealthy() && g.modelBreaker.IsHealthy(),
	}
}

// Close implements AIProvider. The genai client holds no resources in unary mode.
func (g *GeminiProvider) Close() error {
	return nil
}

func extractTokenUsage(result *genai.GenerateContentResponse) *TokenUsage {
	if result == nil || result.UsageMetadata == nil {
		return nil
	}
	usage := result.UsageMetadata
	return &TokenUsage{
		InputTokens:  int64(usage.PromptTokenCount),
		OutputTokens: int64(usage.CandidatesTokenCount),
		TotalTokens:  int64(usage.TotalTokenCount),
	}
}
