package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"fastresume/internal/config"
	"fastresume/internal/errors"
	"fastresume/internal/types"
)

// Service runs one AI operation through a provider and applies the
// operation's input checks, result normalization and fallbacks.
type Service struct {
	Provider  AIProvider
	operation string
	config    *config.OperationAIConfig
	logger    *errors.Logger
	now       func() time.Time
}

// NewService creates the AI service of one operation.
func NewService(cfg *config.OperationAIConfig, operation string, logger *errors.Logger) (*Service, error) {
	if cfg.APIKey == "" {
		return nil, errors.NewConfigError(errors.ErrCodeMissingAPIKey,
			fmt.Sprintf("no API key configured for %s; set FASTRESUME_AI_APIKEY or ai.apiKey", operation), nil)
	}

	logger.Debug("Initializing AI service",
		"provider", cfg.Provider,
		"operation", operation,
		"model", cfg.Model,
		"temperature", *cfg.Temperature,
		"timeout", *cfg.Timeout,
		"max_retries", *cfg.MaxRetries,
		"use_system_prompts", *cfg.UseSystemPrompts)

	var provider AIProvider
	var err error
	switch cfg.Provider {
	case "gemini":
		provider, err = NewGeminiProvider(cfg, operation, logger)
	default:
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("Unsupported AI provider: %s", cfg.Provider), nil)
	}
	if err != nil {
		return nil, errors.NewAIError(errors.ErrCodeAIServiceFailed, "Failed to create AI provider", err)
	}

	return NewServiceWithProvider(provider, operation, cfg, logger), nil
}

// NewServiceWithProvider wraps an existing provider.
func NewServiceWithProvider(provider AIProvider, operation string, cfg *config.OperationAIConfig, logger *errors.Logger) *Service {
	return &Service{
		Provider:  provider,
		operation: operation,
		config:    cfg,
		logger:    logger,
		now:       time.Now,
	}
}

// Operation returns the operation name the service was built for.
func (s *Service) Operation() string {
	return s.operation
}

// AnalyzeResume scores a resume against a job description. Inputs shorter
// than MinInputLength get a zero score without a model call.
func (s *Service) AnalyzeResume(ctx context.Context, input types.AnalyzeResumeInput) (types.AnalysisResult, *TokenUsage, error) {
	if input.EnglishVariant == "" {
		input.EnglishVariant = types.EnglishAmerican
	}
	if insufficientInput(input) {
		s.logger.Info("Skipping analysis of short input",
			"job_length", len(input.JobDescription),
			"resume_length", len(input.Resume),
			"min_length", MinInputLength)
		return insufficientInputResult(), nil, nil
	}

	result, usage, err := s.Provider.AnalyzeResume(ctx, input)
	if err != nil {
		return types.AnalysisResult{}, nil, err
	}
	normalizeAnalysis(&result)
	return result, usage, nil
}

// PredictCareer predicts career paths. A failed model call yields a generic
// prediction rather than an error, unless ctx itself was cancelled.
func (s *Service) PredictCareer(ctx context.Context, input types.PredictCareerInput) (types.CareerPrediction, *TokenUsage, error) {
	prediction, usage, err := s.Provider.PredictCareer(ctx, input)
	if err != nil {
		if ctx.Err() != nil {
			return types.CareerPrediction{}, nil, err
		}
		s.logger.LogError(err, "Career prediction failed, returning fallback")
		return fallbackPrediction(s.now().Year()), nil, nil
	}
	normalizePrediction(&prediction)
	return prediction, usage, nil
}

// GenerateCareerStrategy builds a strategy for the target role. A failed
// model call yields an empty strategy, unless ctx itself was cancelled.
func (s *Service) GenerateCareerStrategy(ctx context.Context, input types.CareerStrategyInput) (types.CareerStrategy, *TokenUsage, error) {
	strategy, usage, err := s.Provider.GenerateCareerStrategy(ctx, input)
	if err != nil {
		if ctx.Err() != nil {
			return types.CareerStrategy{}, nil, err
		}
		s.logger.LogError(err, "Career strategy failed, returning empty strategy", "target_role", input.TargetRole)
		return emptyStrategy(), nil, nil
	}
	return strategy, usage, nil
}

// SuggestProject proposes a gap-filling project for input.Skill. A failed
// model call yields a generic self-directed project, unless ctx was cancelled.
func (s *Service) SuggestProject(ctx context.Context, input types.ProjectSuggestionInput) (types.ProjectSuggestion, *TokenUsage, error) {
	suggestion, usage, err := s.Provider.SuggestProject(ctx, input)
	if err != nil {
		if ctx.Err() != nil {
			return types.ProjectSuggestion{}, nil, err
		}
		s.logger.LogError(err, "Project suggestion failed, returning fallback", "skill", input.Skill)
		return fallbackSuggestion(input.Skill), nil, nil
	}
	normalizeSuggestion(&suggestion, input.Skill)
	return suggestion, usage, nil
}

// Coach answers the last message of a conversation. Model failures become
// an apologetic reply rather than an error, unless ctx was cancelled.
func (s *Service) Coach(ctx context.Context, input types.CoachInput) (types.CoachReply, *TokenUsage, error) {
	reply, usage, err := s.Provider.Coach(ctx, input)
	if err != nil {
		if ctx.Err() != nil {
			return types.CoachReply{}, nil, err
		}
		s.logger.LogError(err, "Coach reply failed, returning fallback", "messages", len(input.Messages))
		return types.CoachReply{Reply: coachUnavailable}, nil, nil
	}
	if strings.TrimSpace(reply.Reply) == "" {
		reply.Reply = coachNoAnswer
	}
	return reply, usage, nil
}

// SummarizeDocument summarizes document text for a portfolio. A failed model
// call yields a placeholder summary, unless ctx was cancelled.
func (s *Service) SummarizeDocument(ctx context.Context, input types.DocumentSummaryInput) (types.DocumentSummary, *TokenUsage, error) {
	summary, usage, err := s.Provider.SummarizeDocument(ctx, input)
	if err != nil {
		if ctx.Err() != nil {
			return types.DocumentSummary{}, nil, err
		}
		s.logger.LogError(err, "Document summary failed, returning fallback", "text_length", len(input.Text))
		return fallbackSummary(), nil, nil
	}
	if summary.KeyPoints == nil {
		summary.KeyPoints = []string{}
	}
	return summary, usage, nil
}

// GetModelInfo returns information about the AI model for health checks
func (s *Service) GetModelInfo(ctx context.Context) *ModelInfo {
	return s.Provider.GetModelInfo(ctx)
}

// CircuitBreakerStats returns the provider's breaker statistics when it keeps any.
func (s *Service) CircuitBreakerStats() map[string]any {
	if p, ok := s.Provider.(interface{ GetCircuitBreakerStats() map[string]any }); ok {
		return p.GetCircuitBreakerStats()
	}
	return map[string]any{"enabled": false}
}

// Close releases the provider.
func (s *Service) Close() error {
	return s.Provider.Close()
}
