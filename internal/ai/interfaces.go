package ai

import (
	"context"

	"fastresume/internal/types"
)

// AIProvider interface for different AI implementations.
// Every generating method returns token usage; callers may ignore it.
type AIProvider interface {
	AnalyzeResume(ctx context.Context, input types.AnalyzeResumeInput) (types.AnalysisResult, *TokenUsage, error)
	PredictCareer(ctx context.Context, input types.PredictCareerInput) (types.CareerPrediction, *TokenUsage, error)
	GenerateCareerStrategy(ctx context.Context, input types.CareerStrategyInput) (types.CareerStrategy, *TokenUsage, error)
	SuggestProject(ctx context.Context, input types.ProjectSuggestionInput) (types.ProjectSuggestion, *TokenUsage, error)
	Coach(ctx context.Context, input types.CoachInput) (types.CoachReply, *TokenUsage, error)
	SummarizeDocument(ctx context.Context, input types.DocumentSummaryInput) (types.DocumentSummary, *TokenUsage, error)
	GetModelInfo(ctx context.Context) *ModelInfo
	Close() error
}

// TokenUsage represents token usage information from AI responses
type TokenUsage struct {
	InputTokens  int64
	OutputTokens int64
	TotalTokens  int64
}

// ModelInfo represents information about the AI model
type ModelInfo struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName,omitempty"`
	Version     string `json:"version,omitempty"`
	Available   bool   `json:"available"`
	Error       string `json:"error,omitempty"`
}
