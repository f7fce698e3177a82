package ai

import (
	"context"
	stderrors "errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"fastresume/internal/config"
	"fastresume/internal/errors"
	"fastresume/internal/types"
)

var testLogger = errors.NewLoggerWithWriter(io.Discard, slog.LevelDebug)

func ptr[T any](v T) *T { return &v }

type fakeProvider struct {
	analysis   types.AnalysisResult
	prediction types.CareerPrediction
	strategy   types.CareerStrategy
	suggestion types.ProjectSuggestion
	reply      types.CoachReply
	summary    types.DocumentSummary
	err        error
	calls      int
	lastInput  any
}

func (f *fakeProvider) AnalyzeResume(_ context.Context, input types.AnalyzeResumeInput) (types.AnalysisResult, *TokenUsage, error) {
	f.calls++
	f.lastInput = input
	return f.analysis, &TokenUsage{TotalTokens: 42}, f.err
}

func (f *fakeProvider) PredictCareer(_ context.Context, input types.PredictCareerInput) (types.CareerPrediction, *TokenUsage, error) {
	f.calls++
	f.lastInput = input
	return f.prediction, nil, f.err
}

func (f *fakeProvider) GenerateCareerStrategy(_ context.Context, input types.CareerStrategyInput) (types.CareerStrategy, *TokenUsage, error) {
	f.calls++
	f.lastInput = input
	return f.strategy, nil, f.err
}

func (f *fakeProvider) SuggestProject(_ context.Context, input types.ProjectSuggestionInput) (types.ProjectSuggestion, *TokenUsage, error) {
	f.calls++
	f.lastInput = input
	return f.suggestion, nil, f.err
}

func (f *fakeProvider) Coach(_ context.Context, input types.CoachInput) (types.CoachReply, *TokenUsage, error) {
	f.calls++
	f.lastInput = input
	return f.reply, nil, f.err
}

func (f *fakeProvider) SummarizeDocument(_ context.Context, input types.DocumentSummaryInput) (types.DocumentSummary, *TokenUsage, error) {
	f.calls++
	f.lastInput = input
	return f.summary, nil, f.err
}

func (f *fakeProvider) GetModelInfo(context.Context) *ModelInfo { return &ModelInfo{Name: "fake", Available: true} }
func (f *fakeProvider) Close() error                            { return nil }

func newTestService(p AIProvider) *Service {
	s := NewServiceWithProvider(p, config.OperationAnalyze, &config.OperationAIConfig{}, testLogger)
	s.now = func() time.Time { return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) }
	return s
}

var (
	longJD     = strings.Repeat("Senior Go engineer building payment systems. ", 3)
	longResume = strings.Repeat("Built distributed ledgers at a fintech startup. ", 3)
)

func TestAnalyzeResumeShortInput(t *testing.T) {
	tests := []struct {
		name   string
		jd     string
		resume string
	}{
		{name: "short job description", jd: "Go dev", resume: longResume},
		{name: "short resume", jd: longJD, resume: "I code."},
		{name: "whitespace padding", jd: longJD, resume: "  short  " + strings.Repeat(" ", 60)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeProvider{}
			got, usage, err := newTestService(fake).AnalyzeResume(context.Background(), types.AnalyzeResumeInput{
				JobDescription: tt.jd,
				Resume:         tt.resume,
			})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if fake.calls != 0 {
				t.Error("provider must not be called for short input")
			}
			if usage != nil {
				t.Error("short-circuit result should carry no token usage")
			}
			if got.OverallScore != 0 || got.ScoreBreakdown == nil || got.ScoreBreakdown.Explanation != insufficientInputExplanation {
				t.Errorf("unexpected result: %+v", got)
			}
			if got.OptimizedResume.Experiences == nil || len(got.OptimizedResume.Experiences) != 0 {
				t.Error("optimized resume lists should be empty, not nil")
			}
		})
	}
}

func TestAnalyzeResumeNormalizes(t *testing.T) {
	fake := &fakeProvider{analysis: types.AnalysisResult{
		OverallScore: 12,
		HardSkills:   []string{"Go"},
		OptimizedResume: types.ResumeContent{
			Experiences:    []types.Entry{{ID: "keep"}, {Role: "Engineer"}},
			Volunteer:      []types.Entry{{Role: "Mentor"}},
			SchoolProjects: []types.Entry{{Role: "Compiler"}},
			Education:      []types.EducationItem{{School: "RMIT"}},
			References:     []types.ReferenceItem{{FullName: "Ada"}},
		},
	}}

	got, usage, err := newTestService(fake).AnalyzeResume(context.Background(), types.AnalyzeResumeInput{
		JobDescription: longJD,
		Resume:         longResume,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if usage == nil || usage.TotalTokens != 42 {
		t.Errorf("token usage not passed through: %+v", usage)
	}
	if in := fake.lastInput.(types.AnalyzeResumeInput); in.EnglishVariant != types.EnglishAmerican {
		t.Errorf("variant defaulted to %q", in.EnglishVariant)
	}

	r := got.OptimizedResume
	if r.Experiences[0].ID != "keep" {
		t.Errorf("existing id replaced: %q", r.Experiences[0].ID)
	}
	prefixes := map[string]string{
		"experience": r.Experiences[1].ID,
		"volunteer":  r.Volunteer[0].ID,
		"project":    r.SchoolProjects[0].ID,
		"education":  r.Education[0].ID,
		"reference":  r.References[0].ID,
	}
	want := map[string]string{"experience": "exp-", "volunteer": "vol-", "project": "proj-", "education": "edu-", "reference": "ref-"}
	for name, id := range prefixes {
		if !strings.HasPrefix(id, want[name]) {
			t.Errorf("%s id = %q, want prefix %q", name, id, want[name])
		}
	}

	if r.RecipientName != defaultRecipient {
		t.Errorf("recipient = %q", r.RecipientName)
	}
	if got.ScoreBreakdown == nil || got.ScoreBreakdown.CoreSkills != 40 || got.ScoreBreakdown.Explanation != estimatedScoreExplanation {
		t.Errorf("default breakdown not applied: %+v", got.ScoreBreakdown)
	}
	if got.OverallScore != skillsFoundScoreFloor {
		t.Errorf("score = %d, want floor %d", got.OverallScore, skillsFoundScoreFloor)
	}
}

func TestAnalyzeResumeKeepsModelScore(t *testing.T) {
	fake := &fakeProvider{analysis: types.AnalysisResult{
		OverallScore:   30,
		ScoreBreakdown: &types.ScoreBreakdown{CoreSkills: 10, Explanation: "model"},
		OptimizedResume: types.ResumeContent{
			RecipientName: "Ms Chen",
		},
	}}

	got, _, err := newTestService(fake).AnalyzeResume(context.Background(), types.AnalyzeResumeInput{
		JobDescription: longJD,
		Resume:         longResume,
		EnglishVariant: types.EnglishBritish,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.OverallScore != 30 {
		t.Errorf("score without hard skills changed to %d", got.OverallScore)
	}
	if got.ScoreBreakdown.Explanation != "model" || got.OptimizedResume.RecipientName != "Ms Chen" {
		t.Errorf("model values overwritten: %+v", got)
	}
}

func TestAnalyzeResumePropagatesError(t *testing.T) {
	fake := &fakeProvider{err: errors.NewAIError(errors.ErrCodeAIServiceFailed, "boom", nil)}
	_, _, err := newTestService(fake).AnalyzeResume(context.Background(), types.AnalyzeResumeInput{
		JobDescription: longJD,
		Resume:         longResume,
	})
	if errors.TypeOf(err) != errors.ErrorTypeAI {
		t.Errorf("err = %v, want AI error", err)
	}
}

func TestPredictCareer(t *testing.T) {
	fake := &fakeProvider{prediction: types.CareerPrediction{
		CurrentLevel: "Junior",
		Paths: []types.CareerPath{
			{Role: "Platform Engineer", Description: "", MissingSkills: []string{"Kubernetes"}},
			{Role: "SRE", Description: "n/a"},
			{Role: "Tech Lead", Description: "Leads a team of engineers."},
		},
	}}

	got, _, err := newTestService(fake).PredictCareer(context.Background(), types.PredictCareerInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantDescriptions := []string{
		"Predicted career trajectory for Platform Engineer. Requires bridging Kubernetes.",
		"Predicted career trajectory for SRE. Requires bridging specific skills.",
		"Leads a team of engineers.",
	}
	for i, want := range wantDescriptions {
		if got.Paths[i].Description != want {
			t.Errorf("path %d description = %q, want %q", i, got.Paths[i].Description, want)
		}
	}
}

func TestPredictCareerFallback(t *testing.T) {
	fake := &fakeProvider{err: stderrors.New("quota exceeded")}

	got, _, err := newTestService(fake).PredictCareer(context.Background(), types.PredictCareerInput{})
	if err != nil {
		t.Fatalf("fallback should hide the provider error, got %v", err)
	}
	if got.CurrentLevel != "Professional" || len(got.SkillTrajectory) != 1 || got.SkillTrajectory[0].Year != "2026" {
		t.Errorf("unexpected fallback: %+v", got)
	}
	if got.Paths == nil || len(got.Paths) != 0 {
		t.Errorf("fallback paths should be empty: %+v", got.Paths)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := newTestService(fake).PredictCareer(ctx, types.PredictCareerInput{}); err == nil {
		t.Error("cancelled context should surface the error")
	}
}

func TestGenerateCareerStrategyFallback(t *testing.T) {
	fake := &fakeProvider{err: stderrors.New("bad gateway")}

	got, _, err := newTestService(fake).GenerateCareerStrategy(context.Background(), types.CareerStrategyInput{TargetRole: "SRE"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.GapFix == nil || got.InterviewPrep == nil || got.PortfolioUpgrade == nil {
		t.Errorf("empty strategy should have non-nil lists: %+v", got)
	}
	if len(got.GapFix)+len(got.InterviewPrep)+len(got.PortfolioUpgrade) != 0 {
		t.Errorf("empty strategy has content: %+v", got)
	}
}

func TestSuggestProject(t *testing.T) {
	fake := &fakeProvider{suggestion: types.ProjectSuggestion{Title: "Ledger Service", Type: "GitHub Repo"}}

	got, _, err := newTestService(fake).SuggestProject(context.Background(), types.ProjectSuggestionInput{Skill: "Kafka"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Title != "Ledger Service" || got.Type != "GitHub Repo" {
		t.Errorf("suggestion = %+v", got)
	}
	if got.Description != "Create a project demonstrating Kafka." {
		t.Errorf("blank description should be filled, got %q", got.Description)
	}

	fake.err = stderrors.New("quota exceeded")
	got, _, err = newTestService(fake).SuggestProject(context.Background(), types.ProjectSuggestionInput{Skill: "Kafka"})
	if err != nil {
		t.Fatalf("fallback should hide the provider error, got %v", err)
	}
	want := types.ProjectSuggestion{Title: "Custom Project", Description: "Create a project demonstrating Kafka.", Type: "Self-Directed"}
	if got != want {
		t.Errorf("fallback = %+v, want %+v", got, want)
	}
}

func TestCoach(t *testing.T) {
	input := types.CoachInput{Messages: []types.ChatMessage{{Role: "user", Text: "How do I improve my score?"}}}
	tests := []struct {
		name      string
		reply     string
		err       error
		wantReply string
	}{
		{"answer", "Quantify your impact.", nil, "Quantify your impact."},
		{"blank answer", "  ", nil, "I'm sorry, I couldn't process that request."},
		{"provider failure", "", stderrors.New("bad gateway"), "I'm experiencing some technical difficulties."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeProvider{reply: types.CoachReply{Reply: tt.reply}, err: tt.err}
			got, _, err := newTestService(fake).Coach(context.Background(), input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Reply != tt.wantReply {
				t.Errorf("reply = %q, want %q", got.Reply, tt.wantReply)
			}
		})
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	fake := &fakeProvider{err: stderrors.New("bad gateway")}
	if _, _, err := newTestService(fake).Coach(ctx, input); err == nil {
		t.Error("cancelled context should surface the error")
	}
}

func TestSummarizeDocument(t *testing.T) {
	fake := &fakeProvider{summary: types.DocumentSummary{Summary: "Led a migration."}}

	got, _, err := newTestService(fake).SummarizeDocument(context.Background(), types.DocumentSummaryInput{Text: "report"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.KeyPoints == nil {
		t.Error("key points should never be nil")
	}

	fake.err = stderrors.New("quota exceeded")
	got, _, err = newTestService(fake).SummarizeDocument(context.Background(), types.DocumentSummaryInput{Text: "report"})
	if err != nil {
		t.Fatalf("fallback should hide the provider error, got %v", err)
	}
	if got.Summary != "Could not analyze document content. Please try downloading the original file." {
		t.Errorf("summary = %q", got.Summary)
	}
	if len(got.KeyPoints) != 1 || got.KeyPoints[0] != "Document Analysis" {
		t.Errorf("key points = %v", got.KeyPoints)
	}
}

func TestNewServiceRequiresAPIKey(t *testing.T) {
	cfg := &config.OperationAIConfig{
		Provider:         "gemini",
		Model:            "gemini-2.5-flash",
		Timeout:          ptr(time.Second),
		MaxRetries:       ptr(1),
		Temperature:      ptr(float32(0.3)),
		UseSystemPrompts: ptr(true),
	}

	_, err := NewService(cfg, config.OperationAnalyze, testLogger)
	var appErr *errors.AppError
	if !stderrors.As(err, &appErr) || appErr.Code != errors.ErrCodeMissingAPIKey {
		t.Fatalf("err = %v, want %s", err, errors.ErrCodeMissingAPIKey)
	}

	cfg.APIKey = "key"
	cfg.Provider = "openai"
	_, err = NewService(cfg, config.OperationAnalyze, testLogger)
	if !stderrors.As(err, &appErr) || appErr.Code != errors.ErrCodeInvalidConfig {
		t.Fatalf("err = %v, want %s", err, errors.ErrCodeInvalidConfig)
	}
}
