package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fastresume/internal/ai"
	"fastresume/internal/common"
	"fastresume/internal/config"
	"fastresume/internal/errors"
	"fastresume/internal/layout"
	"fastresume/internal/store"
	"fastresume/internal/types"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		App: config.AppConfig{
			LogLevel:         "error",
			DefaultFormat:    "json",
			SupportedFormats: []string{"json", "text", "markdown"},
			DataDir:          t.TempDir(),
			EnglishVariant:   "American",
		},
		Layout: config.LayoutConfig{PageSettings: layout.DefaultPageSettings},
	}
}

var layoutConfig0, historyConfig0 = layoutConfig, historyConfig

// resetFlags clears flag state left behind by earlier runs of the shared
// command tree.
func resetFlags() {
	layoutUndo, layoutRedo = false, false
	layoutAddEntries, layoutRemoveEntries, layoutMoves = nil, nil, nil
	layoutAddPages, layoutDeletePage = 0, 0
	layoutRemoveLastPage, layoutYes = false, false
	layoutWrite, layoutCoverLetter, layoutRegion = "", "", "1"
	layoutCLAddPages, layoutCLDeletePage, layoutCLRemoveLast = 0, 0, false
	for _, v := range []*float64{layoutPatch.FontSize, layoutPatch.Margin, layoutPatch.LineHeight, layoutPatch.NameSize, layoutPatch.HeaderSize} {
		*v = 0
	}
	historyLimit, historyYes = 20, false
	coachResume, coachJD, coachTranscript, coachHealth = "", "", "", 0
	summarizeContext = ""
	suggestConfig, coachConfig, summarizeConfig = common.CommandConfig{}, common.CommandConfig{}, common.CommandConfig{}
	layoutConfig = layoutConfig0
	historyConfig = historyConfig0

	var walk func(*cobra.Command)
	walk = func(cmd *cobra.Command) {
		cmd.Flags().VisitAll(func(f *pflag.Flag) { f.Changed = false })
		for _, sub := range cmd.Commands() {
			walk(sub)
		}
	}
	walk(rootCmd)
}

func run(t *testing.T, cfg *config.Config, stdin string, args ...string) (string, error) {
	t.Helper()
	resetFlags()

	var out bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetIn(strings.NewReader(stdin))

	logger := errors.NewLoggerWithWriter(io.Discard, slog.LevelError)
	err := Execute(context.Background(), cfg, logger)
	return out.String(), err
}

func writeJSON(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "input.json")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func readPlan(t *testing.T, path string) layout.Plan {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var plan layout.Plan
	require.NoError(t, json.Unmarshal(data, &plan))
	return plan
}

func fourJobs() types.ResumeContent {
	return types.ResumeContent{
		FullName: "Ada Lovelace",
		Experiences: []types.Entry{
			{ID: "w1", Role: "Engineer"},
			{ID: "w2", Role: "Analyst"},
			{ID: "w3", Role: "Mathematician"},
			{ID: "w4", Role: "Writer"},
		},
	}
}

func TestLayoutMoveAndWrite(t *testing.T) {
	cfg := testConfig(t)
	doc := writeJSON(t, layout.Document{Content: fourJobs(), Placement: layout.NewPlacement()})
	dir := t.TempDir()
	out := filepath.Join(dir, "plan.json")
	edited := filepath.Join(dir, "edited.json")

	_, err := run(t, cfg, "", "layout", doc, "--move", "w1=2", "--font-size", "11", "-o", out, "--write", edited)
	require.NoError(t, err)

	plan := readPlan(t, out)
	assert.Equal(t, 2, plan.PageCount)
	assert.Equal(t, 1, plan.Document.Placement.Overrides["w1"])
	require.Len(t, plan.Pages, 2)
	assert.Equal(t, 11.0, plan.Pages[0].Settings.FontSize)

	data, err := os.ReadFile(edited)
	require.NoError(t, err)
	var saved layout.Document
	require.NoError(t, json.Unmarshal(data, &saved))
	assert.Equal(t, 1, saved.Placement.Overrides["w1"])
}

func TestLayoutFromAnalysisOutput(t *testing.T) {
	cfg := testConfig(t)
	input := writeJSON(t, types.AnalysisResult{OverallScore: 80, OptimizedResume: fourJobs()})
	out := filepath.Join(t.TempDir(), "plan.json")

	_, err := run(t, cfg, "", "layout", input, "-o", out)
	require.NoError(t, err)

	plan := readPlan(t, out)
	assert.Equal(t, 2, plan.PageCount)
	assert.Equal(t, "Ada Lovelace", plan.Document.Content.FullName)
}

func TestLayoutDeleteOnlyPage(t *testing.T) {
	cfg := testConfig(t)
	content := types.ResumeContent{FullName: "Ada", Summary: "Pioneer", Experiences: []types.Entry{{ID: "w1", Role: "Engineer"}}}
	doc := writeJSON(t, layout.Document{Content: content, Placement: layout.NewPlacement()})
	out := filepath.Join(t.TempDir(), "plan.json")

	_, err := run(t, cfg, "n\n", "layout", doc, "--delete-page", "1", "-o", out)
	require.NoError(t, err)
	plan := readPlan(t, out)
	assert.Equal(t, layout.DeleteDeclined.String(), plan.Outcome)
	assert.Len(t, plan.Document.Content.Experiences, 1)

	_, err = run(t, cfg, "", "layout", doc, "--delete-page", "1", "--yes", "-o", out)
	require.NoError(t, err)
	plan = readPlan(t, out)
	assert.Equal(t, layout.DeleteCleared.String(), plan.Outcome)
	assert.Empty(t, plan.Document.Content.Experiences)
	assert.Empty(t, plan.Document.Content.Summary)
	assert.Equal(t, "Ada", plan.Document.Content.FullName)
}

func TestLayoutKeepsManualPages(t *testing.T) {
	cfg := testConfig(t)
	out := filepath.Join(t.TempDir(), "plan.json")

	for name, body := range map[string]string{
		"no overrides":   `{"content":{"fullName":"Ada"},"placement":{"manualPageCount":3}}`,
		"null overrides": `{"content":{"fullName":"Ada"},"placement":{"overrides":null,"manualPageCount":3}}`,
	} {
		t.Run(name, func(t *testing.T) {
			doc := filepath.Join(t.TempDir(), "doc.json")
			require.NoError(t, os.WriteFile(doc, []byte(body), 0o600))

			_, err := run(t, cfg, "", "layout", doc, "-o", out)
			require.NoError(t, err)
			plan := readPlan(t, out)
			assert.Equal(t, 3, plan.PageCount)
			assert.Len(t, plan.Pages, 3)
			assert.NotNil(t, plan.Document.Placement.Overrides)
		})
	}
}

func TestLayoutSeedsCoverLetterFromAnalysis(t *testing.T) {
	cfg := testConfig(t)
	input := writeJSON(t, types.AnalysisResult{CoverLetter: "Dear hiring team,", OptimizedResume: fourJobs()})
	out := filepath.Join(t.TempDir(), "plan.json")

	_, err := run(t, cfg, "", "layout", input, "-o", out)
	require.NoError(t, err)
	assert.Equal(t, []string{"Dear hiring team,"}, readPlan(t, out).Document.CoverLetterPages)

	letter := filepath.Join(t.TempDir(), "letter.txt")
	require.NoError(t, os.WriteFile(letter, []byte("Replacement"), 0o600))
	_, err = run(t, cfg, "", "layout", input, "--cover-letter", letter, "-o", out)
	require.NoError(t, err)
	assert.Equal(t, []string{"Replacement"}, readPlan(t, out).Document.CoverLetterPages)
}

func TestLayoutEntryEditsAndUndo(t *testing.T) {
	cfg := testConfig(t)
	placement := layout.NewPlacement()
	placement.MoveToPage("w4", 2)
	doc := writeJSON(t, layout.Document{Content: fourJobs(), Placement: placement})
	dir := t.TempDir()
	out := filepath.Join(dir, "plan.json")
	edited := filepath.Join(dir, "edited.json")

	_, err := run(t, cfg, "", "layout", doc,
		"--remove-entry", "w4",
		"--add-entry", `volunteer={"role":"Mentor","company":"Code Club"}`,
		"-o", out, "--write", edited)
	require.NoError(t, err)

	plan := readPlan(t, out)
	assert.Len(t, plan.Document.Content.Experiences, 3)
	require.Len(t, plan.Document.Content.Volunteer, 1)
	assert.True(t, strings.HasPrefix(plan.Document.Content.Volunteer[0].ID, "vol-"))
	assert.NotContains(t, plan.Document.Placement.Overrides, "w4")
	assert.Equal(t, 2, plan.PageCount)
	assert.Len(t, plan.Document.Undo, 2)

	// Entries are added before removals, so one undo restores w4.
	_, err = run(t, cfg, "", "layout", edited, "--undo", "-o", out)
	require.NoError(t, err)
	plan = readPlan(t, out)
	assert.Len(t, plan.Document.Content.Experiences, 4)
	assert.Len(t, plan.Document.Content.Volunteer, 1)
	assert.Len(t, plan.Document.Redo, 1)

	_, err = run(t, cfg, "", "layout", doc, "--undo", "-o", out)
	assert.Equal(t, errors.ErrorTypeValidation, errors.TypeOf(err))
}

func TestLayoutPageEdits(t *testing.T) {
	cfg := testConfig(t)
	doc := writeJSON(t, layout.Document{
		Content:          fourJobs(),
		Placement:        layout.NewPlacement(),
		CoverLetterPages: []string{"One", "Two"},
	})
	out := filepath.Join(t.TempDir(), "plan.json")

	_, err := run(t, cfg, "", "layout", doc, "--add-pages", "2", "--remove-last-page",
		"--cover-letter-add-pages", "1", "--cover-letter-delete-page", "1", "-o", out)
	require.NoError(t, err)
	plan := readPlan(t, out)
	assert.Equal(t, 2, plan.PageCount)
	assert.Equal(t, layout.DeleteReflowed.String(), plan.Outcome)
	assert.Equal(t, []string{"Two", ""}, plan.Document.CoverLetterPages)

	_, err = run(t, cfg, "", "layout", doc, "--cover-letter-remove-last-page", "-o", out)
	require.NoError(t, err)
	assert.Equal(t, []string{"One"}, readPlan(t, out).Document.CoverLetterPages)

	_, err = run(t, cfg, "", "layout", doc, "--delete-page", "1", "--remove-last-page")
	assert.Error(t, err)
}

func TestLayoutErrors(t *testing.T) {
	cfg := testConfig(t)
	doc := writeJSON(t, layout.Document{Content: fourJobs(), Placement: layout.NewPlacement()})

	tests := []struct {
		name string
		args []string
		want errors.ErrorType
	}{
		{"unknown entry", []string{"--move", "nope=1"}, errors.ErrorTypeNotFound},
		{"bad move", []string{"--move", "w1"}, errors.ErrorTypeValidation},
		{"page out of range", []string{"--delete-page", "5"}, errors.ErrorTypeValidation},
		{"bad settings", []string{"--font-size=-3"}, errors.ErrorTypeValidation},
		{"bad region", []string{"--region", "page-x", "--margin", "10"}, errors.ErrorTypeValidation},
		{"remove unknown entry", []string{"--remove-entry", "nope"}, errors.ErrorTypeNotFound},
		{"bad entry kind", []string{"--add-entry", `award={"role":"x"}`}, errors.ErrorTypeValidation},
		{"bad entry json", []string{"--add-entry", "work={"}, errors.ErrorTypeValidation},
		{"cover letter page out of range", []string{"--cover-letter-delete-page", "4"}, errors.ErrorTypeValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"layout", doc, "-o", filepath.Join(t.TempDir(), "out.json")}, tt.args...)
			_, err := run(t, cfg, "", args...)
			require.Error(t, err)
			assert.Equal(t, tt.want, errors.TypeOf(err))
		})
	}
}

func TestUnsupportedFormat(t *testing.T) {
	cfg := testConfig(t)
	doc := writeJSON(t, layout.Document{Content: fourJobs()})

	_, err := run(t, cfg, "", "layout", doc, "--format", "xml")
	assert.ErrorContains(t, err, "unsupported output format 'xml'")
}

func TestHistoryCommands(t *testing.T) {
	cfg := testConfig(t)
	history, err := store.Open(cfg.App.DataDir)
	require.NoError(t, err)
	rec, err := history.Save(context.Background(), store.KindAnalysis, types.AnalysisResult{OverallScore: 64})
	require.NoError(t, err)
	_, err = history.Save(context.Background(), store.KindAnalysis, types.AnalysisResult{OverallScore: 71})
	require.NoError(t, err)
	require.NoError(t, history.Close())

	out := filepath.Join(t.TempDir(), "list.json")
	_, err = run(t, cfg, "", "history", "list", "analysis", "-o", out)
	require.NoError(t, err)
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	var records []store.Record
	require.NoError(t, json.Unmarshal(data, &records))
	assert.Len(t, records, 2)

	shown, err := run(t, cfg, "", "history", "show", "analysis", rec.ID)
	require.NoError(t, err)
	assert.Contains(t, shown, `"overallScore": 64`)

	_, err = run(t, cfg, "", "history", "delete", "analysis", rec.ID)
	require.NoError(t, err)
	_, err = run(t, cfg, "", "history", "delete", "analysis", rec.ID)
	assert.Equal(t, errors.ErrorTypeNotFound, errors.TypeOf(err))

	_, err = run(t, cfg, "no\n", "history", "clear", "analysis")
	require.NoError(t, err)
	_, err = run(t, cfg, "", "history", "clear", "analysis", "--yes")
	require.NoError(t, err)

	_, err = run(t, cfg, "", "history", "list", "analysis", "-o", out)
	require.NoError(t, err)
	data, err = os.ReadFile(out)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &records))
	assert.Empty(t, records)

	_, err = run(t, cfg, "", "history", "list", "bogus")
	assert.Equal(t, errors.ErrorTypeValidation, errors.TypeOf(err))
}

func TestVersion(t *testing.T) {
	out, err := run(t, testConfig(t), "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "fastresume version dev")
}

func TestParseMove(t *testing.T) {
	id, page, err := parseMove("exp-1=3")
	require.NoError(t, err)
	assert.Equal(t, "exp-1", id)
	assert.Equal(t, 3, page)

	for _, bad := range []string{"", "=2", "exp-1=", "exp-1=0", "exp-1=x"} {
		_, _, err := parseMove(bad)
		assert.Error(t, err, bad)
	}
}

func TestConfirmPrompt(t *testing.T) {
	var prompt bytes.Buffer
	assert.True(t, confirmPrompt(strings.NewReader("yes\n"), &prompt, "Proceed?"))
	assert.Equal(t, "Proceed? [y/N] ", prompt.String())
	assert.True(t, confirmPrompt(strings.NewReader("Y"), io.Discard, "Proceed?"))
	assert.False(t, confirmPrompt(strings.NewReader("\n"), io.Discard, "Proceed?"))
	assert.False(t, confirmPrompt(strings.NewReader(""), io.Discard, "Proceed?"))
}

// stubProvider answers the assistant operations; the embedded interface
// leaves the rest unimplemented.
type stubProvider struct {
	ai.AIProvider
	suggestion types.ProjectSuggestion
	reply      types.CoachReply
	summary    types.DocumentSummary
	err        error
	calls      int
	lastInput  any
}

func (p *stubProvider) SuggestProject(_ context.Context, in types.ProjectSuggestionInput) (types.ProjectSuggestion, *ai.TokenUsage, error) {
	p.calls++
	p.lastInput = in
	return p.suggestion, nil, p.err
}

func (p *stubProvider) Coach(_ context.Context, in types.CoachInput) (types.CoachReply, *ai.TokenUsage, error) {
	p.calls++
	p.lastInput = in
	return p.reply, &ai.TokenUsage{TotalTokens: 12}, p.err
}

func (p *stubProvider) SummarizeDocument(_ context.Context, in types.DocumentSummaryInput) (types.DocumentSummary, *ai.TokenUsage, error) {
	p.calls++
	p.lastInput = in
	return p.summary, nil, p.err
}

func (p *stubProvider) Close() error { return nil }

func useProvider(t *testing.T, p ai.AIProvider) {
	t.Helper()
	orig := newAIService
	newAIService = func(_ *config.Config, operation string, logger *errors.Logger) (*ai.Service, error) {
		return ai.NewServiceWithProvider(p, operation, &config.OperationAIConfig{}, logger), nil
	}
	t.Cleanup(func() { newAIService = orig })
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestSuggestProjectCommand(t *testing.T) {
	cfg := testConfig(t)
	provider := &stubProvider{suggestion: types.ProjectSuggestion{Title: "Stream Lab", Description: "Build a pipeline.", Type: "GitHub Repo"}}
	useProvider(t, provider)
	resume := writeJSON(t, fourJobs())
	out := filepath.Join(t.TempDir(), "suggestion.json")

	_, err := run(t, cfg, "", "suggest-project", "Kafka", resume, "-o", out)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	var got types.ProjectSuggestion
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "Stream Lab", got.Title)

	input, ok := provider.lastInput.(types.ProjectSuggestionInput)
	require.True(t, ok)
	assert.Equal(t, "Kafka", input.Skill)
	require.NotNil(t, input.Resume)
	assert.Equal(t, "Ada Lovelace", input.Resume.FullName)

	provider.err = assert.AnError
	_, err = run(t, cfg, "", "suggest-project", "Kafka", "-o", out, "--format", "text")
	require.NoError(t, err)
	data, err = os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Custom Project [Self-Directed]")
	assert.Contains(t, string(data), "Create a project demonstrating Kafka.")
}

func TestCoachCommand(t *testing.T) {
	cfg := testConfig(t)
	provider := &stubProvider{reply: types.CoachReply{Reply: "Lead with metrics."}}
	useProvider(t, provider)
	transcript := writeJSON(t, []types.ChatMessage{
		{Role: "user", Text: "Hi"},
		{Role: "model", Text: "Hello, how can I help?"},
	})
	jd := writeFile(t, "jd.txt", "Senior Go engineer")
	out := filepath.Join(t.TempDir(), "reply.txt")

	_, err := run(t, cfg, "", "coach", "How do I stand out?", "--transcript", transcript, "--jd", jd, "--health", "80", "-o", out, "--format", "text")
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "Lead with metrics.\n", string(data))

	input, ok := provider.lastInput.(types.CoachInput)
	require.True(t, ok)
	require.Len(t, input.Messages, 3)
	assert.Equal(t, types.ChatMessage{Role: "user", Text: "How do I stand out?"}, input.Messages[2])
	assert.Equal(t, "Senior Go engineer", input.JobDescription)
	require.NotNil(t, input.HealthScore)
	assert.Equal(t, 80, *input.HealthScore)

	_, err = run(t, cfg, "", "coach", "Again?", "-o", out)
	require.NoError(t, err)
	input = provider.lastInput.(types.CoachInput)
	assert.Nil(t, input.HealthScore, "unset --health must not send a score")
	assert.Len(t, input.Messages, 1)
}

func TestCoachCommandRejectsBadInput(t *testing.T) {
	cfg := testConfig(t)
	provider := &stubProvider{}
	useProvider(t, provider)
	badRole := writeJSON(t, []types.ChatMessage{{Role: "system", Text: "x"}})

	tests := []struct {
		name string
		args []string
	}{
		{"health above 100", []string{"--health", "140"}},
		{"bad transcript role", []string{"--transcript", badRole}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"coach", "Hi", "-o", filepath.Join(t.TempDir(), "out.json")}, tt.args...)
			_, err := run(t, cfg, "", args...)
			require.Error(t, err)
			assert.Equal(t, errors.ErrorTypeValidation, errors.TypeOf(err))
		})
	}
	assert.Zero(t, provider.calls)
}

func TestSummarizeCommand(t *testing.T) {
	cfg := testConfig(t)
	provider := &stubProvider{summary: types.DocumentSummary{Summary: "Built a churn model.", KeyPoints: []string{"Python"}}}
	useProvider(t, provider)
	doc := writeFile(t, "report.txt", "Quarterly churn analysis with logistic regression.")
	out := filepath.Join(t.TempDir(), "summary.md")

	_, err := run(t, cfg, "", "summarize", doc, "--context", "Data analyst", "-o", out, "--format", "markdown")
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# Document Summary")
	assert.Contains(t, string(data), "- Python")

	input, ok := provider.lastInput.(types.DocumentSummaryInput)
	require.True(t, ok)
	assert.Equal(t, "Quarterly churn analysis with logistic regression.", input.Text)
	assert.Equal(t, "Data analyst", input.Context)

	_, err = run(t, cfg, "", "summarize", filepath.Join(t.TempDir(), "missing.txt"), "-o", out)
	require.Error(t, err)
	assert.Equal(t, 1, provider.calls)
}
