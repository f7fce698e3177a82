package formatters

import (
	"encoding/json"
	"slices"
	"strings"
	"testing"
	"time"

	"fastresume/internal/layout"
	"fastresume/internal/store"
	"fastresume/internal/types"
)

func sampleAnalysis() types.AnalysisResult {
	return types.AnalysisResult{
		DetectedLanguage: "English",
		OverallScore:     82,
		ScoreBreakdown: &types.ScoreBreakdown{
			CoreSkills: 85, StarQuality: 70, IndustryRelevance: 90, Formatting: 80,
			Explanation: "Strong backend match.",
		},
		Weights:       types.ScoreWeights{JDRequirements: 70, SkillOverlap: 30},
		HardSkills:    []string{"Go", "SQL"},
		MissingSkills: []string{"Kubernetes"},
		CoverLetter:   "Dear hiring manager,",
		OptimizedResume: types.ResumeContent{
			FullName: "Ada Lovelace",
			Experiences: []types.Entry{
				{ID: "work-1", Role: "Engineer", Company: "Analytical Engines", Period: "1842", Bullets: []string{"Wrote the first program"}},
			},
		},
	}
}

func TestRegistryDispatch(t *testing.T) {
	tests := []struct {
		name     string
		data     any
		format   string
		contains []string
	}{
		{"analysis text", sampleAnalysis(), "text", []string{"Overall Score: 82/100", "Missing Skills: Kubernetes", "Engineer @ Analytical Engines (1842)", "=== COVER LETTER ==="}},
		{"analysis markdown", sampleAnalysis(), "markdown", []string{"# Resume Analysis", "| Core skills | 85 |", "- Kubernetes"}},
		{"analysis json", sampleAnalysis(), "json", []string{`"overallScore": 82`}},
		{"prediction text", types.CareerPrediction{
			CurrentLevel:    "Junior",
			SkillTrajectory: []types.SkillMilestone{{Year: "2027", Skill: "Go"}},
			Paths:           []types.CareerPath{{Role: "Backend Engineer", Match: 75, SalaryRange: "$90k"}},
		}, "text", []string{"Current Level: Junior", "2027: Go", "1. Backend Engineer (75% match)"}},
		{"strategy markdown", types.CareerStrategy{
			GapFix:        []types.GapFix{{Topic: "Docker", Advice: "Containerise a project"}},
			InterviewPrep: []types.InterviewQuestion{{Question: "Why Go?", SuggestedAnswer: "Simplicity."}},
		}, "markdown", []string{"### Docker", "**1. Why Go?**"}},
		{"suggestion text", types.ProjectSuggestion{Title: "Infra Lab", Description: "Provision a VPC.", Type: "GitHub Repo"},
			"text", []string{"=== PROJECT SUGGESTION ===", "Infra Lab [GitHub Repo]", "Provision a VPC."}},
		{"suggestion markdown", types.ProjectSuggestion{Title: "Infra Lab", Type: "GitHub Repo"},
			"markdown", []string{"# Infra Lab", "**Type:** GitHub Repo"}},
		{"coach text", types.CoachReply{Reply: "Lead with metrics."}, "text", []string{"Lead with metrics.\n"}},
		{"coach json", types.CoachReply{Reply: "Lead with metrics."}, "json", []string{`"reply": "Lead with metrics."`}},
		{"summary text", types.DocumentSummary{Summary: "Built a churn model.", KeyPoints: []string{"Python", "ROI"}},
			"text", []string{"=== DOCUMENT SUMMARY ===", "Built a churn model.", "Key Points: Python, ROI"}},
		{"summary markdown", types.DocumentSummary{Summary: "Built a churn model.", KeyPoints: []string{"Python"}},
			"markdown", []string{"# Document Summary", "## Key Points", "- Python"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := GlobalRegistry.Format(tt.data, tt.format)
			if err != nil {
				t.Fatalf("Format: %v", err)
			}
			for _, want := range tt.contains {
				if !strings.Contains(out, want) {
					t.Errorf("output missing %q:\n%s", want, out)
				}
			}
		})
	}
}

func TestRegistryErrors(t *testing.T) {
	if _, err := GlobalRegistry.Format(sampleAnalysis(), "xml"); err == nil || err.Error() != "unsupported format: xml" {
		t.Errorf("xml: err = %v", err)
	}

	if _, err := GlobalRegistry.Format(42, "text"); err == nil || err.Error() != "no formatter for data type Unknown in format text" {
		t.Errorf("unknown type: err = %v", err)
	}

	if _, err := (&AnalysisTextFormatter{}).Format(types.CareerStrategy{}); err == nil {
		t.Error("expected a type mismatch error")
	}
	if _, err := (&SummaryTextFormatter{}).Format(types.CoachReply{}); err == nil {
		t.Error("expected a type mismatch error")
	}
}

func TestLayoutFormatters(t *testing.T) {
	content := types.ResumeContent{
		FullName: "Ada Lovelace",
		Experiences: []types.Entry{
			{ID: "w1", Role: "Engineer"},
			{ID: "w2", Role: "Analyst"},
			{ID: "w3", Role: "Mathematician"},
			{ID: "w4", Role: "Writer"},
		},
	}
	editor := layout.NewEditor(layout.Document{Content: content, Placement: layout.NewPlacement()}, layout.DefaultPageSettings)
	plan := editor.Plan()
	if plan.PageCount != 2 {
		t.Fatalf("page count = %d, want 2", plan.PageCount)
	}

	text, err := GlobalRegistry.Format(plan, "text")
	if err != nil {
		t.Fatalf("text: %v", err)
	}
	for _, want := range []string{"=== RESUME LAYOUT (2 pages) ===", "--- Page 2", "[w4] Writer"} {
		if !strings.Contains(text, want) {
			t.Errorf("text missing %q:\n%s", want, text)
		}
	}

	md, err := GlobalRegistry.Format(plan, "markdown")
	if err != nil {
		t.Fatalf("markdown: %v", err)
	}
	for _, want := range []string{"## Page 1", "### PROFESSIONAL EXPERIENCE"} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}
}

func TestHistoryFormatters(t *testing.T) {
	text, err := GlobalRegistry.Format([]store.Record{}, "text")
	if err != nil {
		t.Fatalf("text: %v", err)
	}
	if text != "No history records.\n" {
		t.Errorf("empty history = %q", text)
	}

	records := []store.Record{{
		ID:        "abc",
		Kind:      store.KindAnalysis,
		Payload:   json.RawMessage(`{"overallScore":1}`),
		CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}}
	md, err := GlobalRegistry.Format(records, "markdown")
	if err != nil {
		t.Fatalf("markdown: %v", err)
	}
	if want := "| 2026-01-02T03:04:05Z | analysis | `abc` |"; !strings.Contains(md, want) {
		t.Errorf("markdown missing %q:\n%s", want, md)
	}

	text, err = GlobalRegistry.Format(records, "text")
	if err != nil {
		t.Fatalf("text: %v", err)
	}
	if !strings.Contains(text, "abc") {
		t.Errorf("text missing record id:\n%s", text)
	}
}

func TestGetSupportedFormats(t *testing.T) {
	want := []string{"json", "markdown", "text"}
	if got := GlobalRegistry.GetSupportedFormats(); !slices.Equal(got, want) {
		t.Errorf("formats = %v, want %v", got, want)
	}
}
