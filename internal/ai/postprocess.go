package ai

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"fastresume/internal/types"
)

// MinInputLength is the shortest job description or resume text worth
// sending to the model.
const MinInputLength = 50

const (
	insufficientInputExplanation = "Insufficient information. Please provide a detailed JD and Resume (min 50 chars)."
	defaultRecipient             = "The Hiring Manager"
	estimatedScoreExplanation    = "Score estimated. Add metrics to improve."
	skillsFoundScoreFloor        = 45
)

// insufficientInput reports whether the analysis input is too short to score.
func insufficientInput(input types.AnalyzeResumeInput) bool {
	return len(strings.TrimSpace(input.JobDescription)) < MinInputLength ||
		len(strings.TrimSpace(input.Resume)) < MinInputLength
}

// insufficientInputResult is the zero-score analysis returned without calling the model.
func insufficientInputResult() types.AnalysisResult {
	return types.AnalysisResult{
		ScoreBreakdown: &types.ScoreBreakdown{Explanation: insufficientInputExplanation},
		HardSkills:     []string{},
		SoftSkills:     []string{},
		MissingSkills:  []string{},
		OptimizedResume: types.ResumeContent{
			TechnicalSkills: []string{},
			SoftSkills:      []string{},
			Experiences:     []types.Entry{},
			Volunteer:       []types.Entry{},
			SchoolProjects:  []types.Entry{},
			Education:       []types.EducationItem{},
			References:      []types.ReferenceItem{},
		},
	}
}

// normalizeAnalysis fills what the model left out: entry ids, the cover letter
// recipient and the score breakdown. A result with detected hard skills never
// scores below the skills-found floor.
func normalizeAnalysis(result *types.AnalysisResult) {
	r := &result.OptimizedResume
	ensureEntryIDs(r.Experiences, "exp")
	ensureEntryIDs(r.Volunteer, "vol")
	ensureEntryIDs(r.SchoolProjects, "proj")
	for i := range r.Education {
		if r.Education[i].ID == "" {
			r.Education[i].ID = newID("edu")
		}
	}
	for i := range r.References {
		if r.References[i].ID == "" {
			r.References[i].ID = newID("ref")
		}
	}

	if r.RecipientName == "" {
		r.RecipientName = defaultRecipient
	}
	if result.ScoreBreakdown == nil {
		result.ScoreBreakdown = &types.ScoreBreakdown{
			CoreSkills:        40,
			StarQuality:       20,
			IndustryRelevance: 20,
			Formatting:        10,
			Explanation:       estimatedScoreExplanation,
		}
	}
	if len(result.HardSkills) > 0 && result.OverallScore < 40 {
		result.OverallScore = skillsFoundScoreFloor
	}
}

func ensureEntryIDs(entries []types.Entry, prefix string) {
	for i := range entries {
		if entries[i].ID == "" {
			entries[i].ID = newID(prefix)
		}
	}
}

func newID(prefix string) string {
	return prefix + "-" + uuid.NewString()
}

// normalizePrediction gives every path a usable description.
func normalizePrediction(p *types.CareerPrediction) {
	for i := range p.Paths {
		path := &p.Paths[i]
		if len(path.Description) >= 5 {
			continue
		}
		gap := "specific skills"
		if len(path.MissingSkills) > 0 && path.MissingSkills[0] != "" {
			gap = path.MissingSkills[0]
		}
		path.Description = fmt.Sprintf("Predicted career trajectory for %s. Requires bridging %s.", path.Role, gap)
	}
}

// fallbackPrediction stands in for a failed prediction.
func fallbackPrediction(year int) types.CareerPrediction {
	return types.CareerPrediction{
		CurrentLevel:    "Professional",
		SkillTrajectory: []types.SkillMilestone{{Year: strconv.Itoa(year), Skill: "Core Skills"}},
		Paths:           []types.CareerPath{},
		ActionPlan:      []types.PlanStep{},
	}
}

// emptyStrategy stands in for a failed strategy.
func emptyStrategy() types.CareerStrategy {
	return types.CareerStrategy{
		GapFix:           []types.GapFix{},
		InterviewPrep:    []types.InterviewQuestion{},
		PortfolioUpgrade: []types.PortfolioUpgrade{},
	}
}

const (
	fallbackProjectTitle = "Custom Project"
	fallbackProjectType  = "Self-Directed"
	coachUnavailable     = "I'm experiencing some technical difficulties."
	coachNoAnswer        = "I'm sorry, I couldn't process that request."
	summaryUnavailable   = "Could not analyze document content. Please try downloading the original file."
	summaryFallbackPoint = "Document Analysis"
)

// fallbackSuggestion stands in for a failed project suggestion.
func fallbackSuggestion(skill string) types.ProjectSuggestion {
	return types.ProjectSuggestion{
		Title:       fallbackProjectTitle,
		Description: fmt.Sprintf("Create a project demonstrating %s.", skill),
		Type:        fallbackProjectType,
	}
}

// normalizeSuggestion fills fields the model left blank from the fallback.
func normalizeSuggestion(s *types.ProjectSuggestion, skill string) {
	fb := fallbackSuggestion(skill)
	if strings.TrimSpace(s.Title) == "" {
		s.Title = fb.Title
	}
	if strings.TrimSpace(s.Description) == "" {
		s.Description = fb.Description
	}
	if strings.TrimSpace(s.Type) == "" {
		s.Type = fb.Type
	}
}

func fallbackSummary() types.DocumentSummary {
	return types.DocumentSummary{Summary: summaryUnavailable, KeyPoints: []string{summaryFallbackPoint}}
}
