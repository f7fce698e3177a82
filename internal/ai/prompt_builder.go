package ai

import (
	"fmt"
	"strings"

	"fastresume/internal/config"
	"fastresume/internal/types"
)

// resolvePrompt selects the prompt by priority: a prompt loaded from a file,
// then one defined inline in the configuration, then the built-in default.
func resolvePrompt(loadedFromFile, fromConfig, fromDefault string) string {
	if loadedFromFile != "" {
		return loadedFromFile
	}
	if fromConfig != "" {
		return fromConfig
	}
	return fromDefault
}

// promptsFor resolves the system instruction and user template of an operation.
func promptsFor(operation string, custom config.PromptConfig, loaded config.LoadedPrompts) Prompts {
	defaults := DefaultPrompts[operation]
	return Prompts{
		System: resolvePrompt(loaded.System, custom.System, defaults.System),
		User:   resolvePrompt(loaded.User, custom.User, defaults.User),
	}
}

// analyzeUserPrompt fills the analyze template with the variant instruction,
// the job description and the resume text.
func analyzeUserPrompt(template string, input types.AnalyzeResumeInput) string {
	resume := input.Resume
	if strings.TrimSpace(resume) == "" {
		resume = "No resume provided"
	}
	return fmt.Sprintf(template, variantInstruction(string(input.EnglishVariant)), input.JobDescription, resume)
}

// predictUserPrompt fills the predict template with the current year, the
// target context, the project list and the resume summary.
func predictUserPrompt(template string, input types.PredictCareerInput, year int) string {
	return fmt.Sprintf(template, year, targetContext(input), projectsContext(input.Projects), resumeContext(input.Resume))
}

// strategyUserPrompt fills the strategy template with the target role,
// current skills, project titles and gap skills.
func strategyUserPrompt(template string, input types.CareerStrategyInput) string {
	var skills []string
	if input.Resume != nil {
		skills = input.Resume.TechnicalSkills
	}
	titles := make([]string, 0, len(input.Projects))
	for _, p := range input.Projects {
		titles = append(titles, p.Title)
	}
	return fmt.Sprintf(template,
		input.TargetRole,
		strings.Join(skills, ", "),
		strings.Join(titles, ", "),
		strings.Join(input.MissingSkills, ", "))
}

// suggestUserPrompt fills the suggestion template with the skill and the
// candidate background.
func suggestUserPrompt(template string, input types.ProjectSuggestionInput) string {
	return fmt.Sprintf(template, input.Skill, resumeContext(input.Resume))
}

// coachJDLimit caps how much of the job description the coach sees.
const coachJDLimit = 300

// coachUserPrompt fills the coach template with the portfolio health score,
// the start of the job description, the resume and the transcript.
func coachUserPrompt(template string, input types.CoachInput) string {
	health := "N/A"
	if input.HealthScore != nil {
		health = fmt.Sprintf("%d/100", *input.HealthScore)
	}
	jd := "N/A"
	if trimmed := strings.TrimSpace(input.JobDescription); trimmed != "" {
		runes := []rune(trimmed)
		jd = string(runes[:min(len(runes), coachJDLimit)])
	}

	var transcript strings.Builder
	for _, m := range input.Messages {
		fmt.Fprintf(&transcript, "%s: %s\n", strings.ToUpper(m.Role), m.Text)
	}
	return fmt.Sprintf(template, health, jd, resumeContext(input.Resume), strings.TrimRight(transcript.String(), "\n"))
}

// summarizeUserPrompt fills the summary template with the candidate context
// line and the document text.
func summarizeUserPrompt(template string, input types.DocumentSummaryInput) string {
	background := ""
	if input.Context != "" {
		background = fmt.Sprintf("Candidate Background Context: %s.", input.Context)
	}
	return fmt.Sprintf(template, background, input.Text)
}

func targetContext(input types.PredictCareerInput) string {
	if input.TargetRole == "" {
		return "Perform a general trajectory analysis based on skills."
	}
	var b strings.Builder
	b.WriteString("TARGETED ANALYSIS REQUESTED\n")
	fmt.Fprintf(&b, "The user is aiming for the role: %q", input.TargetRole)
	if input.TargetJD != "" {
		fmt.Fprintf(&b, "\nTarget Job Description Context: %s", input.TargetJD)
	}
	return b.String()
}

func projectsContext(projects []types.Project) string {
	if len(projects) == 0 {
		return "No projects uploaded."
	}
	lines := make([]string, 0, len(projects))
	for _, p := range projects {
		lines = append(lines, fmt.Sprintf("- %s (%s): %s", p.Title, p.Type, p.Description))
	}
	return strings.Join(lines, "\n")
}

func resumeContext(resume *types.ResumeContent) string {
	if resume == nil {
		return "Resume not fully parsed yet. Use available project data."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s\nExperiences:\n", resume.FullName)
	for _, e := range resume.Experiences {
		fmt.Fprintf(&b, "%s at %s (%s)\n", e.Role, e.Company, e.Period)
	}
	b.WriteString("Education:\n")
	for _, e := range resume.Education {
		fmt.Fprintf(&b, "%s at %s (%s - %s)\n", e.Degree, e.School, e.StartDate, e.EndDate)
	}
	fmt.Fprintf(&b, "Skills: %s", strings.Join(resume.TechnicalSkills, ", "))
	return b.String()
}
