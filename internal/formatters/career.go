package formatters

import (
	"fmt"
	"strings"

	"fastresume/internal/types"
)

// PredictionTextFormatter handles text formatting for career predictions
type PredictionTextFormatter struct{}

func (ptf *PredictionTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.CareerPrediction)
	if !ok {
		return "", fmt.Errorf("expected CareerPrediction, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== CAREER PREDICTION ===\n\n")
	fmt.Fprintf(&output, "Current Level: %s\n\n", result.CurrentLevel)

	if len(result.SkillTrajectory) > 0 {
		output.WriteString("Skill Trajectory:\n")
		for _, m := range result.SkillTrajectory {
			fmt.Fprintf(&output, "  %s: %s\n", m.Year, m.Skill)
		}
		output.WriteString("\n")
	}

	if len(result.Paths) > 0 {
		output.WriteString("=== CAREER PATHS ===\n\n")
		for i, path := range result.Paths {
			fmt.Fprintf(&output, "%d. %s (%d%% match)\n", i+1, path.Role, path.Match)
			fmt.Fprintf(&output, "   Salary: %s\n", path.SalaryRange)
			fmt.Fprintf(&output, "   Time to reach: %s\n", path.TimeToReach)
			if path.Description != "" {
				fmt.Fprintf(&output, "   %s\n", path.Description)
			}
			if len(path.MissingSkills) > 0 {
				fmt.Fprintf(&output, "   Missing skills: %s\n", strings.Join(path.MissingSkills, ", "))
			}
			for j, step := range path.DetailedPlan {
				fmt.Fprintf(&output, "   %d.%d %s: %s\n", i+1, j+1, step.Step, step.Description)
			}
			output.WriteString("\n")
		}
	}

	if len(result.ActionPlan) > 0 {
		output.WriteString("=== ACTION PLAN ===\n\n")
		writePlanText(&output, result.ActionPlan)
	}

	return output.String(), nil
}

func (ptf *PredictionTextFormatter) SupportedType() string {
	return "CareerPrediction"
}

// PredictionMarkdownFormatter handles markdown formatting for career predictions
type PredictionMarkdownFormatter struct{}

func (pmf *PredictionMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.CareerPrediction)
	if !ok {
		return "", fmt.Errorf("expected CareerPrediction, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Career Prediction\n\n")
	fmt.Fprintf(&output, "**Current Level:** %s\n\n", result.CurrentLevel)

	if len(result.SkillTrajectory) > 0 {
		output.WriteString("## Skill Trajectory\n\n")
		output.WriteString("| Year | Skill |\n|---|---|\n")
		for _, m := range result.SkillTrajectory {
			fmt.Fprintf(&output, "| %s | %s |\n", m.Year, m.Skill)
		}
		output.WriteString("\n")
	}

	if len(result.Paths) > 0 {
		output.WriteString("## Career Paths\n\n")
		for i, path := range result.Paths {
			fmt.Fprintf(&output, "### %d. %s (%d%% match)\n\n", i+1, path.Role, path.Match)
			fmt.Fprintf(&output, "**Salary:** %s  \n**Time to reach:** %s\n\n", path.SalaryRange, path.TimeToReach)
			if path.Description != "" {
				output.WriteString(path.Description)
				output.WriteString("\n\n")
			}
			writeMarkdownList(&output, "**Missing skills**", path.MissingSkills)
			if len(path.DetailedPlan) > 0 {
				writePlanMarkdown(&output, path.DetailedPlan)
			}
		}
	}

	if len(result.ActionPlan) > 0 {
		output.WriteString("## Action Plan\n\n")
		writePlanMarkdown(&output, result.ActionPlan)
	}

	return output.String(), nil
}

func (pmf *PredictionMarkdownFormatter) SupportedType() string {
	return "CareerPrediction"
}

// StrategyTextFormatter handles text formatting for career strategies
type StrategyTextFormatter struct{}

func (stf *StrategyTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.CareerStrategy)
	if !ok {
		return "", fmt.Errorf("expected CareerStrategy, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== CAREER STRATEGY ===\n\n")

	if len(result.GapFix) > 0 {
		output.WriteString("Skill Gaps:\n")
		for i, gap := range result.GapFix {
			fmt.Fprintf(&output, "%d. %s\n", i+1, gap.Topic)
			fmt.Fprintf(&output, "   Advice: %s\n", gap.Advice)
			if gap.Resource != "" {
				fmt.Fprintf(&output, "   Resource: %s\n", gap.Resource)
			}
		}
		output.WriteString("\n")
	}

	if len(result.InterviewPrep) > 0 {
		output.WriteString("Interview Preparation:\n")
		for i, q := range result.InterviewPrep {
			fmt.Fprintf(&output, "%d. Q: %s\n", i+1, q.Question)
			fmt.Fprintf(&output, "   A: %s\n", q.SuggestedAnswer)
		}
		output.WriteString("\n")
	}

	if len(result.PortfolioUpgrade) > 0 {
		output.WriteString("Portfolio Upgrades:\n")
		for i, u := range result.PortfolioUpgrade {
			fmt.Fprintf(&output, "%d. %s\n", i+1, u.Title)
			fmt.Fprintf(&output, "   %s\n", u.Strategy)
		}
		output.WriteString("\n")
	}

	return output.String(), nil
}

func (stf *StrategyTextFormatter) SupportedType() string {
	return "CareerStrategy"
}

// StrategyMarkdownFormatter handles markdown formatting for career strategies
type StrategyMarkdownFormatter struct{}

func (smf *StrategyMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.CareerStrategy)
	if !ok {
		return "", fmt.Errorf("expected CareerStrategy, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Career Strategy\n\n")

	if len(result.GapFix) > 0 {
		output.WriteString("## Skill Gaps\n\n")
		for _, gap := range result.GapFix {
			fmt.Fprintf(&output, "### %s\n\n%s\n\n", gap.Topic, gap.Advice)
			if gap.Resource != "" {
				fmt.Fprintf(&output, "**Resource:** %s\n\n", gap.Resource)
			}
		}
	}

	if len(result.InterviewPrep) > 0 {
		output.WriteString("## Interview Preparation\n\n")
		for i, q := range result.InterviewPrep {
			fmt.Fprintf(&output, "**%d. %s**\n\n%s\n\n", i+1, q.Question, q.SuggestedAnswer)
		}
	}

	if len(result.PortfolioUpgrade) > 0 {
		output.WriteString("## Portfolio Upgrades\n\n")
		for _, u := range result.PortfolioUpgrade {
			fmt.Fprintf(&output, "- **%s**: %s\n", u.Title, u.Strategy)
		}
		output.WriteString("\n")
	}

	return output.String(), nil
}

func (smf *StrategyMarkdownFormatter) SupportedType() string {
	return "CareerStrategy"
}

func writePlanText(output *strings.Builder, steps []types.PlanStep) {
	for i, step := range steps {
		fmt.Fprintf(output, "%d. %s\n", i+1, step.Step)
		if step.Description != "" {
			fmt.Fprintf(output, "   %s\n", step.Description)
		}
		if step.Impact != "" {
			fmt.Fprintf(output, "   Impact: %s\n", step.Impact)
		}
	}
	output.WriteString("\n")
}

func writePlanMarkdown(output *strings.Builder, steps []types.PlanStep) {
	for i, step := range steps {
		fmt.Fprintf(output, "%d. **%s**", i+1, step.Step)
		if step.Description != "" {
			fmt.Fprintf(output, ": %s", step.Description)
		}
		if step.Impact != "" {
			fmt.Fprintf(output, " _(Impact: %s)_", step.Impact)
		}
		output.WriteString("\n")
	}
	output.WriteString("\n")
}
