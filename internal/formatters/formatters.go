package formatters

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"

	"fastresume/internal/layout"
	"fastresume/internal/store"
	"fastresume/internal/types"
)

// Formatter interface for different output formats
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

// FormatterRegistry manages formatters for different data types and formats
type FormatterRegistry struct {
	formatters map[string]map[string]Formatter // format -> dataType -> formatter
}

// NewFormatterRegistry creates a new formatter registry with default formatters
func NewFormatterRegistry() *FormatterRegistry {
	registry := &FormatterRegistry{
		formatters: make(map[string]map[string]Formatter),
	}

	jsonFormatter := &JSONFormatter{}
	for _, dataType := range []string{"AnalysisResult", "CareerPrediction", "CareerStrategy", "LayoutPlan", "HistoryRecords",
		"ProjectSuggestion", "CoachReply", "DocumentSummary"} {
		registry.Register("json", dataType, jsonFormatter)
	}

	registry.Register("text", "AnalysisResult", &AnalysisTextFormatter{})
	registry.Register("markdown", "AnalysisResult", &AnalysisMarkdownFormatter{})
	registry.Register("text", "CareerPrediction", &PredictionTextFormatter{})
	registry.Register("markdown", "CareerPrediction", &PredictionMarkdownFormatter{})
	registry.Register("text", "CareerStrategy", &StrategyTextFormatter{})
	registry.Register("markdown", "CareerStrategy", &StrategyMarkdownFormatter{})
	registry.Register("text", "LayoutPlan", &LayoutTextFormatter{})
	registry.Register("markdown", "LayoutPlan", &LayoutMarkdownFormatter{})
	registry.Register("text", "HistoryRecords", &HistoryTextFormatter{})
	registry.Register("markdown", "HistoryRecords", &HistoryMarkdownFormatter{})
	registry.Register("text", "ProjectSuggestion", &SuggestionTextFormatter{})
	registry.Register("markdown", "ProjectSuggestion", &SuggestionMarkdownFormatter{})
	registry.Register("text", "CoachReply", &CoachTextFormatter{})
	registry.Register("markdown", "CoachReply", &CoachTextFormatter{})
	registry.Register("text", "DocumentSummary", &SummaryTextFormatter{})
	registry.Register("markdown", "DocumentSummary", &SummaryMarkdownFormatter{})

	return registry
}

// Register adds a formatter for a specific format and data type
func (fr *FormatterRegistry) Register(format, dataType string, formatter Formatter) {
	if fr.formatters[format] == nil {
		fr.formatters[format] = make(map[string]Formatter)
	}
	fr.formatters[format][dataType] = formatter
}

// Format formats data using the appropriate formatter
func (fr *FormatterRegistry) Format(data any, format string) (string, error) {
	dataType := getDataType(data)

	formatMap, exists := fr.formatters[format]
	if !exists {
		return "", fmt.Errorf("unsupported format: %s", format)
	}

	formatter, exists := formatMap[dataType]
	if !exists {
		return "", fmt.Errorf("no formatter for data type %s in format %s", dataType, format)
	}

	return formatter.Format(data)
}

// GetSupportedFormats returns all supported formats
func (fr *FormatterRegistry) GetSupportedFormats() []string {
	formats := slices.Collect(maps.Keys(fr.formatters))
	slices.Sort(formats)
	return formats
}

func getDataType(data any) string {
	switch data.(type) {
	case types.AnalysisResult:
		return "AnalysisResult"
	case types.CareerPrediction:
		return "CareerPrediction"
	case types.CareerStrategy:
		return "CareerStrategy"
	case layout.Plan:
		return "LayoutPlan"
	case []store.Record:
		return "HistoryRecords"
	case types.ProjectSuggestion:
		return "ProjectSuggestion"
	case types.CoachReply:
		return "CoachReply"
	case types.DocumentSummary:
		return "DocumentSummary"
	default:
		return "Unknown"
	}
}

// JSONFormatter handles JSON formatting for any data type
type JSONFormatter struct{}

func (jf *JSONFormatter) Format(data any) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal to JSON: %w", err)
	}
	return string(jsonData), nil
}

func (jf *JSONFormatter) SupportedType() string {
	return "any"
}

// AnalysisTextFormatter handles text formatting for resume analysis results
type AnalysisTextFormatter struct{}

func (atf *AnalysisTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.AnalysisResult)
	if !ok {
		return "", fmt.Errorf("expected AnalysisResult, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== RESUME ANALYSIS ===\n\n")
	fmt.Fprintf(&output, "Overall Score: %d/100\n", result.OverallScore)
	if result.DetectedLanguage != "" {
		fmt.Fprintf(&output, "Detected Language: %s\n", result.DetectedLanguage)
	}
	fmt.Fprintf(&output, "Weights: %d%% job requirements, %d%% skill overlap\n\n",
		result.Weights.JDRequirements, result.Weights.SkillOverlap)

	if b := result.ScoreBreakdown; b != nil {
		output.WriteString("Score Breakdown:\n")
		fmt.Fprintf(&output, "  Core skills:        %d\n", b.CoreSkills)
		fmt.Fprintf(&output, "  STAR quality:       %d\n", b.StarQuality)
		fmt.Fprintf(&output, "  Industry relevance: %d\n", b.IndustryRelevance)
		fmt.Fprintf(&output, "  Formatting:         %d\n", b.Formatting)
		if b.Explanation != "" {
			output.WriteString("\n")
			output.WriteString(b.Explanation)
			output.WriteString("\n")
		}
		output.WriteString("\n")
	}

	writeTextList(&output, "Hard Skills", result.HardSkills)
	writeTextList(&output, "Soft Skills", result.SoftSkills)
	writeTextList(&output, "Missing Skills", result.MissingSkills)

	output.WriteString("=== OPTIMIZED RESUME ===\n\n")
	writeResumeText(&output, result.OptimizedResume)

	if result.CoverLetter != "" {
		output.WriteString("=== COVER LETTER ===\n\n")
		output.WriteString(result.CoverLetter)
		output.WriteString("\n")
	}

	return output.String(), nil
}

func (atf *AnalysisTextFormatter) SupportedType() string {
	return "AnalysisResult"
}

// AnalysisMarkdownFormatter handles markdown formatting for resume analysis results
type AnalysisMarkdownFormatter struct{}

func (amf *AnalysisMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.AnalysisResult)
	if !ok {
		return "", fmt.Errorf("expected AnalysisResult, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Resume Analysis\n\n")
	fmt.Fprintf(&output, "**Overall Score:** %d/100\n\n", result.OverallScore)
	if result.DetectedLanguage != "" {
		fmt.Fprintf(&output, "**Detected Language:** %s\n\n", result.DetectedLanguage)
	}

	if b := result.ScoreBreakdown; b != nil {
		output.WriteString("## Score Breakdown\n\n")
		output.WriteString("| Criterion | Score |\n|---|---|\n")
		fmt.Fprintf(&output, "| Core skills | %d |\n", b.CoreSkills)
		fmt.Fprintf(&output, "| STAR quality | %d |\n", b.StarQuality)
		fmt.Fprintf(&output, "| Industry relevance | %d |\n", b.IndustryRelevance)
		fmt.Fprintf(&output, "| Formatting | %d |\n\n", b.Formatting)
		if b.Explanation != "" {
			output.WriteString(b.Explanation)
			output.WriteString("\n\n")
		}
	}

	writeMarkdownList(&output, "## Hard Skills", result.HardSkills)
	writeMarkdownList(&output, "## Soft Skills", result.SoftSkills)
	writeMarkdownList(&output, "## Missing Skills", result.MissingSkills)

	output.WriteString("## Optimized Resume\n\n")
	writeResumeMarkdown(&output, result.OptimizedResume)

	if result.CoverLetter != "" {
		output.WriteString("## Cover Letter\n\n")
		output.WriteString(result.CoverLetter)
		output.WriteString("\n")
	}

	return output.String(), nil
}

func (amf *AnalysisMarkdownFormatter) SupportedType() string {
	return "AnalysisResult"
}

func writeResumeText(output *strings.Builder, r types.ResumeContent) {
	if r.FullName != "" {
		output.WriteString(r.FullName)
		output.WriteString("\n")
	}
	if r.ContactInfo != "" {
		output.WriteString(r.ContactInfo)
		output.WriteString("\n")
	}
	output.WriteString("\n")
	if r.Summary != "" {
		output.WriteString(r.Summary)
		output.WriteString("\n\n")
	}
	writeEntriesText(output, "Experience", r.Experiences)
	writeEntriesText(output, "Volunteer", r.Volunteer)
	writeEntriesText(output, "Projects", r.SchoolProjects)
	if len(r.Education) > 0 {
		output.WriteString("Education:\n")
		for _, e := range r.Education {
			fmt.Fprintf(output, "  %s, %s (%s - %s)\n", e.Degree, e.School, e.StartDate, e.EndDate)
		}
		output.WriteString("\n")
	}
}

func writeEntriesText(output *strings.Builder, title string, entries []types.Entry) {
	if len(entries) == 0 {
		return
	}
	fmt.Fprintf(output, "%s:\n", title)
	for _, e := range entries {
		fmt.Fprintf(output, "  %s\n", entryHeading(e))
		for _, bullet := range e.Bullets {
			fmt.Fprintf(output, "    - %s\n", bullet)
		}
	}
	output.WriteString("\n")
}

func writeResumeMarkdown(output *strings.Builder, r types.ResumeContent) {
	if r.FullName != "" {
		fmt.Fprintf(output, "### %s\n\n", r.FullName)
	}
	if r.ContactInfo != "" {
		fmt.Fprintf(output, "%s\n\n", r.ContactInfo)
	}
	if r.Summary != "" {
		fmt.Fprintf(output, "%s\n\n", r.Summary)
	}
	writeEntriesMarkdown(output, "#### Experience", r.Experiences)
	writeEntriesMarkdown(output, "#### Volunteer", r.Volunteer)
	writeEntriesMarkdown(output, "#### Projects", r.SchoolProjects)
	if len(r.Education) > 0 {
		output.WriteString("#### Education\n\n")
		for _, e := range r.Education {
			fmt.Fprintf(output, "- **%s**, %s (%s - %s)\n", e.Degree, e.School, e.StartDate, e.EndDate)
		}
		output.WriteString("\n")
	}
}

func writeEntriesMarkdown(output *strings.Builder, heading string, entries []types.Entry) {
	if len(entries) == 0 {
		return
	}
	output.WriteString(heading)
	output.WriteString("\n\n")
	for _, e := range entries {
		fmt.Fprintf(output, "**%s**\n\n", entryHeading(e))
		for _, bullet := range e.Bullets {
			fmt.Fprintf(output, "- %s\n", bullet)
		}
		output.WriteString("\n")
	}
}

func entryHeading(e types.Entry) string {
	heading := e.Role
	if e.Company != "" {
		heading += " @ " + e.Company
	}
	if e.Period != "" {
		heading += " (" + e.Period + ")"
	}
	return heading
}

func writeTextList(output *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(output, "%s: %s\n\n", title, strings.Join(items, ", "))
}

func writeMarkdownList(output *strings.Builder, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	output.WriteString(heading)
	output.WriteString("\n\n")
	for _, item := range items {
		fmt.Fprintf(output, "- %s\n", item)
	}
	output.WriteString("\n")
}

// GlobalRegistry is the default formatter registry
var GlobalRegistry = NewFormatterRegistry()
