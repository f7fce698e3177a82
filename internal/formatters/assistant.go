package formatters

import (
	"fmt"
	"strings"

	"fastresume/internal/types"
)

// SuggestionTextFormatter handles text formatting for project suggestions
type SuggestionTextFormatter struct{}

func (stf *SuggestionTextFormatter) Format(data any) (string, error) {
	s, ok := data.(types.ProjectSuggestion)
	if !ok {
		return "", fmt.Errorf("expected ProjectSuggestion, got %T", data)
	}
	var output strings.Builder
	output.WriteString("=== PROJECT SUGGESTION ===\n\n")
	fmt.Fprintf(&output, "%s [%s]\n", s.Title, s.Type)
	fmt.Fprintf(&output, "%s\n", s.Description)
	return output.String(), nil
}

func (stf *SuggestionTextFormatter) SupportedType() string {
	return "ProjectSuggestion"
}

// SuggestionMarkdownFormatter handles markdown formatting for project suggestions
type SuggestionMarkdownFormatter struct{}

func (smf *SuggestionMarkdownFormatter) Format(data any) (string, error) {
	s, ok := data.(types.ProjectSuggestion)
	if !ok {
		return "", fmt.Errorf("expected ProjectSuggestion, got %T", data)
	}
	var output strings.Builder
	fmt.Fprintf(&output, "# %s\n\n", s.Title)
	fmt.Fprintf(&output, "**Type:** %s\n\n", s.Type)
	fmt.Fprintf(&output, "%s\n", s.Description)
	return output.String(), nil
}

func (smf *SuggestionMarkdownFormatter) SupportedType() string {
	return "ProjectSuggestion"
}

// CoachTextFormatter prints the reply as is.
type CoachTextFormatter struct{}

func (ctf *CoachTextFormatter) Format(data any) (string, error) {
	r, ok := data.(types.CoachReply)
	if !ok {
		return "", fmt.Errorf("expected CoachReply, got %T", data)
	}
	return r.Reply + "\n", nil
}

func (ctf *CoachTextFormatter) SupportedType() string {
	return "CoachReply"
}

// SummaryTextFormatter handles text formatting for document summaries
type SummaryTextFormatter struct{}

func (stf *SummaryTextFormatter) Format(data any) (string, error) {
	s, ok := data.(types.DocumentSummary)
	if !ok {
		return "", fmt.Errorf("expected DocumentSummary, got %T", data)
	}
	var output strings.Builder
	output.WriteString("=== DOCUMENT SUMMARY ===\n\n")
	fmt.Fprintf(&output, "%s\n\n", s.Summary)
	writeTextList(&output, "Key Points", s.KeyPoints)
	return output.String(), nil
}

func (stf *SummaryTextFormatter) SupportedType() string {
	return "DocumentSummary"
}

// SummaryMarkdownFormatter handles markdown formatting for document summaries
type SummaryMarkdownFormatter struct{}

func (smf *SummaryMarkdownFormatter) Format(data any) (string, error) {
	s, ok := data.(types.DocumentSummary)
	if !ok {
		return "", fmt.Errorf("expected DocumentSummary, got %T", data)
	}
	var output strings.Builder
	output.WriteString("# Document Summary\n\n")
	fmt.Fprintf(&output, "%s\n\n", s.Summary)
	writeMarkdownList(&output, "## Key Points", s.KeyPoints)
	return output.String(), nil
}

func (smf *SummaryMarkdownFormatter) SupportedType() string {
	return "DocumentSummary"
}
