package formatters

import (
	"fmt"
	"strings"
	"time"

	"fastresume/internal/layout"
	"fastresume/internal/store"
)

// LayoutTextFormatter prints a page-by-page plan of a resume.
type LayoutTextFormatter struct{}

func (ltf *LayoutTextFormatter) Format(data any) (string, error) {
	plan, ok := data.(layout.Plan)
	if !ok {
		return "", fmt.Errorf("expected Plan, got %T", data)
	}

	var output strings.Builder

	fmt.Fprintf(&output, "=== RESUME LAYOUT (%d pages) ===\n\n", plan.PageCount)
	if plan.Outcome != "" {
		fmt.Fprintf(&output, "Outcome: %s\n\n", plan.Outcome)
	}

	for _, page := range plan.Pages {
		fmt.Fprintf(&output, "--- Page %d (font %.1fpt, margin %.0fpx, line height %.2f) ---\n",
			page.Index+1, page.Settings.FontSize, page.Settings.Margin, page.Settings.LineHeight)
		if page.Profile != nil {
			fmt.Fprintf(&output, "%s\n", page.Profile.FullName)
			if page.Profile.ContactInfo != "" {
				fmt.Fprintf(&output, "%s\n", page.Profile.ContactInfo)
			}
		}
		for _, section := range page.Sections {
			if section.ShowHeader {
				fmt.Fprintf(&output, "%s\n", section.Title)
			}
			for _, e := range section.Entries {
				fmt.Fprintf(&output, "  [%s] %s\n", e.ID, entryHeading(e))
			}
		}
		if len(page.References) > 0 {
			output.WriteString("REFERENCES\n")
			for _, ref := range page.References {
				fmt.Fprintf(&output, "  %s, %s\n", ref.FullName, ref.JobTitle)
			}
		}
		output.WriteString("\n")
	}

	if n := len(plan.Document.CoverLetterPages); n > 0 {
		fmt.Fprintf(&output, "Cover letter: %d pages\n", n)
	}

	return output.String(), nil
}

func (ltf *LayoutTextFormatter) SupportedType() string {
	return "LayoutPlan"
}

// LayoutMarkdownFormatter prints a page-by-page plan as markdown.
type LayoutMarkdownFormatter struct{}

func (lmf *LayoutMarkdownFormatter) Format(data any) (string, error) {
	plan, ok := data.(layout.Plan)
	if !ok {
		return "", fmt.Errorf("expected Plan, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Resume Layout\n\n")
	fmt.Fprintf(&output, "**Pages:** %d\n\n", plan.PageCount)
	if plan.Outcome != "" {
		fmt.Fprintf(&output, "**Outcome:** %s\n\n", plan.Outcome)
	}

	for _, page := range plan.Pages {
		fmt.Fprintf(&output, "## Page %d\n\n", page.Index+1)
		if page.Profile != nil {
			fmt.Fprintf(&output, "**%s**\n\n", page.Profile.FullName)
		}
		for _, section := range page.Sections {
			if section.ShowHeader {
				fmt.Fprintf(&output, "### %s\n\n", section.Title)
			}
			for _, e := range section.Entries {
				fmt.Fprintf(&output, "- %s `%s`\n", entryHeading(e), e.ID)
			}
			output.WriteString("\n")
		}
		if len(page.References) > 0 {
			output.WriteString("### References\n\n")
			for _, ref := range page.References {
				fmt.Fprintf(&output, "- %s, %s\n", ref.FullName, ref.JobTitle)
			}
			output.WriteString("\n")
		}
	}

	return output.String(), nil
}

func (lmf *LayoutMarkdownFormatter) SupportedType() string {
	return "LayoutPlan"
}

// HistoryTextFormatter lists stored history records.
type HistoryTextFormatter struct{}

func (htf *HistoryTextFormatter) Format(data any) (string, error) {
	records, ok := data.([]store.Record)
	if !ok {
		return "", fmt.Errorf("expected []Record, got %T", data)
	}
	if len(records) == 0 {
		return "No history records.\n", nil
	}

	var output strings.Builder
	for _, rec := range records {
		fmt.Fprintf(&output, "%s  %-16s %s  (%d bytes)\n",
			rec.CreatedAt.Local().Format(time.DateTime), rec.Kind, rec.ID, len(rec.Payload))
	}
	return output.String(), nil
}

func (htf *HistoryTextFormatter) SupportedType() string {
	return "HistoryRecords"
}

// HistoryMarkdownFormatter lists stored history records as a table.
type HistoryMarkdownFormatter struct{}

func (hmf *HistoryMarkdownFormatter) Format(data any) (string, error) {
	records, ok := data.([]store.Record)
	if !ok {
		return "", fmt.Errorf("expected []Record, got %T", data)
	}

	var output strings.Builder
	output.WriteString("# History\n\n")
	if len(records) == 0 {
		output.WriteString("No history records.\n")
		return output.String(), nil
	}
	output.WriteString("| Created | Kind | ID |\n|---|---|---|\n")
	for _, rec := range records {
		fmt.Fprintf(&output, "| %s | %s | `%s` |\n",
			rec.CreatedAt.UTC().Format(time.RFC3339), rec.Kind, rec.ID)
	}
	return output.String(), nil
}

func (hmf *HistoryMarkdownFormatter) SupportedType() string {
	return "HistoryRecords"
}
