package layout

import (
	"fmt"
	"strings"

	"fastresume/internal/types"
)

// SectionKind identifies which entry list of a resume an entry belongs to.
type SectionKind string

const (
	SectionWork      SectionKind = "work"
	SectionProject   SectionKind = "project"
	SectionVolunteer SectionKind = "volunteer"
)

// Kinds lists the positionable sections in render order.
var Kinds = []SectionKind{SectionWork, SectionProject, SectionVolunteer}

// Title is the printed section heading.
func (k SectionKind) Title() string {
	switch k {
	case SectionWork:
		return "PROFESSIONAL EXPERIENCE"
	case SectionProject:
		return "SCHOOL PROJECTS"
	case SectionVolunteer:
		return "VOLUNTEER EXPERIENCE"
	default:
		return strings.ToUpper(string(k))
	}
}

// ParseSectionKind accepts the kind names plus a few common aliases.
func ParseSectionKind(s string) (SectionKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "work", "experience", "experiences":
		return SectionWork, nil
	case "project", "projects", "school-project", "schoolprojects":
		return SectionProject, nil
	case "volunteer", "volunteering":
		return SectionVolunteer, nil
	default:
		return "", fmt.Errorf("unknown section kind %q", s)
	}
}

// entriesOf returns the entry list of content that holds kind.
func entriesOf(content *types.ResumeContent, kind SectionKind) *[]types.Entry {
	switch kind {
	case SectionWork:
		return &content.Experiences
	case SectionProject:
		return &content.SchoolProjects
	case SectionVolunteer:
		return &content.Volunteer
	default:
		return nil
	}
}

// Section returns a copy-free view of the entries of kind, or nil for an unknown kind.
func Section(content types.ResumeContent, kind SectionKind) []types.Entry {
	if list := entriesOf(&content, kind); list != nil {
		return *list
	}
	return nil
}

// FindEntry reports which section holds the entry with id.
func FindEntry(content types.ResumeContent, id string) (SectionKind, bool) {
	for _, kind := range Kinds {
		for _, e := range Section(content, kind) {
			if e.ID == id {
				return kind, true
			}
		}
	}
	return "", false
}
