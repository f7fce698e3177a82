package layout

import (
	"fmt"
	"strconv"
	"strings"
)

// PageSettings is the typography of one printed page.
type PageSettings struct {
	LineHeight float64 `json:"lineHeight" mapstructure:"lineHeight"`
	Margin     float64 `json:"margin" mapstructure:"margin"`
	FontSize   float64 `json:"fontSize" mapstructure:"fontSize"`
	NameSize   float64 `json:"nameSize" mapstructure:"nameSize"`
	HeaderSize float64 `json:"headerSize" mapstructure:"headerSize"`
}

// DefaultPageSettings is used for any region that has never been configured.
var DefaultPageSettings = PageSettings{
	LineHeight: 1.4,
	Margin:     15,
	FontSize:   10,
	NameSize:   28,
	HeaderSize: 11,
}

// SettingsPatch is a partial update; nil fields keep their current value.
type SettingsPatch struct {
	LineHeight *float64 `json:"lineHeight,omitempty" validate:"omitempty,gt=0,lte=4"`
	Margin     *float64 `json:"margin,omitempty" validate:"omitempty,gte=0,lte=60"`
	FontSize   *float64 `json:"fontSize,omitempty" validate:"omitempty,gt=0,lte=72"`
	NameSize   *float64 `json:"nameSize,omitempty" validate:"omitempty,gt=0,lte=96"`
	HeaderSize *float64 `json:"headerSize,omitempty" validate:"omitempty,gt=0,lte=72"`
}

func (s PageSettings) apply(patch SettingsPatch) PageSettings {
	if patch.LineHeight != nil {
		s.LineHeight = *patch.LineHeight
	}
	if patch.Margin != nil {
		s.Margin = *patch.Margin
	}
	if patch.FontSize != nil {
		s.FontSize = *patch.FontSize
	}
	if patch.NameSize != nil {
		s.NameSize = *patch.NameSize
	}
	if patch.HeaderSize != nil {
		s.HeaderSize = *patch.HeaderSize
	}
	return s
}

// RegionKind distinguishes resume pages from the cover letter.
type RegionKind int

const (
	RegionResume RegionKind = iota
	RegionCoverLetter
)

// Region keys a PageSettings record. Page is only meaningful for RegionResume.
type Region struct {
	Kind RegionKind
	Page int
}

func ResumePage(page int) Region { return Region{Kind: RegionResume, Page: page} }

func CoverLetterRegion() Region { return Region{Kind: RegionCoverLetter} }

const (
	coverLetterKey   = "cover-letter"
	resumePagePrefix = "page-"
)

func (r Region) String() string {
	if r.Kind == RegionCoverLetter {
		return coverLetterKey
	}
	return resumePagePrefix + strconv.Itoa(r.Page)
}

// MarshalText lets Region key a JSON object.
func (r Region) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *Region) UnmarshalText(text []byte) error {
	parsed, err := ParseRegion(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// ParseRegion accepts "cover-letter", "page-N" or a bare page number.
func ParseRegion(s string) (Region, error) {
	s = strings.TrimSpace(s)
	if s == coverLetterKey {
		return CoverLetterRegion(), nil
	}
	page, err := strconv.Atoi(strings.TrimPrefix(s, resumePagePrefix))
	if err != nil || page < 0 {
		return Region{}, fmt.Errorf("invalid settings region %q", s)
	}
	return ResumePage(page), nil
}

// SettingsBook holds per-region page settings. Records are overwritten but
// never removed, so settings of a deleted page resurface if the page returns.
type SettingsBook struct {
	defaults PageSettings
	regions  map[Region]PageSettings
}

// NewSettingsBook seeds resume pages 0 and 1 and the cover letter with defaults.
func NewSettingsBook(defaults PageSettings) *SettingsBook {
	b := &SettingsBook{
		defaults: defaults,
		regions:  make(map[Region]PageSettings),
	}
	for _, r := range []Region{ResumePage(0), ResumePage(1), CoverLetterRegion()} {
		b.regions[r] = defaults
	}
	return b
}

// Get returns the settings for r, falling back to the defaults.
func (b *SettingsBook) Get(r Region) PageSettings {
	if s, ok := b.regions[r]; ok {
		return s
	}
	return b.defaults
}

// Update merges patch into the settings of r and returns the result.
func (b *SettingsBook) Update(r Region, patch SettingsPatch) PageSettings {
	next := b.Get(r).apply(patch)
	b.regions[r] = next
	return next
}

// Snapshot returns a copy of every stored record.
func (b *SettingsBook) Snapshot() map[Region]PageSettings {
	out := make(map[Region]PageSettings, len(b.regions))
	for r, s := range b.regions {
		out[r] = s
	}
	return out
}

// Set stores s for r as a whole record.
func (b *SettingsBook) Set(r Region, s PageSettings) {
	b.regions[r] = s
}
