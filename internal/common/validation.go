package common

import (
	"fmt"
	"slices"

	"fastresume/internal/formatters"
)

// ValidateOutputFormat checks format against the configured formats, when
// any are configured, and against the formats a formatter exists for.
func ValidateOutputFormat(format string, supportedFormats []string) error {
	if len(supportedFormats) > 0 && !slices.Contains(supportedFormats, format) {
		return fmt.Errorf("unsupported output format '%s'. Supported formats: %v",
			format, supportedFormats)
	}
	if !slices.Contains(formatters.GlobalRegistry.GetSupportedFormats(), format) {
		return fmt.Errorf("no formatter available for output format '%s'", format)
	}
	return nil
}

// ResolveOutputFormat returns format, or defaultFormat when format is empty,
// after validating it.
func ResolveOutputFormat(format, defaultFormat string, supportedFormats []string) (string, error) {
	if format == "" {
		format = defaultFormat
	}
	if err := ValidateOutputFormat(format, supportedFormats); err != nil {
		return "", err
	}
	return format, nil
}
