package errors

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"testing"
)

func TestAppErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "without cause",
			err:  NewValidationError(ErrCodeInvalidRequest, "bad input", nil),
			want: "INVALID_REQUEST: bad input",
		},
		{
			name: "with cause",
			err:  NewIOError(ErrCodeFileNotFound, "missing", io.EOF),
			want: "FILE_NOT_FOUND: missing (caused by: EOF)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTypeOf(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", NewStorageError(ErrCodeStorageFailed, "db", nil))

	if got := TypeOf(wrapped); got != ErrorTypeStorage {
		t.Errorf("TypeOf(wrapped) = %s, want %s", got, ErrorTypeStorage)
	}
	if got := TypeOf(io.EOF); got != ErrorTypeInternal {
		t.Errorf("TypeOf(plain) = %s, want %s", got, ErrorTypeInternal)
	}
}

func TestLogErrorIncludesContext(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(&buf, slog.LevelDebug)

	err := NewAIError(ErrCodeAIServiceFailed, "gemini down", nil).WithContext("operation", "analyze")
	logger.LogError(err, "operation failed", "attempt", 2)

	var record map[string]any
	if jsonErr := json.Unmarshal(buf.Bytes(), &record); jsonErr != nil {
		t.Fatalf("log output is not JSON: %v", jsonErr)
	}

	checks := map[string]any{
		"msg":        "operation failed",
		"error_type": "ai",
		"error_code": ErrCodeAIServiceFailed,
		"operation":  "analyze",
		"attempt":    float64(2),
	}
	for key, want := range checks {
		if record[key] != want {
			t.Errorf("record[%q] = %v, want %v", key, record[key], want)
		}
	}
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	if _, err := New("verbose"); err == nil {
		t.Fatal("expected error for unknown level")
	}
	if _, err := New("WARN"); err != nil {
		t.Fatalf("unexpected error for WARN: %v", err)
	}
}
