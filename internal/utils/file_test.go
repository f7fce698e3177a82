package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestValidateInputFile(t *testing.T) {
	dir := t.TempDir()
	small := filepath.Join(dir, "resume.txt")
	if err := os.WriteFile(small, []byte("Ada Lovelace"), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		file    string
		maxSize int64
		wantErr string
	}{
		{"ok", small, 0, ""},
		{"within limit", small, 1024, ""},
		{"too large", small, 4, "larger than"},
		{"empty name", "", 0, "cannot be empty"},
		{"missing", filepath.Join(dir, "nope.txt"), 0, "does not exist"},
		{"directory", dir, 0, "is a directory"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateInputFile(tt.file, tt.maxSize)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestFileKinds(t *testing.T) {
	tests := []struct {
		file           string
		text, pdf, res bool
	}{
		{"cv.TXT", true, false, true},
		{"cv.md", true, false, true},
		{"cv.pdf", false, true, true},
		{"cv.PDF", false, true, true},
		{"cv.docx", false, false, false},
		{"cv", false, false, false},
	}
	for _, tt := range tests {
		if got := IsTextFile(tt.file); got != tt.text {
			t.Errorf("IsTextFile(%q) = %v", tt.file, got)
		}
		if got := IsPDFFile(tt.file); got != tt.pdf {
			t.Errorf("IsPDFFile(%q) = %v", tt.file, got)
		}
		if got := IsResumeFile(tt.file); got != tt.res {
			t.Errorf("IsResumeFile(%q) = %v", tt.file, got)
		}
	}
	if !IsJSONFile("doc.json") || IsJSONFile("doc.txt") {
		t.Error("IsJSONFile mismatch")
	}
}

func TestFormatFileSize(t *testing.T) {
	tests := map[int64]string{
		512:             "512 B",
		2048:            "2.0 KB",
		5 * 1024 * 1024: "5.0 MB",
	}
	for size, want := range tests {
		if got := FormatFileSize(size); got != want {
			t.Errorf("FormatFileSize(%d) = %q, want %q", size, got, want)
		}
	}
}

func TestValidateOutputFileCreatesDirectory(t *testing.T) {
	out := filepath.Join(t.TempDir(), "nested", "out.md")
	if err := ValidateOutputFile(out); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Dir(out)); err != nil {
		t.Errorf("directory not created: %v", err)
	}
}
