package common

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"fastresume/internal/errors"
	"fastresume/internal/utils"

	"github.com/ledongthuc/pdf"
)

// FileProcessor handles common file operations
type FileProcessor struct {
	logger  *errors.Logger
	maxSize int64
}

// NewFileProcessor creates a file processor that rejects inputs larger than
// maxSize bytes. Zero means no limit.
func NewFileProcessor(logger *errors.Logger, maxSize int64) *FileProcessor {
	return &FileProcessor{logger: logger, maxSize: maxSize}
}

// ReadFile reads content from a file with proper error handling
func (fp *FileProcessor) ReadFile(filename string) ([]byte, error) {
	file, err := os.Open(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewIOError(errors.ErrCodeFileNotFound,
				fmt.Sprintf("File not found: %s", filename), err)
		}
		return nil, errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("Cannot read file: %s", filename), err)
	}
	defer func() {
		if err := file.Close(); err != nil && fp.logger != nil {
			fp.logger.Warn("Failed to close file", "filename", filename, "error", err)
		}
	}()

	content, err := io.ReadAll(file)
	if err != nil {
		return nil, errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("Failed to read file content: %s", filename), err)
	}

	return content, nil
}

// WriteFile writes content to a file with directory creation
func (fp *FileProcessor) WriteFile(filename, content string) error {
	dir := filepath.Dir(filename)
	if dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return errors.NewIOError("DIRECTORY_CREATE_FAILED",
				fmt.Sprintf("Cannot create directory: %s", dir), err)
		}
	}

	if err := os.WriteFile(filename, []byte(content), 0600); err != nil {
		return errors.NewIOError("FILE_WRITE_FAILED",
			fmt.Sprintf("Cannot write file: %s", filename), err)
	}

	return nil
}

// ReadText validates and reads a plain-text input such as a job description.
func (fp *FileProcessor) ReadText(filename string) (string, error) {
	if err := fp.validateInput(filename); err != nil {
		return "", err
	}
	if !utils.IsTextFile(filename) {
		fp.warn("File may not be a text file", filename)
	}

	content, err := fp.ReadFile(filename)
	if err != nil {
		return "", err
	}
	return string(content), nil
}

// ReadResume reads a resume as plain text. PDF files have their text layer
// extracted; anything else is read as text.
func (fp *FileProcessor) ReadResume(filename string) (string, error) {
	if !utils.IsResumeFile(filename) {
		fp.warn("Unrecognized resume format, reading as text", filename)
	}
	if !utils.IsPDFFile(filename) {
		return fp.ReadText(filename)
	}
	if err := fp.validateInput(filename); err != nil {
		return "", err
	}

	content, err := fp.ReadFile(filename)
	if err != nil {
		return "", err
	}
	text, err := fp.ExtractPDFText(content)
	if err != nil {
		return "", errors.NewIOError(errors.ErrCodePDFExtractFailed,
			fmt.Sprintf("Cannot extract text from %s", filename), err)
	}
	if strings.TrimSpace(text) == "" {
		return "", errors.NewValidationError(errors.ErrCodePDFExtractFailed,
			fmt.Sprintf("%s has no text layer; scanned PDFs are not supported", filename), nil)
	}
	return text, nil
}

// ExtractPDFText returns the plain text of every page, pages separated by a
// blank line. Pages that fail to decode are skipped.
func (fp *FileProcessor) ExtractPDFText(data []byte) (text string, err error) {
	// The PDF parser panics on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("malformed PDF: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, pageErr := page.GetPlainText(nil)
		if pageErr != nil {
			if fp.logger != nil {
				fp.logger.Warn("Failed to extract text from PDF page", "page", i, "error", pageErr)
			}
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(pageText)
	}

	return sb.String(), nil
}

// ReadJSON validates filename and decodes it into v.
func (fp *FileProcessor) ReadJSON(filename string, v any) error {
	if err := fp.validateInput(filename); err != nil {
		return err
	}
	if !utils.IsJSONFile(filename) {
		fp.warn("File may not be a JSON document", filename)
	}
	content, err := fp.ReadFile(filename)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(content, v); err != nil {
		return errors.NewValidationError(errors.ErrCodeInvalidDocument,
			fmt.Sprintf("%s is not a valid JSON document", filename), err)
	}
	return nil
}

// ValidateOutputFile validates output file path
func (fp *FileProcessor) ValidateOutputFile(filename string) error {
	if filename == "" {
		return nil // stdout is valid
	}

	if err := utils.ValidateOutputFile(filename); err != nil {
		return errors.NewValidationError("INVALID_OUTPUT_FILE",
			fmt.Sprintf("Invalid output file: %s", filename), err)
	}

	return nil
}

func (fp *FileProcessor) validateInput(filename string) error {
	if err := utils.ValidateInputFile(filename, fp.maxSize); err != nil {
		return errors.NewValidationError("INVALID_INPUT_FILE",
			fmt.Sprintf("Invalid file %s", filename), err)
	}
	return nil
}

func (fp *FileProcessor) warn(msg, filename string) {
	if fp.logger != nil {
		fp.logger.Warn(msg, "filename", filename)
		return
	}
	fmt.Fprintf(os.Stderr, "Warning: %s: %s\n", filename, strings.ToLower(msg))
}
