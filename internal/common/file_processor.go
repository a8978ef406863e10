package common

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"

	"interviewlens/internal/errors"
	"interviewlens/internal/utils"
)

// FileProcessor handles common file operations
type FileProcessor struct {
	logger  *errors.Logger
	maxSize int64
}

// NewFileProcessor creates a file processor. maxSize caps reads; zero means no cap.
func NewFileProcessor(logger *errors.Logger, maxSize int64) *FileProcessor {
	return &FileProcessor{logger: logger, maxSize: maxSize}
}

// ReadFile reads a whole file, failing if it exceeds the size cap
func (fp *FileProcessor) ReadFile(filename string) ([]byte, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return nil, errors.NewIOError(errors.ErrCodeFileNotFound,
			fmt.Sprintf("File not found: %s", filename), err)
	}
	if err := utils.ValidateInputFile(filename); err != nil {
		return nil, errors.NewValidationError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("Invalid file %s", filename), err)
	}
	if !utils.IsDocumentFile(filename) && fp.logger != nil {
		fp.logger.Warn("File extension is not a known document type; content will be sniffed", "filename", filename)
	}

	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("Cannot read file: %s", filename), err)
	}
	defer func() {
		if err := file.Close(); err != nil && fp.logger != nil {
			fp.logger.Warn("Failed to close file", "filename", filename, "error", err)
		}
	}()

	var r io.Reader = file
	if fp.maxSize > 0 {
		r = io.LimitReader(file, fp.maxSize+1)
	}
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("Failed to read file content: %s", filename), err)
	}
	if fp.maxSize > 0 && int64(len(content)) > fp.maxSize {
		return nil, errors.NewValidationError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("File %s exceeds %s", filename, utils.FormatFileSize(fp.maxSize)), nil)
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

// Fetch reads file:// references so local documents go through the same
// resolver as remote ones.
func (fp *FileProcessor) Fetch(ctx context.Context, ref string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	u, err := url.Parse(ref)
	if err != nil || u.Scheme != "file" {
		return nil, fmt.Errorf("not a file reference: %q", ref)
	}
	return fp.ReadFile(filepath.FromSlash(u.Path))
}
