package bulkimport

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// MaxFileSize is the largest accepted upload.
const MaxFileSize = 10 << 20

var (
	ErrUnsupportedFile = errors.New("please upload a CSV or TXT file")
	ErrFileTooLarge    = fmt.Errorf("file size must be less than %dMB", MaxFileSize>>20)
)

// CheckFile applies the upload rules: a .csv or .txt name and at most MaxFileSize bytes.
func CheckFile(name string, size int64) error {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", ".txt":
	default:
		return ErrUnsupportedFile
	}
	if size > MaxFileSize {
		return ErrFileTooLarge
	}
	return nil
}
