package usecase

import (
	"fmt"
	"path/filepath"
	"strings"
)

var (
	resumeExtensions = []string{".pdf", ".docx"}
	audioExtensions  = []string{".mp3", ".wav", ".m4a", ".mp4"}
)

func validateFile(name string, size int, allowed []string, max int64) error {
	if strings.TrimSpace(name) == "" || size == 0 {
		return fmt.Errorf("%w: file is required", ErrValidation)
	}
	ext := strings.ToLower(filepath.Ext(name))
	ok := false
	for _, a := range allowed {
		if ext == a {
			ok = true
			break
		}
	}
	if !ok {
		return fmt.Errorf("%w: allowed types are %s", ErrUnsupported, strings.Join(allowed, ", "))
	}
	if int64(size) > max {
		return fmt.Errorf("%w: maximum size is %dMB", ErrFileTooBig, max>>20)
	}
	return nil
}
