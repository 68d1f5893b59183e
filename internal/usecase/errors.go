package usecase

import "errors"

var (
	ErrValidation  = errors.New("validation failed")
	ErrNotFound    = errors.New("not found")
	ErrRemote      = errors.New("remote screening service error")
	ErrLocalOnly   = errors.New("remote screening service not available for this session")
	ErrCancelled   = errors.New("request cancelled")
	ErrJobDeleted  = errors.New("job was deleted while screening")
	ErrFileTooBig  = errors.New("file too large")
	ErrUnsupported = errors.New("unsupported file type")
)
