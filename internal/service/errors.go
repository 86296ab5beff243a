package service

import (
	"errors"
	"fmt"
)

// Completion error kinds. Surfaces match them with errors.Is; the backend
// failure that caused them stays in the chain.
var (
	ErrConfig        = errors.New("completion credential missing or invalid")
	ErrUnrecoverable = errors.New("completion request failed")
	ErrEmptyResponse = errors.New("completion endpoint returned no text")
	ErrEmptyInput    = errors.New("user text is empty")
)

// StageError reports the pipeline stage whose completion failed.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// ErrorKind names the completion error kind carried by err, for surfaces
// that report it as a string.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrConfig):
		return "config_error"
	case errors.Is(err, ErrEmptyResponse):
		return "empty_response"
	case errors.Is(err, ErrEmptyInput):
		return "empty_input"
	default:
		return "unrecoverable"
	}
}
