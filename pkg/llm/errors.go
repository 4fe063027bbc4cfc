package llm

import (
	"errors"
	"fmt"
)

// ErrEmptyCompletion is returned when the remote model answers with no
// choices or an empty text.
var ErrEmptyCompletion = errors.New("empty completion from model")

// GenerationError wraps a remote completion failure. Callers receive a
// typed error instead of a sentinel string, so a failure can never be
// mistaken for valid SQL.
type GenerationError struct {
	Provider string
	Model    string
	Err      error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("%s completion failed (model %s): %v", e.Provider, e.Model, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}
