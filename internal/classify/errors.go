package classify

import "errors"

// ValidationError reports bad or insufficient training data. It is
// recoverable: the classifier keeps its previous state when returned.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid training data: " + e.Reason
}

// Storage errors for model persistence. Callers distinguish "retrain"
// (not found) from "retry or investigate" (corrupt).
var (
	ErrModelNotFound = errors.New("model file not found")
	ErrModelCorrupt  = errors.New("model file is corrupt")
)
