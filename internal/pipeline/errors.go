package pipeline

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrPreprocess  = errors.New("preprocess failed")
	ErrProvider    = errors.New("provider failed")
	ErrCredentials = errors.New("no credentials")
	ErrPersistence = errors.New("persistence failed")
	ErrExport      = errors.New("export failed")
	ErrConfig      = errors.New("configuration error")
	ErrFileName    = errors.New("unsupported file name")
)

// Outcome is the reported result for one media file.
type Outcome string

const (
	OutcomeSuccess       Outcome = "success"
	OutcomeSkipProcessed Outcome = "skip-processed"
	OutcomeSkipError     Outcome = "skip-error"
	// OutcomeFatal marks an error that ends the run.
	OutcomeFatal Outcome = "fatal"
)

// Wrap builds an error message that includes pass context while tagging it
// with marker for later classification.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrPersistence
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Classify maps an error to the outcome the run should report for it.
func Classify(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, ErrFileName), errors.Is(err, ErrPreprocess), errors.Is(err, ErrProvider):
		return OutcomeSkipError
	default:
		return OutcomeFatal
	}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "pipeline failure"
	}
	return strings.Join(parts, ": ")
}
