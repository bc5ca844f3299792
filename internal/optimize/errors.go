package optimize

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors classify pipeline failures. Only ErrResource and
// ErrExhausted ever cross the pipeline boundary; the others tag internal
// stage failures that the fallback chain absorbs.
var (
	ErrBinaryUnavailable = errors.New("optimizer unavailable")
	ErrProcessFailed     = errors.New("optimizer process failed")
	ErrResource          = errors.New("temp resource unavailable")
	ErrExhausted         = errors.New("all strategies exhausted")
)

// Wrap builds an error message that includes stage context while tagging it
// with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrProcessFailed
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
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
