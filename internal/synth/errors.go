package synth

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEngineSetup marks fatal session initialization failures. The engine
	// is unusable without its one-time setup, so these abort the whole batch
	// and are never retried.
	ErrEngineSetup = errors.New("engine setup error")
	// ErrEngineCall marks a failed synthesis or resample command: process
	// error, malformed response, or a wavelength/flux shape mismatch. The
	// request is abandoned but the session remains usable.
	ErrEngineCall = errors.New("engine call error")
)

// Wrap builds an error message that includes operation context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, operation, message string, err error) error {
	detail := buildDetail(operation, message)
	if marker == nil {
		marker = ErrEngineCall
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

func buildDetail(operation, message string) string {
	parts := make([]string, 0, 2)
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "engine failure"
	}
	return strings.Join(parts, ": ")
}
