package api

import (
	"errors"
	"fmt"

	"github.com/oakmontrealty/voicrm-coaching/internal/adapters/repository"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest   = errors.New("bad request")
	ErrBackpressure = errors.New("backpressure")
)

// NewKind tags a sentinel with the operation that raised it.
func NewKind(op string, kind error) error {
	return fmt.Errorf("%s: %w", op, kind)
}

// WrapKind tags a sentinel and its cause with the operation.
func WrapKind(op string, kind, cause error) error {
	return fmt.Errorf("%s: %w: %w", op, kind, cause)
}

// isNotFound translates upstream not-found errors to 404 responses.
func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrAgentNotFound) ||
		errors.Is(err, repository.ErrPlanNotFound)
}
