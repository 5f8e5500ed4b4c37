package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrInvalidPlanDuration = errors.New("invalid plan duration")
)
