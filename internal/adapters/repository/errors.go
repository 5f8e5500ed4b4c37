package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrAgentNotFound = errors.New("agent not found")
	ErrPlanNotFound  = errors.New("training plan not found")
	ErrInvalidLimit  = errors.New("invalid leaderboard limit")
)
