// Package testcalls generates synthetic sales-call transcripts and
// drives them through a running service instance.
package testcalls

import "time"

// Config holds configuration for the call load test.
type Config struct {
	BaseURL   string        // Base URL of the service
	NumCalls  int           // Number of calls to generate
	NumAgents int           // Number of distinct agents
	TopN      int           // Leaderboard size to fetch at the end
	Workers   int           // Number of concurrent submitters
	Timeout   time.Duration // HTTP request timeout
	Verbose   bool          // Enable verbose logging
}

// Call is the wire shape submitted to POST /calls.
type Call struct {
	CallID          string `json:"call_id"`
	AgentID         string `json:"agent_id"`
	AgentName       string `json:"agent_name"`
	Transcript      string `json:"transcript"`
	DurationSeconds int    `json:"duration_seconds"`
	TS              string `json:"ts"`
}

// Entry mirrors a leaderboard row.
type Entry struct {
	Rank         int     `json:"rank"`
	AgentID      string  `json:"agent_id"`
	AverageScore float64 `json:"average_score"`
	CallCount    int     `json:"call_count"`
	Grade        string  `json:"grade"`
	Trend        string  `json:"trend"`
}

// AckResponse is the response from call submission.
type AckResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

// Stats holds test statistics.
type Stats struct {
	CallsGenerated     int
	CallsSubmitted     int
	CallsSuccessful    int
	CallsDuplicate     int
	CallsFailed        int
	LeaderboardEntries int
	StartTime          time.Time
	Duration           time.Duration
}
