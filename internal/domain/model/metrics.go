package model

import "time"

// Trend labels the direction of an agent's recent scores.
type Trend string

const (
	TrendImproving Trend = "improving"
	TrendDeclining Trend = "declining"
	TrendStable    Trend = "stable"
	TrendUnknown   Trend = "unknown"
)

// ScoreRecord is one append-only history entry in an agent's metrics.
type ScoreRecord struct {
	CallID    string    `json:"call_id"`
	Score     int       `json:"score"`
	Timestamp time.Time `json:"timestamp"`
}

// AgentMetrics is the rolling aggregate of an agent's call scores.
// Mutated only by appending one CallScoreResult at a time per agent.
type AgentMetrics struct {
	AgentID      string        `json:"agent_id"`
	CallCount    int           `json:"call_count"`
	TotalScore   int           `json:"total_score"`
	AverageScore float64       `json:"average_score"`
	ScoreHistory []ScoreRecord `json:"score_history"`
	Trend        Trend         `json:"trend"`
}

// AgentReport is the read-side summary of an agent's performance.
type AgentReport struct {
	AgentID          string      `json:"agent_id"`
	CallCount        int         `json:"call_count"`
	AverageScore     float64     `json:"average_score"`
	Grade            Grade       `json:"grade"`
	Trend            Trend       `json:"trend"`
	BestCall         ScoreRecord `json:"best_call"`
	WorstCall        ScoreRecord `json:"worst_call"`
	ConsistencyScore int         `json:"consistency_score"`
	ImprovementRate  int         `json:"improvement_rate"`
}

// LeaderboardEntry is one row of the team leaderboard snapshot.
type LeaderboardEntry struct {
	Rank         int     `json:"rank"`
	AgentID      string  `json:"agent_id"`
	AverageScore float64 `json:"average_score"`
	CallCount    int     `json:"call_count"`
	Grade        Grade   `json:"grade"`
	Trend        Trend   `json:"trend"`
}
