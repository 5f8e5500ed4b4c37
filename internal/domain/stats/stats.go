// Package stats holds the trend, consistency, and improvement-rate
// arithmetic over score histories. Everything here is a pure function
// and degrades to documented fallback values under sparse history:
// trend unknown, consistency 100, improvement rate 0. Sparse data is
// the normal case for new agents, not an error.
package stats

import (
	"math"

	"github.com/oakmontrealty/voicrm-coaching/internal/domain/model"
)

const (
	trendWindow         = 5
	trendThreshold      = 2.0
	minCallsForRates    = 5
	maxConsistency      = 100
	consistencyPenality = 2.0
	percentScale        = 100
)

// TrendFor labels the direction of the most recent scores. It compares
// the mean of the last five entries against the mean of the window
// preceding them; below five calls there is no meaningful signal and the
// trend is unknown.
func TrendFor(scores []int) model.Trend {
	n := len(scores)
	if n < trendWindow {
		return model.TrendUnknown
	}

	recent := mean(scores[n-trendWindow:])

	prevStart := n - 2*trendWindow
	if prevStart < 0 {
		prevStart = 0
	}
	previous := scores[prevStart : n-trendWindow]
	if len(previous) == 0 {
		// Recent evidence with no baseline to compare against.
		return model.TrendStable
	}

	switch diff := recent - mean(previous); {
	case diff > trendThreshold:
		return model.TrendImproving
	case diff < -trendThreshold:
		return model.TrendDeclining
	default:
		return model.TrendStable
	}
}

// ConsistencyScore maps score variance onto [0,100]: 100 is perfectly
// consistent. With fewer than two calls there is no evidence of
// inconsistency and the score is 100.
func ConsistencyScore(scores []int) int {
	if len(scores) < 2 {
		return maxConsistency
	}
	raw := float64(maxConsistency) - consistencyPenality*stddev(scores)
	score := int(math.Round(math.Max(0, raw)))
	if score > maxConsistency {
		score = maxConsistency
	}
	return score
}

// ImprovementRate is the percentage change between the first and second
// halves of the history (the second half takes the extra call on odd
// counts). Requires at least five calls; otherwise 0.
func ImprovementRate(scores []int) int {
	n := len(scores)
	if n < minCallsForRates {
		return 0
	}
	first := mean(scores[:n/2])
	second := mean(scores[n/2:])
	if first == 0 {
		return 0
	}
	return int(math.Round((second - first) / first * percentScale))
}

func mean(scores []int) float64 {
	if len(scores) == 0 {
		return 0
	}
	var sum int
	for _, s := range scores {
		sum += s
	}
	return float64(sum) / float64(len(scores))
}

// stddev is the population standard deviation.
func stddev(scores []int) float64 {
	m := mean(scores)
	var sumSq float64
	for _, s := range scores {
		d := float64(s) - m
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(scores)))
}
