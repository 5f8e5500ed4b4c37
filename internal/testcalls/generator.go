package testcalls

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Agent quality tiers. The tier decides how many strong phrases a
// transcript carries, which drives the scores the service produces.
const (
	tierElite = iota
	tierSolid
	tierAverage
	tierWeak
)

var openers = []string{
	"Good morning, this is %s calling from Oakmont Realty.",
	"Good afternoon, you're speaking with %s at Oakmont Realty.",
	"Hi, this is %s from Oakmont Realty, how are you today?",
}

// strongPhrases carry the discovery, objection, and closing signals a
// well-run call shows. Weak transcripts sample few of them.
var strongPhrases = []string{
	"Tell me about what you're looking for in your next home.",
	"What's important to you when it comes to the neighbourhood?",
	"How does your budget look for this move?",
	"I understand your concern about the timing, however the market data tells a different story.",
	"That's a fair point, what if we looked at it from the valuation angle?",
	"Shall we book an appointment for Thursday to view the property?",
	"Would you like to schedule a follow up this week?",
	"The next step would be a quick appraisal of your current place.",
	"I hear you, and I appreciate you sharing that.",
	"What I'm hearing is that schools matter most for your family.",
	"This property has three bedrooms, a renovated kitchen, and a north-facing garden.",
	"Comparable sales in the street settled well above the guide.",
}

var fillerPhrases = []string{
	"Um, so, like I was saying.",
	"You know, it's just, um, one of those things.",
	"Uh, let me, uh, check that.",
}

var riskyPhrases = []string{
	"I guarantee this will sell above asking.",
	"This investment is risk-free, trust me.",
}

var agentNames = []string{
	"Riley Chen", "Jordan Blake", "Samira Khan", "Tom Nguyen",
	"Alex Ferraro", "Priya Shah", "Marcus Webb", "Elena Rossi",
}

// GenerateCalls builds calls across a fixed agent roster. The rng seed
// is fixed so reruns produce the same distribution.
func GenerateCalls(cfg *Config) []Call {
	rng := rand.New(rand.NewSource(7)) //nolint:gosec // reproducible test data

	agents := make([]string, cfg.NumAgents)
	tiers := make([]int, cfg.NumAgents)
	for i := range agents {
		agents[i] = fmt.Sprintf("agent-%03d", i+1)
		tiers[i] = i % 4
	}

	calls := make([]Call, cfg.NumCalls)
	base := time.Now().Add(-time.Duration(cfg.NumCalls) * time.Minute)
	for i := range calls {
		agent := rng.Intn(cfg.NumAgents)
		calls[i] = Call{
			CallID:          uuid.New().String(),
			AgentID:         agents[agent],
			AgentName:       agentNames[agent%len(agentNames)],
			Transcript:      buildTranscript(rng, tiers[agent], agentNames[agent%len(agentNames)]),
			DurationSeconds: 120 + rng.Intn(600),
			TS:              base.Add(time.Duration(i) * time.Minute).Format(time.RFC3339),
		}
	}
	return calls
}

func buildTranscript(rng *rand.Rand, tier int, agentName string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(openers[rng.Intn(len(openers))], agentName))
	sb.WriteString(" ")

	var strongCount int
	switch tier {
	case tierElite:
		strongCount = 8 + rng.Intn(4)
	case tierSolid:
		strongCount = 5 + rng.Intn(3)
	case tierAverage:
		strongCount = 2 + rng.Intn(3)
	default:
		strongCount = rng.Intn(2)
	}
	for i := 0; i < strongCount; i++ {
		sb.WriteString(strongPhrases[rng.Intn(len(strongPhrases))])
		sb.WriteString(" ")
	}

	if tier >= tierAverage {
		for i := 0; i < 2+rng.Intn(3); i++ {
			sb.WriteString(fillerPhrases[rng.Intn(len(fillerPhrases))])
			sb.WriteString(" ")
		}
	}
	// A slice of weak calls also trips the compliance scanner.
	if tier == tierWeak && rng.Intn(3) == 0 {
		sb.WriteString(riskyPhrases[rng.Intn(len(riskyPhrases))])
		sb.WriteString(" ")
	}

	sb.WriteString("Thanks for your time today.")
	return sb.String()
}
