// Package catalog holds the static weighted rubric for call scoring and
// the skill taxonomy used by profiles and training plans. Loaded once,
// immutable afterwards.
package catalog

import "github.com/oakmontrealty/voicrm-coaching/internal/domain/model"

// MaxCriterionScore is the fixed upper bound of every raw criterion score.
const MaxCriterionScore = 10.0

// Canonical criterion keys.
const (
	Greeting          = "greeting"
	Rapport           = "rapport"
	Discovery         = "discovery"
	Presentation      = "presentation"
	ObjectionHandling = "objectionHandling"
	Closing           = "closing"
	Professionalism   = "professionalism"
	Enthusiasm        = "enthusiasm"
	Clarity           = "clarity"
	Listening         = "listening"
)

// CriterionSpec describes one scored dimension of a sales call.
type CriterionSpec struct {
	Key      string
	Weight   float64
	MaxScore float64
}

// criteria is the canonical ordered rubric. Order matters: ties in
// improvement-area sorting resolve to catalog order.
var criteria = []CriterionSpec{
	{Key: Greeting, Weight: 10, MaxScore: MaxCriterionScore},
	{Key: Rapport, Weight: 10, MaxScore: MaxCriterionScore},
	{Key: Discovery, Weight: 15, MaxScore: MaxCriterionScore},
	{Key: Presentation, Weight: 15, MaxScore: MaxCriterionScore},
	{Key: ObjectionHandling, Weight: 15, MaxScore: MaxCriterionScore},
	{Key: Closing, Weight: 15, MaxScore: MaxCriterionScore},
	{Key: Professionalism, Weight: 5, MaxScore: MaxCriterionScore},
	{Key: Enthusiasm, Weight: 5, MaxScore: MaxCriterionScore},
	{Key: Clarity, Weight: 5, MaxScore: MaxCriterionScore},
	{Key: Listening, Weight: 5, MaxScore: MaxCriterionScore},
}

// Criteria returns the rubric in canonical order.
func Criteria() []CriterionSpec {
	out := make([]CriterionSpec, len(criteria))
	copy(out, criteria)
	return out
}

// TotalWeight is the sum of all criterion weights.
func TotalWeight() float64 {
	var total float64
	for _, c := range criteria {
		total += c.Weight
	}
	return total
}

// highPriorityCriteria develops deals; weakness there outranks the rest.
var highPriorityCriteria = map[string]bool{
	Discovery:         true,
	Closing:           true,
	ObjectionHandling: true,
}

// ImprovementPriority returns the priority of an improvement insight for
// a criterion.
func ImprovementPriority(key string) model.Priority {
	if highPriorityCriteria[key] {
		return model.PriorityHigh
	}
	return model.PriorityMedium
}

var improvementMessages = map[string]string{
	Greeting:          "Opening missed the mark; lead with a warm, branded introduction",
	Rapport:           "Little personal connection built; find common ground early",
	Discovery:         "Too few qualifying questions; uncover motivation, timeline, and budget",
	Presentation:      "Property value was undersold; tie features back to the buyer's needs",
	ObjectionHandling: "Objections were deflected rather than resolved; acknowledge then answer",
	Closing:           "No clear next step was secured; always ask for the appointment",
	Professionalism:   "Tone slipped below standard; keep language courteous and precise",
	Enthusiasm:        "Energy was flat; the caller should hear genuine interest",
	Clarity:           "Explanations wandered; shorter sentences, one idea at a time",
	Listening:         "Caller was talked over; leave space and reflect back what you heard",
}

var strengthMessages = map[string]string{
	Greeting:          "Strong, confident opening",
	Rapport:           "Built genuine rapport quickly",
	Discovery:         "Thorough needs discovery",
	Presentation:      "Compelling property presentation",
	ObjectionHandling: "Handled objections with confidence",
	Closing:           "Secured a clear next step",
	Professionalism:   "Consistently professional tone",
	Enthusiasm:        "Energy carried the conversation",
	Clarity:           "Clear, easy-to-follow explanations",
	Listening:         "Genuinely attentive listening",
}

var recommendations = map[string]string{
	Greeting:          "Rehearse the branded opening until it sounds natural",
	Rapport:           "Open with one personal question before business",
	Discovery:         "Use the five-question discovery framework on every call",
	Presentation:      "Pair every feature with a benefit for this specific buyer",
	ObjectionHandling: "Drill the acknowledge-bridge-answer pattern with a peer",
	Closing:           "End every call by proposing a concrete time to meet",
	Professionalism:   "Review call recordings for filler and slang weekly",
	Enthusiasm:        "Stand up on calls and vary pitch to project energy",
	Clarity:           "Summarize in one sentence before moving to the next topic",
	Listening:         "Pause two seconds after the caller finishes before replying",
}

// ImprovementMessage returns the fixed coaching message for a weak criterion.
func ImprovementMessage(key string) string {
	if msg, ok := improvementMessages[key]; ok {
		return msg
	}
	return "Needs focused practice in " + key
}

// StrengthMessage returns the fixed message for a strong criterion.
func StrengthMessage(key string) string {
	if msg, ok := strengthMessages[key]; ok {
		return msg
	}
	return "Consistent strength in " + key
}

// Recommendation returns the fixed coaching recommendation for a criterion.
func Recommendation(key string) string {
	if rec, ok := recommendations[key]; ok {
		return rec
	}
	return "Schedule focused practice on " + key
}
