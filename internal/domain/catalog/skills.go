package catalog

// Skill taxonomy: category -> subskills. Profiles initialize every
// subskill listed here; gap priority scales by the category weight.

// Skill categories.
const (
	CategoryCommunication    = "communication"
	CategorySalesTechnique   = "salesTechnique"
	CategoryProductKnowledge = "productKnowledge"
	CategoryProfessionalism  = "professionalism"
)

// Subskill keys not shared with the scoring rubric.
const (
	Empathy    = "empathy"
	Persuasion = "persuasion"
	Properties = "properties"
	Pricing    = "pricing"
	Processes  = "processes"
)

type skillCategory struct {
	weight    float64
	subskills []string
}

var skillTaxonomy = map[string]skillCategory{
	CategoryCommunication: {
		weight:    1.2,
		subskills: []string{Clarity, Listening, Empathy},
	},
	CategorySalesTechnique: {
		weight:    1.5,
		subskills: []string{Discovery, ObjectionHandling, Closing, Persuasion},
	},
	CategoryProductKnowledge: {
		weight:    1.0,
		subskills: []string{Properties, Pricing, Processes},
	},
	CategoryProfessionalism: {
		weight:    0.8,
		subskills: []string{Presentation, Professionalism},
	},
}

// SkillCategories returns the taxonomy as category -> subskill names.
func SkillCategories() map[string][]string {
	out := make(map[string][]string, len(skillTaxonomy))
	for category, sc := range skillTaxonomy {
		names := make([]string, len(sc.subskills))
		copy(names, sc.subskills)
		out[category] = names
	}
	return out
}

// CategoryWeight returns the gap-priority multiplier for a category.
// Unknown categories weigh 1.
func CategoryWeight(category string) float64 {
	if sc, ok := skillTaxonomy[category]; ok {
		return sc.weight
	}
	return 1
}

// businessImpact ranks subskills by revenue leverage. Used when
// prioritizing training areas.
var businessImpact = map[string]float64{
	Closing:           10,
	ObjectionHandling: 9,
	Discovery:         8,
	Presentation:      7,
	Listening:         6,
	Persuasion:        6,
	Empathy:           5,
	Clarity:           5,
	Properties:        4,
	Processes:         4,
	Pricing:           3,
	Professionalism:   3,
}

// BusinessImpact returns the fixed business-impact weight for a
// subskill; unlisted subskills default to 1.
func BusinessImpact(subskill string) float64 {
	if w, ok := businessImpact[subskill]; ok {
		return w
	}
	return 1
}

// skillIndicators are transcript phrases that count as usage evidence
// for a subskill. Substring matched, case-insensitive.
var skillIndicators = map[string][]string{
	Clarity:           {"to summarize", "in other words", "what that means"},
	Listening:         {"i hear you", "what i'm hearing", "you mentioned", "good question"},
	Empathy:           {"i understand", "that makes sense", "i can imagine"},
	Discovery:         {"what are you looking for", "tell me about", "how soon", "your budget", "why now"},
	ObjectionHandling: {"i appreciate that concern", "fair point", "let me address", "many clients felt"},
	Closing:           {"next step", "shall we book", "appointment", "when works", "let's schedule"},
	Persuasion:        {"imagine", "picture this", "the advantage", "which means for you"},
	Properties:        {"bedrooms", "land size", "renovated", "the suburb", "school zone"},
	Pricing:           {"market value", "comparable sales", "price guide", "recent sales"},
	Processes:         {"settlement", "contract", "cooling off", "auction process", "deposit"},
	Presentation:      {"this home offers", "a standout feature", "what makes this special"},
	Professionalism:   {"thank you for your time", "my pleasure", "happy to help"},
}

// SkillIndicators returns the evidence phrases for a subskill.
func SkillIndicators(subskill string) []string {
	phrases := skillIndicators[subskill]
	out := make([]string, len(phrases))
	copy(out, phrases)
	return out
}
