package scoring

import "github.com/oakmontrealty/voicrm-coaching/internal/domain/model"

// gradeBand maps an inclusive lower bound to a letter grade.
type gradeBand struct {
	floor int
	grade model.Grade
}

// gradeBands in descending order. Boundaries are inclusive: a 90 is an
// A+, a 60 is a D.
var gradeBands = []gradeBand{
	{90, model.GradeAPlus},
	{85, model.GradeA},
	{80, model.GradeBPlus},
	{75, model.GradeB},
	{70, model.GradeCPlus},
	{65, model.GradeC},
	{60, model.GradeD},
}

// GradeFor buckets an overall score (0-100) into a letter grade.
func GradeFor(overallScore int) model.Grade {
	for _, band := range gradeBands {
		if overallScore >= band.floor {
			return band.grade
		}
	}
	return model.GradeF
}
