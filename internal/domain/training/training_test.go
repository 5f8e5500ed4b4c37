package training_test

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/oakmontrealty/voicrm-coaching/internal/domain/model"
	"github.com/oakmontrealty/voicrm-coaching/internal/domain/skills"
	"github.com/oakmontrealty/voicrm-coaching/internal/domain/training"
)

func sampleAreas() []skills.TrainingArea {
	return []skills.TrainingArea{
		{Subskill: "closing", Category: "salesTechnique", Gap: 35, TotalPriority: 17.5},
		{Subskill: "discovery", Category: "salesTechnique", Gap: 20, TotalPriority: 15.5},
		{Subskill: "clarity", Category: "communication", Gap: 10, TotalPriority: 11},
	}
}

func TestBuilder_Build(t *testing.T) {
	Convey("Given a plan builder", t, func() {
		builder := training.NewBuilder()
		now := time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)

		Convey("When a monthly plan is built without a draft", func() {
			plan := builder.Build("agent-1", model.PlanMonthly, sampleAreas(), nil, now)

			Convey("Then the plan is active with four weeks", func() {
				So(plan.ID, ShouldNotBeBlank)
				So(plan.AgentID, ShouldEqual, "agent-1")
				So(plan.Status, ShouldEqual, model.PlanActive)
				So(plan.Weeks, ShouldHaveLength, 4)
				So(plan.CreatedAt, ShouldResemble, now)
			})

			Convey("And the weeks cycle through the priority areas", func() {
				So(plan.Weeks[0].FocusArea, ShouldEqual, "closing")
				So(plan.Weeks[1].FocusArea, ShouldEqual, "discovery")
				So(plan.Weeks[2].FocusArea, ShouldEqual, "clarity")
				So(plan.Weeks[3].FocusArea, ShouldEqual, "closing")
			})

			Convey("And every week gets a checkpoint", func() {
				So(plan.Progress.Checkpoints, ShouldHaveLength, 4)
				So(plan.Progress.Checkpoints[0].Week, ShouldEqual, 1)
				So(plan.Progress.Checkpoints[0].Reached, ShouldBeFalse)
				So(plan.Progress.CurrentWeek, ShouldEqual, 1)
			})

			Convey("And resource difficulty tracks gap size", func() {
				bySkill := map[string]model.Resource{}
				for _, r := range plan.Resources.Scripts {
					bySkill[r.Skill] = r
				}
				So(bySkill["closing"].Difficulty, ShouldEqual, model.DifficultyBeginner)
				So(bySkill["discovery"].Difficulty, ShouldEqual, model.DifficultyIntermediate)
				So(bySkill["clarity"].Difficulty, ShouldEqual, model.DifficultyAdvanced)
			})

			Convey("And objectives name each gap", func() {
				So(plan.Objectives, ShouldHaveLength, 3)
				So(plan.Objectives[0], ShouldContainSubstring, "closing")
			})

			Convey("And gamification starts at level one", func() {
				So(plan.Gamification.Level, ShouldEqual, 1)
				So(plan.Gamification.Points, ShouldEqual, 0)
			})
		})

		Convey("When a weekly plan is built", func() {
			plan := builder.Build("agent-1", model.PlanWeekly, sampleAreas(), nil, now)

			So(plan.Weeks, ShouldHaveLength, 1)
			So(plan.DurationKind, ShouldEqual, model.PlanWeekly)
		})

		Convey("When the generator supplied a draft", func() {
			draft := &training.Draft{
				Objectives:  []string{"Close the 35-point closing gap"},
				Assessments: []string{"Weekly scored call"},
			}
			plan := builder.Build("agent-1", model.PlanWeekly, sampleAreas(), draft, now)

			Convey("Then the draft sections win over synthesis", func() {
				So(plan.Objectives, ShouldResemble, draft.Objectives)
				So(plan.Assessments, ShouldResemble, draft.Assessments)
			})

			Convey("And empty sections are still synthesized", func() {
				So(plan.Weeks, ShouldHaveLength, 1)
				So(plan.Resources.Scripts, ShouldNotBeEmpty)
			})
		})

		Convey("When no gaps exist", func() {
			plan := builder.Build("agent-1", model.PlanWeekly, nil, nil, now)

			Convey("Then the plan falls back to general skills", func() {
				So(plan.Weeks, ShouldHaveLength, 1)
				So(plan.Weeks[0].FocusArea, ShouldEqual, "general skills")
				So(plan.Resources.Scripts, ShouldBeEmpty)
			})
		})

		Convey("When two plans are built", func() {
			first := builder.Build("agent-1", model.PlanWeekly, sampleAreas(), nil, now)
			second := builder.Build("agent-1", model.PlanWeekly, sampleAreas(), nil, now)

			So(first.ID, ShouldNotEqual, second.ID)
		})
	})
}
