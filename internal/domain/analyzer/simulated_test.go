package analyzer_test

import (
	"context"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/oakmontrealty/voicrm-coaching/internal/domain/analyzer"
	"github.com/oakmontrealty/voicrm-coaching/internal/domain/catalog"
	"github.com/oakmontrealty/voicrm-coaching/internal/domain/skills"
)

func fastAnalyzer() *analyzer.Simulated {
	return analyzer.NewSimulated(analyzer.WithLatencyRange(time.Millisecond, 2*time.Millisecond))
}

func TestAnalyzeCall(t *testing.T) {
	Convey("Given a simulated transcript analyzer", t, func() {
		a := fastAnalyzer()
		ctx := context.Background()

		Convey("When the transcript carries no evidence phrases", func() {
			got, err := a.AnalyzeCall(ctx, analyzer.Request{
				CallID:     "call-1",
				AgentID:    "agent-001",
				Transcript: "mmm. yes. okay. bye.",
			})
			So(err, ShouldBeNil)

			Convey("Then every criterion sits at the base score", func() {
				So(got.RawScores, ShouldHaveLength, 10)
				for _, c := range catalog.Criteria() {
					So(got.RawScores[c.Key], ShouldEqual, 5)
				}
			})

			Convey("Then every criterion is flagged as weak", func() {
				So(got.StrengthsHint, ShouldBeEmpty)
				So(got.WeaknessesHint, ShouldHaveLength, 10)
				So(got.Sentiment.CustomerSentiment, ShouldEqual, "neutral")
			})
		})

		Convey("When the transcript shows strong discovery evidence", func() {
			transcript := "Good morning, this is Sarah calling from Oakmont Realty. " +
				"Tell me about what are you looking for and your budget. How soon are you planning to move?"
			got, err := a.AnalyzeCall(ctx, analyzer.Request{
				CallID:     "call-2",
				AgentID:    "agent-001",
				Transcript: transcript,
			})
			So(err, ShouldBeNil)

			Convey("Then the matching criteria climb by two per cue", func() {
				So(got.RawScores[catalog.Discovery], ShouldEqual, 10)
				So(got.RawScores[catalog.Rapport], ShouldEqual, 5)
				So(got.RawScores[catalog.Closing], ShouldEqual, 5)
			})

			Convey("Then hints split around the evidence", func() {
				So(got.StrengthsHint, ShouldContain, catalog.Discovery)
				So(got.WeaknessesHint, ShouldContain, catalog.Closing)
				So(got.WeaknessesHint, ShouldNotContain, catalog.Discovery)
			})

			Convey("Then the same transcript scores identically on repeat", func() {
				again, err := a.AnalyzeCall(ctx, analyzer.Request{
					CallID:     "call-2",
					AgentID:    "agent-001",
					Transcript: transcript,
				})
				So(err, ShouldBeNil)
				So(again.RawScores, ShouldResemble, got.RawScores)
			})
		})

		Convey("When evidence is overwhelming", func() {
			transcript := "next step next step appointment appointment when works let's schedule shall we book"
			got, err := a.AnalyzeCall(ctx, analyzer.Request{CallID: "call-3", Transcript: transcript})
			So(err, ShouldBeNil)

			Convey("Then the criterion score is capped", func() {
				So(got.RawScores[catalog.Closing], ShouldEqual, 10)
			})
		})

		Convey("When the context is already cancelled", func() {
			cancelled, cancel := context.WithCancel(ctx)
			cancel()

			_, err := a.AnalyzeCall(cancelled, analyzer.Request{CallID: "call-4"})
			So(err, ShouldWrap, analyzer.ErrUnavailable)
		})
	})
}

func TestAnalyzeCoaching(t *testing.T) {
	Convey("Given a simulated transcript analyzer", t, func() {
		a := fastAnalyzer()
		ctx := context.Background()

		Convey("When the transcript makes a prohibited promise", func() {
			got, err := a.AnalyzeCoaching(ctx, analyzer.Request{
				CallID:     "call-1",
				AgentID:    "agent-001",
				Transcript: "I guarantee this house will double in value, it's completely risk-free.",
			})
			So(err, ShouldBeNil)

			Convey("Then serious concerns are raised for each phrase", func() {
				So(got.SeriousConcerns, ShouldHaveLength, 2)
				So(got.SeriousConcerns[0], ShouldContainSubstring, "guarantee")
				So(got.SeriousConcerns[1], ShouldContainSubstring, "risk-free")
			})
		})

		Convey("When evidence is uneven across criteria", func() {
			transcript := "Good question. What are you looking for, and how soon do you need to move?"
			got, err := a.AnalyzeCoaching(ctx, analyzer.Request{CallID: "call-2", Transcript: transcript})
			So(err, ShouldBeNil)

			Convey("Then unevidenced criteria become gentle suggestions", func() {
				var gentle []string
				for _, item := range got.GentleSuggestions {
					gentle = append(gentle, item.Category)
				}
				So(gentle, ShouldContain, catalog.Closing)
				So(gentle, ShouldNotContain, catalog.Discovery)
			})

			Convey("Then weak criteria appear as skill gaps", func() {
				So(got.SkillGaps, ShouldContain, catalog.Closing)
				So(got.SkillGaps, ShouldNotContain, catalog.Discovery)
			})

			Convey("Then a post-call debrief is always offered", func() {
				So(got.PostCallCoaching, ShouldHaveLength, 1)
				So(got.PostCallCoaching[0].Title, ShouldEqual, "Call debrief")
			})
		})
	})
}

func TestGeneratePlan(t *testing.T) {
	Convey("Given a simulated transcript analyzer", t, func() {
		a := fastAnalyzer()

		Convey("When a plan is drafted from priority areas", func() {
			draft, err := a.GeneratePlan(context.Background(), analyzer.PlanSeed{
				AgentID: "agent-001",
				PriorityAreas: []skills.TrainingArea{
					{Subskill: "closing", Category: "salesTechnique", Gap: 35},
					{Subskill: "discovery", Category: "salesTechnique", Gap: 20},
				},
			})
			So(err, ShouldBeNil)

			Convey("Then one objective is drafted per area", func() {
				So(draft.Objectives, ShouldHaveLength, 2)
				So(draft.Objectives[0], ShouldContainSubstring, "closing")
				So(draft.Objectives[0], ShouldContainSubstring, "35-point")
				So(draft.Weeks, ShouldBeEmpty)
			})
		})

		Convey("When the caller has given up waiting", func() {
			cancelled, cancel := context.WithCancel(context.Background())
			cancel()

			_, err := a.GeneratePlan(cancelled, analyzer.PlanSeed{AgentID: "agent-001"})
			So(err, ShouldWrap, analyzer.ErrUnavailable)
		})
	})
}
