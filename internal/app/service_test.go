package service_test

import (
	"context"
	"os"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/oakmontrealty/voicrm-coaching/internal/adapters/repository"
	service "github.com/oakmontrealty/voicrm-coaching/internal/app"
	"github.com/oakmontrealty/voicrm-coaching/internal/domain/analyzer"
	"github.com/oakmontrealty/voicrm-coaching/internal/domain/model"
	"github.com/oakmontrealty/voicrm-coaching/internal/domain/training"
	"github.com/oakmontrealty/voicrm-coaching/pkg/logger"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

// failingAnalyzer simulates an external service outage.
type failingAnalyzer struct{}

func (failingAnalyzer) AnalyzeCall(context.Context, analyzer.Request) (model.CallAnalysis, error) {
	return model.CallAnalysis{}, analyzer.ErrUnavailable
}

func (failingAnalyzer) AnalyzeCoaching(context.Context, analyzer.Request) (model.CoachingAnalysis, error) {
	return model.CoachingAnalysis{}, analyzer.ErrUnavailable
}

func (failingAnalyzer) GeneratePlan(context.Context, analyzer.PlanSeed) (*training.Draft, error) {
	return nil, analyzer.ErrUnavailable
}

// blockingAnalyzer parks every call until released so tests can hold the
// pipeline busy.
type blockingAnalyzer struct {
	started chan string
	release chan struct{}
}

func (b *blockingAnalyzer) AnalyzeCall(ctx context.Context, req analyzer.Request) (model.CallAnalysis, error) {
	b.started <- req.CallID
	select {
	case <-b.release:
	case <-ctx.Done():
	}
	return model.CallAnalysis{}, analyzer.ErrUnavailable
}

func (b *blockingAnalyzer) AnalyzeCoaching(context.Context, analyzer.Request) (model.CoachingAnalysis, error) {
	return model.CoachingAnalysis{}, analyzer.ErrUnavailable
}

func (b *blockingAnalyzer) GeneratePlan(context.Context, analyzer.PlanSeed) (*training.Draft, error) {
	return nil, analyzer.ErrUnavailable
}

func fastService(opts ...service.Option) *service.Service {
	base := []service.Option{
		service.WithAnalyzer(analyzer.NewSimulated(
			analyzer.WithLatencyRange(time.Millisecond, 2*time.Millisecond),
		)),
		service.WithWorkerCount(2),
	}
	return service.New(append(base, opts...)...)
}

const weakTranscript = "mmm. yes. okay. bye."

const strongClosingTranscript = "So the next step is an appointment. When works for you? " +
	"Let's schedule it now, shall we book Thursday?"

func event(callID, agentID, transcript string) model.CallEvent {
	return model.CallEvent{
		CallID:          callID,
		AgentID:         agentID,
		AgentName:       "Sarah Chen",
		Transcript:      transcript,
		DurationSeconds: 300,
		TS:              time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

func TestScoreCall(t *testing.T) {
	Convey("Given a started service", t, func() {
		ctx := context.Background()
		svc := fastService()
		So(svc.Start(ctx), ShouldBeNil)
		Reset(func() { svc.Stop(ctx) })

		Convey("When a call with no evidence phrases is scored", func() {
			result, err := svc.ScoreCall(ctx, event("call-1", "agent-001", weakTranscript))
			So(err, ShouldBeNil)

			Convey("Then every criterion lands on the base score", func() {
				So(result.OverallScore, ShouldEqual, 50)
				So(result.Grade, ShouldEqual, model.GradeF)
				So(result.CallID, ShouldEqual, "call-1")
			})

			Convey("Then the score is recorded against the agent", func() {
				report, err := svc.GetAgentReport(ctx, "agent-001")
				So(err, ShouldBeNil)
				So(report.CallCount, ShouldEqual, 1)
				So(report.AverageScore, ShouldEqual, 50)
			})

			Convey("Then the agent's profile tracks the call", func() {
				profile, err := svc.Profile(ctx, "agent-001")
				So(err, ShouldBeNil)
				So(profile.Name, ShouldEqual, "Sarah Chen")
				So(profile.HistoricalPerformance, ShouldHaveLength, 1)
				So(profile.HistoricalPerformance[0].CallID, ShouldEqual, "call-1")
			})
		})

		Convey("When a call shows strong closing evidence", func() {
			result, err := svc.ScoreCall(ctx, event("call-2", "agent-001", strongClosingTranscript))
			So(err, ShouldBeNil)

			Convey("Then the weighted score climbs above the base", func() {
				So(result.OverallScore, ShouldBeGreaterThan, 50)
				So(result.Scores["closing"], ShouldEqual, 10)
			})

			Convey("Then the profile gains closing evidence", func() {
				profile, err := svc.Profile(ctx, "agent-001")
				So(err, ShouldBeNil)
				So(profile.Skills["salesTechnique"]["closing"].Score, ShouldBeGreaterThan, 50)
			})
		})

		Convey("When the analyzer is down", func() {
			broken := fastService(service.WithAnalyzer(failingAnalyzer{}))
			So(broken.Start(ctx), ShouldBeNil)
			Reset(func() { broken.Stop(ctx) })

			_, err := broken.ScoreCall(ctx, event("call-3", "agent-001", weakTranscript))
			So(err, ShouldWrap, analyzer.ErrUnavailable)
		})
	})
}

func TestSubmitCall(t *testing.T) {
	Convey("Given a started service", t, func() {
		ctx := context.Background()
		svc := fastService()
		So(svc.Start(ctx), ShouldBeNil)
		Reset(func() { svc.Stop(ctx) })

		Convey("When the same call is submitted twice", func() {
			So(svc.SubmitCall(ctx, event("call-1", "agent-001", weakTranscript)), ShouldEqual, service.SubmitAccepted)
			So(svc.SubmitCall(ctx, event("call-1", "agent-001", weakTranscript)), ShouldEqual, service.SubmitDuplicate)
		})
	})

	Convey("Given a saturated pipeline", t, func() {
		ctx := context.Background()
		blocking := &blockingAnalyzer{
			started: make(chan string, 8),
			release: make(chan struct{}),
		}
		svc := service.New(
			service.WithAnalyzer(blocking),
			service.WithWorkerCount(1),
			service.WithQueueSize(1),
		)
		So(svc.Start(ctx), ShouldBeNil)
		Reset(func() {
			close(blocking.release)
			svc.Stop(ctx)
		})

		So(svc.SubmitCall(ctx, event("call-1", "agent-001", weakTranscript)), ShouldEqual, service.SubmitAccepted)
		select {
		case <-blocking.started:
		case <-time.After(5 * time.Second):
			So("worker never picked up the first call", ShouldBeEmpty)
		}

		So(svc.SubmitCall(ctx, event("call-2", "agent-001", weakTranscript)), ShouldEqual, service.SubmitAccepted)
		waitForQueueDepth(svc, 0)
		So(svc.SubmitCall(ctx, event("call-3", "agent-001", weakTranscript)), ShouldEqual, service.SubmitAccepted)

		Convey("When the queue is full", func() {
			result := svc.SubmitCall(ctx, event("call-4", "agent-001", weakTranscript))
			So(result, ShouldEqual, service.SubmitBackpressure)

			Convey("Then the rejected call can be resubmitted later", func() {
				So(svc.SubmitCall(ctx, event("call-4", "agent-001", weakTranscript)), ShouldNotEqual, service.SubmitDuplicate)
			})
		})
	})
}

// waitForQueueDepth polls until the dequeue side has drained to the
// expected depth.
func waitForQueueDepth(svc *service.Service, depth int) {
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if svc.OperationalStats(context.Background()).QueueDepth == depth {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestTeamLeaderboard(t *testing.T) {
	Convey("Given a service with three scored agents", t, func() {
		ctx := context.Background()
		svc := fastService(service.WithMaxLeaderboardLimit(2))
		So(svc.Start(ctx), ShouldBeNil)
		Reset(func() { svc.Stop(ctx) })

		_, err := svc.ScoreCall(ctx, event("call-1", "agent-001", strongClosingTranscript))
		So(err, ShouldBeNil)
		_, err = svc.ScoreCall(ctx, event("call-2", "agent-002", weakTranscript))
		So(err, ShouldBeNil)
		_, err = svc.ScoreCall(ctx, event("call-3", "agent-003", weakTranscript))
		So(err, ShouldBeNil)

		Convey("When a large limit is requested", func() {
			entries, err := svc.TeamLeaderboard(ctx, 50)
			So(err, ShouldBeNil)

			Convey("Then the configured maximum clamps the result", func() {
				So(entries, ShouldHaveLength, 2)
				So(entries[0].AgentID, ShouldEqual, "agent-001")
			})
		})

		Convey("When no limit is given", func() {
			entries, err := svc.TeamLeaderboard(ctx, 0)
			So(err, ShouldBeNil)
			So(entries, ShouldHaveLength, 2)
		})
	})
}

func TestGenerateCoaching(t *testing.T) {
	Convey("Given a started service", t, func() {
		ctx := context.Background()
		svc := fastService()
		So(svc.Start(ctx), ShouldBeNil)
		Reset(func() { svc.Stop(ctx) })

		Convey("When coaching is generated for an ended call", func() {
			response, err := svc.GenerateCoaching(ctx, event("call-1", "agent-001", weakTranscript), false)
			So(err, ShouldBeNil)

			Convey("Then the response carries interventions without real-time ones", func() {
				So(response.Fallback, ShouldBeFalse)
				So(response.Interventions, ShouldNotBeEmpty)
				for _, rec := range response.Interventions {
					So(rec.Type, ShouldNotEqual, model.InterventionImmediate)
				}
			})

			Convey("Then the interventions are persisted on the profile", func() {
				profile, err := svc.Profile(ctx, "agent-001")
				So(err, ShouldBeNil)
				So(profile.Interventions, ShouldHaveLength, len(response.Interventions))
			})
		})

		Convey("When the analyzer fails", func() {
			broken := fastService(service.WithAnalyzer(failingAnalyzer{}))
			So(broken.Start(ctx), ShouldBeNil)
			Reset(func() { broken.Stop(ctx) })

			response, err := broken.GenerateCoaching(ctx, event("call-2", "agent-001", weakTranscript), true)

			Convey("Then the failure is surfaced alongside a generic follow-up", func() {
				So(err, ShouldWrap, analyzer.ErrUnavailable)
				So(response.Fallback, ShouldBeTrue)
				So(response.Urgency, ShouldEqual, model.UrgencyLow)
				So(response.Interventions, ShouldHaveLength, 1)
				So(response.Interventions[0].Type, ShouldEqual, model.InterventionPostCall)
			})

			Convey("Then the fallback record is persisted despite the failure", func() {
				profile, perr := broken.Profile(ctx, "agent-001")
				So(perr, ShouldBeNil)
				So(profile.Interventions, ShouldHaveLength, 1)
			})
		})
	})
}

func TestCreateTrainingPlan(t *testing.T) {
	Convey("Given a started service", t, func() {
		ctx := context.Background()
		svc := fastService()
		So(svc.Start(ctx), ShouldBeNil)
		Reset(func() { svc.Stop(ctx) })

		Convey("When a weekly plan is created for a new agent", func() {
			plan, err := svc.CreateTrainingPlan(ctx, "agent-001", model.PlanWeekly)
			So(err, ShouldBeNil)

			Convey("Then the plan targets the agent's baseline gaps", func() {
				So(plan.AgentID, ShouldEqual, "agent-001")
				So(plan.Status, ShouldEqual, model.PlanActive)
				So(plan.Weeks, ShouldHaveLength, 1)
				So(plan.Objectives, ShouldNotBeEmpty)
			})

			Convey("Then the plan is retrievable and active", func() {
				got, err := svc.TrainingPlan(ctx, plan.ID)
				So(err, ShouldBeNil)
				So(got.ID, ShouldEqual, plan.ID)

				active, err := svc.ActiveTrainingPlan(ctx, "agent-001")
				So(err, ShouldBeNil)
				So(active.ID, ShouldEqual, plan.ID)

				profile, err := svc.Profile(ctx, "agent-001")
				So(err, ShouldBeNil)
				So(profile.ActiveTrainingPlanID, ShouldEqual, plan.ID)
			})

			Convey("When a second plan is created", func() {
				monthly, err := svc.CreateTrainingPlan(ctx, "agent-001", model.PlanMonthly)
				So(err, ShouldBeNil)
				So(monthly.Weeks, ShouldHaveLength, 4)

				Convey("Then the first plan is superseded", func() {
					old, err := svc.TrainingPlan(ctx, plan.ID)
					So(err, ShouldBeNil)
					So(old.Status, ShouldEqual, model.PlanCompleted)

					active, err := svc.ActiveTrainingPlan(ctx, "agent-001")
					So(err, ShouldBeNil)
					So(active.ID, ShouldEqual, monthly.ID)

					plans, err := svc.AgentTrainingPlans(ctx, "agent-001")
					So(err, ShouldBeNil)
					So(plans, ShouldHaveLength, 2)
					So(plans[0].ID, ShouldEqual, monthly.ID)
				})
			})
		})

		Convey("When the duration is invalid", func() {
			_, err := svc.CreateTrainingPlan(ctx, "agent-001", "fortnightly")
			So(err, ShouldWrap, service.ErrInvalidPlanDuration)
		})

		Convey("When the plan generator is down", func() {
			broken := fastService(service.WithAnalyzer(failingAnalyzer{}))
			So(broken.Start(ctx), ShouldBeNil)
			Reset(func() { broken.Stop(ctx) })

			plan, err := broken.CreateTrainingPlan(ctx, "agent-001", model.PlanWeekly)
			So(err, ShouldBeNil)

			Convey("Then a locally synthesized plan is still produced", func() {
				So(plan.Status, ShouldEqual, model.PlanActive)
				So(plan.Weeks, ShouldHaveLength, 1)
				So(plan.Objectives, ShouldNotBeEmpty)
			})
		})
	})
}

func TestRecordCoachingInteraction(t *testing.T) {
	Convey("Given an agent with an active plan", t, func() {
		ctx := context.Background()
		svc := fastService()
		So(svc.Start(ctx), ShouldBeNil)
		Reset(func() { svc.Stop(ctx) })

		plan, err := svc.CreateTrainingPlan(ctx, "agent-001", model.PlanWeekly)
		So(err, ShouldBeNil)

		Convey("When a coaching interaction is recorded", func() {
			profile, err := svc.RecordCoachingInteraction(ctx, "agent-001", model.CoachingInteraction{
				Topic:           "closing role-play",
				SkillsAddressed: []string{"closing"},
				CompletedAt:     time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
			})
			So(err, ShouldBeNil)

			Convey("Then the addressed skills gain confidence", func() {
				So(profile.Skills["salesTechnique"]["closing"].Confidence, ShouldEqual, 12)
			})

			Convey("Then the active plan advances", func() {
				got, err := svc.TrainingPlan(ctx, plan.ID)
				So(err, ShouldBeNil)
				So(got.Progress.CompletedActivities, ShouldResemble, []string{"closing role-play"})
				So(got.Progress.OverallProgressPct, ShouldBeGreaterThan, 0)
				So(got.Gamification.Points, ShouldEqual, 10)
				So(got.Gamification.Streak, ShouldEqual, 1)
			})

			Convey("Then repeating the same topic does not double count", func() {
				_, err := svc.RecordCoachingInteraction(ctx, "agent-001", model.CoachingInteraction{
					Topic:           "closing role-play",
					SkillsAddressed: []string{"closing"},
					CompletedAt:     time.Date(2026, 3, 3, 10, 0, 0, 0, time.UTC),
				})
				So(err, ShouldBeNil)

				got, err := svc.TrainingPlan(ctx, plan.ID)
				So(err, ShouldBeNil)
				So(got.Progress.CompletedActivities, ShouldHaveLength, 1)
			})
		})
	})

	Convey("Given an agent without a plan", t, func() {
		ctx := context.Background()
		svc := fastService()
		So(svc.Start(ctx), ShouldBeNil)
		Reset(func() { svc.Stop(ctx) })

		Convey("Then recording an interaction still updates the profile", func() {
			profile, err := svc.RecordCoachingInteraction(ctx, "agent-002", model.CoachingInteraction{
				SkillsAddressed: []string{"discovery"},
			})
			So(err, ShouldBeNil)
			So(profile.Skills["salesTechnique"]["discovery"].Confidence, ShouldEqual, 12)
		})
	})
}

func TestGetAgentReport(t *testing.T) {
	Convey("Given an agent with mixed results", t, func() {
		ctx := context.Background()
		svc := fastService()
		So(svc.Start(ctx), ShouldBeNil)
		Reset(func() { svc.Stop(ctx) })

		weak, err := svc.ScoreCall(ctx, event("call-weak", "agent-001", weakTranscript))
		So(err, ShouldBeNil)
		strong, err := svc.ScoreCall(ctx, event("call-strong", "agent-001", strongClosingTranscript))
		So(err, ShouldBeNil)

		Convey("When the report is assembled", func() {
			report, err := svc.GetAgentReport(ctx, "agent-001")
			So(err, ShouldBeNil)

			Convey("Then best and worst calls are identified", func() {
				So(report.CallCount, ShouldEqual, 2)
				So(report.BestCall.CallID, ShouldEqual, "call-strong")
				So(report.BestCall.Score, ShouldEqual, strong.OverallScore)
				So(report.WorstCall.CallID, ShouldEqual, "call-weak")
				So(report.WorstCall.Score, ShouldEqual, weak.OverallScore)
			})

			Convey("Then derived statistics are present", func() {
				So(report.AverageScore, ShouldBeBetween, float64(weak.OverallScore), float64(strong.OverallScore))
				So(report.ConsistencyScore, ShouldBeBetween, 0, 100)
				So(report.Trend, ShouldEqual, model.TrendUnknown)
			})
		})

		Convey("When an unknown agent is requested", func() {
			_, err := svc.GetAgentReport(ctx, "agent-404")
			So(err, ShouldWrap, repository.ErrAgentNotFound)
		})
	})
}

func TestOperationalStats(t *testing.T) {
	Convey("Given an idle started service", t, func() {
		ctx := context.Background()
		svc := fastService(service.WithWorkerCount(3), service.WithDedupeSize(64))
		So(svc.Start(ctx), ShouldBeNil)
		Reset(func() { svc.Stop(ctx) })

		stats := svc.OperationalStats(ctx)
		So(stats.TrackedAgents, ShouldEqual, 0)
		So(stats.QueueDepth, ShouldEqual, 0)
		So(stats.DedupeSize, ShouldEqual, 0)
		So(stats.WorkerCount, ShouldEqual, 3)

		Convey("When calls flow through", func() {
			_, err := svc.ScoreCall(ctx, event("call-1", "agent-001", weakTranscript))
			So(err, ShouldBeNil)
			So(svc.SubmitCall(ctx, event("call-2", "agent-001", weakTranscript)), ShouldEqual, service.SubmitAccepted)

			stats := svc.OperationalStats(ctx)
			So(stats.TrackedAgents, ShouldEqual, 1)
			So(stats.DedupeSize, ShouldEqual, 1)
		})
	})
}
