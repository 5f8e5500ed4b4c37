package stats_test

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/oakmontrealty/voicrm-coaching/internal/domain/model"
	"github.com/oakmontrealty/voicrm-coaching/internal/domain/stats"
)

func TestTrendFor(t *testing.T) {
	Convey("Given score histories of varying length", t, func() {
		Convey("When fewer than five calls exist", func() {
			So(stats.TrendFor(nil), ShouldEqual, model.TrendUnknown)
			So(stats.TrendFor([]int{80, 80, 80, 80}), ShouldEqual, model.TrendUnknown)
		})

		Convey("When scores climb sharply", func() {
			scores := []int{50, 52, 54, 56, 58, 75, 78, 80, 82, 85}

			So(stats.TrendFor(scores), ShouldEqual, model.TrendImproving)
		})

		Convey("When scores fall sharply", func() {
			scores := []int{85, 82, 80, 78, 75, 58, 56, 54, 52, 50}

			So(stats.TrendFor(scores), ShouldEqual, model.TrendDeclining)
		})

		Convey("When the last five match the previous five", func() {
			scores := []int{70, 70, 70, 70, 70, 71, 70, 69, 70, 70}

			So(stats.TrendFor(scores), ShouldEqual, model.TrendStable)
		})

		Convey("When exactly five calls exist", func() {
			Convey("Then the previous window is empty and the trend is stable", func() {
				So(stats.TrendFor([]int{90, 90, 90, 90, 90}), ShouldEqual, model.TrendStable)
			})
		})

		Convey("When eleven calls split five low then six high", func() {
			scores := []int{50, 50, 50, 50, 50, 90, 90, 90, 90, 90, 90}

			Convey("Then the truncated previous window still shows improvement", func() {
				So(stats.TrendFor(scores), ShouldEqual, model.TrendImproving)
			})
		})
	})
}

func TestConsistencyScore(t *testing.T) {
	Convey("Given score histories", t, func() {
		Convey("When fewer than two calls exist", func() {
			So(stats.ConsistencyScore(nil), ShouldEqual, 100)
			So(stats.ConsistencyScore([]int{73}), ShouldEqual, 100)
		})

		Convey("When every call scores the same", func() {
			So(stats.ConsistencyScore([]int{80, 80, 80, 80}), ShouldEqual, 100)
		})

		Convey("When scores swing wildly", func() {
			Convey("Then the floor is zero", func() {
				score := stats.ConsistencyScore([]int{0, 100, 0, 100, 0, 100})
				So(score, ShouldEqual, 0)
			})
		})

		Convey("When scores vary moderately", func() {
			score := stats.ConsistencyScore([]int{70, 75, 80, 85})

			Convey("Then the score lands between the extremes", func() {
				So(score, ShouldBeGreaterThan, 0)
				So(score, ShouldBeLessThan, 100)
			})
		})
	})
}

func TestImprovementRate(t *testing.T) {
	Convey("Given score histories", t, func() {
		Convey("When fewer than five calls exist", func() {
			So(stats.ImprovementRate([]int{60, 70, 80, 90}), ShouldEqual, 0)
		})

		Convey("When the second half doubles the first", func() {
			scores := []int{40, 40, 40, 80, 80, 80}

			So(stats.ImprovementRate(scores), ShouldEqual, 100)
		})

		Convey("When the halves are equal", func() {
			scores := []int{70, 70, 70, 70, 70, 70}

			So(stats.ImprovementRate(scores), ShouldEqual, 0)
		})

		Convey("When scores decline", func() {
			scores := []int{80, 80, 80, 60, 60, 60}

			So(stats.ImprovementRate(scores), ShouldEqual, -25)
		})

		Convey("When the first half averages zero", func() {
			scores := []int{0, 0, 0, 50, 50, 50}

			Convey("Then the rate is zero rather than dividing by zero", func() {
				So(stats.ImprovementRate(scores), ShouldEqual, 0)
			})
		})
	})
}
