package scoring_test

import (
	"context"
	"errors"
	"testing"

	"github.com/neurofitplus/neurofit/internal/domain/feature"
	"github.com/neurofitplus/neurofit/internal/domain/model"
	"github.com/neurofitplus/neurofit/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

// stubClassifier returns canned probabilities for a fixed input width.
type stubClassifier struct {
	width int
	probs []float64
	err   error
	seen  []float64
}

func (s *stubClassifier) ExpectedInputWidth() int { return s.width }

func (s *stubClassifier) PredictProba(_ context.Context, features []float64) ([]float64, error) {
	s.seen = features
	if s.err != nil {
		return nil, s.err
	}
	return s.probs, nil
}

// scenarioA is the reference payload used across the test suite.
func scenarioA() feature.Vector {
	return feature.Vector{
		SleepHours:        7,
		EnergyLevel:       3,
		StressLevel:       2,
		AvgKeyLatencyMS:   120,
		TotalDurationMS:   5000,
		BackspaceRate:     0.03,
		ReactionTimeMS:    350,
		ReactionAttempted: 1,
	}
}

func TestHeuristicScore(t *testing.T) {
	Convey("Given the heuristic formula", t, func() {
		Convey("When scoring the reference vector twice", func() {
			a := scoring.HeuristicScore(scenarioA())
			b := scoring.HeuristicScore(scenarioA())

			Convey("Then the result is pure and deterministic", func() {
				So(a, ShouldEqual, b)
				So(a, ShouldBeGreaterThanOrEqualTo, 0)
				So(a, ShouldBeLessThanOrEqualTo, 100)
			})
		})

		Convey("When a single feature worsens, the score never drops", func() {
			base := scoring.HeuristicScore(scenarioA())

			worse := scenarioA()
			worse.SleepHours = 4
			So(scoring.HeuristicScore(worse), ShouldBeGreaterThan, base)

			worse = scenarioA()
			worse.EnergyLevel = 1
			So(scoring.HeuristicScore(worse), ShouldBeGreaterThan, base)

			worse = scenarioA()
			worse.StressLevel = 9
			So(scoring.HeuristicScore(worse), ShouldBeGreaterThan, base)

			worse = scenarioA()
			worse.AvgKeyLatencyMS = 400
			So(scoring.HeuristicScore(worse), ShouldBeGreaterThan, base)

			worse = scenarioA()
			worse.BackspaceRate = 0.3
			So(scoring.HeuristicScore(worse), ShouldBeGreaterThan, base)

			worse = scenarioA()
			worse.ReactionTimeMS = 600
			So(scoring.HeuristicScore(worse), ShouldBeGreaterThan, base)

			worse = scenarioA()
			worse.ReactionAttempted = 0
			worse.ReactionTimeMS = 0
			So(scoring.HeuristicScore(worse), ShouldBeGreaterThan, base)
		})

		Convey("When every feature is at its worst, the score clamps at 100", func() {
			v := feature.Vector{
				SleepHours:        0,
				EnergyLevel:       0,
				StressLevel:       10,
				AvgKeyLatencyMS:   5000,
				TotalDurationMS:   600000,
				BackspaceRate:     1,
				ReactionTimeMS:    5000,
				ReactionAttempted: 0,
			}
			So(scoring.HeuristicScore(v), ShouldEqual, 100)
		})
	})
}

func TestRiskLevelBoundaries(t *testing.T) {
	Convey("Given the documented risk thresholds", t, func() {
		Convey("Then bucketing is exact at the boundaries", func() {
			So(scoring.RiskLevel(0), ShouldEqual, scoring.RiskLow)
			So(scoring.RiskLevel(32.999), ShouldEqual, scoring.RiskLow)
			So(scoring.RiskLevel(33.0), ShouldEqual, scoring.RiskMedium)
			So(scoring.RiskLevel(66.999), ShouldEqual, scoring.RiskMedium)
			So(scoring.RiskLevel(67.0), ShouldEqual, scoring.RiskHigh)
			So(scoring.RiskLevel(100), ShouldEqual, scoring.RiskHigh)
		})

		Convey("And the thresholds are the exported constants", func() {
			So(scoring.MediumRiskThreshold, ShouldEqual, 33.0)
			So(scoring.HighRiskThreshold, ShouldEqual, 67.0)
		})
	})
}

func TestRecommendations(t *testing.T) {
	Convey("Given the recommendation catalog", t, func() {
		Convey("A low score always yields at least one entry", func() {
			recs := scoring.Recommendations(10, feature.Vector{SleepHours: 8})
			So(len(recs), ShouldBeGreaterThanOrEqualTo, 1)
			So(recs[0], ShouldContainSubstring, "well recovered")
		})

		Convey("Feature cues append in deterministic order", func() {
			v := feature.Vector{
				SleepHours:      5,
				AvgKeyLatencyMS: 250,
				ReactionTimeMS:  450,
				BackspaceRate:   0.2,
			}
			recs := scoring.Recommendations(70, v)
			So(recs[0], ShouldContainSubstring, "High fatigue")
			So(recs[1], ShouldContainSubstring, "recovery and hydration")
			So(recs[2], ShouldContainSubstring, "7-9 hours of sleep")
			So(recs[3], ShouldContainSubstring, "typing latency")
			So(recs[4], ShouldContainSubstring, "reaction times")
			So(recs[5], ShouldContainSubstring, "corrections")
		})

		Convey("Identical inputs yield identical lists", func() {
			v := scenarioA()
			So(scoring.Recommendations(40, v), ShouldResemble, scoring.Recommendations(40, v))
		})
	})
}

func TestEngineHeuristicMode(t *testing.T) {
	Convey("Given an engine without a usable classifier", t, func() {
		engine := scoring.NewEngine()

		Convey("When scoring the reference vector", func() {
			res, err := engine.Score(context.Background(), scenarioA())

			Convey("Then it reports heuristic mode with a deterministic score", func() {
				So(err, ShouldBeNil)
				So(res.ModelUsed, ShouldEqual, model.ModeHeuristic)
				So(res.Score, ShouldEqual, 28.82)
				So(res.RiskLevel, ShouldEqual, scoring.RiskLow)
				So(len(res.Recommendations), ShouldBeGreaterThanOrEqualTo, 1)
			})
		})
	})

	Convey("Given a classifier that failed validation", t, func() {
		clf := &stubClassifier{width: 8, probs: []float64{0.1, 0.9}}
		engine := scoring.NewEngine(
			scoring.WithClassifier(clf),
			scoring.WithModelTrusted(false),
		)

		Convey("When scoring", func() {
			res, err := engine.Score(context.Background(), scenarioA())

			Convey("Then the classifier is never consulted", func() {
				So(err, ShouldBeNil)
				So(res.ModelUsed, ShouldEqual, model.ModeHeuristic)
				So(clf.seen, ShouldBeNil)
			})
		})
	})
}

func TestEngineMLMode(t *testing.T) {
	Convey("Given an engine with a trusted classifier", t, func() {
		clf := &stubClassifier{width: 8, probs: []float64{0.28, 0.72}}
		engine := scoring.NewEngine(
			scoring.WithClassifier(clf),
			scoring.WithModelTrusted(true),
		)

		Convey("When scoring", func() {
			res, err := engine.Score(context.Background(), scenarioA())

			Convey("Then the positive-class probability scales to 0-100", func() {
				So(err, ShouldBeNil)
				So(res.ModelUsed, ShouldEqual, model.ModeMLModel)
				So(res.Score, ShouldEqual, 72)
				So(res.RiskLevel, ShouldEqual, scoring.RiskHigh)
				So(clf.seen, ShouldResemble, scenarioA().Values())
			})
		})

		Convey("When the classifier exposes a single probability", func() {
			single := &stubClassifier{width: 8, probs: []float64{0.4}}
			engine := scoring.NewEngine(
				scoring.WithClassifier(single),
				scoring.WithModelTrusted(true),
			)
			res, err := engine.Score(context.Background(), scenarioA())

			Convey("Then it is used directly", func() {
				So(err, ShouldBeNil)
				So(res.Score, ShouldEqual, 40)
			})
		})

		Convey("When the classifier returns no probabilities", func() {
			empty := &stubClassifier{width: 8, probs: []float64{}}
			engine := scoring.NewEngine(
				scoring.WithClassifier(empty),
				scoring.WithModelTrusted(true),
			)
			_, err := engine.Score(context.Background(), scenarioA())

			Convey("Then scoring fails", func() {
				So(errors.Is(err, scoring.ErrNoProbabilities), ShouldBeTrue)
			})
		})
	})
}

func TestShapeMismatch(t *testing.T) {
	Convey("Given a classifier trained on a different width", t, func() {
		clf := &stubClassifier{width: 7, probs: []float64{0.5, 0.5}}
		engine := scoring.NewEngine(
			scoring.WithClassifier(clf),
			scoring.WithModelTrusted(true),
		)

		Convey("When scoring an 8-wide vector", func() {
			_, err := engine.Score(context.Background(), scenarioA())

			Convey("Then the error names both widths and is never coerced", func() {
				So(err, ShouldNotBeNil)
				So(scoring.IsShapeMismatch(err), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "8")
				So(err.Error(), ShouldContainSubstring, "7")
				So(clf.seen, ShouldBeNil)
			})
		})
	})
}
