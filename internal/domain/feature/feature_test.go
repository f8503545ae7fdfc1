package feature_test

import (
	"encoding/json"
	"testing"

	"github.com/neurofitplus/neurofit/internal/domain/feature"
	"github.com/neurofitplus/neurofit/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func decodeSession(t *testing.T, payload string) model.Session {
	t.Helper()
	var s model.Session
	if err := json.Unmarshal([]byte(payload), &s); err != nil {
		t.Fatalf("failed to decode session: %v", err)
	}
	return s
}

func TestBuildShapeEquivalence(t *testing.T) {
	Convey("Given equivalent list and mapping payloads", t, func() {
		listPayload := `{
			"timestamp": "2026-01-15T08:30:00Z",
			"answers": [
				{"question_id": "sleep_hours", "value": 7},
				{"question_id": "energy_level", "value": 3},
				{"question_id": "stress_level", "value": 2}
			],
			"typing_features": {"average_latency_ms": 120, "total_duration_ms": 5000, "backspace_rate": 0.03},
			"task_performance": {"reaction_time_ms": 350, "reaction_attempted": true}
		}`
		mapPayload := `{
			"timestamp": "2026-01-15T08:30:00Z",
			"answers": {"sleep_hours": 7, "energy_level": 3, "stress_level": 2},
			"typing_features": {"average_latency_ms": 120, "total_duration_ms": 5000, "backspace_rate": 0.03},
			"task_performance": {"reaction_time_ms": 350, "reaction_attempted": true}
		}`

		Convey("When both are built", func() {
			fromList := feature.Build(decodeSession(t, listPayload))
			fromMap := feature.Build(decodeSession(t, mapPayload))

			Convey("Then the vectors are identical", func() {
				So(fromList, ShouldResemble, fromMap)
				So(fromList.Values(), ShouldResemble, []float64{7, 3, 2, 120, 5000, 0.03, 350, 1})
			})
		})
	})
}

func TestBuildDefaults(t *testing.T) {
	Convey("Given a payload with no measurement sections", t, func() {
		s := decodeSession(t, `{"timestamp": "2026-01-15T08:30:00Z", "answers": {"sleep_hours": 8}}`)

		Convey("When built", func() {
			v := feature.Build(s)

			Convey("Then missing fields default to zero and nothing fails", func() {
				So(v.SleepHours, ShouldEqual, 8)
				So(v.EnergyLevel, ShouldEqual, 0)
				So(v.StressLevel, ShouldEqual, 0)
				So(v.AvgKeyLatencyMS, ShouldEqual, 0)
				So(v.TotalDurationMS, ShouldEqual, 0)
				So(v.BackspaceRate, ShouldEqual, 0)
				So(v.ReactionTimeMS, ShouldEqual, 0)
				So(v.ReactionAttempted, ShouldEqual, 0)
			})
		})
	})

	Convey("Given a payload with unknown answer keys", t, func() {
		s := decodeSession(t, `{
			"timestamp": "2026-01-15T08:30:00Z",
			"answers": {"sleep_hours": 6, "favorite_color": 4}
		}`)

		Convey("Then unknown keys are ignored", func() {
			v := feature.Build(s)
			So(v.SleepHours, ShouldEqual, 6)
			So(v.Values(), ShouldResemble, []float64{6, 0, 0, 0, 0, 0, 0, 0})
		})
	})
}

func TestReactionAttempted(t *testing.T) {
	Convey("Given reaction signals in different forms", t, func() {
		Convey("An explicit attempted flag marks the feature", func() {
			s := decodeSession(t, `{"timestamp":"t","answers":{},"task_performance":{"reaction_attempted": true}}`)
			So(feature.Build(s).ReactionAttempted, ShouldEqual, 1)
		})

		Convey("A present reaction time marks the feature", func() {
			s := decodeSession(t, `{"timestamp":"t","answers":{},"task_performance":{"reaction_time_ms": 410}}`)
			So(feature.Build(s).ReactionAttempted, ShouldEqual, 1)
		})

		Convey("Raw reaction samples mark the feature", func() {
			s := decodeSession(t, `{"timestamp":"t","answers":{},"task_performance":{"reaction_times": [400, 420]}}`)
			So(feature.Build(s).ReactionAttempted, ShouldEqual, 1)
		})

		Convey("No signal leaves the feature at zero", func() {
			s := decodeSession(t, `{"timestamp":"t","answers":{}}`)
			So(feature.Build(s).ReactionAttempted, ShouldEqual, 0)
		})
	})
}

func TestCanonicalOrder(t *testing.T) {
	Convey("Given the canonical feature names", t, func() {
		names := feature.Names()

		Convey("Then the order matches the training contract", func() {
			So(names, ShouldResemble, []string{
				"sleep_hours",
				"energy_level",
				"stress_level",
				"avg_key_latency_ms",
				"total_duration_ms",
				"backspace_rate",
				"reaction_time_ms",
				"reaction_attempted",
			})
			So(len(names), ShouldEqual, feature.Width)
		})
	})
}
