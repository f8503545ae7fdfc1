// Package feature turns raw session payloads into the fixed-order numeric
// vector the classifier was trained against.
package feature

import (
	"github.com/neurofitplus/neurofit/internal/domain/model"
)

// Width is the number of dimensions in a Vector.
const Width = 8

// Names is the canonical feature order. It is a wire contract between this
// builder and any trained classifier: reordering is a breaking change that
// requires a new model manifest.
func Names() []string {
	return []string{
		"sleep_hours",
		"energy_level",
		"stress_level",
		"avg_key_latency_ms",
		"total_duration_ms",
		"backspace_rate",
		"reaction_time_ms",
		"reaction_attempted",
	}
}

// Vector is an ordered 8-dimensional feature vector.
type Vector struct {
	SleepHours        float64
	EnergyLevel       float64
	StressLevel       float64
	AvgKeyLatencyMS   float64
	TotalDurationMS   float64
	BackspaceRate     float64
	ReactionTimeMS    float64
	ReactionAttempted float64
}

// Values emits the vector in canonical order.
func (v Vector) Values() []float64 {
	return []float64{
		v.SleepHours,
		v.EnergyLevel,
		v.StressLevel,
		v.AvgKeyLatencyMS,
		v.TotalDurationMS,
		v.BackspaceRate,
		v.ReactionTimeMS,
		v.ReactionAttempted,
	}
}

// Build extracts a Vector from a session payload. It is a total function:
// missing or malformed fields have already been coerced to zero by the model
// layer, and unknown answer keys are simply never read.
func Build(s model.Session) Vector {
	attempted := 0.0
	if bool(s.TaskPerformance.ReactionAttempted) ||
		float64(s.TaskPerformance.ReactionTimeMS) > 0 ||
		len(s.TaskPerformance.ReactionTimes) > 0 {
		attempted = 1.0
	}

	return Vector{
		SleepHours:        s.Answers.Value(model.QuestionSleepHours),
		EnergyLevel:       s.Answers.Value(model.QuestionEnergyLevel),
		StressLevel:       s.Answers.Value(model.QuestionStressLevel),
		AvgKeyLatencyMS:   float64(s.TypingFeatures.AverageLatencyMS),
		TotalDurationMS:   float64(s.TypingFeatures.TotalDurationMS),
		BackspaceRate:     float64(s.TypingFeatures.BackspaceRate),
		ReactionTimeMS:    float64(s.TaskPerformance.ReactionTimeMS),
		ReactionAttempted: attempted,
	}
}
