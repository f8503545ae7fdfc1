// Package scoring computes fatigue scores from feature vectors, in either
// trained-classifier mode or deterministic heuristic mode.
package scoring

import (
	"context"
	"math"

	"github.com/neurofitplus/neurofit/internal/domain/feature"
	"github.com/neurofitplus/neurofit/internal/domain/model"
)

// Risk buckets.
const (
	RiskLow    = "low"
	RiskMedium = "medium"
	RiskHigh   = "high"
)

// Risk bucket thresholds. A score in [MediumRiskThreshold, HighRiskThreshold)
// is medium; HighRiskThreshold and above is high.
const (
	MediumRiskThreshold = 33.0
	HighRiskThreshold   = 67.0
)

// Heuristic coefficients. These are the documented contract of heuristic mode:
// every term pushes the score up for low sleep, low energy, high stress, high
// typing latency, long sessions, frequent corrections, and slow or missing
// reactions. Changing any of them changes scores CI asserts on.
const (
	sleepTargetHours      = 7.0  // below this each missing hour costs sleepDeficitWeight
	sleepSurplusHours     = 9.0  // oversleep beyond this also penalized, gently
	sleepDeficitWeight    = 8.0
	sleepSurplusWeight    = 3.0
	energyScaleMax        = 10.0 // self-reported scales are 0-10
	energyWeight          = 1.5
	stressWeight          = 2.0
	latencyDivisorMS      = 50.0
	latencyPenaltyCap     = 20.0
	durationDivisorMS     = 60000.0
	durationWeight        = 2.0
	backspacePenaltyScale = 100.0
	backspacePenaltyCap   = 10.0
	reactionDivisorMS     = 40.0
	reactionPenaltyCap    = 15.0
	missedReactionPenalty = 15.0
	maxScore              = 100.0
)

// Concern thresholds driving the recommendation catalog.
const (
	lowSleepHours     = 7.0
	highLatencyMS     = 200.0
	slowReactionMS    = 400.0
	highBackspaceRate = 0.15
	probabilityScale  = 100.0
)

// Classifier is the opaque contract a trained model must satisfy. The artifact
// adapter provides the concrete implementation.
type Classifier interface {
	// ExpectedInputWidth reports the feature count the model was trained on.
	ExpectedInputWidth() int

	// PredictProba returns class probabilities for one feature vector in
	// canonical order. Index 1 is the fatigued class when two classes exist.
	PredictProba(ctx context.Context, features []float64) ([]float64, error)
}

// Result is the outcome of scoring one feature vector.
type Result struct {
	Score           float64
	RiskLevel       string
	Recommendations []string
	ModelUsed       string
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithClassifier hands the engine a loaded classifier. The engine only uses it
// when the validation outcome is trusted.
func WithClassifier(c Classifier) Option {
	return func(e *Engine) {
		e.classifier = c
	}
}

// WithModelTrusted records the startup validation outcome. When false the
// engine never consults the classifier, even if one is present.
func WithModelTrusted(trusted bool) Option {
	return func(e *Engine) {
		e.trusted = trusted
	}
}

// Engine scores feature vectors. It holds only immutable state captured at
// construction, so concurrent use needs no locking.
type Engine struct {
	classifier Classifier
	trusted    bool
}

// NewEngine creates a scoring engine with configuration options.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// UsesModel reports whether predictions will come from the trained classifier.
func (e *Engine) UsesModel() bool {
	return e.trusted && e.classifier != nil
}

// Score computes a fatigue score for the given vector. The mode actually used
// is reported verbatim in Result.ModelUsed.
func (e *Engine) Score(ctx context.Context, v feature.Vector) (Result, error) {
	if e.UsesModel() {
		score, err := e.scoreML(ctx, v)
		if err != nil {
			return Result{}, err
		}
		return e.finish(score, v, model.ModeMLModel), nil
	}
	return e.finish(HeuristicScore(v), v, model.ModeHeuristic), nil
}

func (e *Engine) finish(score float64, v feature.Vector, mode string) Result {
	score = round2(clamp(score, 0, maxScore))
	return Result{
		Score:           score,
		RiskLevel:       RiskLevel(score),
		Recommendations: Recommendations(score, v),
		ModelUsed:       mode,
	}
}

// scoreML feeds the canonical-order vector to the classifier. A width mismatch
// is a fatal per-request error; the vector is never truncated or padded.
func (e *Engine) scoreML(ctx context.Context, v feature.Vector) (float64, error) {
	values := v.Values()
	if want := e.classifier.ExpectedInputWidth(); len(values) != want {
		return 0, &ShapeMismatchError{Got: len(values), Want: want}
	}

	probs, err := e.classifier.PredictProba(ctx, values)
	if err != nil {
		return 0, err
	}
	if len(probs) == 0 {
		return 0, ErrNoProbabilities
	}

	// Probability of the positive (fatigued) class, scaled to 0-100.
	p := probs[0]
	if len(probs) >= 2 {
		p = probs[1]
	}
	return p * probabilityScale, nil
}

// HeuristicScore is the deterministic fallback formula. Same vector in, same
// score out; no randomness, so CI can assert exact values.
func HeuristicScore(v feature.Vector) float64 {
	var score float64

	switch {
	case v.SleepHours < sleepTargetHours:
		score += (sleepTargetHours - v.SleepHours) * sleepDeficitWeight
	case v.SleepHours > sleepSurplusHours:
		score += (v.SleepHours - sleepSurplusHours) * sleepSurplusWeight
	}

	score += (energyScaleMax - clamp(v.EnergyLevel, 0, energyScaleMax)) * energyWeight
	score += clamp(v.StressLevel, 0, energyScaleMax) * stressWeight
	score += math.Min(v.AvgKeyLatencyMS/latencyDivisorMS, latencyPenaltyCap)
	score += math.Min(v.TotalDurationMS/durationDivisorMS, 1) * durationWeight
	score += math.Min(v.BackspaceRate*backspacePenaltyScale, backspacePenaltyCap)

	if v.ReactionAttempted >= 1 {
		score += math.Min(v.ReactionTimeMS/reactionDivisorMS, reactionPenaltyCap)
	} else {
		score += missedReactionPenalty
	}

	return clamp(score, 0, maxScore)
}

// RiskLevel buckets a score using the documented thresholds.
func RiskLevel(score float64) string {
	switch {
	case score >= HighRiskThreshold:
		return RiskHigh
	case score >= MediumRiskThreshold:
		return RiskMedium
	default:
		return RiskLow
	}
}

// Recommendations returns the ordered advice list for a score and its
// contributing features. At least one entry is always returned.
func Recommendations(score float64, v feature.Vector) []string {
	var recs []string

	switch {
	case score >= HighRiskThreshold:
		recs = append(recs,
			"High fatigue detected - consider taking a rest day",
			"Prioritize recovery and hydration",
		)
	case score >= MediumRiskThreshold:
		recs = append(recs,
			"Moderate fatigue - consider reducing workout intensity",
			"Ensure adequate sleep and nutrition",
		)
	default:
		recs = append(recs, "Low fatigue levels - you're well recovered")
	}

	if v.SleepHours > 0 && v.SleepHours < lowSleepHours {
		recs = append(recs, "Aim for 7-9 hours of sleep for optimal recovery")
	}
	if v.AvgKeyLatencyMS > highLatencyMS {
		recs = append(recs, "Elevated typing latency detected - monitor your cognitive load")
	}
	if v.ReactionTimeMS > slowReactionMS {
		recs = append(recs, "Slower reaction times observed - ensure adequate rest")
	}
	if v.BackspaceRate > highBackspaceRate {
		recs = append(recs, "Frequent corrections detected - consider a short break")
	}

	return recs
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
