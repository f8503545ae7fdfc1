package testsessions

import (
	"context"
	"fmt"
	"log"
)

// Risk bucket thresholds mirrored from the service contract.
const (
	mediumThreshold = 33.0
	highThreshold   = 67.0
)

// verifyPredictions checks the response invariants every prediction must hold:
// score range, bucket consistency, non-empty recommendations and a uniform
// scoring mode across the run.
func verifyPredictions(ctx context.Context, predictions []Prediction, stats *Stats) error {
	log.Println("verifying predictions...")

	if len(predictions) == 0 {
		return fmt.Errorf("no predictions to verify")
	}

	mode := predictions[0].ModelUsed
	violations := 0

	for i, p := range predictions {
		if err := verifySinglePrediction(p); err != nil {
			violations++
			log.Printf("invariant violation in prediction %d: %v", i, err)
			continue
		}
		if p.ModelUsed != mode {
			violations++
			log.Printf("mixed scoring modes in one run: %q and %q", mode, p.ModelUsed)
		}
	}

	stats.InvariantViolations = violations
	if violations > 0 {
		return fmt.Errorf("%d of %d predictions violated invariants", violations, len(predictions))
	}

	log.Printf("all %d predictions verified (mode: %s)", len(predictions), mode)
	return nil
}

// verifySinglePrediction validates one prediction against the API contract.
func verifySinglePrediction(p Prediction) error {
	if p.FatigueScore < 0 || p.FatigueScore > 100 {
		return fmt.Errorf("fatigue_score %.2f out of range", p.FatigueScore)
	}

	expected := riskFor(p.FatigueScore)
	if p.RiskLevel != expected {
		return fmt.Errorf("risk_level %q inconsistent with score %.2f (expected %q)",
			p.RiskLevel, p.FatigueScore, expected)
	}

	if len(p.Recommendations) == 0 {
		return fmt.Errorf("empty recommendations for score %.2f", p.FatigueScore)
	}

	switch p.ModelUsed {
	case "ml_model", "heuristic":
	default:
		return fmt.Errorf("unknown model_used %q", p.ModelUsed)
	}

	if p.Timestamp == "" {
		return fmt.Errorf("missing timestamp")
	}
	return nil
}

// riskFor maps a score to its bucket.
func riskFor(score float64) string {
	switch {
	case score >= highThreshold:
		return "high"
	case score >= mediumThreshold:
		return "medium"
	default:
		return "low"
	}
}

// displayScoreDistribution logs a summary of how scores spread over buckets.
func displayScoreDistribution(predictions []Prediction) {
	if len(predictions) == 0 {
		return
	}

	buckets := map[string]int{}
	var sum, maxScore float64
	minScore := 100.0

	for _, p := range predictions {
		buckets[p.RiskLevel]++
		sum += p.FatigueScore
		if p.FatigueScore > maxScore {
			maxScore = p.FatigueScore
		}
		if p.FatigueScore < minScore {
			minScore = p.FatigueScore
		}
	}

	log.Printf(`score distribution:
   Low: %d  Medium: %d  High: %d
   Average: %.2f  Minimum: %.2f  Maximum: %.2f
`, buckets["low"], buckets["medium"], buckets["high"],
		sum/float64(len(predictions)), minScore, maxScore)
}
