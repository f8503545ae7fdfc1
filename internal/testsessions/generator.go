package testsessions

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/neurofitplus/neurofit/pkg/logger"
)

// Constants for random number generation.
const (
	randomFloatDivisor = 1000000
	profileDivisor     = 5
)

// Constants for session profile ranges.
const (
	restedSleepMin     = 7.0
	restedSleepRange   = 2.0
	restedEnergyMin    = 7.0
	restedEnergyRange  = 3.0
	restedStressMax    = 3.0
	tiredSleepMin      = 3.0
	tiredSleepRange    = 3.0
	tiredEnergyMax     = 4.0
	tiredStressMin     = 5.0
	tiredStressRange   = 4.0
	latencyBaseMS      = 80.0
	latencyRangeMS     = 250.0
	durationBaseMS     = 30000.0
	durationRangeMS    = 270000.0
	backspaceRange     = 0.3
	reactionBaseMS     = 200.0
	reactionRangeMS    = 500.0
	missedReactionRate = 0.1
)

// Constants for session profile cases.
const (
	caseRested = iota
	caseTired
	caseStressed
	caseOvertrained
	caseRandom
)

// getRandomFloat returns a random float64 between 0.0 and 1.0 using crypto/rand.
func getRandomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

// generateSessions creates the specified number of sessions with unique user IDs.
func generateSessions(ctx context.Context, config *Config, stats *Stats) ([]Session, error) {
	logger.Get().Info(ctx, "generating sessions with unique user IDs", logger.Int("numSessions", config.NumSessions))

	sessions := make([]Session, config.NumSessions)

	userIDs := make([]string, config.NumSessions)
	for i := 0; i < config.NumSessions; i++ {
		userIDs[i] = uuid.New().String()
	}

	type sessionResult struct {
		index   int
		session Session
		err     error
	}

	resultChan := make(chan sessionResult, config.NumSessions)

	workerCount := minInt(config.Workers, config.NumSessions)
	sessionsPerWorker := config.NumSessions / workerCount

	for worker := 0; worker < workerCount; worker++ {
		start := worker * sessionsPerWorker
		end := start + sessionsPerWorker
		if worker == workerCount-1 {
			end = config.NumSessions
		}

		go func(start, end int) {
			for i := start; i < end; i++ {
				select {
				case <-ctx.Done():
					resultChan <- sessionResult{index: i, err: ctx.Err()}
					return
				default:
					resultChan <- sessionResult{index: i, session: generateSingleSession(userIDs[i])}
				}
			}
		}(start, end)
	}

	for i := 0; i < config.NumSessions; i++ {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("context cancelled during session generation: %w", ctx.Err())
		case result := <-resultChan:
			if result.err != nil {
				return nil, fmt.Errorf("failed to generate session %d: %w", result.index, result.err)
			}
			sessions[result.index] = result.session
		}
	}

	stats.SessionsGenerated = len(sessions)
	logger.Get().Info(ctx, "generated sessions successfully", logger.Int("count", len(sessions)))

	return sessions, nil
}

// generateSingleSession creates one session for the given user ID, drawn from
// a varied distribution of fatigue profiles.
func generateSingleSession(userID string) Session {
	profile, _ := rand.Int(rand.Reader, big.NewInt(profileDivisor))

	var sleep, energy, stress float64
	switch profile.Int64() {
	case caseRested:
		sleep = restedSleepMin + getRandomFloat()*restedSleepRange
		energy = restedEnergyMin + getRandomFloat()*restedEnergyRange
		stress = getRandomFloat() * restedStressMax
	case caseTired:
		sleep = tiredSleepMin + getRandomFloat()*tiredSleepRange
		energy = getRandomFloat() * tiredEnergyMax
		stress = tiredStressMin + getRandomFloat()*tiredStressRange
	case caseStressed:
		sleep = restedSleepMin + getRandomFloat()*restedSleepRange
		energy = getRandomFloat() * 10
		stress = tiredStressMin + getRandomFloat()*tiredStressRange
	case caseOvertrained:
		sleep = tiredSleepMin + getRandomFloat()*tiredSleepRange
		energy = getRandomFloat() * tiredEnergyMax
		stress = getRandomFloat() * 10
	default:
		sleep = getRandomFloat() * 12
		energy = getRandomFloat() * 10
		stress = getRandomFloat() * 10
	}

	attempted := getRandomFloat() > missedReactionRate
	reaction := 0.0
	if attempted {
		reaction = reactionBaseMS + getRandomFloat()*reactionRangeMS
	}

	return Session{
		UserID:    userID,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Answers: map[string]float64{
			"sleep_hours":  round1(sleep),
			"energy_level": round1(energy),
			"stress_level": round1(stress),
		},
		TypingFeatures: TypingFeatures{
			AverageLatencyMS: round1(latencyBaseMS + getRandomFloat()*latencyRangeMS),
			TotalDurationMS:  round1(durationBaseMS + getRandomFloat()*durationRangeMS),
			BackspaceRate:    round1(getRandomFloat()*backspaceRange*10) / 10,
		},
		TaskPerformance: TaskPerformance{
			ReactionTimeMS:    round1(reaction),
			ReactionAttempted: attempted,
		},
	}
}

func round1(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}

// minInt returns the minimum of two integers.
func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
