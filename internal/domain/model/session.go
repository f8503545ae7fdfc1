// Package model contains domain models passed between layers.
package model

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"
)

// Well-known questionnaire ids consumed by feature extraction.
const (
	QuestionSleepHours  = "sleep_hours"
	QuestionEnergyLevel = "energy_level"
	QuestionStressLevel = "stress_level"
)

// Session represents a raw session payload submitted by clients.
// Fields mirror the JSON schema for /predict_fatigue and /save_session.
type Session struct {
	UserID          string          `json:"user_id,omitempty"`
	Timestamp       string          `json:"timestamp"`
	Answers         AnswerSet       `json:"answers"`
	TypingFeatures  TypingFeatures  `json:"typing_features"`
	TaskPerformance TaskPerformance `json:"task_performance"`
}

// TypingFeatures carries keystroke-timing statistics for one session.
// Missing or malformed numbers decode as zero.
type TypingFeatures struct {
	AverageLatencyMS LenientFloat `json:"average_latency_ms"`
	TotalDurationMS  LenientFloat `json:"total_duration_ms"`
	BackspaceRate    LenientFloat `json:"backspace_rate,omitempty"`
	Accuracy         LenientFloat `json:"accuracy,omitempty"`
}

// TaskPerformance carries reaction-task measurements for one session.
type TaskPerformance struct {
	ReactionTimeMS    LenientFloat   `json:"reaction_time_ms"`
	ReactionAttempted LenientBool    `json:"reaction_attempted,omitempty"`
	ReactionTimes     []LenientFloat `json:"reaction_times,omitempty"`
}

// AnswerSet is the normalized form of questionnaire answers. Clients may send
// answers either as a list of {question_id, value} objects or as a plain
// name->value mapping; both converge here so downstream code never branches on
// the wire shape.
type AnswerSet struct {
	values map[string]float64
}

// answerItem mirrors the list wire shape.
type answerItem struct {
	QuestionID string          `json:"question_id"`
	Value      json.RawMessage `json:"value"`
}

// AnswersFromList builds an AnswerSet from the list wire shape. Later
// duplicates win, matching a map-shaped payload with the same keys.
func AnswersFromList(items []Answer) AnswerSet {
	values := make(map[string]float64, len(items))
	for _, it := range items {
		values[it.QuestionID] = it.Value
	}
	return AnswerSet{values: values}
}

// AnswersFromMap builds an AnswerSet from the mapping wire shape.
func AnswersFromMap(m map[string]float64) AnswerSet {
	values := make(map[string]float64, len(m))
	for k, v := range m {
		values[k] = v
	}
	return AnswerSet{values: values}
}

// Answer is one questionnaire response in normalized form.
type Answer struct {
	QuestionID string  `json:"question_id"`
	Value      float64 `json:"value"`
}

// Value returns the answer for a question id, or 0 when absent.
func (a AnswerSet) Value(questionID string) float64 {
	return a.values[questionID]
}

// Len returns the number of recorded answers.
func (a AnswerSet) Len() int {
	return len(a.values)
}

// List returns the answers as a sorted list, for deterministic output.
func (a AnswerSet) List() []Answer {
	out := make([]Answer, 0, len(a.values))
	for k, v := range a.values {
		out = append(out, Answer{QuestionID: k, Value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].QuestionID < out[j].QuestionID })
	return out
}

// Mean returns the arithmetic mean of all answer values, or 0 when empty.
func (a AnswerSet) Mean() float64 {
	if len(a.values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range a.values {
		sum += v
	}
	return sum / float64(len(a.values))
}

// UnmarshalJSON accepts both wire shapes. Malformed values coerce to 0; the
// payload contract is total, never rejecting a session over a bad field.
func (a *AnswerSet) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	switch {
	case strings.HasPrefix(trimmed, "["):
		var items []answerItem
		if err := json.Unmarshal(data, &items); err != nil {
			a.values = map[string]float64{}
			return nil
		}
		values := make(map[string]float64, len(items))
		for _, it := range items {
			if it.QuestionID == "" {
				continue
			}
			values[it.QuestionID] = coerceFloat(it.Value)
		}
		a.values = values
	case strings.HasPrefix(trimmed, "{"):
		var raw map[string]json.RawMessage
		if err := json.Unmarshal(data, &raw); err != nil {
			a.values = map[string]float64{}
			return nil
		}
		values := make(map[string]float64, len(raw))
		for k, v := range raw {
			values[k] = coerceFloat(v)
		}
		a.values = values
	default:
		a.values = map[string]float64{}
	}
	return nil
}

// MarshalJSON emits the mapping shape, which is the canonical one of the two.
func (a AnswerSet) MarshalJSON() ([]byte, error) {
	if a.values == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(a.values)
}

// LenientFloat decodes JSON numbers, numeric strings, and null; anything else
// becomes 0 instead of failing the whole payload.
type LenientFloat float64

func (f *LenientFloat) UnmarshalJSON(data []byte) error {
	*f = LenientFloat(coerceFloat(data))
	return nil
}

// LenientBool decodes JSON booleans and the usual string/number stand-ins;
// anything else becomes false.
type LenientBool bool

func (b *LenientBool) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	switch strings.ToLower(strings.Trim(s, `"`)) {
	case "true", "1":
		*b = true
	default:
		*b = false
	}
	return nil
}

// coerceFloat extracts a float from a raw JSON value, defaulting to 0 for
// anything that is not a number or a numeric string.
func coerceFloat(raw json.RawMessage) float64 {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return 0
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v
	}
	if strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) && len(s) >= 2 {
		if v, err := strconv.ParseFloat(s[1:len(s)-1], 64); err == nil {
			return v
		}
	}
	return 0
}
