package scoring

import (
	"errors"
	"fmt"
)

// Sentinel kinds for scoring errors.
var (
	ErrNoProbabilities = errors.New("classifier returned no probabilities")
)

// ShapeMismatchError reports a feature vector whose width does not match the
// classifier's training contract. It is never absorbed: serving a wrong-shaped
// vector to a classifier is undefined behavior.
type ShapeMismatchError struct {
	Got  int
	Want int
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("feature vector width mismatch: got %d features, classifier expects %d", e.Got, e.Want)
}

// IsShapeMismatch reports whether err is (or wraps) a ShapeMismatchError.
func IsShapeMismatch(err error) bool {
	var sme *ShapeMismatchError
	return errors.As(err, &sme)
}
