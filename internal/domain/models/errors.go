package models

import (
	"errors"
	"fmt"
)

// ErrorKind classifies ROIError.
type ErrorKind int

const (
	KindUnavailable ErrorKind = iota + 1
	KindPrediction
	KindNarrative
	KindInvalidInput
)

func (k ErrorKind) String() string {
	switch k {
	case KindUnavailable:
		return "unavailable"
	case KindPrediction:
		return "prediction"
	case KindNarrative:
		return "narrative"
	case KindInvalidInput:
		return "invalid_input"
	default:
		return "unknown"
	}
}

// ErrResourcesUnavailable is wrapped when the model or cost data failed to load.
var ErrResourcesUnavailable = errors.New("resources not loaded")

// ROIError is the error type of the ROI pipeline.
type ROIError struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *ROIError) Error() string {
	switch e.Kind {
	case KindPrediction:
		return fmt.Sprintf("Prediction error: %v", e.Err)
	default:
		if e.Op == "" {
			return fmt.Sprintf("%s: %v", e.Kind, e.Err)
		}
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	}
}

func (e *ROIError) Unwrap() error {
	return e.Err
}

// NewROIError wraps err with kind and op.
func NewROIError(kind ErrorKind, op string, err error) *ROIError {
	return &ROIError{Kind: kind, Op: op, Err: err}
}

// KindOf returns the kind of the first ROIError in err's chain, or 0.
func KindOf(err error) ErrorKind {
	var re *ROIError
	if errors.As(err, &re) {
		return re.Kind
	}
	return 0
}
