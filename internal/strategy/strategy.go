// Package strategy defines the closed set of quality strategies that
// parameterize the external encoder, plus the format-selection strategies
// used for externally sourced media.
//
// Strategies are enums, not string dispatch: Select is the single place an
// identifier becomes a Strategy, and every switch over Strategy is
// exhaustive, so an unrecognized identifier can never reach the encoder.
package strategy

import (
	"fmt"

	"squeeze/internal/services"
)

// Strategy identifies an immutable bundle of encoder quality parameters.
type Strategy int

const (
	// SizeReduction favors smaller output over fidelity.
	SizeReduction Strategy = iota
	// QualityPreservation favors fidelity over size.
	QualityPreservation
)

// Params are the encoder quality knobs a strategy contributes.
type Params struct {
	CRF         int
	BitrateKbps int
	Preset      string
}

// Select maps a caller-supplied identifier to a Strategy. Unrecognized
// identifiers are an error, never a silent default.
func Select(id string) (Strategy, error) {
	switch id {
	case "compress":
		return SizeReduction, nil
	case "maintain":
		return QualityPreservation, nil
	default:
		return 0, services.Wrap(services.ErrInvalidStrategy, "", "select strategy", fmt.Sprintf("unrecognized identifier %q", id), nil)
	}
}

// ID returns the caller-facing identifier.
func (s Strategy) ID() string {
	switch s {
	case SizeReduction:
		return "compress"
	case QualityPreservation:
		return "maintain"
	}
	return fmt.Sprintf("strategy(%d)", int(s))
}

// Params returns the encoder quality parameters.
func (s Strategy) Params() Params {
	switch s {
	case QualityPreservation:
		return Params{CRF: 18, BitrateKbps: 2000, Preset: "slow"}
	default:
		return Params{CRF: 28, BitrateKbps: 500, Preset: "medium"}
	}
}

// Description returns the user-facing label for status messages.
func (s Strategy) Description() string {
	switch s {
	case QualityPreservation:
		return "Preserving quality (lighter compression)"
	default:
		return "Compressing (stronger compression)"
	}
}

// EstimatedSecondsPerMB returns the factor used to project encode duration
// from input size. Heavier presets take longer per megabyte.
func (s Strategy) EstimatedSecondsPerMB() float64 {
	switch s {
	case QualityPreservation:
		return 1.5
	default:
		return 1.0
	}
}

// All returns the quality strategies in presentation order.
func All() []Strategy {
	return []Strategy{SizeReduction, QualityPreservation}
}
