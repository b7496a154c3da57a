// Package progress defines the progress sample type shared by the
// compressors, the notifier, and the job store.
package progress

import "time"

// Sample is one observation of work done within a stage. Current/Total carry
// bytes for transfer stages and seconds for encoding; Percent is derived and
// clamped to [0, 100]. Estimated marks samples projected from elapsed time
// instead of real encoder output.
type Sample struct {
	Elapsed   time.Duration
	Current   float64
	Total     float64
	Percent   float64
	Estimated bool
}

// NewSample derives a clamped Sample from raw counters.
func NewSample(elapsed time.Duration, current, total float64, estimated bool) Sample {
	return Sample{
		Elapsed:   elapsed,
		Current:   current,
		Total:     total,
		Percent:   percent(current, total),
		Estimated: estimated,
	}
}

func percent(current, total float64) float64 {
	if total <= 0 || current <= 0 {
		return 0
	}
	p := current / total * 100
	if p > 100 {
		return 100
	}
	return p
}

// Monotone keeps percent non-decreasing across the samples of a single
// stage. Encoders occasionally emit a lower offset after a seek; callers
// fold every sample through Clamp before publishing it.
type Monotone struct {
	high float64
}

// Clamp returns s with Percent raised to the highest value seen so far.
func (m *Monotone) Clamp(s Sample) Sample {
	if s.Percent < m.high {
		s.Percent = m.high
	} else {
		m.high = s.Percent
	}
	return s
}

// Reset clears the high-water mark for a new stage.
func (m *Monotone) Reset() {
	m.high = 0
}
