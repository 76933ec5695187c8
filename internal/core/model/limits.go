package model

// Default padding applied when a limit grows.
const (
	DefaultLimitBuffer = 0.1
)

// Limits tracks an axis range that only ever widens. When a new extreme
// falls outside the range, the range is pushed past it by a buffer
// proportional to the new span, so small excursions do not rescale the axis
// on every tick.
type Limits struct {
	Min       float64
	Max       float64
	MinBuffer float64
	MaxBuffer float64

	set bool
}

// NewLimits returns an empty range with the given padding factors.
func NewLimits(minBuffer, maxBuffer float64) *Limits {
	return &Limits{MinBuffer: minBuffer, MaxBuffer: maxBuffer}
}

// RangeOf returns a set range spanning values. It is unset when values is
// empty.
func RangeOf(values ...float64) Limits {
	var l Limits
	for _, v := range values {
		l.include(v)
	}
	return l
}

func (l *Limits) include(v float64) {
	if !l.set {
		l.Min, l.Max, l.set = v, v, true
		return
	}
	if v < l.Min {
		l.Min = v
	}
	if v > l.Max {
		l.Max = v
	}
}

// IsSet reports whether the range has been populated.
func (l *Limits) IsSet() bool {
	return l.set
}

// Merge widens l to cover other and reports whether l changed. The first
// merge adopts other unchanged. Merging an unset range is a no-op.
func (l *Limits) Merge(other Limits) bool {
	if !other.set {
		return false
	}
	if !l.set {
		l.Min, l.Max, l.set = other.Min, other.Max, true
		return true
	}

	changed := false
	if other.Min < l.Min {
		l.Min = other.Min - l.MinBuffer*(l.Max-other.Min)
		changed = true
	}
	// Uses the already-updated Min.
	if other.Max > l.Max {
		l.Max = other.Max + l.MaxBuffer*(other.Max-l.Min)
		changed = true
	}
	return changed
}
