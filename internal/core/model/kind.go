package model

import (
	"fmt"
	"strings"
	"time"
)

// Kind names the visualization contract of a resource. The set of kinds is
// closed: every implementation lives in this file and dispatches through
// KindVisitor, so adding a kind forces every visitor to handle it.
type Kind interface {
	// Name returns the kind as written in a view description.
	Name() string
	// Accept calls the visitor method matching the concrete kind.
	Accept(v KindVisitor) error

	sealed()
}

// KindVisitor handles each kind of resource.
type KindVisitor interface {
	VisitContinuous(k Continuous) error
	VisitDiscrete(k Discrete) error
	VisitEnum(k Enum) error
	VisitPolynomial(k Polynomial) error
	VisitSpan(k SpanKind) error
}

// Kind names as they appear in view descriptions.
const (
	KindContinuous = "continuous"
	KindDiscrete   = "discrete"
	KindEnum       = "enum"
	KindPolynomial = "polynomial"
	KindSpan       = "span"
)

// Continuous resources are numeric signals drawn as a piecewise-linear line.
type Continuous struct{}

// Discrete resources are numeric values that hold until the next sample.
type Discrete struct{}

// Enum resources are categorical labels that hold until the next sample.
type Enum struct {
	// Values lists labels that take priority in the state table, in order.
	Values []string
}

// Polynomial resources carry one coefficient list per segment.
type Polynomial struct {
	// Resolution is parsed and kept with the view but not used for sampling;
	// segments are drawn from their endpoints.
	Resolution time.Duration
}

// SpanKind resources carry closed intervals that are laid out in lanes.
type SpanKind struct{}

func (Continuous) Name() string { return KindContinuous }
func (Discrete) Name() string   { return KindDiscrete }
func (Enum) Name() string       { return KindEnum }
func (Polynomial) Name() string { return KindPolynomial }
func (SpanKind) Name() string   { return KindSpan }

func (k Continuous) Accept(v KindVisitor) error { return v.VisitContinuous(k) }
func (k Discrete) Accept(v KindVisitor) error   { return v.VisitDiscrete(k) }
func (k Enum) Accept(v KindVisitor) error       { return v.VisitEnum(k) }
func (k Polynomial) Accept(v KindVisitor) error { return v.VisitPolynomial(k) }
func (k SpanKind) Accept(v KindVisitor) error   { return v.VisitSpan(k) }

func (Continuous) sealed() {}
func (Discrete) sealed()   {}
func (Enum) sealed()       {}
func (Polynomial) sealed() {}
func (SpanKind) sealed()   {}

// NewKind builds the kind named by name. An empty name selects continuous.
// discreteValues is only kept for enum, resolution only for polynomial.
func NewKind(name string, discreteValues []string, resolution time.Duration) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", KindContinuous:
		return Continuous{}, nil
	case KindDiscrete:
		return Discrete{}, nil
	case KindEnum:
		values := make([]string, len(discreteValues))
		copy(values, discreteValues)
		return Enum{Values: values}, nil
	case KindPolynomial:
		return Polynomial{Resolution: resolution}, nil
	case KindSpan:
		return SpanKind{}, nil
	default:
		return nil, fmt.Errorf("%w: '%s' (use continuous, discrete, enum, polynomial or span)", ErrUnknownKind, name)
	}
}
