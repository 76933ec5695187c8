package model

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingVisitor struct {
	visited string
}

func (r *recordingVisitor) VisitContinuous(Continuous) error { r.visited = KindContinuous; return nil }
func (r *recordingVisitor) VisitDiscrete(Discrete) error     { r.visited = KindDiscrete; return nil }
func (r *recordingVisitor) VisitEnum(Enum) error             { r.visited = KindEnum; return nil }
func (r *recordingVisitor) VisitPolynomial(Polynomial) error { r.visited = KindPolynomial; return nil }
func (r *recordingVisitor) VisitSpan(SpanKind) error         { r.visited = KindSpan; return nil }

func TestNewKind(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "empty defaults to continuous", input: "", expected: KindContinuous},
		{name: "continuous", input: "continuous", expected: KindContinuous},
		{name: "discrete", input: "discrete", expected: KindDiscrete},
		{name: "enum", input: "enum", expected: KindEnum},
		{name: "polynomial", input: "polynomial", expected: KindPolynomial},
		{name: "span", input: "span", expected: KindSpan},
		{name: "case insensitive", input: " Enum ", expected: KindEnum},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, err := NewKind(tt.input, nil, 0)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, kind.Name())

			v := &recordingVisitor{}
			require.NoError(t, kind.Accept(v))
			assert.Equal(t, tt.expected, v.visited)
		})
	}
}

func TestNewKindUnknown(t *testing.T) {
	kind, err := NewKind("activities", nil, 0)

	assert.Nil(t, kind)
	assert.True(t, errors.Is(err, ErrUnknownKind))
	assert.Contains(t, err.Error(), "activities")
}

func TestNewKindKeepsKindSpecificFields(t *testing.T) {
	declared := []string{"OFF", "ON"}
	kind, err := NewKind(KindEnum, declared, time.Second)
	require.NoError(t, err)

	enum, ok := kind.(Enum)
	require.True(t, ok)
	assert.Equal(t, []string{"OFF", "ON"}, enum.Values)

	// The kind owns its copy of the labels.
	declared[0] = "CHANGED"
	assert.Equal(t, "OFF", enum.Values[0])

	kind, err = NewKind(KindPolynomial, declared, 30*time.Second)
	require.NoError(t, err)
	assert.Equal(t, Polynomial{Resolution: 30 * time.Second}, kind)

	kind, err = NewKind(KindDiscrete, declared, time.Second)
	require.NoError(t, err)
	assert.Equal(t, Discrete{}, kind)
}
