package timeline

import (
	"testing"

	"github.com/penwyp/go-timeline-view/internal/core/model"
	"github.com/stretchr/testify/assert"
)

func TestStateTableObservedOnly(t *testing.T) {
	st := NewStateTable(nil, []string{"S", "S", "T", "S"})

	assert.Equal(t, 2, st.Len())
	i, ok := st.Index("S")
	assert.True(t, ok)
	assert.Equal(t, 0, i)
	i, ok = st.Index("T")
	assert.True(t, ok)
	assert.Equal(t, 1, i)
}

func TestStateTableDeclaredFirst(t *testing.T) {
	st := NewStateTable([]string{"OFF", "STANDBY", "ON"}, []string{"ON", "FAULT", "OFF"})

	assert.Equal(t, []model.Tick{
		{Value: 0, Label: "OFF"},
		{Value: 1, Label: "STANDBY"},
		{Value: 2, Label: "ON"},
		{Value: 3, Label: "FAULT"},
	}, st.Ticks())

	label, ok := st.Label(3)
	assert.True(t, ok)
	assert.Equal(t, "FAULT", label)

	_, ok = st.Label(4)
	assert.False(t, ok)
	_, ok = st.Label(-1)
	assert.False(t, ok)
	_, ok = st.Index("UNKNOWN")
	assert.False(t, ok)
}

func TestStateTableDuplicateDeclarations(t *testing.T) {
	st := NewStateTable([]string{"A", "A", "B"}, nil)

	assert.Equal(t, 2, st.Len())
	i, _ := st.Index("B")
	assert.Equal(t, 1, i)
}
