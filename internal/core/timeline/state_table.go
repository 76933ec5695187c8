package timeline

import "github.com/penwyp/go-timeline-view/internal/core/model"

// StateTable maps enum labels to small integers. Declared labels come first
// in declaration order; labels seen only in data follow in first-seen order.
// It is not modified after construction.
type StateTable struct {
	index  map[string]int
	labels []string
}

// NewStateTable builds the table from the declared labels and the observed
// values.
func NewStateTable(declared []string, observed []string) *StateTable {
	st := &StateTable{
		index:  make(map[string]int, len(declared)+len(observed)),
		labels: make([]string, 0, len(declared)+len(observed)),
	}
	for _, label := range declared {
		st.add(label)
	}
	for _, label := range observed {
		st.add(label)
	}
	return st
}

func (st *StateTable) add(label string) {
	if _, ok := st.index[label]; ok {
		return
	}
	st.index[label] = len(st.labels)
	st.labels = append(st.labels, label)
}

// Index returns the integer assigned to label.
func (st *StateTable) Index(label string) (int, bool) {
	i, ok := st.index[label]
	return i, ok
}

// Label returns the label assigned to i.
func (st *StateTable) Label(i int) (string, bool) {
	if i < 0 || i >= len(st.labels) {
		return "", false
	}
	return st.labels[i], true
}

// Len returns the number of states.
func (st *StateTable) Len() int {
	return len(st.labels)
}

// Ticks returns one axis tick per state, in index order.
func (st *StateTable) Ticks() []model.Tick {
	ticks := make([]model.Tick, len(st.labels))
	for i, label := range st.labels {
		ticks[i] = model.Tick{Value: i, Label: label}
	}
	return ticks
}
