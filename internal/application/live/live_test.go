package live

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/penwyp/go-timeline-view/internal/data/aggregator"
	"github.com/penwyp/go-timeline-view/internal/testing/fixtures"
)

// scriptedSource returns one chunk per poll, then EOF.
type scriptedSource struct {
	chunks []string
	err    error
	closed bool
}

func (s *scriptedSource) Poll() ([]byte, error) {
	if len(s.chunks) == 0 {
		if s.err != nil {
			return nil, s.err
		}
		return nil, io.EOF
	}
	chunk := s.chunks[0]
	s.chunks = s.chunks[1:]
	return []byte(chunk), nil
}

func (s *scriptedSource) Close() error {
	s.closed = true
	return nil
}

type recordingObserver struct {
	mu      sync.Mutex
	results []aggregator.TickResult
	pending []int
}

func (o *recordingObserver) ObserveTick(result aggregator.TickResult, pending int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.results = append(o.results, result)
	o.pending = append(o.pending, pending)
}

type countingDisplay struct {
	updates int
}

func (d *countingDisplay) Update(*aggregator.Aggregator, aggregator.TickResult) error {
	d.updates++
	return nil
}

const (
	lineA = `{"channel":"x","time":"2020-01-01T00:00:00Z","data":1}` + "\n"
	lineB = `{"channel":"x","time":"2020-01-01T00:00:05Z","data":2}` + "\n"
)

func TestRunConsumesUntilEOF(t *testing.T) {
	agg := aggregator.New([]string{"x"}, aggregator.DefaultOptions())
	source := &scriptedSource{chunks: []string{lineA[:10], lineA[10:], "", lineB, `{"channel":"x"`}}
	observer := &recordingObserver{}
	display := &countingDisplay{}

	rc := NewRefreshController(source, agg, time.Millisecond)
	rc.SetObserver(observer)
	rc.SetDisplay(display)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, rc.Run(ctx))

	x, _ := agg.Resource("x")
	assert.Equal(t, []float64{1, 2}, x.Ys)
	assert.Equal(t, 0, agg.Pending())
	assert.Equal(t, 6, rc.Ticks())
	assert.Len(t, observer.results, 6)
	assert.Equal(t, 10, observer.pending[0])
	assert.Equal(t, 2, display.updates)
}

func TestRunStopsOnCancel(t *testing.T) {
	agg := aggregator.New([]string{"x"}, aggregator.DefaultOptions())
	rs := NewReaderSource(blockingReader{})
	rc := NewRefreshController(rs, agg, time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	assert.NoError(t, rc.Run(ctx))
	assert.Greater(t, rc.Ticks(), 0)
}

func TestRunReturnsReadErrors(t *testing.T) {
	agg := aggregator.New([]string{"x"}, aggregator.DefaultOptions())
	source := &scriptedSource{err: errors.New("device gone")}

	err := NewRefreshController(source, agg, time.Millisecond).Run(context.Background())
	assert.ErrorContains(t, err, "device gone")
}

func TestNewRefreshControllerDefaultsInterval(t *testing.T) {
	rc := NewRefreshController(&scriptedSource{}, aggregator.New(nil, aggregator.DefaultOptions()), 0)
	assert.Equal(t, DefaultInterval, rc.interval)
}

type blockingReader struct{}

func (blockingReader) Read([]byte) (int, error) {
	select {}
}

func TestReaderSource(t *testing.T) {
	rs := NewReaderSource(strings.NewReader(lineA + lineB))

	var got []byte
	deadline := time.After(5 * time.Second)
	for {
		data, err := rs.Poll()
		got = append(got, data...)
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		select {
		case <-rs.Wake():
		case <-deadline:
			t.Fatal("reader source never reached EOF")
		}
	}
	assert.Equal(t, lineA+lineB, string(got))
	assert.NoError(t, rs.Close())
}

func TestFileFollower(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stream.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(lineA), 0644))

	ff, err := NewFileFollower(path)
	require.NoError(t, err)
	defer ff.Close()

	data, err := ff.Poll()
	require.NoError(t, err)
	assert.Equal(t, lineA, string(data))

	data, err = ff.Poll()
	require.NoError(t, err)
	assert.Empty(t, data)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	require.NoError(t, err)
	_, err = f.WriteString(lineB)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	data, err = ff.Poll()
	require.NoError(t, err)
	assert.Equal(t, lineB, string(data))

	require.NoError(t, os.Remove(path))
	require.Eventually(t, func() bool {
		_, err := ff.Poll()
		return errors.Is(err, io.EOF)
	}, 5*time.Second, 10*time.Millisecond)
}

func TestNewFileFollowerMissingFile(t *testing.T) {
	_, err := NewFileFollower(filepath.Join(t.TempDir(), "absent.jsonl"))
	assert.Error(t, err)
}

func TestFollowedStreamEndsWhenFileIsRemoved(t *testing.T) {
	gen := fixtures.NewTestDataGenerator(t.TempDir())
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	path, err := gen.WriteStream("reports.jsonl", fixtures.RampReports(start, time.Second, 5, "x", "y"))
	require.NoError(t, err)

	ff, err := NewFileFollower(path)
	require.NoError(t, err)
	defer ff.Close()

	agg := aggregator.New([]string{"x"}, aggregator.DefaultOptions())
	rc := NewRefreshController(ff, agg, time.Millisecond)

	result, done, err := rc.Tick()
	require.NoError(t, err)
	assert.False(t, done)
	assert.Equal(t, 5, result.Accepted)
	assert.Equal(t, 5, result.Dropped)

	require.NoError(t, os.Remove(path))
	require.Eventually(t, func() bool {
		_, done, err := rc.Tick()
		return err == nil && done
	}, 5*time.Second, 10*time.Millisecond)

	x, ok := agg.Resource("x")
	require.True(t, ok)
	assert.Equal(t, []float64{0, 1, 2, 3, 4}, x.Ys)
}
