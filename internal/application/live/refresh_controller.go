package live

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/penwyp/go-timeline-view/internal/data/aggregator"
	"github.com/penwyp/go-timeline-view/internal/util"
)

// DefaultInterval is the poll cadence when none is configured.
const DefaultInterval = 200 * time.Millisecond

// TickObserver receives the outcome of every tick.
type TickObserver interface {
	ObserveTick(result aggregator.TickResult, pending int)
}

// Display is redrawn after a tick that changed any axis.
type Display interface {
	Update(agg *aggregator.Aggregator, result aggregator.TickResult) error
}

// RefreshController polls a source and applies what it read to an
// aggregator. Ticks never overlap.
type RefreshController struct {
	source     Source
	aggregator *aggregator.Aggregator
	interval   time.Duration
	observer   TickObserver
	display    Display

	tickMutex sync.Mutex // Serializes ticks
	ticks     int
}

// NewRefreshController creates a controller polling every interval.
func NewRefreshController(source Source, agg *aggregator.Aggregator, interval time.Duration) *RefreshController {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &RefreshController{
		source:     source,
		aggregator: agg,
		interval:   interval,
	}
}

// SetObserver installs a tick observer such as a metrics collector.
func (rc *RefreshController) SetObserver(observer TickObserver) {
	rc.observer = observer
}

// SetDisplay installs the display redrawn on axis changes.
func (rc *RefreshController) SetDisplay(display Display) {
	rc.display = display
}

// Tick performs one poll. done is true once the source has ended; the
// unterminated fragment is discarded at that point.
func (rc *RefreshController) Tick() (result aggregator.TickResult, done bool, err error) {
	rc.tickMutex.Lock()
	defer rc.tickMutex.Unlock()

	data, pollErr := rc.source.Poll()
	result = rc.aggregator.Tick(data)
	rc.ticks++

	switch {
	case pollErr == nil:
	case errors.Is(pollErr, io.EOF):
		done = true
		rc.aggregator.Finish()
	default:
		err = fmt.Errorf("poll failed: %w", pollErr)
	}

	if rc.observer != nil {
		rc.observer.ObserveTick(result, rc.aggregator.Pending())
	}
	if result.Changed() && rc.display != nil {
		if derr := rc.display.Update(rc.aggregator, result); derr != nil {
			util.LogWarn("Display update failed", util.Err(derr))
		}
	}
	if result.Accepted > 0 || result.Dropped > 0 {
		util.LogDebug(fmt.Sprintf("Tick %d: accepted=%d dropped=%d pending=%d",
			rc.ticks, result.Accepted, result.Dropped, rc.aggregator.Pending()))
	}
	return result, done, err
}

// Run polls until the source ends, ctx is cancelled or a read fails. End of
// input and cancellation are not errors.
func (rc *RefreshController) Run(ctx context.Context) error {
	util.LogInfo("Starting live loop", util.Duration("interval", rc.interval))

	ticker := time.NewTicker(rc.interval)
	defer ticker.Stop()

	var wake <-chan struct{}
	if w, ok := rc.source.(Waker); ok {
		wake = w.Wake()
	}

	for {
		select {
		case <-ctx.Done():
			util.LogInfo("Live loop cancelled")
			return nil
		case <-ticker.C:
		case <-wake:
		}

		_, done, err := rc.Tick()
		if err != nil {
			return err
		}
		if done {
			accepted, dropped := rc.aggregator.Totals()
			util.LogInfo(fmt.Sprintf("Live input ended after %d ticks: %d lines accepted, %d dropped",
				rc.ticks, accepted, dropped))
			return nil
		}
	}
}

// Ticks returns the number of completed ticks.
func (rc *RefreshController) Ticks() int {
	rc.tickMutex.Lock()
	defer rc.tickMutex.Unlock()
	return rc.ticks
}
