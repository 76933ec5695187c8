// Package batch renders a whole view from a CSV file.
package batch

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/penwyp/go-timeline-view/internal/core/interpret"
	"github.com/penwyp/go-timeline-view/internal/core/model"
	"github.com/penwyp/go-timeline-view/internal/data/parser"
	"github.com/penwyp/go-timeline-view/internal/data/source"
	"github.com/penwyp/go-timeline-view/internal/util"
)

type Config struct {
	CSVFile     string
	ViewFile    string
	PlanFile    string // optional, fixes the time window
	InputFormat source.Format
	Concurrency int
}

// RenderObserver is told how long each rendering took.
type RenderObserver interface {
	ObserveRender(mode string, d time.Duration)
}

// Orchestrator loads the inputs of a batch render and interprets every
// resource of the view.
type Orchestrator struct {
	config   *Config
	reader   *source.Reader
	observer RenderObserver
}

func New(config *Config) *Orchestrator {
	if config.Concurrency <= 0 {
		config.Concurrency = runtime.NumCPU()
	}
	return &Orchestrator{
		config: config,
		reader: source.NewReader(config.InputFormat),
	}
}

// SetObserver installs a render observer such as a metrics collector.
func (o *Orchestrator) SetObserver(observer RenderObserver) {
	o.observer = observer
}

// Run produces the rendering. Resources appear in view order; a resource
// absent from the CSV is flagged missing and reported as a warning. Unknown
// kinds and unsupported polynomials abort the render.
func (o *Orchestrator) Run(ctx context.Context) (*model.Rendering, error) {
	start := time.Now()

	util.LogInfo(fmt.Sprintf("Reading %s", o.config.ViewFile))
	view, err := parser.LoadView(o.config.ViewFile)
	if err != nil {
		return nil, err
	}

	var plan *model.Plan
	if o.config.PlanFile != "" {
		util.LogInfo(fmt.Sprintf("Reading %s", o.config.PlanFile))
		if plan, err = parser.LoadPlan(o.config.PlanFile); err != nil {
			return nil, err
		}
	}

	result, err := o.reader.ReadFile(o.config.CSVFile, view.Names())
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rendering, err := o.Render(ctx, view, result.Table, plan)
	if err != nil {
		return nil, err
	}
	rendering.Warnings = append(result.Warnings, rendering.Warnings...)

	elapsed := time.Since(start)
	util.LogDebug("Batch render finished",
		util.Int("resources", len(rendering.Resources)), util.Duration("elapsed", elapsed))
	if o.observer != nil {
		o.observer.ObserveRender("batch", elapsed)
	}
	return rendering, nil
}

// Render interprets every resource of view against table.
func (o *Orchestrator) Render(ctx context.Context, view *model.View, table *model.Table, plan *model.Plan) (*model.Rendering, error) {
	resources := view.Resources()
	rendered := make([]model.Rendered, len(resources))
	errs := make([]error, len(resources))

	jobs := make(chan int)
	var wg sync.WaitGroup
	workers := o.config.Concurrency
	if workers > len(resources) {
		workers = len(resources)
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				rendered[i], errs[i] = interpret.Interpret(resources[i], table)
			}
		}()
	}

feed:
	for i := range resources {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	// Report the first failure in display order.
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	rendering := &model.Rendering{Resources: rendered}
	for _, r := range rendered {
		if r.Missing {
			warning := fmt.Sprintf("resource '%s' not found in input", r.Resource)
			util.LogWarn(warning)
			rendering.Warnings = append(rendering.Warnings, warning)
		}
	}

	if plan != nil {
		rendering.WindowStart, rendering.WindowEnd = plan.Start, plan.End
	} else if first, last, ok := table.Bounds(); ok {
		rendering.WindowStart, rendering.WindowEnd = first, last
	}

	util.LogDebug(fmt.Sprintf("Rendered %d resources", len(rendered)))
	return rendering, nil
}
