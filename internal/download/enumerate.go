package download

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/handiism/mgnify-downloader/internal/config"
	ihttp "github.com/handiism/mgnify-downloader/internal/http"
	"github.com/handiism/mgnify-downloader/internal/metrics"
	"github.com/handiism/mgnify-downloader/internal/mgnify"
	"github.com/handiism/mgnify-downloader/internal/output"
)

// PageError is a listing page that could not be read.
type PageError struct {
	Page int
	Err  error
}

func (e *PageError) Error() string {
	return fmt.Sprintf("page %d: %v", e.Page, e.Err)
}

func (e *PageError) Unwrap() error {
	return e.Err
}

// ListSummary describes a finished enumeration.
type ListSummary struct {
	Pages   int
	Count   int
	Rows    int
	Failed  []*PageError
	Elapsed time.Duration
}

// Enumerator lists every analysis that has an assembly and writes the
// analysis and assembly ids to a dated file.
type Enumerator struct {
	settings *config.Settings
	api      *mgnify.Client
	layout   output.Layout
	metrics  *metrics.Metrics

	onProgress func(ProgressEvent)
}

// NewEnumerator creates an Enumerator.
func NewEnumerator(settings *config.Settings, onProgress func(ProgressEvent)) *Enumerator {
	httpClient := ihttp.NewClient(
		ihttp.WithTimeout(settings.HTTPTimeout()),
		ihttp.WithUserAgent(settings.UserAgent),
	)

	return &Enumerator{
		settings:   settings,
		api:        mgnify.NewClient(httpClient, settings.APIBase),
		layout:     output.NewLayout(settings.OutputRoot, time.Now()),
		metrics:    metrics.New(),
		onProgress: onProgress,
	}
}

// Metrics returns the run's counters.
func (e *Enumerator) Metrics() *metrics.Metrics {
	return e.metrics
}

// Layout returns where the run writes.
func (e *Enumerator) Layout() output.Layout {
	return e.layout
}

type pageResult struct {
	page *mgnify.Page
	err  *PageError
}

// Run reads page 1 to learn the page count and then every remaining page on
// a pool of MaxConcurrentPages workers. Each worker pauses for PageDelay
// after its request. Rows are written as pages complete.
//
// A page that cannot be read is logged and recorded in the failed pages
// file; the run carries on. Only a failure to read page 1 or to create the
// output files is returned as an error.
func (e *Enumerator) Run(ctx context.Context) (*ListSummary, error) {
	start := time.Now()
	size := e.settings.PageSize

	first, err := e.api.AnalysesPage(ctx, 1, size)
	if err != nil {
		return nil, fmt.Errorf("reading first page: %w", err)
	}

	list, err := output.NewAssemblyList(e.layout)
	if err != nil {
		return nil, err
	}

	summary := &ListSummary{Pages: first.Pages, Count: first.Count}

	e.progress(ProgressEvent{
		Message: fmt.Sprintf("Listing %d analyses on %d pages of %d", first.Count, first.Pages, size),
		Level:   LevelInfo,
	})

	results := make(chan pageResult)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.settings.MaxConcurrentPages)

	go func() {
		defer close(results)

		results <- pageResult{page: first}

		for n := 2; n <= first.Pages; n++ {
			if gctx.Err() != nil {
				break
			}

			g.Go(func() error {
				page, err := e.api.AnalysesPage(gctx, n, size)
				sleep(gctx, e.settings.PageDelay())

				if err != nil {
					results <- pageResult{err: &PageError{Page: n, Err: err}}
				} else {
					results <- pageResult{page: page}
				}

				return nil
			})
		}

		g.Wait() //nolint:errcheck
	}()

	for r := range results {
		e.record(list, summary, r)
	}

	summary.Rows = list.Rows()
	summary.Elapsed = time.Since(start)

	return summary, ctx.Err()
}

func (e *Enumerator) record(list *output.AssemblyList, summary *ListSummary, r pageResult) {
	if r.err != nil {
		if ihttp.IsCanceled(r.err) {
			return
		}

		summary.Failed = append(summary.Failed, r.err)
		e.metrics.Pages.WithLabelValues(metrics.Failed).Inc()
		e.progress(ProgressEvent{Message: fmt.Sprintf("Error reading %v", r.err), Level: LevelWarning})

		if err := list.AddFailedPage(r.err.Page, r.err.Err); err != nil {
			e.progress(ProgressEvent{Message: fmt.Sprintf("Error recording failed page %d: %v", r.err.Page, err), Level: LevelError})
		}

		return
	}

	e.metrics.Pages.WithLabelValues(metrics.OK).Inc()
	e.metrics.Refs.Add(float64(len(r.page.Refs)))
	e.progress(ProgressEvent{Message: fmt.Sprintf("Processing page number %d", r.page.Number), Level: LevelVerbose})

	if err := list.Add(r.page.Refs); err != nil {
		e.progress(ProgressEvent{Message: fmt.Sprintf("Error writing page %d: %v", r.page.Number, err), Level: LevelError})
	}
}

func (e *Enumerator) progress(event ProgressEvent) {
	if e.onProgress != nil {
		e.onProgress(event)
	}
}

func sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}

	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
