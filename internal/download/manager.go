package download

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	"github.com/handiism/mgnify-downloader/internal/config"
	ihttp "github.com/handiism/mgnify-downloader/internal/http"
	ioutils "github.com/handiism/mgnify-downloader/internal/io"
	"github.com/handiism/mgnify-downloader/internal/metrics"
	"github.com/handiism/mgnify-downloader/internal/mgnify"
	"github.com/handiism/mgnify-downloader/internal/model"
	"github.com/handiism/mgnify-downloader/internal/output"
)

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// ProgressEvent represents a progress update.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel
}

// ErrNotInitialized is returned by StartDownloads before Initialize.
var ErrNotInitialized = errors.New("manager not initialized")

// Summary describes a finished fetch run.
type Summary struct {
	output.Stats

	// Duplicates are input ids that appeared more than once.
	Duplicates int

	// Skipped counts ids that were not processed because the run was
	// canceled.
	Skipped int

	Elapsed time.Duration
}

// Manager runs the fetch pipeline: one task per analysis id on a bounded
// worker pool, with every result recorded by a single coordinator.
type Manager struct {
	settings   *config.Settings
	httpClient *ihttp.Client
	api        *mgnify.Client
	labels     model.LabelSet
	layout     output.Layout
	metrics    *metrics.Metrics

	ids         []string
	duplicates  int
	initialized bool

	doneAnalyses    int32
	receivedBytes   int64
	downloadedFiles int32

	onProgress func(ProgressEvent)
	mu         sync.RWMutex
}

// NewManager creates a new Manager that downloads the artifacts whose label
// is in labels. An empty label set fetches metadata only.
func NewManager(settings *config.Settings, labels model.LabelSet, onProgress func(ProgressEvent)) *Manager {
	httpClient := ihttp.NewClient(
		ihttp.WithTimeout(settings.HTTPTimeout()),
		ihttp.WithUserAgent(settings.UserAgent),
	)

	return &Manager{
		settings:   settings,
		httpClient: httpClient,
		api:        mgnify.NewClient(httpClient, settings.APIBase),
		labels:     labels,
		layout:     output.NewLayout(settings.OutputRoot, time.Now()),
		metrics:    metrics.New(),
		onProgress: onProgress,
	}
}

// Metrics returns the run's counters.
func (m *Manager) Metrics() *metrics.Metrics {
	return m.metrics
}

// Layout returns where the run writes.
func (m *Manager) Layout() output.Layout {
	return m.layout
}

// Initialize reads the analysis ids from the input file.
func (m *Manager) Initialize(_ context.Context, inputPath string) error {
	ids, dupes, err := ioutils.ReadAnalysisIDsFile(inputPath)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	for _, id := range dupes {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Duplicate analysis id %s ignored", id), Level: LevelWarning})
	}

	m.mu.Lock()
	m.ids = ids
	m.duplicates = len(dupes)
	m.initialized = true
	m.mu.Unlock()

	m.progress(ProgressEvent{Message: fmt.Sprintf("Found %d analyses", len(ids)), Level: LevelInfo})

	if len(m.labels) > 0 {
		m.progress(ProgressEvent{Message: "Artifacts: " + m.labels.String(), Level: LevelVerbose})
	} else {
		m.progress(ProgressEvent{Message: "No artifact types selected, fetching metadata only", Level: LevelInfo})
	}

	return nil
}

// IDs returns the analysis ids found by Initialize.
func (m *Manager) IDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return append([]string(nil), m.ids...)
}

// StartDownloads processes every initialized analysis id.
//
// Workers fetch and download; they only write inside their own analysis
// directory. All shared output is written here, in completion order. A
// failure for one id or artifact is recorded and never stops the run.
// The returned error is non-nil only if the output tree could not be set up
// or ctx was canceled; in the latter case the summary is still returned.
func (m *Manager) StartDownloads(ctx context.Context) (*Summary, error) {
	m.mu.RLock()
	initialized := m.initialized
	m.mu.RUnlock()

	if !initialized {
		return nil, ErrNotInitialized
	}

	ids := m.IDs()

	start := time.Now()

	agg, err := output.NewAggregator(m.layout)
	if err != nil {
		return nil, err
	}

	results := make(chan *model.Outcome)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.settings.MaxConcurrentAnalyses)

	go func() {
		defer close(results)

		for _, id := range ids {
			if gctx.Err() != nil {
				break
			}

			g.Go(func() error {
				results <- m.fetchAnalysis(gctx, id)

				return nil
			})
		}

		g.Wait() //nolint:errcheck
	}()

	summary := &Summary{Duplicates: m.duplicates}
	writeCtx := context.WithoutCancel(ctx)
	processed := 0

	for o := range results {
		if o.Failed() && ihttp.IsCanceled(o.Err) {
			continue
		}

		processed++
		m.record(writeCtx, agg, o)
	}

	summary.Stats = agg.Stats()
	summary.Skipped = len(ids) - processed
	summary.Elapsed = time.Since(start)

	if err := ctx.Err(); err != nil {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Canceled, %d analyses not processed", summary.Skipped), Level: LevelWarning})

		return summary, err
	}

	return summary, nil
}

// GetProgress returns current progress.
func (m *Manager) GetProgress() (done, total int32, received int64, files int32) {
	m.mu.RLock()
	total = int32(len(m.ids)) //nolint:gosec
	m.mu.RUnlock()

	return atomic.LoadInt32(&m.doneAnalyses), total,
		atomic.LoadInt64(&m.receivedBytes), atomic.LoadInt32(&m.downloadedFiles)
}

func (m *Manager) record(ctx context.Context, agg *output.Aggregator, o *model.Outcome) {
	before := agg.Stats()

	if err := agg.Add(ctx, o); err != nil {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Error writing results of %s: %v", o.AnalysisID, err), Level: LevelError})
	}

	after := agg.Stats()

	m.metrics.Analyses.WithLabelValues(metrics.Outcome(o.Failed())).Inc()
	m.metrics.Artifacts.WithLabelValues(metrics.OK).Add(float64(len(o.Files)))
	m.metrics.Artifacts.WithLabelValues(metrics.Failed).Add(float64(len(o.DownloadErrors)))
	m.metrics.Bytes.Add(float64(o.Bytes))
	m.metrics.Studies.Add(float64(after.Studies - before.Studies))
	m.metrics.Samples.Add(float64(after.Samples - before.Samples))

	atomic.AddInt32(&m.doneAnalyses, 1)
}

func (m *Manager) fetchAnalysis(ctx context.Context, id string) *model.Outcome {
	o := &model.Outcome{AnalysisID: id}

	m.progress(ProgressEvent{Message: "Fetching " + id, Level: LevelVerbose})

	record, err := m.api.Analysis(ctx, id)
	if err != nil {
		o.Err = &model.FetchError{AnalysisID: id, Err: err}
		if !ihttp.IsCanceled(err) {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Error fetching %s: %v", id, err), Level: LevelError})
		}

		return o
	}

	o.Analysis, o.Sample, o.Study = record.Analysis, record.Sample, record.Study

	selected := record.Analysis.SelectDownloads(m.labels)
	if len(selected) == 0 {
		m.progress(ProgressEvent{Message: "Fetched " + id, Level: LevelSuccess})

		return o
	}

	dir := m.layout.AnalysisDir(id)
	if err := ioutils.EnsureDir(dir); err != nil {
		for _, d := range selected {
			o.DownloadErrors = append(o.DownloadErrors, &model.FetchError{
				AnalysisID: id,
				URL:        d.URL,
				Err:        fmt.Errorf("creating %s: %w", dir, err),
			})
		}

		m.progress(ProgressEvent{Message: fmt.Sprintf("Error creating directory for %s: %v", id, err), Level: LevelError})

		return o
	}

	for _, d := range selected {
		n, err := m.downloadArtifact(ctx, id, d)
		if err != nil {
			o.DownloadErrors = append(o.DownloadErrors, &model.FetchError{AnalysisID: id, URL: d.URL, Err: err})
			m.progress(ProgressEvent{Message: fmt.Sprintf("Error downloading %s of %s: %v", d.ID, id, err), Level: LevelWarning})

			continue
		}

		o.Files = append(o.Files, m.layout.ArtifactPath(id, d.ID))
		o.Bytes += n
	}

	if len(o.DownloadErrors) == 0 {
		m.progress(ProgressEvent{
			Message: fmt.Sprintf("Downloaded %s: %d artifacts (%s)", id, len(o.Files), humanize.IBytes(uint64(o.Bytes))), //nolint:gosec
			Level:   LevelSuccess,
		})
	} else {
		m.progress(ProgressEvent{
			Message: fmt.Sprintf("Finished %s, %d of %d artifacts failed", id, len(o.DownloadErrors), len(selected)),
			Level:   LevelWarning,
		})
	}

	return o
}

func (m *Manager) downloadArtifact(ctx context.Context, id string, d model.Download) (int64, error) {
	if d.URL == "" {
		return 0, fmt.Errorf("artifact %s has no URL", d.ID)
	}

	var last int64

	n, err := m.httpClient.DownloadFile(ctx, d.URL, m.layout.ArtifactPath(id, d.ID), func(written, _ int64) {
		atomic.AddInt64(&m.receivedBytes, written-last)
		last = written
	})
	if err != nil {
		atomic.AddInt64(&m.receivedBytes, -last)

		return 0, err
	}

	atomic.AddInt32(&m.downloadedFiles, 1)
	m.progress(ProgressEvent{Message: fmt.Sprintf("Downloaded: %s/%s", id, d.ID), Level: LevelVerbose})

	return n, nil
}

func (m *Manager) progress(event ProgressEvent) {
	if m.onProgress != nil {
		m.onProgress(event)
	}
}
