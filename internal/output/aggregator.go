package output

import (
	"context"
	"fmt"
	"os"

	"github.com/hashicorp/go-multierror"

	ioutils "github.com/handiism/mgnify-downloader/internal/io"
	"github.com/handiism/mgnify-downloader/internal/model"
)

// Stats counts what an Aggregator has written.
type Stats struct {
	Analyses       int
	Failed         int
	Studies        int
	Samples        int
	Artifacts      int
	ArtifactErrors int
	Bytes          int64
}

// Aggregator writes fetch outcomes to the output tree.
//
// An Aggregator is not safe for concurrent use: it is owned by the single
// goroutine that drains worker results. It remembers which studies and
// samples it has written, so each appears once in its summary table and
// gets one per-entity file, however many analyses reference it.
//
// Every write opens, appends to and closes its file within the call.
type Aggregator struct {
	layout Layout

	seenStudies map[string]struct{}
	seenSamples map[string]struct{}

	stats Stats
}

// NewAggregator creates the output directories, writes fresh table headers
// and truncates this run's error files.
func NewAggregator(layout Layout) (*Aggregator, error) {
	if err := layout.Prepare(); err != nil {
		return nil, fmt.Errorf("preparing output directories: %w", err)
	}

	files := []struct {
		path   string
		header string
	}{
		{layout.StudiesTable(), StudiesHeader},
		{layout.SamplesTable(), SamplesHeader},
		{layout.AnalysesTable(), AnalysesHeader},
		{layout.ErrorFile(), ""},
		{layout.URLErrorFile(), ""},
	}

	for _, f := range files {
		var data []byte
		if f.header != "" {
			data = []byte(f.header + "\n")
		}

		if err := os.WriteFile(f.path, data, 0644); err != nil { //nolint:gosec
			return nil, fmt.Errorf("creating %s: %w", f.path, err)
		}
	}

	return &Aggregator{
		layout:      layout,
		seenStudies: make(map[string]struct{}),
		seenSamples: make(map[string]struct{}),
	}, nil
}

// Add records one outcome.
//
// A failed outcome becomes one line in the error file. A successful one
// becomes a row in the analyses table, plus study and sample output on
// first sight, plus one line in the URL error file per failed artifact.
//
// All writes are attempted; their errors are returned together.
func (a *Aggregator) Add(ctx context.Context, o *model.Outcome) error {
	if o.Failed() {
		a.stats.Failed++

		return ioutils.AppendLines(a.layout.ErrorFile(), AnalysisErrorLine(o.Err))
	}

	var errm *multierror.Error

	if o.Study != nil {
		errm = multierror.Append(errm, a.addStudy(ctx, o.Study))
	}

	if o.Sample != nil {
		errm = multierror.Append(errm, a.addSample(ctx, o.Sample))
	}

	errm = multierror.Append(errm, ioutils.AppendLines(a.layout.AnalysesTable(), AnalysisRow(o.Analysis)))
	a.stats.Analyses++
	a.stats.Artifacts += len(o.Files)
	a.stats.Bytes += o.Bytes

	if len(o.DownloadErrors) > 0 {
		lines := make([]string, len(o.DownloadErrors))
		for i, e := range o.DownloadErrors {
			lines[i] = DownloadErrorLine(e)
		}

		errm = multierror.Append(errm, ioutils.AppendLines(a.layout.URLErrorFile(), lines...))
		a.stats.ArtifactErrors += len(o.DownloadErrors)
	}

	return errm.ErrorOrNil()
}

// Stats returns the counts so far.
func (a *Aggregator) Stats() Stats {
	return a.stats
}

// Layout returns the layout the Aggregator writes to.
func (a *Aggregator) Layout() Layout {
	return a.layout
}

func (a *Aggregator) addStudy(ctx context.Context, s *model.Study) error {
	if _, ok := a.seenStudies[s.Accession]; ok {
		return nil
	}

	a.seenStudies[s.Accession] = struct{}{}
	a.stats.Studies++

	var errm *multierror.Error
	errm = multierror.Append(errm, ioutils.WriteFile(ctx, a.layout.StudyFile(s.Accession), StudyNameAndAbstract(s)))
	errm = multierror.Append(errm, ioutils.AppendLines(a.layout.StudiesTable(), StudyRow(s)))

	return errm.ErrorOrNil()
}

func (a *Aggregator) addSample(ctx context.Context, s *model.Sample) error {
	if _, ok := a.seenSamples[s.Accession]; ok {
		return nil
	}

	a.seenSamples[s.Accession] = struct{}{}
	a.stats.Samples++

	var errm *multierror.Error
	errm = multierror.Append(errm, ioutils.WriteFile(ctx, a.layout.SampleFile(s.Accession), SampleMetadata(s)))
	errm = multierror.Append(errm, ioutils.AppendLines(a.layout.SamplesTable(), SampleRow(s)))

	return errm.ErrorOrNil()
}
