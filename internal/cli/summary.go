package cli

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/dustin/go-humanize" //nolint:misspell
	"github.com/olekukonko/tablewriter"

	"github.com/handiism/mgnify-downloader/internal/download"
	"github.com/handiism/mgnify-downloader/internal/output"
)

// logProgress sends manager and enumerator events to appLogger. Verbose
// events are logged at debug level, so only show with --verbose.
func logProgress(event download.ProgressEvent) {
	switch event.Level {
	case download.LevelVerbose:
		appLogger.Debug(event.Message)
	case download.LevelWarning:
		appLogger.Warn(event.Message)
	case download.LevelError:
		appLogger.Error(event.Message)
	default:
		appLogger.Info(event.Message)
	}
}

func printFetchSummary(w io.Writer, s *download.Summary, layout output.Layout) {
	table := newSummaryTable(w)

	table.Append([]string{"Analyses fetched", strconv.Itoa(s.Analyses)})
	table.Append([]string{"Analyses failed", strconv.Itoa(s.Failed)})

	if s.Skipped > 0 {
		table.Append([]string{"Analyses skipped", strconv.Itoa(s.Skipped)})
	}

	if s.Duplicates > 0 {
		table.Append([]string{"Duplicate ids", strconv.Itoa(s.Duplicates)})
	}

	table.Append([]string{"Studies", strconv.Itoa(s.Studies)})
	table.Append([]string{"Samples", strconv.Itoa(s.Samples)})
	table.Append([]string{"Artifacts downloaded", strconv.Itoa(s.Artifacts)})
	table.Append([]string{"Artifacts failed", strconv.Itoa(s.ArtifactErrors)})
	table.Append([]string{"Downloaded", humanize.IBytes(uint64(s.Bytes))}) //nolint:gosec
	table.Append([]string{"Elapsed", s.Elapsed.Round(time.Millisecond).String()})
	table.Render()

	if s.Failed > 0 {
		fmt.Fprintf(w, "Failed analyses: %s\n", layout.ErrorFile())
	}

	if s.ArtifactErrors > 0 {
		fmt.Fprintf(w, "Failed artifacts: %s\n", layout.URLErrorFile())
	}
}

func printListSummary(w io.Writer, s *download.ListSummary, layout output.Layout) {
	table := newSummaryTable(w)

	table.Append([]string{"Analyses listed", strconv.Itoa(s.Count)})
	table.Append([]string{"Pages", strconv.Itoa(s.Pages)})
	table.Append([]string{"Pages failed", strconv.Itoa(len(s.Failed))})
	table.Append([]string{"Assemblies written", strconv.Itoa(s.Rows)})
	table.Append([]string{"Elapsed", s.Elapsed.Round(time.Millisecond).String()})
	table.Render()

	fmt.Fprintf(w, "Assemblies: %s\n", layout.AssemblyList())

	if len(s.Failed) > 0 {
		fmt.Fprintf(w, "Failed pages: %s\n", layout.FailedPages())
	}
}

func newSummaryTable(w io.Writer) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"", "Count"})
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	return table
}
