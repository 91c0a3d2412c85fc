package output

import (
	"fmt"
	"os"

	ioutils "github.com/handiism/mgnify-downloader/internal/io"
	"github.com/handiism/mgnify-downloader/internal/model"
)

// AssemblyList writes the enumerator's output: one "analysis, type, assembly"
// line per listed analysis, and a separate file of pages that failed.
//
// Like Aggregator it belongs to a single goroutine.
type AssemblyList struct {
	layout Layout

	rows   int
	failed int
}

// NewAssemblyList truncates this run's output files.
func NewAssemblyList(layout Layout) (*AssemblyList, error) {
	if err := ioutils.EnsureDir(layout.Root); err != nil {
		return nil, err
	}

	for _, path := range []string{layout.AssemblyList(), layout.FailedPages()} {
		if err := os.WriteFile(path, nil, 0644); err != nil { //nolint:gosec
			return nil, fmt.Errorf("creating %s: %w", path, err)
		}
	}

	return &AssemblyList{layout: layout}, nil
}

// Add appends the rows of one page.
func (l *AssemblyList) Add(refs []model.AssemblyRef) error {
	if len(refs) == 0 {
		return nil
	}

	lines := make([]string, len(refs))
	for i, ref := range refs {
		lines[i] = AssemblyLine(ref)
	}

	if err := ioutils.AppendLines(l.layout.AssemblyList(), lines...); err != nil {
		return err
	}

	l.rows += len(refs)

	return nil
}

// AddFailedPage records a page that could not be read.
func (l *AssemblyList) AddFailedPage(page int, err error) error {
	l.failed++

	return ioutils.AppendLines(l.layout.FailedPages(), fmt.Sprintf("%d\t%s", page, oneLine(err.Error())))
}

// Rows returns how many rows have been written.
func (l *AssemblyList) Rows() int {
	return l.rows
}

// FailedPages returns how many pages have been recorded as failed.
func (l *AssemblyList) FailedPages() int {
	return l.failed
}
