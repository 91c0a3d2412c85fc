package output

import (
	"path/filepath"
	"time"

	ioutils "github.com/handiism/mgnify-downloader/internal/io"
)

// DateFormat is the layout of the {date} part of dated file names.
const DateFormat = "2006-01-02"

// Directory names under the output root.
const (
	AnalysesDir = "analyses_assemblies"
	StudiesDir  = "studies_name_and_abstract"
	SamplesDir  = "samples_metadata"
	TablesDir   = "additional"
)

// Layout computes every path the downloader writes to.
//
// Example:
//
//	l := output.NewLayout("/data/run1", time.Now())
//	l.ArtifactPath("MGYA1", "ERZ1_FASTA.fasta.gz")
//	// "/data/run1/analyses_assemblies/MGYA1/ERZ1_FASTA.fasta.gz"
type Layout struct {
	Root string
	Date string
}

// NewLayout returns the layout for root with dated files stamped with day.
func NewLayout(root string, day time.Time) Layout {
	if root == "" {
		root = "."
	}

	return Layout{Root: root, Date: day.Format(DateFormat)}
}

// Prepare creates the fetcher's directories.
func (l Layout) Prepare() error {
	for _, dir := range []string{AnalysesDir, StudiesDir, SamplesDir, TablesDir} {
		if err := ioutils.EnsureDir(filepath.Join(l.Root, dir)); err != nil {
			return err
		}
	}

	return nil
}

// AnalysisDir is the directory artifacts of one analysis are saved in.
func (l Layout) AnalysisDir(analysisID string) string {
	return filepath.Join(l.Root, AnalysesDir, ioutils.SanitizeFileName(analysisID))
}

// ArtifactPath is where one artifact is saved.
func (l Layout) ArtifactPath(analysisID, artifactID string) string {
	return filepath.Join(l.AnalysisDir(analysisID), ioutils.SanitizeFileName(artifactID))
}

// StudyFile is the per-study name and abstract file.
func (l Layout) StudyFile(studyID string) string {
	return filepath.Join(l.Root, StudiesDir, ioutils.SanitizeFileName(studyID)+".name_and_abstract")
}

// SampleFile is the per-sample metadata file.
func (l Layout) SampleFile(sampleID string) string {
	return filepath.Join(l.Root, SamplesDir, ioutils.SanitizeFileName(sampleID)+".metadata")
}

// StudiesTable is the shared studies summary.
func (l Layout) StudiesTable() string {
	return filepath.Join(l.Root, TablesDir, "1_studies.txt")
}

// SamplesTable is the shared samples summary.
func (l Layout) SamplesTable() string {
	return filepath.Join(l.Root, TablesDir, "2_samples.txt")
}

// AnalysesTable is the shared analyses summary.
func (l Layout) AnalysesTable() string {
	return filepath.Join(l.Root, TablesDir, "4_analyses.txt")
}

// ErrorFile lists analyses that could not be retrieved.
func (l Layout) ErrorFile() string {
	return filepath.Join(l.Root, TablesDir, "not_downloaded.assemblies."+l.Date+"_analyses.txt")
}

// URLErrorFile lists artifacts that could not be downloaded.
func (l Layout) URLErrorFile() string {
	return filepath.Join(l.Root, TablesDir, "not_downloaded.assemblies."+l.Date+"_analyses.urls.txt")
}

// AssemblyList is the enumerator's output.
func (l Layout) AssemblyList() string {
	return filepath.Join(l.Root, l.Date+"_analyses_and_assembly.txt")
}

// FailedPages lists listing pages the enumerator could not read.
func (l Layout) FailedPages() string {
	return filepath.Join(l.Root, l.Date+"_analyses_and_assembly.failed_pages.txt")
}
