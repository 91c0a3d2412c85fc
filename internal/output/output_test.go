package output

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/handiism/mgnify-downloader/internal/model"
	. "github.com/smartystreets/goconvey/convey"
)

func readLines(path string) []string {
	data, err := os.ReadFile(path)
	So(err, ShouldBeNil)

	if len(data) == 0 {
		return nil
	}

	return strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
}

func outcome(id, sample, study string) *model.Outcome {
	return &model.Outcome{
		AnalysisID: id,
		Analysis: &model.Analysis{
			Accession:         id,
			AssemblyAccession: "ERZ" + id,
			SampleAccession:   sample,
			StudyAccession:    study,
			PipelineVersion:   "5.0",
			CompleteTime:      "2021-01-01",
		},
		Sample: &model.Sample{
			Accession:       sample,
			Name:            "name\twith tab",
			StudyAccessions: []string{study, "MGYS9"},
			Metadata:        []model.MetadataEntry{{Key: "depth", Value: "1", Unit: "m"}, {Key: "ph", Value: "7"}},
		},
		Study: &model.Study{Accession: study, Name: "Study " + study, Abstract: "About " + study},
	}
}

func TestLayout(t *testing.T) {
	Convey("Given a layout for a fixed day", t, func() {
		l := NewLayout("/out", time.Date(2024, 5, 6, 12, 0, 0, 0, time.UTC))

		Convey("Paths follow the output tree", func() {
			So(l.ArtifactPath("MGYA1", "ERZ1_FASTA.fasta.gz"), ShouldEqual, "/out/analyses_assemblies/MGYA1/ERZ1_FASTA.fasta.gz")
			So(l.ArtifactPath("MGYA1", "../escape"), ShouldEqual, "/out/analyses_assemblies/MGYA1/_escape")
			So(l.StudyFile("MGYS1"), ShouldEqual, "/out/studies_name_and_abstract/MGYS1.name_and_abstract")
			So(l.SampleFile("ERS1"), ShouldEqual, "/out/samples_metadata/ERS1.metadata")
			So(l.StudiesTable(), ShouldEqual, "/out/additional/1_studies.txt")
			So(l.SamplesTable(), ShouldEqual, "/out/additional/2_samples.txt")
			So(l.AnalysesTable(), ShouldEqual, "/out/additional/4_analyses.txt")
			So(l.ErrorFile(), ShouldEqual, "/out/additional/not_downloaded.assemblies.2024-05-06_analyses.txt")
			So(l.URLErrorFile(), ShouldEqual, "/out/additional/not_downloaded.assemblies.2024-05-06_analyses.urls.txt")
			So(l.AssemblyList(), ShouldEqual, "/out/2024-05-06_analyses_and_assembly.txt")
			So(l.FailedPages(), ShouldEqual, "/out/2024-05-06_analyses_and_assembly.failed_pages.txt")
		})

		Convey("An empty root means the working directory", func() {
			So(NewLayout("", time.Now()).Root, ShouldEqual, ".")
		})
	})
}

func TestAggregator(t *testing.T) {
	ctx := context.Background()

	Convey("Given a new aggregator", t, func() {
		l := NewLayout(t.TempDir(), time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC))
		agg, err := NewAggregator(l)
		So(err, ShouldBeNil)

		Convey("Tables start with just their headers", func() {
			So(readLines(l.StudiesTable()), ShouldResemble, []string{StudiesHeader})
			So(readLines(l.SamplesTable()), ShouldResemble, []string{SamplesHeader})
			So(readLines(l.AnalysesTable()), ShouldResemble, []string{AnalysesHeader})
			So(readLines(l.ErrorFile()), ShouldBeNil)
			So(readLines(l.URLErrorFile()), ShouldBeNil)
		})

		Convey("Shared studies and samples are written once", func() {
			So(agg.Add(ctx, outcome("MGYA1", "ERS1", "MGYS1")), ShouldBeNil)
			So(agg.Add(ctx, outcome("MGYA2", "ERS1", "MGYS1")), ShouldBeNil)
			So(agg.Add(ctx, outcome("MGYA3", "ERS2", "MGYS1")), ShouldBeNil)

			studies := readLines(l.StudiesTable())
			So(studies, ShouldHaveLength, 2)
			So(studies[1], ShouldStartWith, "MGYS1\t")

			samples := readLines(l.SamplesTable())
			So(samples, ShouldHaveLength, 3)
			So(samples[1], ShouldStartWith, "ERS1\tMGYS1;MGYS9\tname with tab\t")
			So(samples[2], ShouldStartWith, "ERS2\t")
			So(strings.Count(samples[1], "\t"), ShouldEqual, 15)

			So(readLines(l.AnalysesTable()), ShouldResemble, []string{
				AnalysesHeader,
				"MGYA1\tERZMGYA1\tERS1\tMGYS1\t5.0\t2021-01-01",
				"MGYA2\tERZMGYA2\tERS1\tMGYS1\t5.0\t2021-01-01",
				"MGYA3\tERZMGYA3\tERS2\tMGYS1\t5.0\t2021-01-01",
			})

			data, err := os.ReadFile(l.StudyFile("MGYS1"))
			So(err, ShouldBeNil)
			So(string(data), ShouldEqual, "name: Study MGYS1\nabstract: About MGYS1\n")

			data, err = os.ReadFile(l.SampleFile("ERS1"))
			So(err, ShouldBeNil)
			So(string(data), ShouldEqual, "depth\t1\tm\nph\t7\t\n")

			files, err := os.ReadDir(filepath.Join(l.Root, StudiesDir))
			So(err, ShouldBeNil)
			So(files, ShouldHaveLength, 1)

			So(agg.Stats(), ShouldResemble, Stats{Analyses: 3, Studies: 1, Samples: 2})
		})

		Convey("Failures go to the error files", func() {
			So(agg.Add(ctx, &model.Outcome{
				AnalysisID: "MGYA9",
				Err:        &model.FetchError{AnalysisID: "MGYA9", Err: errors.New("boom\nsecond line")},
			}), ShouldBeNil)

			o := outcome("MGYA1", "ERS1", "MGYS1")
			o.Files = []string{"a"}
			o.Bytes = 10
			o.DownloadErrors = []*model.FetchError{
				{AnalysisID: "MGYA1", URL: "https://x/1", Err: errors.New("500")},
				{AnalysisID: "MGYA1", URL: "https://x/2", Err: errors.New("500")},
			}
			So(agg.Add(ctx, o), ShouldBeNil)

			So(readLines(l.ErrorFile()), ShouldResemble, []string{"MGYA9 network error: boom second line"})
			So(readLines(l.URLErrorFile()), ShouldResemble, []string{"MGYA1 https://x/1", "MGYA1 https://x/2"})
			So(readLines(l.AnalysesTable()), ShouldHaveLength, 2)
			So(agg.Stats(), ShouldResemble, Stats{
				Analyses: 1, Failed: 1, Studies: 1, Samples: 1,
				Artifacts: 1, ArtifactErrors: 2, Bytes: 10,
			})
		})

		Convey("A second run starts from fresh tables", func() {
			So(agg.Add(ctx, outcome("MGYA1", "ERS1", "MGYS1")), ShouldBeNil)

			again, err := NewAggregator(l)
			So(err, ShouldBeNil)
			So(again.Add(ctx, outcome("MGYA1", "ERS1", "MGYS1")), ShouldBeNil)

			So(readLines(l.AnalysesTable()), ShouldHaveLength, 2)
			So(readLines(l.StudiesTable()), ShouldHaveLength, 2)
		})

		Convey("Write failures are reported", func() {
			So(os.RemoveAll(filepath.Join(l.Root, TablesDir)), ShouldBeNil)
			So(agg.Add(ctx, outcome("MGYA1", "ERS1", "MGYS1")), ShouldNotBeNil)
		})
	})
}

func TestAssemblyList(t *testing.T) {
	Convey("Given a new assembly list", t, func() {
		l := NewLayout(t.TempDir(), time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC))
		list, err := NewAssemblyList(l)
		So(err, ShouldBeNil)

		Convey("Rows are appended in the order pages arrive", func() {
			So(list.Add([]model.AssemblyRef{{AnalysisID: "MGYA2", Type: "assemblies", ID: "ERZ2"}}), ShouldBeNil)
			So(list.Add(nil), ShouldBeNil)
			So(list.Add([]model.AssemblyRef{{AnalysisID: "MGYA1", Type: "assemblies", ID: "ERZ1"}}), ShouldBeNil)

			So(readLines(l.AssemblyList()), ShouldResemble, []string{
				"MGYA2, assemblies, ERZ2",
				"MGYA1, assemblies, ERZ1",
			})
			So(list.Rows(), ShouldEqual, 2)
		})

		Convey("Failed pages are recorded separately", func() {
			So(list.AddFailedPage(7, errors.New("network error: GET x: HTTP 502")), ShouldBeNil)

			So(readLines(l.FailedPages()), ShouldResemble, []string{"7\tnetwork error: GET x: HTTP 502"})
			So(readLines(l.AssemblyList()), ShouldBeNil)
			So(list.FailedPages(), ShouldEqual, 1)
		})
	})
}
