package output

import (
	"fmt"
	"strings"

	ihttp "github.com/handiism/mgnify-downloader/internal/http"
	ioutils "github.com/handiism/mgnify-downloader/internal/io"
	"github.com/handiism/mgnify-downloader/internal/model"
)

// Header rows of the summary tables.
var (
	StudiesHeader = strings.Join([]string{
		"study.accession",
		"study.bioproject",
		"study.secondary_accession",
		"study.centre_name",
		"study.data_origination",
		"study.last_update",
		"study.public_release_date",
		"study.samples_count",
	}, "\t")

	SamplesHeader = strings.Join([]string{
		"sample.accession",
		"sample.studies",
		"sample.sample_name",
		"sample.sample_alias",
		"sample.sample_desc",
		"sample.biome.lineage",
		"sample.environment_biome",
		"sample.environment_feature",
		"sample.environment_material",
		"sample.geo_loc_name",
		"sample.latitude",
		"sample.longitude",
		"sample.analysis_completed",
		"sample.last_update",
		"sample.species",
		"sample.host_tax_id",
	}, "\t")

	AnalysesHeader = strings.Join([]string{
		"analysis.accession",
		"analysis.assembly.accession",
		"analysis.sample.accession",
		"analysis.study.accession",
		"analysis.pipeline_version",
		"analysis.complete_time",
	}, "\t")
)

// StudyRow formats a row of the studies table.
func StudyRow(s *model.Study) string {
	return row(
		s.Accession,
		s.Bioproject,
		s.SecondaryAccession,
		s.CentreName,
		s.DataOrigination,
		s.LastUpdate,
		s.PublicReleaseDate,
		s.SamplesCount,
	)
}

// SampleRow formats a row of the samples table. Study accessions are joined
// with ";".
func SampleRow(s *model.Sample) string {
	return row(
		s.Accession,
		strings.Join(s.StudyAccessions, ";"),
		s.Name,
		s.Alias,
		s.Description,
		s.BiomeLineage,
		s.EnvironmentBiome,
		s.EnvironmentFeature,
		s.EnvironmentMaterial,
		s.GeoLocName,
		s.Latitude,
		s.Longitude,
		s.AnalysisCompleted,
		s.LastUpdate,
		s.Species,
		s.HostTaxID,
	)
}

// AnalysisRow formats a row of the analyses table.
func AnalysisRow(a *model.Analysis) string {
	return row(
		a.Accession,
		a.AssemblyAccession,
		a.SampleAccession,
		a.StudyAccession,
		a.PipelineVersion,
		a.CompleteTime,
	)
}

// StudyNameAndAbstract is the content of a per-study file.
func StudyNameAndAbstract(s *model.Study) []byte {
	return []byte("name: " + s.Name + "\n" + "abstract: " + s.Abstract + "\n")
}

// SampleMetadata is the content of a per-sample file: one key, value, unit
// row per entry in API order.
func SampleMetadata(s *model.Sample) []byte {
	var b strings.Builder

	for _, m := range s.Metadata {
		b.WriteString(row(m.Key, m.Value, m.Unit))
		b.WriteByte('\n')
	}

	return []byte(b.String())
}

// AnalysisErrorLine is the error file line for an analysis that could not be
// retrieved, e.g. "MGYA2 not found: ...". The first field is always the id.
func AnalysisErrorLine(e *model.FetchError) string {
	return fmt.Sprintf("%s %s: %s", e.AnalysisID, ihttp.KindOf(e.Err), oneLine(e.Err.Error()))
}

// DownloadErrorLine is the URL error file line for an artifact that could
// not be downloaded: the analysis id and the URL.
func DownloadErrorLine(e *model.FetchError) string {
	return e.AnalysisID + " " + e.URL
}

// AssemblyLine formats one line of the enumerator output.
func AssemblyLine(ref model.AssemblyRef) string {
	return ref.AnalysisID + ", " + ref.Type + ", " + ref.ID
}

func row(fields ...string) string {
	for i, f := range fields {
		fields[i] = ioutils.TSVField(f)
	}

	return strings.Join(fields, "\t")
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
