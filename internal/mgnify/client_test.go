package mgnify

import (
	"context"
	"errors"
	"testing"

	ihttp "github.com/handiism/mgnify-downloader/internal/http"
	"github.com/handiism/mgnify-downloader/internal/mgnify/mgnifytest"
	"github.com/handiism/mgnify-downloader/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFake(t *testing.T) (*mgnifytest.Server, *Client) {
	t.Helper()

	srv := mgnifytest.NewServer()
	t.Cleanup(srv.Close)

	srv.AddStudy(mgnifytest.Study{ID: "MGYS1", Name: "Soil survey", Abstract: "Soils of the world."})
	srv.AddStudy(mgnifytest.Study{ID: "MGYS2", Name: "Second look"})
	srv.AddSample(mgnifytest.Sample{
		ID:          "ERS1",
		Name:        "soil-1",
		Description: "top\r\nsoil  layer",
		Species:     "\nsoil metagenome",
		Biome:       "root:Environmental:Terrestrial:Soil",
		Studies:     []string{"MGYS1", "MGYS2"},
		Metadata:    [][3]string{{"temperature", "21", "&#176;C"}, {"depth", "0.1", "m"}, {"note", "dry", ""}},
	})
	srv.AddAnalysis(mgnifytest.Analysis{
		ID:        "MGYA1",
		Assembly:  "ERZ1",
		Sample:    "ERS1",
		Study:     "MGYS1",
		Pipeline:  "5.0",
		Completed: "2021-03-04T10:00:00",
		Downloads: []mgnifytest.Download{
			{ID: "ERZ1_FASTA.fasta.gz", Label: "Processed contigs", Body: ">c1\nACGT\n"},
			{ID: "ERZ1_IPR.tsv.gz", Label: "InterPro matches", Body: "ipr"},
		},
	})

	return srv, NewClient(ihttp.NewClient(), srv.URL+"/")
}

func TestClient_Analysis(t *testing.T) {
	srv, api := newFake(t)

	record, err := api.Analysis(context.Background(), "MGYA1")
	require.NoError(t, err)

	a := record.Analysis
	assert.Equal(t, "MGYA1", a.Accession)
	assert.Equal(t, "ERZ1", a.AssemblyAccession)
	assert.Equal(t, "ERS1", a.SampleAccession)
	assert.Equal(t, "MGYS1", a.StudyAccession)
	assert.Equal(t, "5.0", a.PipelineVersion)
	assert.Equal(t, "2021-03-04T10:00:00", a.CompleteTime)
	assert.Equal(t, []model.Download{
		{ID: "ERZ1_FASTA.fasta.gz", URL: srv.FileURL("MGYA1", "ERZ1_FASTA.fasta.gz"), Label: "Processed contigs"},
		{ID: "ERZ1_IPR.tsv.gz", URL: srv.FileURL("MGYA1", "ERZ1_IPR.tsv.gz"), Label: "InterPro matches"},
	}, a.Downloads)

	s := record.Sample
	require.NotNil(t, s)
	assert.Equal(t, "ERS1", s.Accession)
	assert.Equal(t, "top soil layer", s.Description)
	assert.Equal(t, "soil metagenome", s.Species)
	assert.Equal(t, "root:Environmental:Terrestrial:Soil", s.BiomeLineage)
	assert.Equal(t, "", s.Alias)
	assert.Equal(t, "51.5", s.Latitude)
	assert.Equal(t, "-0.12", s.Longitude)
	assert.Equal(t, []string{"MGYS1", "MGYS2"}, s.StudyAccessions)
	assert.Equal(t, []model.MetadataEntry{
		{Key: "temperature", Value: "21", Unit: "°C"},
		{Key: "depth", Value: "0.1", Unit: "m"},
		{Key: "note", Value: "dry", Unit: ""},
	}, s.Metadata)

	st := record.Study
	require.NotNil(t, st)
	assert.Equal(t, "MGYS1", st.Accession)
	assert.Equal(t, "Soil survey", st.Name)
	assert.Equal(t, "Soils of the world.", st.Abstract)
	assert.Equal(t, "1", st.SamplesCount)
	assert.Equal(t, "", st.Bioproject)
}

func TestClient_AnalysisNotFound(t *testing.T) {
	_, api := newFake(t)

	_, err := api.Analysis(context.Background(), "MGYA404")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ihttp.ErrNotFound))
	assert.Equal(t, ihttp.KindNotFound, ihttp.KindOf(err))
}

func TestClient_AnalysisMissingStudy(t *testing.T) {
	srv, api := newFake(t)
	srv.AddAnalysis(mgnifytest.Analysis{ID: "MGYA2", Sample: "ERS1", Study: "MGYS404"})

	_, err := api.Analysis(context.Background(), "MGYA2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MGYS404")
	assert.True(t, errors.Is(err, ihttp.ErrNotFound))
}

func TestClient_AnalysisDownloadIDsNotIncluded(t *testing.T) {
	srv, api := newFake(t)
	srv.AddAnalysis(mgnifytest.Analysis{
		ID: "MGYA3", Assembly: "ERZ3", Sample: "ERS1", Study: "MGYS1", ListDownloadIDs: true,
		Downloads: []mgnifytest.Download{{ID: "ERZ3_FASTA.fasta.gz", Label: "Processed contigs", Body: ">c\n"}},
	})

	record, err := api.Analysis(context.Background(), "MGYA3")
	require.NoError(t, err)
	require.Len(t, record.Analysis.Downloads, 1)
	assert.Equal(t, "ERZ3_FASTA.fasta.gz", record.Analysis.Downloads[0].ID)
	assert.Equal(t, "Processed contigs", record.Analysis.Downloads[0].Label)
	assert.Equal(t, srv.FileURL("MGYA3", "ERZ3_FASTA.fasta.gz"), record.Analysis.Downloads[0].URL)
}

func TestClient_AnalysesPage(t *testing.T) {
	srv, api := newFake(t)
	srv.SetListing(
		mgnifytest.Listing{AnalysisID: "MGYA1", AssemblyType: "assemblies", AssemblyID: "ERZ1"},
		mgnifytest.Listing{AnalysisID: "MGYA2"},
		mgnifytest.Listing{AnalysisID: "MGYA3", AssemblyType: "assemblies", AssemblyID: "ERZ3"},
	)

	tests := []struct {
		page     int
		wantRefs []model.AssemblyRef
	}{
		{1, []model.AssemblyRef{{AnalysisID: "MGYA1", Type: "assemblies", ID: "ERZ1"}}},
		{2, []model.AssemblyRef{{AnalysisID: "MGYA3", Type: "assemblies", ID: "ERZ3"}}},
	}

	for _, tt := range tests {
		page, err := api.AnalysesPage(context.Background(), tt.page, 2)
		require.NoError(t, err)

		assert.Equal(t, tt.page, page.Number)
		assert.Equal(t, 2, page.Pages)
		assert.Equal(t, 3, page.Count)
		assert.Equal(t, tt.wantRefs, page.Refs)
	}

	srv.FailPage(1)

	_, err := api.AnalysesPage(context.Background(), 1, 2)
	assert.True(t, errors.Is(err, ihttp.ErrTransient))
}
