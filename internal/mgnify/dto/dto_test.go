package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValue_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		in      string
		want    Value
		wantErr bool
	}{
		{`"text"`, "text", false},
		{`null`, "", false},
		{`42`, "42", false},
		{`-0.25`, "-0.25", false},
		{`true`, "true", false},
		{`{}`, "", true},
		{`[1]`, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var v Value

			err := json.Unmarshal([]byte(tt.in), &v)
			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, v)
		})
	}
}

const embeddedDoc = `{
  "data": {
    "type": "analysis-jobs",
    "id": "MGYA7",
    "attributes": {"accession": "MGYA7", "pipeline-version": 4.1, "complete-time": null},
    "relationships": {
      "assembly": {"data": {"type": "assemblies", "id": "ERZ7"}},
      "sample": {"data": {"type": "samples", "id": "ERS7"}},
      "study": {"data": null},
      "downloads": {"data": [{"type": "analysis-downloads", "id": "ERZ7_FASTA.fasta.gz"}]}
    }
  },
  "included": [
    {
      "type": "analysis-downloads",
      "id": "ERZ7_FASTA.fasta.gz",
      "attributes": {"description": {"label": "Processed contigs"}},
      "links": {"self": "https://example.org/ERZ7_FASTA.fasta.gz"}
    },
    {
      "type": "samples",
      "id": "ERS7",
      "attributes": {"sample-desc": "line one\nline two", "sample-metadata": [{"key": "k", "value": 3, "unit": null}]},
      "relationships": {
        "biome": {"data": {"type": "biomes", "id": "root:Host-associated"}},
        "studies": {"data": [{"type": "studies", "id": "MGYS7"}, {"type": "studies", "id": "MGYS8"}]}
      }
    }
  ]
}`

func TestEmbeddedDocument(t *testing.T) {
	var doc Document
	require.NoError(t, json.Unmarshal([]byte(embeddedDoc), &doc))

	analysis, err := ToAnalysis(&doc.Data)
	require.NoError(t, err)
	assert.Equal(t, "MGYA7", analysis.Accession)
	assert.Equal(t, "ERZ7", analysis.AssemblyAccession)
	assert.Equal(t, "ERS7", analysis.SampleAccession)
	assert.Equal(t, "", analysis.StudyAccession)
	assert.Equal(t, "4.1", analysis.PipelineVersion)
	assert.Equal(t, "", analysis.CompleteTime)

	ids, embedded, err := doc.Data.Relationship("downloads").Many()
	require.NoError(t, err)
	require.True(t, embedded)
	require.Len(t, ids, 1)

	r := doc.Find(ids[0])
	require.NotNil(t, r)

	d, err := ToDownload(r)
	require.NoError(t, err)
	assert.Equal(t, "Processed contigs", d.Label)
	assert.Equal(t, "https://example.org/ERZ7_FASTA.fasta.gz", d.URL)

	sr := doc.Find(Identifier{Type: "samples", ID: "ERS7"})
	require.NotNil(t, sr)

	sample, err := ToSample(sr)
	require.NoError(t, err)
	assert.Equal(t, "ERS7", sample.Accession)
	assert.Equal(t, "line one line two", sample.Description)
	assert.Equal(t, "root:Host-associated", sample.BiomeLineage)
	assert.Equal(t, []string{"MGYS7", "MGYS8"}, sample.StudyAccessions)
	require.Len(t, sample.Metadata, 1)
	assert.Equal(t, "3", sample.Metadata[0].Value)
	assert.Equal(t, "", sample.Metadata[0].Unit)
}

func TestToAssemblyRef(t *testing.T) {
	var coll Collection
	require.NoError(t, json.Unmarshal([]byte(`{
		"data": [
			{"type": "analysis-jobs", "id": "MGYA1", "relationships": {"assembly": {"data": {"type": "assemblies", "id": "ERZ1"}}}},
			{"type": "analysis-jobs", "id": "MGYA2", "relationships": {"assembly": {"data": null}}},
			{"type": "analysis-jobs", "id": "MGYA3"}
		],
		"meta": {"pagination": {"page": 1, "pages": 9, "count": 25}}
	}`), &coll))

	assert.Equal(t, Pagination{Page: 1, Pages: 9, Count: 25}, coll.Meta.Pagination)

	ref, err := ToAssemblyRef(&coll.Data[0])
	require.NoError(t, err)
	require.NotNil(t, ref)
	assert.Equal(t, "MGYA1", ref.AnalysisID)
	assert.Equal(t, "assemblies", ref.Type)
	assert.Equal(t, "ERZ1", ref.ID)

	for _, r := range coll.Data[1:] {
		ref, err := ToAssemblyRef(&r)
		require.NoError(t, err)
		assert.Nil(t, ref)
	}
}
