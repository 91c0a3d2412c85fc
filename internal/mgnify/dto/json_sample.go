package dto

import (
	"fmt"

	ioutils "github.com/handiism/mgnify-downloader/internal/io"
	"github.com/handiism/mgnify-downloader/internal/model"
)

// JSONSample holds the attributes of a "samples" resource.
type JSONSample struct {
	Accession           Value                `json:"accession"`
	Name                Value                `json:"sample-name"`
	Alias               Value                `json:"sample-alias"`
	Description         Value                `json:"sample-desc"`
	EnvironmentBiome    Value                `json:"environment-biome"`
	EnvironmentFeature  Value                `json:"environment-feature"`
	EnvironmentMaterial Value                `json:"environment-material"`
	GeoLocName          Value                `json:"geo-loc-name"`
	Latitude            Value                `json:"latitude"`
	Longitude           Value                `json:"longitude"`
	AnalysisCompleted   Value                `json:"analysis-completed"`
	LastUpdate          Value                `json:"last-update"`
	Species             Value                `json:"species"`
	HostTaxID           Value                `json:"host-tax-id"`
	Metadata            []JSONSampleMetadata `json:"sample-metadata"`
}

// JSONSampleMetadata is one entry of sample-metadata.
type JSONSampleMetadata struct {
	Key   Value `json:"key"`
	Value Value `json:"value"`
	Unit  Value `json:"unit"`
}

// ToSample converts a sample resource to the model.
//
// The biome lineage is the id of the biome relationship. Study accessions
// are taken from the studies relationship when the document carries its
// data; otherwise they are left empty for the caller to resolve.
//
// Cleaning applied on the way in:
//   - description line breaks flattened
//   - species left-trimmed
//   - metadata units HTML-unescaped
func ToSample(r *Resource) (*model.Sample, error) {
	var attrs JSONSample
	if err := r.DecodeAttributes(&attrs); err != nil {
		return nil, err
	}

	sample := &model.Sample{
		Accession:           attrs.Accession.String(),
		Name:                attrs.Name.String(),
		Alias:               attrs.Alias.String(),
		Description:         ioutils.CleanDescription(attrs.Description.String()),
		EnvironmentBiome:    attrs.EnvironmentBiome.String(),
		EnvironmentFeature:  attrs.EnvironmentFeature.String(),
		EnvironmentMaterial: attrs.EnvironmentMaterial.String(),
		GeoLocName:          attrs.GeoLocName.String(),
		Latitude:            attrs.Latitude.String(),
		Longitude:           attrs.Longitude.String(),
		AnalysisCompleted:   attrs.AnalysisCompleted.String(),
		LastUpdate:          attrs.LastUpdate.String(),
		Species:             ioutils.CleanSpecies(attrs.Species.String()),
		HostTaxID:           attrs.HostTaxID.String(),
	}

	if sample.Accession == "" {
		sample.Accession = r.ID
	}

	for _, m := range attrs.Metadata {
		sample.Metadata = append(sample.Metadata, model.MetadataEntry{
			Key:   m.Key.String(),
			Value: m.Value.String(),
			Unit:  ioutils.FormatUnit(m.Unit.String()),
		})
	}

	biome, err := r.Relationship("biome").One()
	if err != nil {
		return nil, fmt.Errorf("sample %s biome: %w", r.ID, err)
	}

	if biome != nil {
		sample.BiomeLineage = biome.ID
	}

	studies, _, err := r.Relationship("studies").Many()
	if err != nil {
		return nil, fmt.Errorf("sample %s studies: %w", r.ID, err)
	}

	for _, s := range studies {
		sample.StudyAccessions = append(sample.StudyAccessions, s.ID)
	}

	return sample, nil
}
