package dto

import (
	"fmt"

	"github.com/handiism/mgnify-downloader/internal/model"
)

// JSONAnalysis holds the attributes of an "analysis-jobs" resource.
type JSONAnalysis struct {
	Accession       Value `json:"accession"`
	PipelineVersion Value `json:"pipeline-version"`
	CompleteTime    Value `json:"complete-time"`
	ExperimentType  Value `json:"experiment-type"`
}

// ToAnalysis converts an analysis resource to the model. Downloads are not
// filled in; they are resolved separately.
func ToAnalysis(r *Resource) (*model.Analysis, error) {
	var attrs JSONAnalysis
	if err := r.DecodeAttributes(&attrs); err != nil {
		return nil, err
	}

	analysis := &model.Analysis{
		Accession:       attrs.Accession.String(),
		PipelineVersion: attrs.PipelineVersion.String(),
		CompleteTime:    attrs.CompleteTime.String(),
	}

	if analysis.Accession == "" {
		analysis.Accession = r.ID
	}

	links := []struct {
		name string
		dst  *string
	}{
		{"assembly", &analysis.AssemblyAccession},
		{"sample", &analysis.SampleAccession},
		{"study", &analysis.StudyAccession},
	}

	for _, l := range links {
		id, err := r.Relationship(l.name).One()
		if err != nil {
			return nil, fmt.Errorf("analysis %s %s: %w", r.ID, l.name, err)
		}

		if id != nil {
			*l.dst = id.ID
		}
	}

	return analysis, nil
}

// ToAssemblyRef returns the enumerator row for an analysis listing entry, or
// nil when the analysis has no linked assembly.
func ToAssemblyRef(r *Resource) (*model.AssemblyRef, error) {
	id, err := r.Relationship("assembly").One()
	if err != nil {
		return nil, fmt.Errorf("analysis %s assembly: %w", r.ID, err)
	}

	if id == nil {
		return nil, nil
	}

	return &model.AssemblyRef{AnalysisID: r.ID, Type: id.Type, ID: id.ID}, nil
}
