package model

// Analysis represents one MGnify analysis of a metagenomic assembly.
//
// An Analysis links to exactly one assembly, one sample and one study, and
// exposes a list of downloadable artifacts produced by the pipeline run.
//
// Example:
//
//	for _, d := range analysis.Downloads {
//	    if selected.Contains(d.Label) {
//	        fmt.Println(d.ID, d.URL)
//	    }
//	}
type Analysis struct {
	// Accession is the analysis identifier, e.g. "MGYA00585223".
	Accession string

	// AssemblyAccession is the linked assembly, e.g. "ERZ1746242".
	// Empty when the analysis is not assembly based.
	AssemblyAccession string

	// SampleAccession and StudyAccession identify the linked entities.
	SampleAccession string
	StudyAccession  string

	// PipelineVersion is the MGnify pipeline release, e.g. "5.0".
	PipelineVersion string

	// CompleteTime is the completion timestamp as reported by the API.
	CompleteTime string

	// Downloads lists the artifacts this analysis exposes.
	Downloads []Download
}

// Download describes a single downloadable artifact of an analysis.
type Download struct {
	// ID is the remote artifact id, also used as the local file name.
	ID string

	// URL is where the artifact can be fetched from.
	URL string

	// Label is the human readable artifact type, e.g. "Processed contigs".
	Label string
}

// SelectDownloads returns the downloads whose label is in the given set,
// preserving the order the API listed them in.
func (a *Analysis) SelectDownloads(labels LabelSet) []Download {
	var out []Download

	for _, d := range a.Downloads {
		if labels.Contains(d.Label) {
			out = append(out, d)
		}
	}

	return out
}

// AssemblyRef is one row of the enumerator output: an analysis and the
// assembly it was computed from.
type AssemblyRef struct {
	AnalysisID string
	Type       string
	ID         string
}
