// Package model defines the core data structures used throughout
// the mgnify-downloader application.
//
// # Records
//
// Analysis, Sample and Study mirror the MGnify API resources the fetcher
// retrieves. They are plain values: fetched fresh on every run and held only
// until they have been written out.
//
//	analysis.Accession         // "MGYA00585223"
//	analysis.AssemblyAccession // "ERZ1746242"
//	sample.StudyAccessions     // a sample may belong to several studies
//
// # Artifact Codes
//
// Users select artifact types by number. ParseArtifactCodes converts the
// numbers into a LabelSet matched against Download.Label:
//
//	labels, warnings, err := model.ParseArtifactCodes([]int{1, 7})
//	for _, d := range analysis.SelectDownloads(labels) {
//	    fmt.Println(d.URL)
//	}
//
// # Outcomes
//
// Every analysis id processed by the fetcher produces one Outcome, either
// carrying the retrieved records or an analysis level FetchError.
package model
