package model

// Study holds the metadata of an MGnify study.
type Study struct {
	Accession          string
	Bioproject         string
	SecondaryAccession string
	CentreName         string
	DataOrigination    string
	LastUpdate         string
	PublicReleaseDate  string
	SamplesCount       string

	// Name and Abstract are written to the per-study name_and_abstract file.
	Name     string
	Abstract string
}
