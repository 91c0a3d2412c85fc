package model

// Sample holds the metadata of a biological sample.
//
// A sample can belong to several studies, so StudyAccessions is a list.
// Fields the API reports as null are stored as empty strings.
type Sample struct {
	Accession           string
	Name                string
	Alias               string
	Description         string
	BiomeLineage        string
	EnvironmentBiome    string
	EnvironmentFeature  string
	EnvironmentMaterial string
	GeoLocName          string
	Latitude            string
	Longitude           string
	AnalysisCompleted   string
	LastUpdate          string
	Species             string
	HostTaxID           string

	// Metadata is the free-form key/value/unit list in API order.
	Metadata []MetadataEntry

	// StudyAccessions lists every study this sample is part of.
	StudyAccessions []string
}

// MetadataEntry is one key/value/unit triple of sample metadata.
type MetadataEntry struct {
	Key   string
	Value string
	Unit  string
}
