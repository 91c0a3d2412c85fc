package dto

import "github.com/handiism/mgnify-downloader/internal/model"

// JSONStudy holds the attributes of a "studies" resource.
type JSONStudy struct {
	Accession          Value `json:"accession"`
	Bioproject         Value `json:"bioproject"`
	SecondaryAccession Value `json:"secondary-accession"`
	CentreName         Value `json:"centre-name"`
	DataOrigination    Value `json:"data-origination"`
	LastUpdate         Value `json:"last-update"`
	PublicReleaseDate  Value `json:"public-release-date"`
	SamplesCount       Value `json:"samples-count"`
	Name               Value `json:"study-name"`
	Abstract           Value `json:"study-abstract"`
}

// ToStudy converts a study resource to the model.
func ToStudy(r *Resource) (*model.Study, error) {
	var attrs JSONStudy
	if err := r.DecodeAttributes(&attrs); err != nil {
		return nil, err
	}

	study := &model.Study{
		Accession:          attrs.Accession.String(),
		Bioproject:         attrs.Bioproject.String(),
		SecondaryAccession: attrs.SecondaryAccession.String(),
		CentreName:         attrs.CentreName.String(),
		DataOrigination:    attrs.DataOrigination.String(),
		LastUpdate:         attrs.LastUpdate.String(),
		PublicReleaseDate:  attrs.PublicReleaseDate.String(),
		SamplesCount:       attrs.SamplesCount.String(),
		Name:               attrs.Name.String(),
		Abstract:           attrs.Abstract.String(),
	}

	if study.Accession == "" {
		study.Accession = r.ID
	}

	return study, nil
}
