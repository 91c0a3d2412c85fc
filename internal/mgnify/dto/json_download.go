package dto

import "github.com/handiism/mgnify-downloader/internal/model"

// JSONDownload holds the attributes of an "analysis-downloads" resource.
type JSONDownload struct {
	Alias       Value `json:"alias"`
	Description struct {
		Label       Value `json:"label"`
		Description Value `json:"description"`
	} `json:"description"`
	FileFormat struct {
		Name      Value `json:"name"`
		Extension Value `json:"extension"`
	} `json:"file-format"`
}

// ToDownload converts a download resource to the model. The artifact URL is
// the resource's self link.
func ToDownload(r *Resource) (model.Download, error) {
	var attrs JSONDownload
	if err := r.DecodeAttributes(&attrs); err != nil {
		return model.Download{}, err
	}

	return model.Download{
		ID:    r.ID,
		URL:   r.Links.Self,
		Label: attrs.Description.Label.String(),
	}, nil
}
