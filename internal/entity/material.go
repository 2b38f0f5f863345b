package entity

import "time"

// MaterialSpec is one material/equipment line item extracted from a TOR or BOQ
// document. Quantity and Unit stay free-text: source documents mix Thai counting
// units and numeric formats too inconsistently to parse at this layer.
type MaterialSpec struct {
	ItemName    string `json:"item_name"`
	BrandModel  string `json:"brand_model,omitempty"`
	Quantity    string `json:"quantity,omitempty"`
	Unit        string `json:"unit,omitempty"`
	TORPage     string `json:"tor_page,omitempty"`
	SpecDetails string `json:"spec_details,omitempty"`
}

// StoredMaterialSpec is a MaterialSpec as persisted in the material history
// store, keyed by the analysis run that produced it.
type StoredMaterialSpec struct {
	MaterialSpec

	TORAnalysisID string    `json:"tor_analysis_id"`
	AgencyName    string    `json:"agency_name,omitempty"`
	ProjectID     string    `json:"project_id,omitempty"`
	DocumentID    string    `json:"document_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}
