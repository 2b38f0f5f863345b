package entity

import "time"

// SourceType tags the origin of a document handed to the analyzer.
type SourceType string

const (
	SourceText SourceType = "text"
	SourceURL  SourceType = "url"
	SourceFile SourceType = "file"
)

// DocumentSource is the per-request input to the analysis pipeline.
// For SourceFile, Content carries base64-encoded bytes and MIMEType is required.
type DocumentSource struct {
	SourceType SourceType `json:"source_type"`
	Content    string     `json:"content"`
	MIMEType   string     `json:"mime_type,omitempty"`
}

// DocumentSummary is the output of the first (fast) extraction stage.
type DocumentSummary struct {
	ProjectName    string `json:"project_name"`
	ProjectType    string `json:"project_type"`
	Budget         string `json:"budget,omitempty"`
	OverallSummary string `json:"overall_summary"`
}

// DetailedAnalysis is the output of the second (deep) extraction stage.
type DetailedAnalysis struct {
	ScopeOfWork                     []string       `json:"scope_of_work"`
	KeyRequirements                 []string       `json:"key_requirements"`
	RisksAndOpportunities           []string       `json:"risks_and_opportunities"`
	Deadlines                       []string       `json:"deadlines"`
	ExtractedMaterialSpecifications []MaterialSpec `json:"extracted_material_specifications"`
}

// DocumentAnalysis is the merged result of both stages, plus the generated
// analysis id that links all persisted material specs back to this run.
// MaterialsSaved reports whether the persistence step succeeded; a false value
// with a non-nil analysis means the caller may retry the save alone.
type DocumentAnalysis struct {
	DocumentSummary
	DetailedAnalysis

	TORAnalysisID  string    `json:"tor_analysis_id"`
	CreatedAt      time.Time `json:"created_at"`
	MaterialsSaved bool      `json:"materials_saved"`
}
