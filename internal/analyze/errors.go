package analyze

import "fmt"

// Stage names for extraction failures.
const (
	StageSummary = "summary"
	StageDeep    = "deep"
)

// DecodeFailedError means the source could not be resolved or decoded to text.
// The LLM stages are never invoked when this is returned.
type DecodeFailedError struct {
	Err error
}

func (e *DecodeFailedError) Error() string {
	return fmt.Sprintf("decode failed: %v", e.Err)
}

func (e *DecodeFailedError) Unwrap() error { return e.Err }

// ExtractionError means an LLM stage could not produce schema-valid output,
// or the completion call itself failed or timed out. Stage tells the caller
// which half of the analysis is missing.
type ExtractionError struct {
	Stage string // StageSummary or StageDeep
	Err   error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction failed (%s): %v", e.Stage, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// PersistenceError means the merged analysis was computed but its material
// specs could not be written. Attached as a partial-success signal, never
// fatal to the analysis itself.
type PersistenceError struct {
	TORAnalysisID string
	Err           error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist specs for %s: %v", e.TORAnalysisID, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
