package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeDropsNullAndEmptyOptionals(t *testing.T) {
	schema := BuildSummaryJSONSchema()
	raw := []byte(`{"project_name":" X ","project_type":"Y","budget":null,"overall_summary":"Z"}`)

	cleaned, dropped, err := SanitizeStageOutput(schema, raw)
	require.NoError(t, err)
	assert.Contains(t, dropped, "budget(null)")
	require.NoError(t, ValidateJSONAgainstSchema(schema, cleaned))
	assert.Contains(t, string(cleaned), `"project_name":"X"`)
}

func TestSanitizeRemovesUnknownKeys(t *testing.T) {
	schema := BuildSummaryJSONSchema()
	raw := []byte(`{"project_name":"X","project_type":"Y","overall_summary":"Z","confidence":0.9}`)

	cleaned, dropped, err := SanitizeStageOutput(schema, raw)
	require.NoError(t, err)
	assert.Contains(t, dropped, "confidence(unknown)")
	require.NoError(t, ValidateJSONAgainstSchema(schema, cleaned))
}

func TestSanitizeWrapsBareStringForArrayField(t *testing.T) {
	schema := BuildDeepAnalysisJSONSchema()
	raw := []byte(`{
		"scope_of_work":"single item",
		"key_requirements":[],
		"risks_and_opportunities":[],
		"deadlines":[],
		"extracted_material_specifications":[]
	}`)

	cleaned, dropped, err := SanitizeStageOutput(schema, raw)
	require.NoError(t, err)
	assert.Contains(t, dropped, "scope_of_work(wrapped)")
	require.NoError(t, ValidateJSONAgainstSchema(schema, cleaned))
}

func TestSanitizeLeavesRequiredViolationsAlone(t *testing.T) {
	schema := BuildSummaryJSONSchema()
	raw := []byte(`{"project_type":"Y","overall_summary":"Z"}`)

	cleaned, _, err := SanitizeStageOutput(schema, raw)
	require.NoError(t, err)
	// still invalid: sanitize must not fabricate required fields
	assert.Error(t, ValidateJSONAgainstSchema(schema, cleaned))
}

func TestSanitizeRejectsNonJSON(t *testing.T) {
	_, _, err := SanitizeStageOutput(BuildSummaryJSONSchema(), []byte("not json"))
	assert.Error(t, err)
}
