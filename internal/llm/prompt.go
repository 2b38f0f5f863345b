package llm

import "strings"

// maxDocumentChars caps how much document text goes into a prompt.
const maxDocumentChars = 24000

// BuildSummaryPrompt builds the first-pass prompt: a fast overall summary of a
// procurement document.
func BuildSummaryPrompt(documentText string) string {
	parts := []string{
		"You are a procurement document analyst. Return ONLY JSON that matches the JSON Schema provided.",
		"Summarize the document below: the project name, the project type, the budget if one is stated, and a short overall summary.",
		"Answer in the language of the document (Thai documents get Thai answers).",
		"Never output null. If a field is not present, omit it.",
		"",
		"--- DOCUMENT TEXT ---",
		clampText(documentText),
		"--- END DOCUMENT TEXT ---",
	}
	return strings.Join(parts, "\n")
}

// BuildDeepAnalysisPrompt builds the second-pass prompt: detailed TOR analysis
// including extracted material specifications.
func BuildDeepAnalysisPrompt(documentText string) string {
	parts := []string{
		"You are an expert analyst of government tender documents (Terms of Reference). Return ONLY JSON that matches the JSON Schema provided.",
		"Analyze the document below in detail:",
		"1. scope_of_work: every work item in the scope, listed one by one.",
		"2. key_requirements: the qualifications a bidder must have.",
		"3. risks_and_opportunities: risks and opportunities in this project.",
		"4. deadlines: every important date or deadline.",
		"5. extracted_material_specifications: every material or equipment item named in the document, with brand/model, quantity, unit, the TOR page where it appears, and spec details when present.",
		"Keep quantities and units exactly as written in the document; do not convert them.",
		"Answer in the language of the document. Never output null; omit fields that are not present.",
		"",
		"--- DOCUMENT TEXT ---",
		clampText(documentText),
		"--- END DOCUMENT TEXT ---",
	}
	return strings.Join(parts, "\n")
}

func clampText(s string) string {
	if len(s) > maxDocumentChars {
		return s[:maxDocumentChars]
	}
	return s
}
