package gemini

// promptData represents the data passed to the prompt template
type promptData struct {
	Term        string
	Translation string
}

// responseSchema is the expected JSON shape of a Gemini enrichment reply.
type responseSchema struct {
	// Explanation is a short usage note for the term
	Explanation string `json:"explanation"`

	// Examples are example sentences using the term
	Examples []string `json:"examples,omitempty"`
}
