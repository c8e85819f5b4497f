package generation

import "context"

// WordNotes is the enrichment produced for one vocabulary entry.
type WordNotes struct {
	// Explanation is a short usage note for the term.
	Explanation string `json:"explanation"`

	// Examples are example sentences using the term.
	Examples []string `json:"examples,omitempty"`
}

// Generator produces study notes for a vocabulary entry. It is the boundary
// between the application core and external AI/LLM services; the core never
// depends on a concrete provider.
type Generator interface {
	// GenerateNotes creates usage notes and example sentences for a term
	// and its translation. Enrichment is best-effort: callers treat any
	// error as "no notes", never as a failed word creation.
	GenerateNotes(ctx context.Context, term, translation string) (*WordNotes, error)
}
