package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for Word.
var (
	ErrEmptyWordTerm        = errors.New("word term cannot be empty")
	ErrEmptyWordTranslation = errors.New("word translation cannot be empty")
)

// Word is a vocabulary entry owned by the single application user.
// Scheduling state lives in the word's ScheduleRecord, never here.
type Word struct {
	ID          uuid.UUID `json:"id"`
	Term        string    `json:"term"`
	Translation string    `json:"translation"`
	Notes       string    `json:"notes"`
	Archived    bool      `json:"archived"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewWord creates a new active word with a fresh ID.
func NewWord(term, translation string) (*Word, error) {
	now := time.Now().UTC()
	word := &Word{
		ID:          uuid.New(),
		Term:        strings.TrimSpace(term),
		Translation: strings.TrimSpace(translation),
		Archived:    false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := word.Validate(); err != nil {
		return nil, err
	}

	return word, nil
}

// Clone returns a copy of the word.
func (w *Word) Clone() *Word {
	out := *w
	return &out
}

// Validate checks if the Word has valid data.
func (w *Word) Validate() error {
	if strings.TrimSpace(w.Term) == "" {
		return ErrEmptyWordTerm
	}

	if strings.TrimSpace(w.Translation) == "" {
		return ErrEmptyWordTranslation
	}

	return nil
}
