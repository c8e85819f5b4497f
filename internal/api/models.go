package api

// LoginRequest is the login payload. The single user authenticates with a
// passphrase; there is no registration.
type LoginRequest struct {
	Passphrase string `json:"passphrase" validate:"required"`
}

// RefreshTokenRequest is the token refresh payload.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// AuthResponse carries a fresh token pair.
type AuthResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// CreateWordRequest is the payload for creating a vocabulary entry.
type CreateWordRequest struct {
	Term        string `json:"term" validate:"required"`
	Translation string `json:"translation" validate:"required"`
	Notes       string `json:"notes"`
	Enrich      bool   `json:"enrich"`
}

// UpdateWordRequest is the payload for editing a vocabulary entry.
type UpdateWordRequest struct {
	Term        string `json:"term" validate:"required"`
	Translation string `json:"translation" validate:"required"`
	Notes       string `json:"notes"`
	Archived    bool   `json:"archived"`
}

// SubmitReviewRequest is the payload for answering a reviewed word.
type SubmitReviewRequest struct {
	Outcome string `json:"outcome" validate:"required,oneof=correct again"`
}

// CompletePhaseRequest names the phase the caller believes is live.
type CompletePhaseRequest struct {
	Phase string `json:"phase" validate:"required,oneof=morning lunch evening"`
}
