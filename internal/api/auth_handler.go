package api

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/lexday/lexday-api/internal/api/shared"
	"github.com/lexday/lexday-api/internal/service/auth"
)

// AuthHandler handles authentication-related API requests.
type AuthHandler struct {
	jwtService         auth.JWTService
	passphraseVerifier auth.PassphraseVerifier
	passphraseHash     string
	validator          *validator.Validate
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(
	jwtService auth.JWTService,
	passphraseVerifier auth.PassphraseVerifier,
	passphraseHash string,
) *AuthHandler {
	return &AuthHandler{
		jwtService:         jwtService,
		passphraseVerifier: passphraseVerifier,
		passphraseHash:     passphraseHash,
		validator:          validator.New(),
	}
}

// Login handles the /auth/login endpoint.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest

	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	if err := h.passphraseVerifier.Compare(h.passphraseHash, req.Passphrase); err != nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid passphrase")
		return
	}

	h.respondWithTokenPair(w, r, http.StatusOK)
}

// RefreshToken handles the /auth/refresh endpoint.
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req RefreshTokenRequest

	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	if _, err := h.jwtService.ValidateRefreshToken(r.Context(), req.RefreshToken); err != nil {
		switch err {
		case auth.ErrExpiredToken:
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Refresh token expired")
		default:
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid refresh token")
		}
		return
	}

	h.respondWithTokenPair(w, r, http.StatusOK)
}

func (h *AuthHandler) respondWithTokenPair(w http.ResponseWriter, r *http.Request, status int) {
	accessToken, err := h.jwtService.GenerateToken(r.Context())
	if err != nil {
		slog.Error("failed to generate access token", "error", err)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to generate authentication token")
		return
	}

	refreshToken, err := h.jwtService.GenerateRefreshToken(r.Context())
	if err != nil {
		slog.Error("failed to generate refresh token", "error", err)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to generate authentication token")
		return
	}

	shared.RespondWithJSON(w, r, status, AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	})
}
