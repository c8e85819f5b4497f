package auth

import "golang.org/x/crypto/bcrypt"

// PassphraseVerifier defines the interface for checking the login
// passphrase.
type PassphraseVerifier interface {
	// Compare compares a hashed passphrase with its possible plaintext
	// equivalent. Returns nil on success, or an error on failure.
	Compare(hashedPassphrase, passphrase string) error
}

// BcryptVerifier implements PassphraseVerifier using bcrypt.
type BcryptVerifier struct{}

// NewBcryptVerifier creates a new BcryptVerifier.
func NewBcryptVerifier() *BcryptVerifier {
	return &BcryptVerifier{}
}

// Compare implements the PassphraseVerifier interface using bcrypt.
func (v *BcryptVerifier) Compare(hashedPassphrase, passphrase string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassphrase), []byte(passphrase))
}

// HashPassphrase hashes a plaintext passphrase for storage in configuration.
func HashPassphrase(passphrase string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(passphrase), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
