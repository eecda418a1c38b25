package services

import (
	"errors"
	"fmt"
	"sync"

	"portal/internal/apperrors"

	"golang.org/x/crypto/bcrypt"
)

var dummyHash = sync.OnceValue(func() []byte {
	hash, _ := bcrypt.GenerateFromPassword([]byte("portal-dummy-password"), bcrypt.DefaultCost)
	return hash
})

func HashPassword(password string) (string, error) {
	if password == "" {
		return "", apperrors.New(apperrors.CodeValidationFailed, "password cannot be empty")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", apperrors.New(apperrors.CodeValidationFailed, "password is too long")
		}
		return "", fmt.Errorf("could not hash password: %w", err)
	}
	return string(hashed), nil
}

// VerifyPassword returns ErrInvalidCredentials on mismatch.
func VerifyPassword(password, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return apperrors.ErrInvalidCredentials
		}
		return fmt.Errorf("could not verify password: %w", err)
	}
	return nil
}

// BurnPasswordCheck spends one bcrypt comparison so that logins for unknown
// usernames take as long as logins with a wrong password.
func BurnPasswordCheck(password string) {
	_ = bcrypt.CompareHashAndPassword(dummyHash(), []byte(password))
}
