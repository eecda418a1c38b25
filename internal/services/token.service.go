package services

import (
	"errors"
	"time"

	"portal/internal/apperrors"
	. "portal/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type Claims struct {
	AdminID  string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

type TokenService struct {
	signingKey []byte
	issuer     string
	expiry     time.Duration
	now        func() time.Time
}

func NewTokenService(signingKey, issuer string, expiry time.Duration) *TokenService {
	return &TokenService{
		signingKey: []byte(signingKey),
		issuer:     issuer,
		expiry:     expiry,
		now:        time.Now,
	}
}

func (s *TokenService) Generate(admin *Admin) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.expiry)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		AdminID:  admin.ID,
		Username: admin.Username,
		Role:     admin.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   admin.ID,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.NewString(),
		},
	})

	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

func (s *TokenService) Verify(tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{},
		func(token *jwt.Token) (any, error) {
			return s.signingKey, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.Wrap(apperrors.CodeUnauthorized, "token has expired", err)
		}
		return nil, apperrors.Wrap(apperrors.CodeUnauthorized, "invalid token", err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.AdminID == "" {
		return nil, apperrors.New(apperrors.CodeUnauthorized, "invalid token claims")
	}

	return claims, nil
}
