package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/lorrc/ticket-dashboard/internal/core/ports"
)

// Claims defines the structured data we store in the JWT
type Claims struct {
	SessionID uuid.UUID `json:"sid"`
	Email     string    `json:"email"`
	jwt.RegisteredClaims
}

type TokenManager struct {
	secretKey []byte
	issuer    string
}

var _ ports.TokenManager = (*TokenManager)(nil)

func NewTokenManager(secret, issuer string) *TokenManager {
	return &TokenManager{secretKey: []byte(secret), issuer: issuer}
}

// GenerateToken signs a token for the session that expires with it
func (tm *TokenManager) GenerateToken(sessionID uuid.UUID, email string, expiresAt time.Time) (string, error) {
	claims := &Claims{
		SessionID: sessionID,
		Email:     email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    tm.issuer,
			Subject:   email,
			ID:        sessionID.String(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(tm.secretKey)
}

// ValidateToken parses and validates the token string
func (tm *TokenManager) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return tm.secretKey, nil
	}, jwt.WithIssuer(tm.issuer))

	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	if claims.SessionID == uuid.Nil {
		return nil, errors.New("token has no session")
	}

	return claims, nil
}

// SessionIDFromToken validates the token and returns the session it names
func (tm *TokenManager) SessionIDFromToken(tokenString string) (uuid.UUID, error) {
	claims, err := tm.ValidateToken(tokenString)
	if err != nil {
		return uuid.Nil, err
	}
	return claims.SessionID, nil
}
