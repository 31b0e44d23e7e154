package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/o1egl/paseto"
)

// Token types carried in the claims
const (
	AccessToken  = "access"
	RefreshToken = "refresh"
)

var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token expired")
	ErrWrongTokenType   = errors.New("wrong token type")
	ErrInvalidKeyLength = errors.New("symmetric key must be 32 bytes long")
)

// TokenClaims struct represents the data in the token.
type TokenClaims struct {
	TokenID   string    `json:"jti"`
	AccountID uint      `json:"account_id"`
	Type      string    `json:"type"`
	IssuedAt  time.Time `json:"iat"`
	Expiry    time.Time `json:"exp"`
}

type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// TokenMaker issues and verifies PASETO v2 local tokens.
type TokenMaker struct {
	key        []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewTokenMaker(symmetricKey string, accessTTL, refreshTTL time.Duration) (*TokenMaker, error) {
	if len(symmetricKey) != 32 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidKeyLength, len(symmetricKey))
	}
	return &TokenMaker{
		key:        []byte(symmetricKey),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}, nil
}

func (m *TokenMaker) RefreshTTL() time.Duration {
	return m.refreshTTL
}

// GenerateTokens generates both the access token and refresh token for the account.
func (m *TokenMaker) GenerateTokens(accountID uint) (TokenPair, error) {
	access, err := m.generate(accountID, AccessToken, m.accessTTL)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := m.generate(accountID, RefreshToken, m.refreshTTL)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{Access: access, Refresh: refresh}, nil
}

// GenerateAccessToken generates only the access token for an account.
func (m *TokenMaker) GenerateAccessToken(accountID uint) (string, error) {
	return m.generate(accountID, AccessToken, m.accessTTL)
}

func (m *TokenMaker) generate(accountID uint, tokenType string, ttl time.Duration) (string, error) {
	now := m.now()
	claims := TokenClaims{
		TokenID:   uuid.NewString(),
		AccountID: accountID,
		Type:      tokenType,
		IssuedAt:  now,
		Expiry:    now.Add(ttl),
	}

	token, err := paseto.NewV2().Encrypt(m.key, claims, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return token, nil
}

// ValidateToken decrypts the token and checks its expiry and type.
func (m *TokenMaker) ValidateToken(tokenString, wantType string) (*TokenClaims, error) {
	var claims TokenClaims
	if err := paseto.NewV2().Decrypt(tokenString, m.key, &claims, nil); err != nil {
		return nil, ErrInvalidToken
	}

	if m.now().After(claims.Expiry) {
		return nil, ErrExpiredToken
	}
	if claims.Type != wantType {
		return nil, ErrWrongTokenType
	}
	return &claims, nil
}
