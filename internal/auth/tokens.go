package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/BOBWANDATI/backend/pkg/e"
)

// Token purposes. An approval link must never be redeemable as a session and
// vice versa, so the purpose is checked on verify.
const (
	PurposeApproval = "approval"
	PurposeSession  = "session"
)

type Claims struct {
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

// TokenManager signs and verifies the approval and session tokens. The
// approval token is the sole credential on the emailed approval link, so its
// verification path treats every failure the same way.
type TokenManager struct {
	secretKey   []byte
	sessionTTL  time.Duration
	approvalTTL time.Duration
}

func NewTokenManager(secretKey string, sessionTTL, approvalTTL time.Duration) *TokenManager {
	return &TokenManager{
		secretKey:   []byte(secretKey),
		sessionTTL:  sessionTTL,
		approvalTTL: approvalTTL,
	}
}

func (m *TokenManager) MintApprovalToken(adminID uuid.UUID) (string, error) {
	return m.mint(adminID, PurposeApproval, m.approvalTTL)
}

func (m *TokenManager) MintSessionToken(adminID uuid.UUID) (string, error) {
	return m.mint(adminID, PurposeSession, m.sessionTTL)
}

func (m *TokenManager) mint(adminID uuid.UUID, purpose string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   adminID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Issuer:    "amanilink-api",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", purpose, err)
	}
	return signed, nil
}

// VerifyApprovalToken returns the admin id an approval token was minted for.
// Any parse, signature, expiry or purpose problem collapses to ErrInvalidToken.
func (m *TokenManager) VerifyApprovalToken(tokenString string) (uuid.UUID, error) {
	return m.verify(tokenString, PurposeApproval)
}

// VerifySessionToken returns the admin id carried by a login session token.
func (m *TokenManager) VerifySessionToken(tokenString string) (uuid.UUID, error) {
	return m.verify(tokenString, PurposeSession)
}

func (m *TokenManager) verify(tokenString, purpose string) (uuid.UUID, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secretKey, nil
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("parse token: %w", e.ErrInvalidToken)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Purpose != purpose {
		return uuid.Nil, e.ErrInvalidToken
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, fmt.Errorf("subject: %w", e.ErrInvalidToken)
	}
	return id, nil
}
