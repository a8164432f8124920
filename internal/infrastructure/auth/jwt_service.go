package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/neurulatechnologies/neurula-patient-backend/domain"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// signedClaims is the on-wire claim set. The user ID travels in the
// registered subject claim; Type separates access from refresh tokens
// so one can never stand in for the other. Email and Role are minted
// into access tokens only, refresh tokens identify the subject and
// nothing else.
type signedClaims struct {
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
	Type  string `json:"type"`
	jwt.RegisteredClaims
}

// JWTService implements domain.TokenService with HMAC-signed tokens.
type JWTService struct {
	secretKey  []byte
	issuer     string
	method     jwt.SigningMethod
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewJWTService builds the token issuer. Secrets shorter than 32 bytes
// are refused outright so a weak key can never reach production.
func NewJWTService(secret, issuer, algorithm string, accessTTL, refreshTTL time.Duration) (*JWTService, error) {
	if len(secret) < 32 {
		return nil, fmt.Errorf("jwt secret must be at least 32 bytes, got %d", len(secret))
	}
	method := jwt.GetSigningMethod(algorithm)
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unsupported signing algorithm %q", algorithm)
	}
	return &JWTService{
		secretKey:  []byte(secret),
		issuer:     issuer,
		method:     method,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}, nil
}

// generateJTI creates a unique JWT ID so two tokens minted in the same
// second still differ.
func (j *JWTService) generateJTI() string {
	bytes := make([]byte, 16)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

// GeneratePair mints a fresh access/refresh token pair for the user.
func (j *JWTService) GeneratePair(userID, email string, role domain.Role) (*domain.TokenPair, error) {
	access, err := j.sign(userID, email, string(role), tokenTypeAccess, j.accessTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}
	refresh, err := j.sign(userID, "", "", tokenTypeRefresh, j.refreshTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to sign refresh token: %w", err)
	}
	return &domain.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
		ExpiresIn:    int64(j.accessTTL.Seconds()),
	}, nil
}

func (j *JWTService) sign(userID, email, role, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := signedClaims{
		Email: email,
		Role:  role,
		Type:  tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    j.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        j.generateJTI(),
		},
	}
	return jwt.NewWithClaims(j.method, claims).SignedString(j.secretKey)
}

// ValidateAccessToken implements domain.TokenService.
func (j *JWTService) ValidateAccessToken(token string) (*domain.TokenClaims, error) {
	return j.validate(token, tokenTypeAccess)
}

// ValidateRefreshToken implements domain.TokenService.
func (j *JWTService) ValidateRefreshToken(token string) (*domain.TokenClaims, error) {
	return j.validate(token, tokenTypeRefresh)
}

// validate checks signature, expiry and token type. Every failure maps
// to the same ErrTokenInvalid so callers learn nothing about why a
// token was rejected.
func (j *JWTService) validate(tokenString, wantType string) (*domain.TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &signedClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrTokenInvalid
		}
		return j.secretKey, nil
	})
	if err != nil || !token.Valid {
		return nil, domain.ErrTokenInvalid
	}

	claims, ok := token.Claims.(*signedClaims)
	if !ok {
		return nil, domain.ErrTokenInvalid
	}
	if claims.Type != wantType {
		return nil, domain.ErrTokenInvalid
	}
	if claims.Subject == "" {
		return nil, domain.ErrTokenInvalid
	}

	out := &domain.TokenClaims{
		UserID:    claims.Subject,
		Email:     claims.Email,
		Role:      domain.Role(claims.Role),
		TokenType: claims.Type,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Unix()
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Unix()
	}
	return out, nil
}

var _ domain.TokenService = (*JWTService)(nil)
