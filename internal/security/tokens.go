package security

import (
	"crypto"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken is returned when a token is malformed, expired, or signed for someone else.
var ErrInvalidToken = errors.New("invalid token")

// SessionClaims are the JWT claims of a game session token. Subject is the session ID.
type SessionClaims struct {
	jwt.RegisteredClaims
	Pool string `json:"pool,omitempty"`
}

// TokenProvider issues and validates session tokens signed with RS256 or ES256.
type TokenProvider struct {
	signer   crypto.Signer
	verifier crypto.PublicKey
	method   jwt.SigningMethod
	issuer   string
	audience string
	now      func() time.Time
}

// NewTokenProvider returns a TokenProvider for the given key pair. The signing
// method follows the key type.
func NewTokenProvider(signer crypto.Signer, verifier crypto.PublicKey, issuer, audience string) (*TokenProvider, error) {
	var method jwt.SigningMethod
	switch KeyAlg(signer.Public()) {
	case "RS256":
		method = jwt.SigningMethodRS256
	case "ES256":
		method = jwt.SigningMethodES256
	default:
		return nil, ErrInvalidKey
	}
	return &TokenProvider{
		signer:   signer,
		verifier: verifier,
		method:   method,
		issuer:   issuer,
		audience: audience,
		now:      func() time.Time { return time.Now().UTC() },
	}, nil
}

// NewEphemeralTokenProvider signs with a freshly generated ES256 key.
func NewEphemeralTokenProvider(issuer, audience string) (*TokenProvider, error) {
	key, err := GenerateEphemeralKey()
	if err != nil {
		return nil, err
	}
	return NewTokenProvider(key, key.Public(), issuer, audience)
}

// IssueSession signs a token for sessionID that expires at expiresAt.
func (p *TokenProvider) IssueSession(sessionID, pool string, expiresAt time.Time) (string, error) {
	if sessionID == "" {
		return "", ErrInvalidToken
	}
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   sessionID,
			Issuer:    p.issuer,
			Audience:  jwt.ClaimStrings{p.audience},
			IssuedAt:  jwt.NewNumericDate(p.now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Pool: pool,
	}
	return jwt.NewWithClaims(p.method, claims).SignedString(p.signer)
}

// ValidateSession checks signature, expiry, issuer and audience and returns the session ID.
func (p *TokenProvider) ValidateSession(tokenString string) (string, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (any, error) { return p.verifier, nil },
		jwt.WithValidMethods([]string{p.method.Alg()}),
		jwt.WithIssuer(p.issuer),
		jwt.WithAudience(p.audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(p.now),
	)
	if err != nil || !token.Valid || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
