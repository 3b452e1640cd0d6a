// Package token issues and validates the session token pair. Access and
// refresh tokens are signed with distinct secrets so that leaking one
// cannot forge the other.
package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"khao-backend/apperr"
	"khao-backend/models"
)

// Claims is the payload carried by both token kinds. Subject is the user id.
type Claims struct {
	PhoneNumber string          `json:"phone_number"`
	Role        models.UserRole `json:"role"`
	CountryCode string          `json:"country_code"`
	jwt.RegisteredClaims
}

// Pair is a freshly minted access/refresh token set.
type Pair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int // access-token lifetime in seconds
}

type Issuer struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

func NewIssuer(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *Issuer {
	return &Issuer{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		now:           time.Now,
	}
}

// IssuePair encodes the user's identity into two independently signed
// tokens. Each token carries a unique jti, so rotation always produces a
// pair distinct from the one it replaces.
func (i *Issuer) IssuePair(user *models.User) (*Pair, error) {
	access, err := i.sign(user, i.accessSecret, i.accessTTL)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Failed to generate token", err)
	}
	refresh, err := i.sign(user, i.refreshSecret, i.refreshTTL)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Failed to generate token", err)
	}
	return &Pair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int(i.accessTTL.Seconds()),
	}, nil
}

// VerifyAccess validates a token against the access secret.
func (i *Issuer) VerifyAccess(tokenStr string) (*Claims, error) {
	return i.verify(tokenStr, i.accessSecret)
}

// VerifyRefresh validates a token against the refresh secret.
func (i *Issuer) VerifyRefresh(tokenStr string) (*Claims, error) {
	return i.verify(tokenStr, i.refreshSecret)
}

func (i *Issuer) sign(user *models.User, secret []byte, ttl time.Duration) (string, error) {
	now := i.now()
	claims := Claims{
		PhoneNumber: user.PhoneNumber,
		Role:        user.Role,
		CountryCode: user.CountryCode,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// verify fails uniformly for bad signatures and expired tokens; the caller
// cannot distinguish the two.
func (i *Issuer) verify(tokenStr string, secret []byte) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return secret, nil
	}, jwt.WithTimeFunc(i.now))
	if err != nil || !parsed.Valid {
		return nil, apperr.Wrap(apperr.Unauthorized, "Invalid token", err)
	}
	return claims, nil
}
