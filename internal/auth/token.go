package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// Issuer mints signed, time-bounded access and refresh tokens with a
// process-wide secret. The clock is a field so tests can pin issuance time.
type Issuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewIssuer(secret string, accessTTL, refreshTTL time.Duration) *Issuer {
	return &Issuer{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// IssueAccess returns a short-lived token for subject plus its expiry as a
// plain instant, so callers can persist and compare it without re-parsing.
func (i *Issuer) IssueAccess(subject string) (string, time.Time, error) {
	return i.issue(subject, i.accessTTL)
}

// IssueRefresh returns a long-lived token for subject plus its expiry.
func (i *Issuer) IssueRefresh(subject string) (string, time.Time, error) {
	return i.issue(subject, i.refreshTTL)
}

func (i *Issuer) issue(subject string, ttl time.Duration) (string, time.Time, error) {
	now := i.now()
	exp := now.Add(ttl)

	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, exp, nil
}

// Subject verifies the token signature and expiry and returns the subject it
// was issued for.
func (i *Issuer) Subject(token string) (string, error) {
	return ParseSubject(token, string(i.secret))
}

// ParseSubject validates an HS256 token against secret and extracts its
// subject claim.
func ParseSubject(token, secret string) (string, error) {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !parsed.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
