package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testIssuer() *Issuer {
	return NewIssuer("test-secret", 15*time.Minute, 7*24*time.Hour)
}

func TestIssueAccessRoundTrip(t *testing.T) {
	issuer := testIssuer()

	token, exp, err := issuer.IssueAccess("alice@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.WithinDuration(t, time.Now().Add(15*time.Minute), exp, 2*time.Second)

	subject, err := issuer.Subject(token)
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", subject)
}

func TestIssueRefreshExpiry(t *testing.T) {
	issuer := testIssuer()
	issued := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	issuer.now = func() time.Time { return issued }

	_, exp, err := issuer.IssueRefresh("bob@example.com")
	require.NoError(t, err)
	require.Equal(t, issued.Add(7*24*time.Hour), exp)
}

func TestSubjectRejectsWrongSecret(t *testing.T) {
	token, _, err := testIssuer().IssueAccess("alice@example.com")
	require.NoError(t, err)

	_, err = ParseSubject(token, "other-secret")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestSubjectRejectsExpiredToken(t *testing.T) {
	issuer := testIssuer()
	issuer.now = func() time.Time { return time.Now().Add(-time.Hour) }

	token, _, err := issuer.IssueAccess("alice@example.com")
	require.NoError(t, err)

	_, err = issuer.Subject(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestSubjectRejectsGarbage(t *testing.T) {
	_, err := ParseSubject("not.a.jwt", "test-secret")
	require.ErrorIs(t, err, ErrInvalidToken)
}
