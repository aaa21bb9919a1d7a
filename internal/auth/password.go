package auth

import "golang.org/x/crypto/bcrypt"

// Fixed work factor, trading login latency for brute-force resistance.
const passwordHashCost = 10

// HashPassword produces a salted bcrypt digest. The salt is embedded per
// invocation, so the same plaintext yields different but verifiable digests.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), passwordHashCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword reports whether plain matches digest. A malformed digest is
// a failed verification, not a fault.
func VerifyPassword(plain, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plain)) == nil
}
