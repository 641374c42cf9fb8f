package account

import "golang.org/x/crypto/bcrypt"

// hashCost is the fixed bcrypt work factor.
const hashCost = 10

// Hasher performs one-way password hashing and verification.
type Hasher struct{}

// NewHasher creates a bcrypt-backed Hasher.
func NewHasher() *Hasher {
	return &Hasher{}
}

// Hash produces a salted one-way hash of the plaintext suitable for storage.
func (h *Hasher) Hash(plaintext string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), hashCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Check reports whether plaintext matches the stored hash. The comparison
// is delegated to bcrypt, which is constant-time on the digest.
func (h *Hasher) Check(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
