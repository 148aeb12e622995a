package auth

import "golang.org/x/crypto/bcrypt"

// DefaultBcryptCost is applied when configuration supplies no usable cost.
const DefaultBcryptCost = 10

// HashPassword hashes a plaintext password with the given bcrypt cost.
// Plaintext never leaves this function; callers persist only the digest.
func HashPassword(password string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// ComparePassword verifies a password against its hashed value in constant
// time relative to match/mismatch.
func ComparePassword(hashed, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}
