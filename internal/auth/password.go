package auth

import (
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword hashes a plaintext password with configured cost.
func HashPassword(password string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// ComparePassword verifies a password against its hashed value.
func ComparePassword(hashed, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}

// DecoyHasher burns one bcrypt comparison for unknown usernames so that
// failed lookups take as long as failed passwords.
type DecoyHasher struct {
	cost int
	once sync.Once
	hash string
}

// NewDecoyHasher builds a decoy with the same cost as real hashes.
func NewDecoyHasher(cost int) *DecoyHasher {
	return &DecoyHasher{cost: cost}
}

// Compare always fails.
func (d *DecoyHasher) Compare(plain string) {
	d.once.Do(func() {
		d.hash, _ = HashPassword("decoy-password", d.cost)
	})
	_ = ComparePassword(d.hash, plain)
}
