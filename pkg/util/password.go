package util

import (
	"golang.org/x/crypto/bcrypt"
)

// bcryptCost sits above bcrypt.DefaultCost. Hashes stored at an older,
// lower cost are upgraded on login via NeedsRehash.
const bcryptCost = 12

// HashPassword hashes a plain text password
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// VerifyPassword checks if a plain text password matches a hashed password
func VerifyPassword(hashedPassword, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}

// NeedsRehash reports whether a stored hash was generated with a cost
// below the current one
func NeedsRehash(hashedPassword string) bool {
	cost, err := bcrypt.Cost([]byte(hashedPassword))
	if err != nil {
		return false
	}
	return cost < bcryptCost
}
