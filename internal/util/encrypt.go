package util

import (
	"math/rand"

	"golang.org/x/crypto/bcrypt"
)

func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func VerifyPassword(plain, hashed string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}

// RandomInt returns a random int in [min, max]. Panics if min > max.
func RandomInt(min, max int) int {
	if min > max {
		panic("RandomInt: min > max")
	}
	return min + rand.Intn(max-min+1)
}
