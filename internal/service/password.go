package service

import "golang.org/x/crypto/bcrypt"

// bcrypt only looks at the first 72 bytes of a password.
const maxPasswordBytes = 72

// HashPassword returns the bcrypt hash of password. Bytes past the 72nd are
// ignored.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(truncatePassword(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// ComparePassword returns an error if password does not match hash.
func ComparePassword(password, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), truncatePassword(password))
}

func truncatePassword(password string) []byte {
	b := []byte(password)
	if len(b) > maxPasswordBytes {
		b = b[:maxPasswordBytes]
	}
	return b
}
