/*
Package password wraps one-way password hashing for account credentials.

Hashing is bcrypt at the default cost. Each call to Hash salts independently,
so hashing the same plaintext twice yields different strings that both verify.
*/
package password

import "golang.org/x/crypto/bcrypt"

// Hash derives a salted, one-way hash of the given plaintext.
func Hash(plaintext string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Verify reports whether plaintext matches the stored hash.
func Verify(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
