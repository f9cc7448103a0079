package helpers

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"

	"golang.org/x/crypto/pbkdf2"
)

// Accounts store a per-user random salt next to a PBKDF2-SHA256 derived key.
// The plaintext password never touches the database.
const (
	pbkdf2Iterations = 120_000
	pbkdf2KeyLen     = 32
)

// HashPassword derives the stored hash from a salt and a plaintext password
func HashPassword(salt, plain string) string {
	key := pbkdf2.Key([]byte(plain), []byte(salt), pbkdf2Iterations, pbkdf2KeyLen, sha256.New)
	return base64.StdEncoding.EncodeToString(key)
}

// VerifyPassword re-derives the hash from the candidate password and compares
// it against the stored one in constant time.
func VerifyPassword(hash, salt, plain string) bool {
	candidate := HashPassword(salt, plain)
	return subtle.ConstantTimeCompare([]byte(hash), []byte(candidate)) == 1
}
