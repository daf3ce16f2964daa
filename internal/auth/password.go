package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the work factor for new password hashes.
var BcryptCost = bcrypt.DefaultCost

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches hash. Besides bcrypt
// hashes it accepts the unsalted hex SHA-256 digests written by older
// installations, in which case upgrade is true and the caller should store
// a fresh bcrypt hash.
func CheckPassword(password, hash string) (ok bool, upgrade bool) {
	if isLegacyDigest(hash) {
		digest := LegacyDigest(password)
		return subtle.ConstantTimeCompare([]byte(digest), []byte(strings.ToLower(hash))) == 1, true
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil, false
}

// LegacyDigest is the hex SHA-256 of password.
func LegacyDigest(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

func isLegacyDigest(hash string) bool {
	if len(hash) != sha256.Size*2 {
		return false
	}
	_, err := hex.DecodeString(hash)
	return err == nil
}
