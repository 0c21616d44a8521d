package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"

	"github.com/skinx/blog-api/internal/config"
)

// Argon2id parameters - tuned for security vs performance balance
// Time: 3, Memory: 64MB, Threads: 4, KeyLen: 32 bytes
const (
	argon2Time    = 3
	argon2Memory  = 64 * 1024 // 64 MB
	argon2Threads = 4
	argon2KeyLen  = 32
	saltLen       = 16
)

// PasswordHasher produces new password hashes. Verification is format-driven
// (see VerifyPassword) so hashes written by either algorithm keep working
// after PASSWORD_HASHER changes.
type PasswordHasher interface {
	Hash(password string) (string, error)
}

// NewPasswordHasher returns the hasher selected by cfg.PasswordHasher.
func NewPasswordHasher(cfg config.AuthConfig) PasswordHasher {
	if cfg.PasswordHasher == "argon2id" {
		return Argon2Hasher{}
	}
	return BcryptHasher{Cost: cfg.BcryptCost}
}

// BcryptHasher hashes with bcrypt at the given cost
type BcryptHasher struct {
	Cost int
}

func (h BcryptHasher) Hash(password string) (string, error) {
	cost := h.Cost
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return string(hash), nil
}

// Argon2Hasher hashes with argon2id
type Argon2Hasher struct{}

func (Argon2Hasher) Hash(password string) (string, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}

	hash := argon2.IDKey([]byte(password), salt, argon2Time, argon2Memory, argon2Threads, argon2KeyLen)

	// Encode as: $argon2id$v=19$m=65536,t=3,p=4$salt$hash
	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		argon2Memory,
		argon2Time,
		argon2Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	), nil
}

// VerifyPassword checks password against a bcrypt or argon2id hash.
func VerifyPassword(encodedHash, password string) bool {
	if strings.HasPrefix(encodedHash, "$argon2id$") {
		return verifyArgon2(encodedHash, password)
	}
	err := bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(password))
	return err == nil
}

func verifyArgon2(encodedHash, password string) bool {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 {
		return false
	}

	var version int
	var memory, iterations uint32
	var threads uint8
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return false
	}
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &threads); err != nil {
		return false
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false
	}
	decodedHash, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false
	}

	inputHash := argon2.IDKey([]byte(password), salt, iterations, memory, threads, uint32(len(decodedHash)))
	return subtle.ConstantTimeCompare(decodedHash, inputHash) == 1
}

// newDummyHash hashes a throwaway password with the configured hasher. Login
// compares against it when the account does not exist, so an unknown email
// runs the same algorithm at the same cost as a wrong password.
func newDummyHash(hasher PasswordHasher) string {
	hash, err := hasher.Hash("not-a-real-password")
	if err != nil {
		return mustBcrypt("not-a-real-password")
	}
	return hash
}

func mustBcrypt(password string) string {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		panic(errors.Join(errors.New("auth: dummy hash"), err))
	}
	return string(hash)
}
