// Package security contains everything related to the security of user data
package security

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/argon2"
)

var (
	ErrEmptyPassword = errors.New("password can't be empty")
	ErrInvalidHash   = errors.New("invalid hash format")
)

// ArgonHash derives PHC encoded argon2id hashes. The parameters used for
// a hash travel inside it, so changing them only affects new hashes
type ArgonHash struct {
	Memory      uint32
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32

	// Hash of a random password, verified against when there is no real
	// hash to compare with so both paths cost the same
	dummy string
}

func NewArgon() (*ArgonHash, error) {
	a := &ArgonHash{
		Memory:      64 * 1024,
		Iterations:  3,
		Parallelism: 2,
		SaltLength:  16,
		KeyLength:   32,
	}

	if err := a.initDummy(rand.Reader); err != nil {
		return nil, err
	}

	return a, nil
}

// initDummy hashes a random password for VerifyDummy. An unusable dummy
// would make VerifyDummy return early, so it is checked here
func (a *ArgonHash) initDummy(r io.Reader) error {
	p := make([]byte, 32)
	if _, err := io.ReadFull(r, p); err != nil {
		return fmt.Errorf("failed to generate dummy password, %w", err)
	}

	dummy, err := a.Hash(base64.RawStdEncoding.EncodeToString(p))
	if err != nil {
		return fmt.Errorf("failed to hash dummy password, %w", err)
	}

	if _, err := a.Verify("", dummy); err != nil {
		return fmt.Errorf("dummy hash is unusable, %w", err)
	}

	a.dummy = dummy
	return nil
}

func (a *ArgonHash) Hash(p string) (string, error) {
	if p == "" {
		return "", ErrEmptyPassword
	}

	salt := make([]byte, a.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt, %w", err)
	}

	hash := argon2.IDKey([]byte(p), salt, a.Iterations, a.Memory, a.Parallelism, a.KeyLength)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		a.Memory, a.Iterations, a.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	), nil
}

// Verify compares a password p with the stored PHC encoded hash e
func (a *ArgonHash) Verify(p, e string) (bool, error) {
	parts := strings.Split(e, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return false, ErrInvalidHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return false, ErrInvalidHash
	}

	var memory, iterations uint32
	var parallelism uint8

	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &parallelism); err != nil {
		return false, fmt.Errorf("%w, %w", ErrInvalidHash, err)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, fmt.Errorf("%w, %w", ErrInvalidHash, err)
	}

	hash, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(hash) == 0 {
		return false, ErrInvalidHash
	}

	calc := argon2.IDKey([]byte(p), salt, iterations, memory, parallelism, uint32(len(hash)))

	return subtle.ConstantTimeCompare(hash, calc) == 1, nil
}

// VerifyDummy burns the same amount of work as Verify and always fails
func (a *ArgonHash) VerifyDummy(p string) {
	a.Verify(p, a.dummy)
}
