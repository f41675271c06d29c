// Package crypto hashes and verifies member passwords with argon2id.
package crypto

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"

	"github.com/daehwan2da/sopt-aos-server/pkg/config"
)

const (
	defaultSaltLength = 16
	defaultKeyLength  = 32
	algorithm         = "argon2id"
)

var (
	// ErrInvalidHash is returned when a stored hash cannot be parsed.
	ErrInvalidHash = errors.New("crypto: invalid hash format")

	// ErrEmptyPassword is returned for an empty password on either side.
	ErrEmptyPassword = errors.New("crypto: password cannot be empty")
)

// Argon2Params are the tunable argon2id costs. Memory is in KiB.
type Argon2Params struct {
	Memory      uint32
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// DefaultArgon2Params returns the production costs (64 MiB, 3 passes, 2 lanes).
func DefaultArgon2Params() *Argon2Params {
	return &Argon2Params{
		Memory:      64 * 1024,
		Iterations:  3,
		Parallelism: 2,
		SaltLength:  defaultSaltLength,
		KeyLength:   defaultKeyLength,
	}
}

// PasswordHasher hashes new passwords with its own params and verifies
// existing ones with the params recorded in each hash.
type PasswordHasher struct {
	params Argon2Params
}

// NewPasswordHasher creates a hasher with DefaultArgon2Params.
func NewPasswordHasher() *PasswordHasher {
	return NewPasswordHasherWithParams(nil)
}

// NewPasswordHasherWithParams creates a hasher; nil means defaults.
func NewPasswordHasherWithParams(params *Argon2Params) *PasswordHasher {
	if params == nil {
		params = DefaultArgon2Params()
	}
	p := *params
	if p.SaltLength == 0 {
		p.SaltLength = defaultSaltLength
	}
	if p.KeyLength == 0 {
		p.KeyLength = defaultKeyLength
	}
	return &PasswordHasher{params: p}
}

// NewPasswordHasherFromConfig creates a hasher from the password section.
func NewPasswordHasherFromConfig(cfg config.PasswordConfig) *PasswordHasher {
	return NewPasswordHasherWithParams(&Argon2Params{
		Memory:      cfg.Memory,
		Iterations:  cfg.Iterations,
		Parallelism: cfg.Parallelism,
	})
}

// Hash returns the PHC-style encoding
// $argon2id$v=19$m=<memory>,t=<iterations>,p=<parallelism>$<salt>$<key>.
func (h *PasswordHasher) Hash(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}

	salt := make([]byte, h.params.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("crypto: generate salt: %w", err)
	}

	encoded := encodedHash{
		params: h.params,
		salt:   salt,
		key:    deriveKey(password, salt, h.params),
	}
	return encoded.String(), nil
}

// Verify reports whether password matches encoded in constant time.
func (h *PasswordHasher) Verify(password, encoded string) (bool, error) {
	if password == "" {
		return false, ErrEmptyPassword
	}

	stored, err := parseHash(encoded)
	if err != nil {
		return false, err
	}

	computed := deriveKey(password, stored.salt, stored.params)
	return subtle.ConstantTimeCompare(stored.key, computed) == 1, nil
}

func deriveKey(password string, salt []byte, p Argon2Params) []byte {
	return argon2.IDKey([]byte(password), salt, p.Iterations, p.Memory, p.Parallelism, p.KeyLength)
}

// encodedHash is the parsed form of a stored password hash.
type encodedHash struct {
	params Argon2Params
	salt   []byte
	key    []byte
}

func (e encodedHash) String() string {
	b64 := base64.RawStdEncoding
	return fmt.Sprintf("$%s$v=%d$m=%d,t=%d,p=%d$%s$%s",
		algorithm, argon2.Version,
		e.params.Memory, e.params.Iterations, e.params.Parallelism,
		b64.EncodeToString(e.salt), b64.EncodeToString(e.key),
	)
}

func parseHash(s string) (encodedHash, error) {
	var e encodedHash

	// "" / alg / version / params / salt / key
	fields := strings.Split(s, "$")
	if len(fields) != 6 || fields[0] != "" {
		return e, ErrInvalidHash
	}
	if fields[1] != algorithm {
		return e, fmt.Errorf("%w: unsupported algorithm %q", ErrInvalidHash, fields[1])
	}

	var version int
	if _, err := fmt.Sscanf(fields[2], "v=%d", &version); err != nil || version != argon2.Version {
		return e, fmt.Errorf("%w: version %q", ErrInvalidHash, fields[2])
	}

	if _, err := fmt.Sscanf(fields[3], "m=%d,t=%d,p=%d",
		&e.params.Memory, &e.params.Iterations, &e.params.Parallelism); err != nil {
		return e, fmt.Errorf("%w: params %q", ErrInvalidHash, fields[3])
	}

	var err error
	if e.salt, err = base64.RawStdEncoding.DecodeString(fields[4]); err != nil || len(e.salt) == 0 {
		return e, fmt.Errorf("%w: salt", ErrInvalidHash)
	}
	if e.key, err = base64.RawStdEncoding.DecodeString(fields[5]); err != nil || len(e.key) == 0 {
		return e, fmt.Errorf("%w: key", ErrInvalidHash)
	}
	e.params.SaltLength = uint32(len(e.salt))
	e.params.KeyLength = uint32(len(e.key))

	return e, nil
}
