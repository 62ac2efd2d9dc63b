// Package password hashes and verifies account passwords.
//
// Two implementations of Hasher are provided:
//   - BcryptHasher: bcrypt with a configurable cost (default 10)
//   - Argon2Hasher: argon2id with a PHC-style encoded digest
//
// Usage:
//
//	hasher := password.NewBcryptHasher()
//	digest, err := hasher.Hash("s3cret!")
//	ok, err := hasher.Verify("s3cret!", digest)
package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrPasswordTooLong is returned when bcrypt input exceeds 72 bytes.
	ErrPasswordTooLong = errors.New("password: exceeds 72 bytes")

	// ErrMalformedHash is returned when a stored digest cannot be parsed.
	ErrMalformedHash = errors.New("password: malformed hash")
)

// bcryptMaxBytes is bcrypt's input limit. Longer inputs are rejected
// instead of silently truncated.
const bcryptMaxBytes = 72

// Hasher hashes and verifies passwords. Each Hash call uses a fresh salt,
// which is embedded in the returned digest.
type Hasher interface {
	// Hash returns a salted one-way digest of the password.
	Hash(password string) (string, error)

	// Verify reports whether password matches digest. A mismatch is
	// (false, nil); an error means the digest itself is unusable.
	Verify(password, digest string) (bool, error)
}

// --- Bcrypt Implementation ---

// BcryptHasher implements Hasher using bcrypt.
type BcryptHasher struct {
	cost int
}

// BcryptOption configures the bcrypt hasher.
type BcryptOption func(*BcryptHasher)

// WithCost sets the bcrypt cost parameter. Out-of-range values are ignored.
func WithCost(cost int) BcryptOption {
	return func(h *BcryptHasher) {
		if cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
			h.cost = cost
		}
	}
}

// NewBcryptHasher creates a bcrypt-based password hasher.
func NewBcryptHasher(opts ...BcryptOption) *BcryptHasher {
	h := &BcryptHasher{cost: DefaultBcryptCost}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	if len(password) > bcryptMaxBytes {
		return "", ErrPasswordTooLong
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("password: hash: %w", err)
	}
	return string(hash), nil
}

func (h *BcryptHasher) Verify(password, digest string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(digest), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %v", ErrMalformedHash, err)
	}
}

// --- Argon2id Implementation ---

const (
	argon2KeyLen  = 32
	argon2SaltLen = 16
)

// Argon2Hasher implements Hasher using argon2id. Digests use the PHC
// string format, so Verify honors the parameters a digest was made with.
type Argon2Hasher struct {
	params Argon2Params
}

// Argon2Option configures the argon2id hasher.
type Argon2Option func(*Argon2Params)

// WithArgon2Time sets the number of passes.
func WithArgon2Time(t uint32) Argon2Option {
	return func(p *Argon2Params) { p.Time = t }
}

// WithArgon2Memory sets the memory cost in KiB.
func WithArgon2Memory(m uint32) Argon2Option {
	return func(p *Argon2Params) { p.Memory = m }
}

// WithArgon2Threads sets the parallelism.
func WithArgon2Threads(t uint8) Argon2Option {
	return func(p *Argon2Params) { p.Threads = t }
}

// NewArgon2Hasher creates an argon2id hasher, starting from 1 pass, 64 MiB
// and 4 lanes.
func NewArgon2Hasher(opts ...Argon2Option) *Argon2Hasher {
	h := &Argon2Hasher{params: defaultArgon2}
	for _, opt := range opts {
		opt(&h.params)
	}
	return h
}

// argon2Digest is a decoded $argon2id$v=19$m=..,t=..,p=..$salt$key string.
type argon2Digest struct {
	Argon2Params
	salt, key []byte
}

func (d argon2Digest) String() string {
	b64 := base64.RawStdEncoding.EncodeToString
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, d.Memory, d.Time, d.Threads, b64(d.salt), b64(d.key))
}

func (d argon2Digest) derive(password string, keyLen uint32) []byte {
	return argon2.IDKey([]byte(password), d.salt, d.Time, d.Memory, d.Threads, keyLen)
}

func parseArgon2Digest(s string) (argon2Digest, error) {
	var d argon2Digest
	fields := strings.Split(s, "$")
	if len(fields) != 6 || fields[0] != "" || fields[1] != "argon2id" {
		return d, ErrMalformedHash
	}
	if fields[2] != fmt.Sprintf("v=%d", argon2.Version) {
		return d, fmt.Errorf("%w: unsupported version %q", ErrMalformedHash, fields[2])
	}
	if _, err := fmt.Sscanf(fields[3], "m=%d,t=%d,p=%d", &d.Memory, &d.Time, &d.Threads); err != nil {
		return d, fmt.Errorf("%w: params: %v", ErrMalformedHash, err)
	}
	// argon2.IDKey panics below these bounds.
	if d.Time < 1 || d.Threads < 1 || d.Memory < 8*uint32(d.Threads) {
		return d, fmt.Errorf("%w: params out of range %q", ErrMalformedHash, fields[3])
	}
	var err error
	if d.salt, err = base64.RawStdEncoding.DecodeString(fields[4]); err != nil {
		return d, fmt.Errorf("%w: salt: %v", ErrMalformedHash, err)
	}
	if d.key, err = base64.RawStdEncoding.DecodeString(fields[5]); err != nil || len(d.key) == 0 {
		return d, fmt.Errorf("%w: key", ErrMalformedHash)
	}
	return d, nil
}

func (h *Argon2Hasher) Hash(password string) (string, error) {
	d := argon2Digest{Argon2Params: h.params, salt: make([]byte, argon2SaltLen)}
	if _, err := io.ReadFull(rand.Reader, d.salt); err != nil {
		return "", fmt.Errorf("password: generate salt: %w", err)
	}
	d.key = d.derive(password, argon2KeyLen)
	return d.String(), nil
}

func (h *Argon2Hasher) Verify(password, digest string) (bool, error) {
	d, err := parseArgon2Digest(digest)
	if err != nil {
		return false, err
	}
	key := d.derive(password, uint32(len(d.key)))
	return subtle.ConstantTimeCompare(key, d.key) == 1, nil
}
