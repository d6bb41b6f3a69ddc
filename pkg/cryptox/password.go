package cryptox

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// ErrMismatch is returned when a secret does not match its stored hash.
var ErrMismatch = errors.New("cryptox: secret does not match")

// ErrMalformedHash is returned for stored hashes that are not PHC argon2id.
var ErrMalformedHash = errors.New("cryptox: malformed argon2id hash")

// Params are the argon2id cost parameters.
type Params struct {
	Memory      uint32 // KiB
	Iterations  uint32
	Parallelism uint8
	KeyLength   uint32
	SaltLength  uint32
}

// DefaultParams follows the OWASP minimum for argon2id (19 MiB, t=2, p=1).
var DefaultParams = Params{
	Memory:      19 * 1024,
	Iterations:  2,
	Parallelism: 1,
	KeyLength:   32,
	SaltLength:  16,
}

// Hasher hashes client secrets and resource-owner passwords with argon2id.
// The pepper is appended to every input and never stored with the hash.
type Hasher struct {
	Params Params
	Pepper string
}

// NewHasher returns a Hasher with DefaultParams.
func NewHasher(pepper string) *Hasher {
	return &Hasher{Params: DefaultParams, Pepper: pepper}
}

// Hash returns a PHC-format string: $argon2id$v=19$m=..,t=..,p=..$salt$hash
func (h *Hasher) Hash(secret string) (string, error) {
	p := h.params()

	salt := make([]byte, p.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("cryptox: read salt: %w", err)
	}
	return h.encode(secret, salt, p), nil
}

// DecoyHash returns a well-formed hash of a random secret. Verifying against
// it costs the same as verifying against a stored hash. It never fails: if
// the random source does, a zero salt and secret are used.
func (h *Hasher) DecoyHash() string {
	p := h.params()

	salt := make([]byte, p.SaltLength)
	secret := make([]byte, 16)
	_, _ = rand.Read(salt)
	_, _ = rand.Read(secret)
	return h.encode(base64.RawStdEncoding.EncodeToString(secret), salt, p)
}

func (h *Hasher) encode(secret string, salt []byte, p Params) string {
	key := argon2.IDKey([]byte(secret+h.Pepper), salt, p.Iterations, p.Memory, p.Parallelism, p.KeyLength)

	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		p.Memory,
		p.Iterations,
		p.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	)
}

// Verify checks secret against a hash produced by Hash. The comparison of the
// derived keys is constant time.
func (h *Hasher) Verify(secret, encoded string) error {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return ErrMalformedHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return ErrMalformedHash
	}

	var (
		mem, iters uint32
		par        uint8
	)
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &mem, &iters, &par); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedHash, err)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return fmt.Errorf("%w: salt: %v", ErrMalformedHash, err)
	}
	want, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return fmt.Errorf("%w: key: %v", ErrMalformedHash, err)
	}

	got := argon2.IDKey([]byte(secret+h.Pepper), salt, iters, mem, par, uint32(len(want))) // #nosec G115
	if subtle.ConstantTimeCompare(got, want) != 1 {
		return ErrMismatch
	}
	return nil
}

func (h *Hasher) params() Params {
	if h.Params == (Params{}) {
		return DefaultParams
	}
	return h.Params
}
