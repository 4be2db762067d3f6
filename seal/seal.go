package seal

import (
	"crypto/rand"
	"errors"
	"io"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
)

const (
	minMemoryKB    uint32 = 8 * 1024
	minTimeCost    uint32 = 1
	minParallelism uint8  = 1
	minSaltLength  uint8  = 16
	maxSaltLength  uint8  = 64

	sealFormatVersionV1 = 1

	headerSize = 1 + 4 + 4 + 1 + 1
)

// Params defines a public type used by libpwquality APIs.
//
// Params instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Params struct {
	Memory      uint32
	Time        uint32
	Parallelism uint8
	SaltLength  uint8
}

// DefaultParams describes the defaultparams operation and its observable behavior.
//
// DefaultParams may return an error when input validation, dependency calls, or security checks fail.
// DefaultParams does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func DefaultParams() Params {
	return Params{
		Memory:      32768,
		Time:        2,
		Parallelism: 2,
		SaltLength:  16,
	}
}

// Sealer defines a public type used by libpwquality APIs.
//
// Sealer instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Sealer struct {
	passphrase []byte
	params     Params
}

// New describes the new operation and its observable behavior.
//
// New may return an error when input validation, dependency calls, or security checks fail.
// New does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func New(passphrase []byte, params Params) (*Sealer, error) {
	if len(passphrase) == 0 {
		return nil, errors.New("seal passphrase must not be empty")
	}
	if err := validateParams(params); err != nil {
		return nil, err
	}

	own := make([]byte, len(passphrase))
	copy(own, passphrase)

	return &Sealer{passphrase: own, params: params}, nil
}

// Seal describes the seal operation and its observable behavior.
//
// Seal may return an error when input validation, dependency calls, or security checks fail.
// Seal does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *Sealer) Seal(plaintext, additional []byte) ([]byte, error) {
	if s == nil {
		return nil, errors.New("seal: nil sealer")
	}

	salt := make([]byte, int(s.params.SaltLength))
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, err
	}

	key := argon2.IDKey(
		s.passphrase,
		salt,
		s.params.Time,
		s.params.Memory,
		s.params.Parallelism,
		chacha20poly1305.KeySize,
	)

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, chacha20poly1305.NonceSizeX)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	out := make([]byte, 0, headerSize+len(salt)+len(nonce)+len(plaintext)+aead.Overhead())
	out = append(out, sealFormatVersionV1)
	out = appendUint32(out, s.params.Memory)
	out = appendUint32(out, s.params.Time)
	out = append(out, s.params.Parallelism, s.params.SaltLength)
	out = append(out, salt...)
	out = append(out, nonce...)

	return aead.Seal(out, nonce, plaintext, additional), nil
}

// Open describes the open operation and its observable behavior.
//
// Open may return an error when input validation, dependency calls, or security checks fail.
// Open does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *Sealer) Open(sealed, additional []byte) ([]byte, error) {
	if s == nil {
		return nil, errors.New("seal: nil sealer")
	}
	if len(sealed) < headerSize {
		return nil, errors.New("sealed data truncated")
	}
	if sealed[0] != sealFormatVersionV1 {
		return nil, errors.New("invalid sealed data version")
	}

	memory := readUint32(sealed[1:5])
	time := readUint32(sealed[5:9])
	parallelism := sealed[9]
	saltLength := sealed[10]

	if memory < minMemoryKB || time < minTimeCost || parallelism < minParallelism {
		return nil, errors.New("invalid sealed data parameters")
	}
	if saltLength < minSaltLength || saltLength > maxSaltLength {
		return nil, errors.New("invalid sealed data salt length")
	}

	rest := sealed[headerSize:]
	if len(rest) < int(saltLength)+chacha20poly1305.NonceSizeX {
		return nil, errors.New("sealed data truncated")
	}

	salt := rest[:saltLength]
	nonce := rest[saltLength : int(saltLength)+chacha20poly1305.NonceSizeX]
	ciphertext := rest[int(saltLength)+chacha20poly1305.NonceSizeX:]

	key := argon2.IDKey(
		s.passphrase,
		salt,
		time,
		memory,
		parallelism,
		chacha20poly1305.KeySize,
	)

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}

	plaintext, err := aead.Open(nil, nonce, ciphertext, additional)
	if err != nil {
		return nil, errors.New("sealed data integrity check failed")
	}

	return plaintext, nil
}

func appendUint32(dst []byte, v uint32) []byte {
	return append(dst, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
}

func readUint32(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

func validateParams(params Params) error {
	if params.Memory < minMemoryKB {
		return errors.New("seal memory must be >= 8192 KB")
	}
	if params.Time < minTimeCost {
		return errors.New("seal time must be >= 1")
	}
	if params.Parallelism < minParallelism {
		return errors.New("seal parallelism must be >= 1")
	}
	if params.SaltLength < minSaltLength {
		return errors.New("seal salt length must be >= 16")
	}
	if params.SaltLength > maxSaltLength {
		return errors.New("seal salt length must be <= 64")
	}

	return nil
}
