package internal

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
)

const (
	resumeTokenRawSize = 48
	resumeSecretSize   = 32
)

func NewResumeSecret() ([resumeSecretSize]byte, error) {
	var secret [resumeSecretSize]byte
	_, err := rand.Read(secret[:])
	return secret, err
}

func HashResumeSecret(secret [resumeSecretSize]byte) [32]byte {
	return sha256.Sum256(secret[:])
}

func HashSecretBytes(secret []byte) [32]byte {
	return sha256.Sum256(secret)
}

func EncodeResumeToken(conversationID [16]byte, secret [resumeSecretSize]byte) string {
	var raw [resumeTokenRawSize]byte
	copy(raw[:len(conversationID)], conversationID[:])
	copy(raw[len(conversationID):], secret[:])

	// base64url, no padding, compact
	return base64.RawURLEncoding.EncodeToString(raw[:])
}

func DecodeResumeToken(token string) ([16]byte, [resumeSecretSize]byte, error) {
	var (
		id     [16]byte
		secret [resumeSecretSize]byte
	)

	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return id, secret, err
	}
	if len(raw) != resumeTokenRawSize {
		return id, secret, errors.New("invalid resume token size")
	}

	copy(id[:], raw[:len(id)])
	copy(secret[:], raw[len(id):])

	return id, secret, nil
}
