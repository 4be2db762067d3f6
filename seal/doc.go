// Package seal encrypts short-lived secrets at rest with an Argon2id-derived
// key and XChaCha20-Poly1305.
//
// # Output format
//
// Sealed blobs are self-describing binary:
//
//	version | m (be32) | t (be32) | p | saltLen | salt | nonce | ciphertext
//
// The KDF parameters travel in the header so a [Sealer] configured with
// stronger parameters can still open blobs produced under older ones, as long
// as they meet the package minimums.
//
// # Architecture boundaries
//
// This package owns key derivation and authenticated encryption only. What to
// seal, and the additional-data binding, is decided by the caller.
//
// # What this package must NOT do
//
//   - Persist sealed blobs. Callers supply bytes and receive bytes.
//   - Import any other libpwquality package.
//   - Log passphrases, derived keys, or plaintext.
package seal
