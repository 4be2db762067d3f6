// Package conversation provides Redis-backed persistence for in-flight
// password-change conversations and compact binary record encoding.
//
// # Binary encoding
//
// Records are stored in Redis as a compact binary format (version byte,
// big-endian integers, length-prefixed strings). Token material is sealed
// before encoding; a stored record never contains plaintext tokens.
//
// # Resume tokens
//
// [Store.Create] returns a resume token binding the conversation ID to a
// random one-time secret. Only the secret's SHA-256 hash is stored, and
// [Store.Resume] compares it in constant time.
//
// # Architecture boundaries
//
// This package owns the [Store] (Redis operations), the [Record] model, and
// the [Session] adapter that lets a stateless host drive the controller one
// request at a time. Retry policy and quality judgment stay in the root
// package.
//
// # What this package must NOT do
//
//   - Evaluate password quality or retry policy.
//   - Store plaintext secrets in [Record] fields.
//   - Issue or parse resumption tickets (that is the ticket package).
package conversation
