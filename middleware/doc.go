// Package middleware exposes HTTP middleware adapters that gate password-change
// endpoints behind the phase tickets issued by the ticket package.
//
// # Guards
//
//   - [RequireTicket]: admits any request carrying a valid change ticket.
//   - [RequireService]: additionally pins the ticket's service claim.
//
// Each guard reads the Authorization header, calls Manager.Parse, and injects
// the verified claims into the request context for [ClaimsFromContext].
//
// # Architecture boundaries
//
// This package translates HTTP semantics into ticket verification calls. It does
// NOT make password decisions itself; token validity is delegated entirely to
// [ticket.Manager.Parse].
//
// # What this package must NOT do
//
//   - Issue tickets (verify only).
//   - Access Redis or the conversation store.
//   - Touch password material.
package middleware
