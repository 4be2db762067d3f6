// Package ticket issues and verifies signed resumption tickets that bind an
// HTTP client to one password-change conversation, with strict validation
// semantics suitable for unauthenticated endpoints.
package ticket
