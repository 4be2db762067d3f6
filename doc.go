// Package pwquality implements a password-change retry controller: the glue
// between a host authentication framework and an external password
// quality-check library.
//
// The host invokes [Module.ChangeAuthTok] once per phase of a password change.
// The controller parses module options, fetches the candidate token through
// the host's [Session], scores it through the caller-supplied [Checker], and
// loops up to the configured retry limit before reporting failure. Quality
// heuristics are never implemented here; they live behind the [Checker]
// interface.
//
// # Architecture boundaries
//
// pwquality is the public surface. It exposes [Module], [Builder], [Config],
// the collaborator interfaces ([Session], [Checker], [CheckerProvider]), and
// value types (MetricsSnapshot, PolicyReport, AuditEvent). Host adapters live
// in sub-packages (terminal, pamhost, conversation) and depend on this
// package, never the other way around.
//
// # What this package must NOT do
//
//   - Implement password quality heuristics (dictionary, entropy, similarity).
//   - Prompt the user directly. Prompting belongs to Session implementations.
//   - Persist tokens. The host's item store owns token lifetime; the
//     controller only ever clears a pending token by setting it to empty.
//
// # Concurrency contract
//
// A Module is safe for concurrent use after [Builder.Build]; each
// ChangeAuthTok invocation is synchronous and single-threaded. The only
// goroutine a Module owns is the audit dispatcher, stopped by [Module.Close].
package pwquality
