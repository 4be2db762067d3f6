// Package pamhost adapts the pwquality controller to a PAM module
// transaction, covering the item store, echo-off conversations, and return
// code translation. [Handler] plugs straight into module scaffolding that
// expects a [pam.ModuleHandler].
//
// The package builds on Linux only.
//
// # What this package must NOT do
//
//   - Own the transaction lifecycle.
//   - Persist tokens outside the transaction's item store.
//   - Make quality decisions.
package pamhost
