// Package terminal implements the pwquality session interface on top of an
// interactive terminal, the way a passwd-style command line tool consumes the
// controller.
//
// # Architecture boundaries
//
// The package owns prompt wording and echo handling only. Retry counting,
// quality judgment, and user messaging decisions stay in the controller; the
// session renders what it is told and reads what it is asked for.
//
// # What this package must NOT do
//
//   - Persist tokens anywhere.
//   - Call the quality checker.
//   - Interpret controller verdicts.
package terminal
