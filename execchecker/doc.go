// Package execchecker implements the pwquality checker interface on top of an
// external helper program, the way pwscore wraps a quality library behind a
// pipe.
//
// # Helper contract
//
// The helper is invoked once per candidate as
//
//	program [fixed args...] [--config <path>] [--set <option>]... [user]
//
// and receives two lines on stdin: the candidate password and the old
// password, the second line empty when no old token exists. On acceptance the
// helper exits zero and prints a non-negative decimal score to stdout. On
// rejection it exits non-zero; the first line of stderr becomes the
// user-facing rejection detail, verbatim.
//
// # What this package must NOT do
//
//   - Pass tokens through argv or the environment.
//   - Retry or reinterpret helper verdicts.
package execchecker
