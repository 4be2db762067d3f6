// Package internal contains helper utilities that are intentionally private
// to libpwquality, including secure random generation and resume token
// encoding.
//
// # What this package must NOT do
//
//   - Export types that appear in the public pwquality API.
//   - Be imported by any package outside the libpwquality module.
package internal
