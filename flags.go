package pwquality

import "strings"

// Flags carries the host framework's phase and behavior bits for one
// ChangeAuthTok invocation.
//
// Flags instances are intended to be configured during initialization and then
// treated as immutable unless documented otherwise.
type Flags uint32

const (
	// FlagSilent suppresses user-facing rejection messages.
	FlagSilent Flags = 0x8000
	// FlagChangeExpiredAuthTok marks a mandatory change of an expired token.
	FlagChangeExpiredAuthTok Flags = 0x20
	// FlagPrelimCheck selects the preliminary-check phase.
	FlagPrelimCheck Flags = 0x4000
	// FlagUpdateAuthTok selects the token-update phase.
	FlagUpdateAuthTok Flags = 0x2000
)

// Has reports whether all bits of f are set.
func (fl Flags) Has(f Flags) bool {
	return fl&f == f
}

func (fl Flags) String() string {
	if fl == 0 {
		return "none"
	}
	parts := make([]string, 0, 4)
	if fl.Has(FlagPrelimCheck) {
		parts = append(parts, "prelim_check")
	}
	if fl.Has(FlagUpdateAuthTok) {
		parts = append(parts, "update_authtok")
	}
	if fl.Has(FlagChangeExpiredAuthTok) {
		parts = append(parts, "change_expired_authtok")
	}
	if fl.Has(FlagSilent) {
		parts = append(parts, "silent")
	}
	if len(parts) == 0 {
		return "unknown"
	}
	return strings.Join(parts, "|")
}
