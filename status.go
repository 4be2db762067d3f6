package pwquality

import "errors"

// Status is the fixed set of outcomes a host framework can receive from
// ChangeAuthTok once errors are collapsed through [StatusOf]. Host adapters
// translate Status values into their framework's native return codes.
type Status int

const (
	// StatusSuccess is an exported constant or variable used by the password-change controller.
	StatusSuccess Status = iota
	// StatusServiceErr is an exported constant or variable used by the password-change controller.
	StatusServiceErr
	// StatusBufErr is an exported constant or variable used by the password-change controller.
	StatusBufErr
	// StatusAuthTokErr is an exported constant or variable used by the password-change controller.
	StatusAuthTokErr
	// StatusMaxTries is an exported constant or variable used by the password-change controller.
	StatusMaxTries
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusServiceErr:
		return "service_err"
	case StatusBufErr:
		return "buf_err"
	case StatusAuthTokErr:
		return "authtok_err"
	case StatusMaxTries:
		return "max_tries"
	default:
		return "unknown"
	}
}

// StatusOf collapses a ChangeAuthTok error into the host-facing status set.
//
// Quality rejections and user aborts both report StatusAuthTokErr, matching
// what a host framework expects from a token-manipulation failure; the Go
// error value keeps the specific cause for callers that want it. Unrecognized
// errors report StatusServiceErr, including host transport failures surfaced
// under a retry=1 configuration.
func StatusOf(err error) Status {
	if err == nil {
		return StatusSuccess
	}
	var qe *QualityError
	switch {
	case errors.Is(err, ErrMemAlloc):
		return StatusBufErr
	case errors.Is(err, ErrMaxTries):
		return StatusMaxTries
	case errors.Is(err, ErrAborted), errors.Is(err, ErrAuthTok), errors.As(err, &qe):
		return StatusAuthTokErr
	default:
		return StatusServiceErr
	}
}
