//go:build linux && cgo

package pamhost

import (
	"errors"

	"github.com/msteinert/pam/v2"

	pwquality "github.com/debarshiray/libpwquality"
)

// StatusError collapses a controller error into the return error the host
// framework expects from a password-change module. Errors that already carry
// a [pam.Error], such as conversation failures surfaced by the transaction,
// pass through unchanged.
func StatusError(err error) error {
	if err == nil {
		return nil
	}

	var pamErr pam.Error
	if errors.As(err, &pamErr) {
		return pamErr
	}

	switch pwquality.StatusOf(err) {
	case pwquality.StatusSuccess:
		return nil
	case pwquality.StatusBufErr:
		return pam.ErrBuf
	case pwquality.StatusMaxTries:
		return pam.ErrMaxtries
	case pwquality.StatusAuthTokErr:
		return pam.ErrAuthtok
	default:
		return pam.ErrService
	}
}
