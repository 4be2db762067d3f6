//go:build linux && cgo

package pamhost

import (
	"context"
	"fmt"

	"github.com/msteinert/pam/v2"

	pwquality "github.com/debarshiray/libpwquality"
)

// Handler implements [pam.ModuleHandler] for a password-quality module built
// on a pwquality controller. Only ChangeAuthTok is handled; every other
// operation reports [pam.ErrIgnore] so the rest of the stack keeps running.
type Handler struct {
	module *pwquality.Module
}

// NewHandler binds module to the host framework's module entry points.
func NewHandler(module *pwquality.Module) *Handler {
	return &Handler{module: module}
}

// ChangeAuthTok runs one phase of the password change through the controller
// and reports the outcome as a host return error.
func (h *Handler) ChangeAuthTok(mt pam.ModuleTransaction, flags pam.Flags, args []string) error {
	if h == nil || h.module == nil {
		return pam.ErrService
	}

	// The host's chauthtok flag bits and pwquality.Flags share a layout.
	err := h.module.ChangeAuthTok(context.Background(), NewSession(mt), pwquality.Flags(flags), args)
	return StatusError(err)
}

// Authenticate is a PAM handler.
func (h *Handler) Authenticate(mt pam.ModuleTransaction, flags pam.Flags, args []string) error {
	return fmt.Errorf("authenticate not implemented: %w", pam.ErrIgnore)
}

// AcctMgmt is a PAM handler.
func (h *Handler) AcctMgmt(mt pam.ModuleTransaction, flags pam.Flags, args []string) error {
	return fmt.Errorf("account management not implemented: %w", pam.ErrIgnore)
}

// SetCred is a PAM handler.
func (h *Handler) SetCred(mt pam.ModuleTransaction, flags pam.Flags, args []string) error {
	return fmt.Errorf("set credentials not implemented: %w", pam.ErrIgnore)
}

// OpenSession is a PAM handler.
func (h *Handler) OpenSession(mt pam.ModuleTransaction, flags pam.Flags, args []string) error {
	return fmt.Errorf("open session not implemented: %w", pam.ErrIgnore)
}

// CloseSession is a PAM handler.
func (h *Handler) CloseSession(mt pam.ModuleTransaction, flags pam.Flags, args []string) error {
	return fmt.Errorf("close session not implemented: %w", pam.ErrIgnore)
}
