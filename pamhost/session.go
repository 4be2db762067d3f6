//go:build linux && cgo

package pamhost

import (
	"context"
	"crypto/subtle"
	"errors"

	"github.com/msteinert/pam/v2"

	pwquality "github.com/debarshiray/libpwquality"
)

const mismatchMessage = "Sorry, passwords do not match."

// Transaction is the slice of [pam.ModuleTransaction] the session needs: item
// access and string conversations. Anything satisfying the full module
// transaction interface satisfies this one.
type Transaction interface {
	GetItem(pam.Item) (string, error)
	SetItem(pam.Item, string) error
	StartStringConv(pam.Style, string) (pam.StringConvResponse, error)
}

// Session adapts a host transaction to the pwquality session interface. Item
// reads and writes go straight to the transaction's item store; prompts run
// over the application conversation with echo disabled.
type Session struct {
	mt Transaction
}

// NewSession wraps mt. The transaction stays owned by the caller and is never
// ended by the session.
func NewSession(mt Transaction) *Session {
	return &Session{mt: mt}
}

func (s *Session) GetItem(ctx context.Context, item pwquality.Item) (string, error) {
	hostItem, err := mapItem(item)
	if err != nil {
		return "", err
	}
	return s.mt.GetItem(hostItem)
}

func (s *Session) SetItem(ctx context.Context, item pwquality.Item, value string) error {
	hostItem, err := mapItem(item)
	if err != nil {
		return err
	}
	return s.mt.SetItem(hostItem, value)
}

func (s *Session) GetAuthTok(ctx context.Context) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	resp, err := s.mt.StartStringConv(pam.PromptEchoOff, "New "+s.typeLabel()+"password: ")
	if err != nil {
		return "", false, err
	}

	token := resp.Response()
	if token == "" {
		return "", false, nil
	}

	if err := s.mt.SetItem(pam.Authtok, token); err != nil {
		return "", false, err
	}
	return token, true, nil
}

func (s *Session) VerifyAuthTok(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	resp, err := s.mt.StartStringConv(pam.PromptEchoOff, "Retype new "+s.typeLabel()+"password: ")
	if err != nil {
		return false, err
	}

	retyped := resp.Response()
	if retyped == "" {
		return false, nil
	}

	pending, err := s.mt.GetItem(pam.Authtok)
	if err != nil {
		return false, err
	}
	if subtle.ConstantTimeCompare([]byte(pending), []byte(retyped)) != 1 {
		s.Error(ctx, mismatchMessage)
		return false, errors.New("passwords do not match")
	}

	return true, nil
}

func (s *Session) Error(ctx context.Context, msg string) {
	_, _ = s.mt.StartStringConv(pam.ErrorMsg, msg)
}

func (s *Session) typeLabel() string {
	label, err := s.mt.GetItem(pam.AuthtokType)
	if err != nil || label == "" {
		return ""
	}
	return label + " "
}

func mapItem(item pwquality.Item) (pam.Item, error) {
	switch item {
	case pwquality.ItemOldAuthTok:
		return pam.Oldauthtok, nil
	case pwquality.ItemAuthTok:
		return pam.Authtok, nil
	case pwquality.ItemAuthTokType:
		return pam.AuthtokType, nil
	default:
		return 0, errors.New("unknown item " + item.String())
	}
}
