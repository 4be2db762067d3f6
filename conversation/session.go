package conversation

import (
	"context"
	"crypto/subtle"
	"errors"

	pwquality "github.com/debarshiray/libpwquality"
)

// Session adapts a conversation [Record] plus the token fields of a single
// request to the pwquality.Session interface.
//
// A Session is single-shot: the staged candidate token is handed out by the
// first GetAuthTok call only, and a second call within the same invocation
// reports an abort. Hosts drive the controller with retry semantics of one
// attempt per request and span further attempts across requests through
// [Store.RegisterAttempt]. Tokens are sealed before they touch the record, so
// a persisted Record never holds plaintext.
type Session struct {
	store  *Store
	record *Record

	authTok    string
	confirmTok string
	served     bool

	messages []string
}

// NewSession stages the token fields of one request against record. authTok
// is the candidate token ("" when the request carried none), confirmTok the
// re-entered confirmation.
func NewSession(store *Store, record *Record, authTok, confirmTok string) *Session {
	return &Session{
		store:      store,
		record:     record,
		authTok:    authTok,
		confirmTok: confirmTok,
	}
}

// Record returns the backing record, including any mutations staged by the
// controller. Callers persist it with [Store.Save].
func (s *Session) Record() *Record {
	return s.record
}

// Messages returns the user-facing error lines collected during the
// invocation, oldest first.
func (s *Session) Messages() []string {
	out := make([]string, len(s.messages))
	copy(out, s.messages)
	return out
}

func (s *Session) GetItem(ctx context.Context, item pwquality.Item) (string, error) {
	switch item {
	case pwquality.ItemOldAuthTok:
		if len(s.record.SealedOldAuthTok) == 0 {
			return "", nil
		}
		return s.unseal(s.record.SealedOldAuthTok)
	case pwquality.ItemAuthTok:
		return s.pendingAuthTok()
	case pwquality.ItemAuthTokType:
		return s.record.AuthTokType, nil
	default:
		return "", errors.New("unknown item " + item.String())
	}
}

func (s *Session) SetItem(ctx context.Context, item pwquality.Item, value string) error {
	switch item {
	case pwquality.ItemOldAuthTok:
		if value == "" {
			s.record.SealedOldAuthTok = nil
			return nil
		}
		sealed, err := s.seal(value)
		if err != nil {
			return err
		}
		s.record.SealedOldAuthTok = sealed
		return nil
	case pwquality.ItemAuthTok:
		if value == "" {
			s.authTok = ""
			s.record.SealedAuthTok = nil
			return nil
		}
		sealed, err := s.seal(value)
		if err != nil {
			return err
		}
		s.authTok = value
		s.record.SealedAuthTok = sealed
		return nil
	case pwquality.ItemAuthTokType:
		s.record.AuthTokType = value
		return nil
	default:
		return errors.New("unknown item " + item.String())
	}
}

func (s *Session) GetAuthTok(ctx context.Context) (string, bool, error) {
	if s.served {
		return "", false, nil
	}
	s.served = true

	if s.authTok != "" {
		sealed, err := s.seal(s.authTok)
		if err != nil {
			return "", false, err
		}
		s.record.SealedAuthTok = sealed
		return s.authTok, true, nil
	}

	// A previous request may have staged a candidate into the record.
	if len(s.record.SealedAuthTok) > 0 {
		token, err := s.unseal(s.record.SealedAuthTok)
		if err != nil {
			return "", false, err
		}
		return token, true, nil
	}

	return "", false, nil
}

func (s *Session) VerifyAuthTok(ctx context.Context) (bool, error) {
	if s.confirmTok == "" {
		return false, nil
	}

	pending, err := s.pendingAuthTok()
	if err != nil {
		return false, err
	}
	if pending == "" {
		return false, errors.New("no pending authentication token")
	}

	if subtle.ConstantTimeCompare([]byte(pending), []byte(s.confirmTok)) != 1 {
		return false, errors.New("authentication tokens do not match")
	}

	return true, nil
}

func (s *Session) Error(ctx context.Context, msg string) {
	s.messages = append(s.messages, msg)
}

func (s *Session) pendingAuthTok() (string, error) {
	if s.authTok != "" {
		return s.authTok, nil
	}
	if len(s.record.SealedAuthTok) == 0 {
		return "", nil
	}
	return s.unseal(s.record.SealedAuthTok)
}

func (s *Session) seal(value string) ([]byte, error) {
	if s.store == nil || s.store.sealer == nil {
		return nil, errNoSealer
	}
	return s.store.sealer.Seal([]byte(value), s.store.additionalData(s.record))
}

func (s *Session) unseal(sealed []byte) (string, error) {
	if s.store == nil || s.store.sealer == nil {
		return "", errNoSealer
	}
	plain, err := s.store.sealer.Open(sealed, s.store.additionalData(s.record))
	if err != nil {
		return "", err
	}
	return string(plain), nil
}
