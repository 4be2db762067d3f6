package pwquality

import "context"

// Item identifies one entry of the host framework's per-conversation item
// store. The controller reads ItemOldAuthTok, reads and writes ItemAuthTok,
// and writes ItemAuthTokType.
type Item uint8

const (
	// ItemOldAuthTok is an exported constant or variable used by the password-change controller.
	ItemOldAuthTok Item = iota + 1
	// ItemAuthTok is an exported constant or variable used by the password-change controller.
	ItemAuthTok
	// ItemAuthTokType is an exported constant or variable used by the password-change controller.
	ItemAuthTokType
)

func (i Item) String() string {
	switch i {
	case ItemOldAuthTok:
		return "oldauthtok"
	case ItemAuthTok:
		return "authtok"
	case ItemAuthTokType:
		return "authtok_type"
	default:
		return "unknown"
	}
}

// Session is the primary interface that host frameworks must implement to
// drive a password change through the controller. It covers item storage,
// candidate token retrieval, verification re-entry, and user-facing error
// display.
//
// GetAuthTok and VerifyAuthTok follow comma-ok semantics: ok false with a nil
// error means the user supplied no token at all (an abort), which is distinct
// from an empty token and from a transport error. Clearing a pending token is
// always expressed as SetItem(ctx, ItemAuthTok, ""); a Session never receives
// any other destructive call.
type Session interface {
	// GetItem returns the current value of item. Absence may be reported as
	// an error; the controller tolerates a missing old token.
	GetItem(ctx context.Context, item Item) (string, error)
	// SetItem stores value under item. An empty value clears the item.
	SetItem(ctx context.Context, item Item, value string) error
	// GetAuthTok prompts for the new token without verification and stores it
	// under ItemAuthTok.
	GetAuthTok(ctx context.Context) (token string, ok bool, err error)
	// VerifyAuthTok prompts for re-entry and compares against ItemAuthTok.
	// A mismatch is reported as a non-nil error.
	VerifyAuthTok(ctx context.Context) (ok bool, err error)
	// Error displays a rejection message to the user.
	Error(ctx context.Context, msg string)
}

// Checker is the quality-judgment surface of an external password checking
// library. One Checker instance lives for exactly one ChangeAuthTok
// invocation; it is allocated by [CheckerProvider.NewChecker] during option
// parsing and never reused.
//
// Check returns a non-negative opaque score on acceptance, or a rejection
// error, ideally a [*QualityError] so the controller can map it to the
// user-facing message table. oldPassword is empty when no old token exists.
// Implementations that want the acting user read it from the context (see
// [WithUser]).
type Checker interface {
	// ReadConfig loads the checker's own configuration file. An empty path
	// selects the implementation's default location.
	ReadConfig(path string) error
	// SetOption applies a single "key=value" option string.
	SetOption(option string) error
	// Check scores password against the checker's active settings.
	Check(ctx context.Context, password, oldPassword string) (int, error)
}

// CheckerProvider allocates Checker instances. Allocation failure is the only
// fatal option-parse outcome and maps to [StatusBufErr].
type CheckerProvider interface {
	NewChecker() (Checker, error)
}
