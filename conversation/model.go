package conversation

// Record defines a public type used by libpwquality APIs.
//
// Record instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Record struct {
	ID      string
	Service string
	User    string

	AuthTokType string

	SecretHash [32]byte

	SealedOldAuthTok []byte
	SealedAuthTok    []byte

	Tries uint16
	Flags uint32

	CreatedAt int64
	UpdatedAt int64
}
