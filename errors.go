package pwquality

import "errors"

var (
	// ErrMemAlloc is an exported constant or variable used by the password-change controller.
	ErrMemAlloc = errors.New("memory buffer error")
	// ErrAuthTok is an exported constant or variable used by the password-change controller.
	ErrAuthTok = errors.New("authentication token manipulation error")
	// ErrAborted is an exported constant or variable used by the password-change controller.
	ErrAborted = errors.New("password change aborted by user")
	// ErrMaxTries is an exported constant or variable used by the password-change controller.
	ErrMaxTries = errors.New("have exhausted maximum number of retries")
	// ErrService is an exported constant or variable used by the password-change controller.
	ErrService = errors.New("error in service module")
	// ErrNilCheckerProvider is an exported constant or variable used by the password-change controller.
	ErrNilCheckerProvider = errors.New("checker provider is required")
	// ErrBuilderConsumed is an exported constant or variable used by the password-change controller.
	ErrBuilderConsumed = errors.New("builder already consumed")
	// ErrModuleNotReady is an exported constant or variable used by the password-change controller.
	ErrModuleNotReady = errors.New("module not initialized")
)
