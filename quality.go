package pwquality

import (
	"errors"
	"fmt"
)

// Code classifies a quality-check rejection. Checker implementations map
// their library's native error codes onto this set; anything they cannot
// classify stays CodeUnknown and renders as the generic service-module
// message.
type Code int

const (
	// CodeUnknown is an exported constant or variable used by the password-change controller.
	CodeUnknown Code = iota
	// CodeMemAlloc is an exported constant or variable used by the password-change controller.
	CodeMemAlloc
	// CodeSamePassword is an exported constant or variable used by the password-change controller.
	CodeSamePassword
	// CodePalindrome is an exported constant or variable used by the password-change controller.
	CodePalindrome
	// CodeCaseChangesOnly is an exported constant or variable used by the password-change controller.
	CodeCaseChangesOnly
	// CodeTooSimilar is an exported constant or variable used by the password-change controller.
	CodeTooSimilar
	// CodeMinDigits is an exported constant or variable used by the password-change controller.
	CodeMinDigits
	// CodeMinUppers is an exported constant or variable used by the password-change controller.
	CodeMinUppers
	// CodeMinLowers is an exported constant or variable used by the password-change controller.
	CodeMinLowers
	// CodeMinOthers is an exported constant or variable used by the password-change controller.
	CodeMinOthers
	// CodeMinLength is an exported constant or variable used by the password-change controller.
	CodeMinLength
	// CodeRotated is an exported constant or variable used by the password-change controller.
	CodeRotated
	// CodeMinClasses is an exported constant or variable used by the password-change controller.
	CodeMinClasses
	// CodeMaxConsecutive is an exported constant or variable used by the password-change controller.
	CodeMaxConsecutive
	// CodeEmptyPassword is an exported constant or variable used by the password-change controller.
	CodeEmptyPassword
	// CodeDictionaryCheck is an exported constant or variable used by the password-change controller.
	CodeDictionaryCheck
)

// QualityError is a typed quality-check rejection. Detail carries the
// checking library's own message where one exists; for CodeDictionaryCheck it
// is surfaced to the user verbatim.
type QualityError struct {
	Code   Code
	Detail string
}

func (e *QualityError) Error() string {
	return fmt.Sprintf("password check failed: %s", RejectionMessage(e))
}

// RejectionMessage maps a quality-check rejection to the user-facing message
// fragment displayed after the "BAD PASSWORD: " prefix.
//
// The mapping is exhaustive over [Code] with a mandatory default arm so that
// codes added by future checker libraries degrade to the generic message
// instead of breaking callers. Errors that are not a [*QualityError] take the
// default arm too.
func RejectionMessage(err error) string {
	var qe *QualityError
	if !errors.As(err, &qe) {
		return "Error in service module"
	}
	switch qe.Code {
	case CodeMemAlloc:
		return "memory allocation error"
	case CodeSamePassword:
		return "is the same as the old one"
	case CodePalindrome:
		return "is a palindrome"
	case CodeCaseChangesOnly:
		return "case changes only"
	case CodeTooSimilar:
		return "is too similar to the old one"
	case CodeMinDigits, CodeMinUppers, CodeMinLowers, CodeMinOthers, CodeMinLength:
		return "is too simple"
	case CodeRotated:
		return "is rotated"
	case CodeMinClasses:
		return "not enough character classes"
	case CodeMaxConsecutive:
		return "contains too many same characters consecutively"
	case CodeEmptyPassword:
		return "No password supplied"
	case CodeDictionaryCheck:
		if qe.Detail != "" {
			return qe.Detail
		}
		return "Error in service module"
	default:
		return "Error in service module"
	}
}
