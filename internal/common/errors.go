// Package common defines shared constants and sentinel errors used across
// client and server layers of hivegate. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Account-name validation errors. Field-level and user-correctable;
	// the first failing check wins (see the accountname package for order).
	ErrEmptyName                  = errors.New("account name is empty")
	ErrNameTooShort               = errors.New("account name is too short")
	ErrNameTooLong                = errors.New("account name is too long")
	ErrBadActor                   = errors.New("account name is on the bad actor list")
	ErrSegmentMustStartWithLetter = errors.New("account name segment must start with a letter")
	ErrSegmentInvalidChars        = errors.New("account name segment has invalid characters")
	ErrSegmentDoubleDash          = errors.New("account name segment has a double dash")
	ErrSegmentMustEndAlnum        = errors.New("account name segment must end with a letter or digit")
	ErrSegmentTooShort            = errors.New("account name segment is too short")

	// Login/verification errors. ErrAuthenticationFailed is the only one
	// surfaced to clients; the specific sub-check failure is logged server-side.
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrAccountNotFound      = errors.New("account not found")
	ErrUnsupportedKeyType   = errors.New("unsupported key type")
	ErrInvalidLoginType     = errors.New("invalid login type")
	ErrMultisigUnsupported  = errors.New("multisig authority is not supported")

	// Signer/environment errors.
	ErrKeychainUnavailable = errors.New("keychain extension is not available")
	ErrStoreLocked         = errors.New("key store is locked")
	ErrKeyNotFound         = errors.New("key not found")

	// Transport-level errors.
	ErrMissingCsrfHeader   = errors.New("missing csrf protection header")
	ErrUpstreamUnavailable = errors.New("upstream chain API unavailable")

	// Token lifecycle errors.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
