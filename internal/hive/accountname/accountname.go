// Package accountname validates Hive account-name syntax and checks
// membership in the static bad-actor blocklist.
//
// Canonical check order (first failure wins): empty, too short, too long,
// bad actor, then per dot-separated label: starts with a lowercase letter,
// contains only [a-z0-9-], no "--", ends with a letter or digit, at least
// three characters. A name like "Alice" therefore fails the start-letter
// check, not the character-set check.
package accountname

import (
	"regexp"
	"strings"

	"github.com/hivegate/hivegate/internal/common"
)

const (
	MinLength = 3
	MaxLength = 16
)

var (
	segmentStart = regexp.MustCompile(`^[a-z]`)
	segmentChars = regexp.MustCompile(`^[a-z0-9-]*$`)
	segmentEnd   = regexp.MustCompile(`[a-z0-9]$`)
)

// Validate reports nil for a well-formed Hive account name and the first
// failing check's sentinel error otherwise. It is pure: no I/O, no chain
// lookups. Callers must validate before any network work.
func Validate(name string) error {
	if name == "" {
		return common.ErrEmptyName
	}
	if len(name) < MinLength {
		return common.ErrNameTooShort
	}
	if len(name) > MaxLength {
		return common.ErrNameTooLong
	}
	if IsBadActor(name) {
		return common.ErrBadActor
	}
	for _, segment := range strings.Split(name, ".") {
		if !segmentStart.MatchString(segment) {
			return common.ErrSegmentMustStartWithLetter
		}
		if !segmentChars.MatchString(segment) {
			return common.ErrSegmentInvalidChars
		}
		if strings.Contains(segment, "--") {
			return common.ErrSegmentDoubleDash
		}
		if !segmentEnd.MatchString(segment) {
			return common.ErrSegmentMustEndAlnum
		}
		if len(segment) < MinLength {
			return common.ErrSegmentTooShort
		}
	}
	return nil
}

// IsBadActor reports whether name is on the static blocklist of accounts
// known to impersonate exchanges or services.
func IsBadActor(name string) bool {
	_, ok := badActors[name]
	return ok
}

// Names that have been used to phish transfers by impersonating well-known
// exchanges and services.
var badActors = map[string]struct{}{
	"binance":         {},
	"binance-hot":     {},
	"bittrex":         {},
	"bittrex-deposit": {},
	"blocktrade":      {},
	"bltinex":         {},
	"deepcrypto8":     {},
	"gtg-witness":     {},
	"huobi-deposit":   {},
	"huobi-pro":       {},
	"ionomy":          {},
	"korbit":          {},
	"minnowbooster":   {},
	"poloniex":        {},
	"polonlex":        {},
	"steemmonster":    {},
	"tradingideas":    {},
	"upbit":           {},
	"upbit-exchange":  {},
	"upbltexchange":   {},
}
