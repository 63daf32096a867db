package identity

import (
	"errors"
	"fmt"
	"strings"
)

const (
	addressHexLength = 40
	addressPrefix    = "0x"
)

// ErrInvalidAddress indicates that a raw value is not a well formed address.
var ErrInvalidAddress = errors.New("identity: invalid address")

// Address is a validated, lower-cased identity token. It serves as tenant key,
// member key and owner key throughout the registry.
type Address string

// Zero is the absent address.
const Zero Address = ""

// NewAddress validates raw input and returns a canonical Address.
func NewAddress(rawInput string) (Address, error) {
	trimmed := strings.TrimSpace(rawInput)
	if trimmed == "" {
		return Zero, fmt.Errorf("%w: empty", ErrInvalidAddress)
	}
	if !strings.HasPrefix(strings.ToLower(trimmed), addressPrefix) {
		return Zero, fmt.Errorf("%w: missing %s prefix", ErrInvalidAddress, addressPrefix)
	}
	digits := trimmed[len(addressPrefix):]
	if len(digits) != addressHexLength {
		return Zero, fmt.Errorf("%w: expected %d hex digits, got %d", ErrInvalidAddress, addressHexLength, len(digits))
	}
	for _, r := range digits {
		if !isHexDigit(r) {
			return Zero, fmt.Errorf("%w: non-hex digit %q", ErrInvalidAddress, r)
		}
	}
	return Address(strings.ToLower(trimmed)), nil
}

// String returns the canonical hex form.
func (a Address) String() string {
	return string(a)
}

// IsZero reports whether the address is absent.
func (a Address) IsZero() bool {
	return a == Zero
}

func isHexDigit(r rune) bool {
	switch {
	case r >= '0' && r <= '9':
		return true
	case r >= 'a' && r <= 'f':
		return true
	case r >= 'A' && r <= 'F':
		return true
	}
	return false
}
