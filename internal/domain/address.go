package domain

import "regexp"

// Address is a Hyperliquid account address (0x + 40 hex chars).
type Address string

var addressPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// ParseAddress validates raw and returns it as an Address.
func ParseAddress(raw string) (Address, error) {
	if !addressPattern.MatchString(raw) {
		return "", ErrInvalidAddress
	}
	return Address(raw), nil
}

// Short returns the display form of the address: "0x" plus the first
// five characters, matching the notification templates.
func (a Address) Short() string {
	if len(a) > 7 {
		return string(a[:7])
	}
	return string(a)
}

func (a Address) String() string { return string(a) }
