package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAddress(t *testing.T) {
	valid := "0x" + strings.Repeat("aB3", 13) + "f"
	require.Len(t, valid, 42)

	address, err := ParseAddress(valid)
	require.NoError(t, err)
	assert.Equal(t, valid, address.String())

	invalid := []string{
		"",
		"0x",
		"0x123",
		strings.Repeat("a", 42),
		"1x" + strings.Repeat("a", 40),
		"0x" + strings.Repeat("a", 39),
		"0x" + strings.Repeat("a", 41),
		"0x" + strings.Repeat("g", 40),
		" 0x" + strings.Repeat("a", 40),
	}
	for _, raw := range invalid {
		_, err := ParseAddress(raw)
		assert.ErrorIs(t, err, ErrInvalidAddress, raw)
	}
}

func TestAddressShort(t *testing.T) {
	address := Address("0x1234567890abcdef1234567890abcdef12345678")
	assert.Equal(t, "0x12345", address.Short())
}
