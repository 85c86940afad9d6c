package utils

import (
	"strings"
	"unicode/utf8"

	"pepu_portfolio_bot/internal/domain/entity"
)

const (
	walletAddressPrefix = "0x"
	walletAddressLength = 42
)

// ValidateWalletAddress trims surrounding whitespace and checks the candidate
// has the 0x prefix and 42 characters (runes, not bytes). Hex digits and checksums are not
// verified. It returns the trimmed address, or entity.ErrMalformedAddress.
func ValidateWalletAddress(candidate string) (string, error) {
	address := strings.TrimSpace(candidate)
	if !strings.HasPrefix(address, walletAddressPrefix) || utf8.RuneCountInString(address) != walletAddressLength {
		return "", entity.ErrMalformedAddress
	}
	return address, nil
}

// IsWalletAddress reports whether candidate passes ValidateWalletAddress.
func IsWalletAddress(candidate string) bool {
	_, err := ValidateWalletAddress(candidate)
	return err == nil
}
