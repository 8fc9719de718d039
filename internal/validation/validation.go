package validation

import (
	"regexp"
	"strings"
)

var hexAddress = regexp.MustCompile(`^(0x)?[0-9a-fA-F]+$`)
var hexHash = regexp.MustCompile(`^[0-9a-fA-F]{64}$`)

// bech32 data part alphabet, see BIP-173.
var bech32Address = regexp.MustCompile(`^[a-z0-9_]{1,83}1[qpzry9x8gf2tvdw0s3jn54khce6mua7l]{6,}$`)

const (
	minBech32Length = 8
	maxBech32Length = 108
	minHexDigits    = 56
	maxHexDigits    = 114
)

func NormalizeHash(raw string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(raw), "0x"))
}

// ValidAddress accepts lower- or upper-case bech32 addresses and hex
// encoded addresses or payment credentials.
func ValidAddress(address string) bool {
	if address == "" || strings.TrimSpace(address) != address {
		return false
	}
	if hexAddress.MatchString(address) {
		digits := len(strings.TrimPrefix(address, "0x"))
		return digits%2 == 0 && digits >= minHexDigits && digits <= maxHexDigits
	}
	if len(address) < minBech32Length || len(address) > maxBech32Length {
		return false
	}
	lower := strings.ToLower(address)
	if lower != address && strings.ToUpper(address) != address {
		return false
	}
	return bech32Address.MatchString(lower)
}

// NormalizeAddress returns the stored spelling of a valid address:
// lower-case bech32, or lower-case hex without the 0x prefix.
func NormalizeAddress(address string) string {
	if hexAddress.MatchString(address) {
		return strings.ToLower(strings.TrimPrefix(address, "0x"))
	}
	return strings.ToLower(address)
}

// NormalizeAddresses applies NormalizeAddress to every entry, dropping
// duplicate spellings of the same address.
func NormalizeAddresses(addresses []string) []string {
	seen := make(map[string]struct{}, len(addresses))
	out := make([]string, 0, len(addresses))
	for _, address := range addresses {
		normalized := NormalizeAddress(address)
		if _, ok := seen[normalized]; ok {
			continue
		}
		seen[normalized] = struct{}{}
		out = append(out, normalized)
	}
	return out
}

func ValidHash(hash string) bool {
	return hexHash.MatchString(NormalizeHash(hash))
}

// InvalidAddresses returns the entries of addresses that fail
// ValidAddress, in input order. It returns nil when all are valid.
func InvalidAddresses(addresses []string) []string {
	var invalid []string
	for _, address := range addresses {
		if !ValidAddress(address) {
			invalid = append(invalid, address)
		}
	}
	return invalid
}
