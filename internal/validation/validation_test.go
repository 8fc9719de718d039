package validation

import (
	"strings"
	"testing"
)

const stakeAddress = "stake1uyehkck0lajq8gr28t9uxnuvgcqrc6070x3k9r8048z8y5gh6ffgw"

func TestValidAddressAcceptsBech32AndHex(t *testing.T) {
	tests := []string{
		"addr1qx2fxv2umyhttkxyxp8x0dlpdt3k6cwng5pxj3jhsydzer3n0d3vllmyqwsx5wktcd8cc3sq835lu7drv2xwl2wywfgse35a3x",
		stakeAddress,
		strings.ToUpper(stakeAddress),
		strings.Repeat("ab", 28),
		"0x" + strings.Repeat("0f", 29),
	}

	for _, tc := range tests {
		if !ValidAddress(tc) {
			t.Fatalf("expected valid address for %q", tc)
		}
	}
}

func TestValidAddressRejectsMalformed(t *testing.T) {
	tests := []string{
		"",
		"0xabc",
		"not-an-address",
		" " + stakeAddress,
		"stake1UYEHKCK0lajq8gr28t9uxnuvgcqrc6070x3k9r8048z8y5gh6ffgw",
		"stake1uyehkck0lajq8gr28t9uxnuvgcqrc6070x3k9r8048z8y5gh6ffgb",
		strings.Repeat("a", 57),
	}

	for _, tc := range tests {
		if ValidAddress(tc) {
			t.Fatalf("expected invalid address for %q", tc)
		}
	}
}

func TestInvalidAddressesKeepsOrder(t *testing.T) {
	got := InvalidAddresses([]string{"b-bad", stakeAddress, "a-bad"})
	if len(got) != 2 || got[0] != "b-bad" || got[1] != "a-bad" {
		t.Fatalf("expected [b-bad a-bad], got %v", got)
	}
	if InvalidAddresses([]string{stakeAddress}) != nil {
		t.Fatalf("expected nil for all-valid input")
	}
}

func TestValidHash(t *testing.T) {
	hash := strings.Repeat("Ab", 32)
	if !ValidHash(hash) || !ValidHash("0x"+hash) {
		t.Fatalf("expected valid hash")
	}
	if ValidHash("deadbeef") {
		t.Fatalf("expected short hash to be rejected")
	}
	if got := NormalizeHash(" 0x" + hash + " "); got != strings.Repeat("ab", 32) {
		t.Fatalf("unexpected normalized hash %q", got)
	}
}

func TestNormalizeAddress(t *testing.T) {
	tests := map[string]string{
		strings.ToUpper(stakeAddress):   stakeAddress,
		stakeAddress:                    stakeAddress,
		"0x" + strings.Repeat("AB", 28): strings.Repeat("ab", 28),
		strings.Repeat("Cd", 29):        strings.Repeat("cd", 29),
	}

	for input, want := range tests {
		if got := NormalizeAddress(input); got != want {
			t.Fatalf("NormalizeAddress(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestNormalizeAddressesDropsDuplicateSpellings(t *testing.T) {
	hex := strings.Repeat("ab", 28)
	got := NormalizeAddresses([]string{"0x" + strings.ToUpper(hex), strings.ToUpper(stakeAddress), hex, stakeAddress})
	if len(got) != 2 || got[0] != hex || got[1] != stakeAddress {
		t.Fatalf("expected [%s %s], got %v", hex, stakeAddress, got)
	}
}
