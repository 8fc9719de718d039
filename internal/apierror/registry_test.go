package apierror

import (
	"errors"
	"strings"
	"sync"
	"testing"
)

func TestGenerateScenarios(t *testing.T) {
	tests := []struct {
		name string
		got  Result
		want Result
	}{
		{
			name: "address limit",
			got:  Generate(AddressLimitExceeded, AddressLimitDetails{Limit: 10, Found: 15}),
			want: Result{Code: 0, Reason: "Exceeded request address limit. Limit of 10, found 15"},
		},
		{
			name: "address format",
			got:  Generate(IncorrectAddressFormat, AddressFormatDetails{Addresses: []string{"0xabc", "not-an-address"}}),
			want: Result{Code: 1, Reason: `Incorrectly formatted addresses found. ["0xabc","not-an-address"]`},
		},
		{
			name: "until block",
			got:  Generate(UntilBlockNotFound, UntilBlockDetails{UntilBlock: "0xdeadbeef"}),
			want: Result{Code: 2, Reason: "Until block not found. Searched block hash: 0xdeadbeef"},
		},
		{
			name: "page start",
			got:  Generate(PageStartNotFound, PageStartDetails{BlockHash: "0x1", TxHash: "0x2"}),
			want: Result{Code: 3, Reason: "After block and/or transaction not found. Searched block hash 0x1 and tx hash 0x2"},
		},
		{
			name: "empty address list",
			got:  Generate(IncorrectAddressFormat, AddressFormatDetails{Addresses: []string{}}),
			want: Result{Code: 1, Reason: "Incorrectly formatted addresses found. []"},
		},
		{
			name: "nil address list",
			got:  Generate(IncorrectAddressFormat, AddressFormatDetails{}),
			want: Result{Code: 1, Reason: "Incorrectly formatted addresses found. []"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.got != tc.want {
				t.Fatalf("expected %+v, got %+v", tc.want, tc.got)
			}
		})
	}
}

func TestAddressFormatKeepsCharactersUnescaped(t *testing.T) {
	got := IncorrectAddressFormat.Generate(AddressFormatDetails{Addresses: []string{"<a&b>", `q"uote`}})
	want := `Incorrectly formatted addresses found. ["<a&b>","q\"uote"]`
	if got.Reason != want {
		t.Fatalf("expected %q, got %q", want, got.Reason)
	}
}

func TestCodesAreStable(t *testing.T) {
	codes := map[Kind]int{
		KindAddressLimitExceeded:   0,
		KindIncorrectAddressFormat: 1,
		KindUntilBlockNotFound:     2,
		KindPageStartNotFound:      3,
	}
	for kind, code := range codes {
		if kind.Code() != code {
			t.Fatalf("%s: expected code %d, got %d", kind, code, kind.Code())
		}
	}

	if AddressLimitExceeded.Code() != 0 || IncorrectAddressFormat.Code() != 1 ||
		UntilBlockNotFound.Code() != 2 || PageStartNotFound.Code() != 3 {
		t.Fatalf("definition codes drifted from kinds")
	}
}

func TestReasonStartsWithPrefix(t *testing.T) {
	res := UntilBlockNotFound.Generate(UntilBlockDetails{UntilBlock: "abc"})
	if !strings.HasPrefix(res.Reason, UntilBlockNotFound.Prefix()+" ") {
		t.Fatalf("reason %q does not start with prefix %q", res.Reason, UntilBlockNotFound.Prefix())
	}
}

func TestEmptyFragmentYieldsPrefixOnly(t *testing.T) {
	res := compose(KindUntilBlockNotFound, "Until block not found.", "")
	if res.Reason != "Until block not found." {
		t.Fatalf("expected bare prefix, got %q", res.Reason)
	}
}

func TestGenerateKind(t *testing.T) {
	res, err := GenerateKind(KindPageStartNotFound, PageStartDetails{BlockHash: "0x1", TxHash: "0x2"})
	if err != nil {
		t.Fatalf("GenerateKind: %v", err)
	}
	if res != Generate(PageStartNotFound, PageStartDetails{BlockHash: "0x1", TxHash: "0x2"}) {
		t.Fatalf("untyped and typed results differ: %+v", res)
	}
}

func TestGenerateKindRejectsMismatchedPayload(t *testing.T) {
	_, err := GenerateKind(KindAddressLimitExceeded, UntilBlockDetails{UntilBlock: "x"})
	if !errors.Is(err, ErrInvalidPayload) {
		t.Fatalf("expected ErrInvalidPayload, got: %v", err)
	}

	_, err = GenerateKind(KindUntilBlockNotFound, nil)
	if !errors.Is(err, ErrInvalidPayload) {
		t.Fatalf("expected ErrInvalidPayload for nil details, got: %v", err)
	}
}

func TestGenerateKindRejectsUnknownKind(t *testing.T) {
	_, err := GenerateKind(Kind(42), AddressLimitDetails{})
	if !errors.Is(err, ErrUnknownKind) {
		t.Fatalf("expected ErrUnknownKind, got: %v", err)
	}
	if got := Kind(42).String(); got != "Kind(42)" {
		t.Fatalf("expected Kind(42), got %q", got)
	}
}

func TestCatalogOrderedByCode(t *testing.T) {
	catalog := Catalog()
	if len(catalog) != 4 {
		t.Fatalf("expected 4 kinds, got %d", len(catalog))
	}
	names := []string{"AddressLimitExceeded", "IncorrectAddressFormat", "UntilBlockNotFound", "PageStartNotFound"}
	for i, d := range catalog {
		if d.Code != i || d.Name != names[i] {
			t.Fatalf("catalog[%d] = %+v", i, d)
		}
		if d.Prefix == "" {
			t.Fatalf("catalog[%d] has empty prefix", i)
		}
	}
}

func TestGenerateConcurrent(t *testing.T) {
	want := Generate(AddressLimitExceeded, AddressLimitDetails{Limit: 1, Found: 2})

	var wg sync.WaitGroup
	errs := make(chan Result, 64)
	for range 64 {
		wg.Go(func() {
			if got := Generate(AddressLimitExceeded, AddressLimitDetails{Limit: 1, Found: 2}); got != want {
				errs <- got
			}
		})
	}
	wg.Wait()
	close(errs)

	for got := range errs {
		t.Fatalf("concurrent result mismatch: %+v", got)
	}
}

func TestAddressFormatKeepsLineSeparatorsRaw(t *testing.T) {
	got := IncorrectAddressFormat.Generate(AddressFormatDetails{Addresses: []string{"a\u2028b", "c\u2029d", `e\u2028f`, "g\nh"}})
	want := "Incorrectly formatted addresses found. [\"a\u2028b\",\"c\u2029d\",\"e\\\\u2028f\",\"g\\nh\"]"
	if got.Reason != want {
		t.Fatalf("expected %q, got %q", want, got.Reason)
	}
}

func TestZeroDefinitionYieldsPrefixOnly(t *testing.T) {
	var def Definition[UntilBlockDetails]

	got := Generate(def, UntilBlockDetails{UntilBlock: "ab"})
	if got != (Result{}) {
		t.Fatalf("expected empty result for zero definition, got %+v", got)
	}
}
