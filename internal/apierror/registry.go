package apierror

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrInvalidPayload is returned by GenerateKind when the details do not
	// have the payload type of the requested kind.
	ErrInvalidPayload = errors.New("invalid error payload")
	// ErrUnknownKind is returned by GenerateKind for a kind outside the registry.
	ErrUnknownKind = errors.New("unknown error kind")
)

// Definition is the fixed metadata of one kind. D is the detail payload
// accepted by the kind's formatter.
type Definition[D any] struct {
	kind    Kind
	prefix  string
	details func(D) string
}

// Descriptor is the static, payload-free view of a registered kind.
type Descriptor struct {
	Code   int    `json:"code"`
	Name   string `json:"name"`
	Prefix string `json:"prefix"`
}

type entry struct {
	name   string
	prefix string
	format func(any) (string, bool)
}

var registry = map[Kind]entry{}

var (
	AddressLimitExceeded = register(KindAddressLimitExceeded, "AddressLimitExceeded",
		"Exceeded request address limit.",
		func(d AddressLimitDetails) string {
			return fmt.Sprintf("Limit of %d, found %d", d.Limit, d.Found)
		})

	IncorrectAddressFormat = register(KindIncorrectAddressFormat, "IncorrectAddressFormat",
		"Incorrectly formatted addresses found.",
		func(d AddressFormatDetails) string {
			return marshalStrings(d.Addresses)
		})

	UntilBlockNotFound = register(KindUntilBlockNotFound, "UntilBlockNotFound",
		"Until block not found.",
		func(d UntilBlockDetails) string {
			return "Searched block hash: " + d.UntilBlock
		})

	PageStartNotFound = register(KindPageStartNotFound, "PageStartNotFound",
		"After block and/or transaction not found.",
		func(d PageStartDetails) string {
			return "Searched block hash " + d.BlockHash + " and tx hash " + d.TxHash
		})
)

func register[D any](kind Kind, name, prefix string, details func(D) string) Definition[D] {
	if _, ok := registry[kind]; ok {
		panic(fmt.Sprintf("apierror: kind %d registered twice", kind))
	}
	registry[kind] = entry{
		name:   name,
		prefix: prefix,
		format: func(v any) (string, bool) {
			d, ok := v.(D)
			if !ok {
				return "", false
			}
			return details(d), true
		},
	}
	return Definition[D]{kind: kind, prefix: prefix, details: details}
}

// Kind returns the kind the definition belongs to.
func (d Definition[D]) Kind() Kind { return d.kind }

// Code returns the wire code of the definition.
func (d Definition[D]) Code() int { return d.kind.Code() }

// Prefix returns the fixed summary every reason of this kind starts with.
func (d Definition[D]) Prefix() string { return d.prefix }

// Generate formats details into a Result. A zero Definition has no
// formatter and yields its prefix alone.
func (d Definition[D]) Generate(details D) Result {
	if d.details == nil {
		return compose(d.kind, d.prefix, "")
	}
	return compose(d.kind, d.prefix, d.details(details))
}

// Generate formats details with the given definition. The payload type is
// fixed by the definition, so a mismatched pair does not compile.
func Generate[D any](def Definition[D], details D) Result {
	return def.Generate(details)
}

// GenerateKind is the untyped form of Generate for callers that only hold
// a Kind. details must be the payload type of that kind.
func GenerateKind(kind Kind, details any) (Result, error) {
	e, ok := registry[kind]
	if !ok {
		return Result{}, fmt.Errorf("%w: %d", ErrUnknownKind, int(kind))
	}
	fragment, ok := e.format(details)
	if !ok {
		return Result{}, fmt.Errorf("%w: %s does not accept %T", ErrInvalidPayload, e.name, details)
	}
	return compose(kind, e.prefix, fragment), nil
}

// Catalog lists every registered kind ordered by code.
func Catalog() []Descriptor {
	out := make([]Descriptor, 0, len(registry))
	for kind, e := range registry {
		out = append(out, Descriptor{Code: kind.Code(), Name: e.name, Prefix: e.prefix})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

func compose(kind Kind, prefix, fragment string) Result {
	reason := prefix
	if fragment != "" {
		reason = prefix + " " + fragment
	}
	return Result{Code: kind.Code(), Reason: reason}
}

// marshalStrings renders a JSON array the way JSON.stringify does: no HTML
// escaping and raw line/paragraph separators.
func marshalStrings(values []string) string {
	if values == nil {
		values = []string{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(values); err != nil {
		// a []string always encodes
		return "[]"
	}
	return unescapeLineSeparators(string(bytes.TrimRight(buf.Bytes(), "\n")))
}

// unescapeLineSeparators undoes the \u2028 and \u2029 escapes encoding/json
// always applies. Escapes are walked in pairs so an escaped backslash
// followed by "u2028" is left alone.
func unescapeLineSeparators(encoded string) string {
	if !strings.Contains(encoded, `\u202`) {
		return encoded
	}
	var b strings.Builder
	b.Grow(len(encoded))
	for i := 0; i < len(encoded); i++ {
		if encoded[i] != '\\' || i+1 >= len(encoded) {
			b.WriteByte(encoded[i])
			continue
		}
		switch rest := encoded[i:]; {
		case strings.HasPrefix(rest, `\u2028`):
			b.WriteRune('\u2028')
			i += len(`\u2028`) - 1
		case strings.HasPrefix(rest, `\u2029`):
			b.WriteRune('\u2029')
			i += len(`\u2029`) - 1
		default:
			b.WriteString(encoded[i : i+2])
			i++
		}
	}
	return b.String()
}
