package apierror

import "strconv"

// Kind identifies one client-facing error category. The numeric value is
// the code sent to clients.
type Kind int

// Values are explicit so that removing a kind does not shift the others.
const (
	KindAddressLimitExceeded   Kind = 0
	KindIncorrectAddressFormat Kind = 1
	KindUntilBlockNotFound     Kind = 2
	KindPageStartNotFound      Kind = 3
)

// Code returns the wire code of the kind.
func (k Kind) Code() int { return int(k) }

func (k Kind) String() string {
	if e, ok := registry[k]; ok {
		return e.name
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Result is the payload written to clients.
type Result struct {
	Code   int    `json:"code"`
	Reason string `json:"reason"`
}

// AddressLimitDetails describes a request carrying too many addresses.
type AddressLimitDetails struct {
	Limit int
	Found int
}

// AddressFormatDetails lists the addresses that failed validation, in
// request order.
type AddressFormatDetails struct {
	Addresses []string
}

// UntilBlockDetails carries the block hash that could not be resolved.
type UntilBlockDetails struct {
	UntilBlock string
}

// PageStartDetails carries the pagination anchor that could not be resolved.
type PageStartDetails struct {
	BlockHash string
	TxHash    string
}
