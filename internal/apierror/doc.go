// Package apierror holds the closed set of client-facing error kinds
// returned by the history API.
//
// Every kind has a stable numeric code, a fixed prefix and a formatter
// for its own detail payload. Generate binds a kind to its payload type
// at compile time:
//
//	res := apierror.Generate(apierror.AddressLimitExceeded, apierror.AddressLimitDetails{Limit: 10, Found: 15})
//	// res.Code == 0
//	// res.Reason == "Exceeded request address limit. Limit of 10, found 15"
//
// Codes are part of the wire contract. A retired kind leaves a gap; its
// code is never reassigned.
package apierror
