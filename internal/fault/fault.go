package fault

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds shared by the codec, builders, router and gate.
var (
	ErrUnsupportedVenue        = errors.New("unsupported venue")
	ErrMisconfigured           = errors.New("misconfigured")
	ErrInsufficientResources   = errors.New("insufficient resources")
	ErrEncodingOverflow        = errors.New("encoding overflow")
	ErrStaleObservation        = errors.New("stale observation")
	ErrNotProfitable           = errors.New("not profitable")
	ErrVenueRejected           = errors.New("venue rejected")
	ErrPartialChainUnsupported = errors.New("partial chain unsupported")
	ErrUnconfirmed             = errors.New("unconfirmed")
)

var kinds = []struct {
	err  error
	name string
}{
	{ErrUnsupportedVenue, "UnsupportedVenue"},
	{ErrMisconfigured, "Misconfigured"},
	{ErrInsufficientResources, "InsufficientResources"},
	{ErrEncodingOverflow, "EncodingOverflow"},
	{ErrStaleObservation, "StaleObservation"},
	{ErrNotProfitable, "NotProfitable"},
	{ErrVenueRejected, "VenueRejected"},
	{ErrPartialChainUnsupported, "PartialChainUnsupported"},
	{ErrUnconfirmed, "Unconfirmed"},
}

// VenueRejectedError carries the acceptor's diagnostic verbatim.
type VenueRejectedError struct {
	Diagnostic string
	Logs       []string
}

func (e *VenueRejectedError) Error() string {
	if len(e.Logs) == 0 {
		return fmt.Sprintf("venue rejected: %s", e.Diagnostic)
	}
	return fmt.Sprintf("venue rejected: %s (%s)", e.Diagnostic, strings.Join(e.Logs, "; "))
}

func (e *VenueRejectedError) Unwrap() error {
	return ErrVenueRejected
}

// Rejected builds a VenueRejectedError.
func Rejected(diagnostic string, logs []string) error {
	return &VenueRejectedError{Diagnostic: diagnostic, Logs: logs}
}

// UnconfirmedError reports a transaction that was sent but whose outcome is
// not known. It may still land.
type UnconfirmedError struct {
	Signature string
	Err       error
}

func (e *UnconfirmedError) Error() string {
	return fmt.Sprintf("transaction %s unconfirmed: %v", e.Signature, e.Err)
}

func (e *UnconfirmedError) Unwrap() []error {
	return []error{ErrUnconfirmed, e.Err}
}

// Unconfirmed builds an UnconfirmedError.
func Unconfirmed(signature string, err error) error {
	return &UnconfirmedError{Signature: signature, Err: err}
}

// Kind returns the kind name of err, or "Internal" when it carries none.
func Kind(err error) string {
	if err == nil {
		return ""
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.name
		}
	}
	return "Internal"
}
