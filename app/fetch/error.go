package fetch

import (
	"errors"
	"fmt"
)

// Kind classifies a failure of a fetch or transform stage.
type Kind int

// Failure kinds.
const (
	KindUnknown Kind = iota
	// KindTransport is a network, DNS or timeout failure.
	KindTransport
	// KindStatus is a non-2xx response.
	KindStatus
	// KindPayload is a response that doesn't have the expected shape.
	KindPayload
	// KindEmpty is a well-formed response without any data.
	KindEmpty
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindStatus:
		return "status"
	case KindPayload:
		return "payload"
	case KindEmpty:
		return "empty"
	default:
		return "unknown"
	}
}

// Retryable reports whether the failure may go away on the next attempt.
func (k Kind) Retryable() bool { return k == KindTransport || k == KindStatus }

// Error is a tagged failure of a single stage.
type Error struct {
	Kind   Kind
	URL    string
	Status int // set for KindStatus
	Err    error
}

// Error implements error.
func (e *Error) Error() string {
	switch {
	case e.Kind == KindStatus:
		return fmt.Sprintf("%s %s: bad status code: %d", e.Kind, e.URL, e.Status)
	case e.Err == nil:
		return fmt.Sprintf("%s %s", e.Kind, e.URL)
	default:
		return fmt.Sprintf("%s %s: %v", e.Kind, e.URL, e.Err)
	}
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindUnknown
}

// Payload wraps err into a payload-shape failure of the given url.
func Payload(url string, err error) error {
	return &Error{Kind: KindPayload, URL: url, Err: err}
}

// Empty returns a "no result" failure of the given url.
func Empty(url string) error {
	return &Error{Kind: KindEmpty, URL: url, Err: errors.New("no data in response")}
}
