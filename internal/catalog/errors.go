package catalog

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failed catalog request.
type ErrorKind int

const (
	// KindTransport covers connection refused, DNS failures and timeouts.
	KindTransport ErrorKind = iota + 1
	// KindDecode covers non-2xx statuses, malformed JSON and schema mismatches.
	KindDecode
)

func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindDecode:
		return "decode"
	default:
		return "unknown"
	}
}

// FetchError is returned for every failed catalog request. A lookup that
// simply finds nothing is not a FetchError.
type FetchError struct {
	Kind       ErrorKind
	Op         string // "search" or "release"
	URL        string
	StatusCode int // 0 unless the catalog answered
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("catalog %s %s error (HTTP %d): %v", e.Op, e.Kind, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("catalog %s %s error: %v", e.Op, e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// IsTransport reports whether err is a catalog transport failure.
func IsTransport(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.Kind == KindTransport
}

// IsDecode reports whether err is a catalog decode failure.
func IsDecode(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.Kind == KindDecode
}
