package shared

import (
	"errors"
	"fmt"
)

// Kind identifies which failure an operation ran into. Every error returned by
// the ingestion and query paths carries exactly one Kind.
type Kind int

const (
	KindUnknown Kind = iota
	KindUnsupportedVersion
	KindInvalidSourceURL
	KindInvalidMetadata
	KindMetadataUnavailable
	KindStorage
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindUnsupportedVersion:
		return "unsupported_version"
	case KindInvalidSourceURL:
		return "invalid_source_url"
	case KindInvalidMetadata:
		return "invalid_metadata"
	case KindMetadataUnavailable:
		return "metadata_unavailable"
	case KindStorage:
		return "storage"
	case KindNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// ClientError reports whether the failure was caused by what the reporter sent
// rather than by something on our side.
func (k Kind) ClientError() bool {
	switch k {
	case KindUnsupportedVersion, KindInvalidSourceURL, KindInvalidMetadata:
		return true
	}
	return false
}

type Error struct {
	Kind Kind

	// Expected and Got are only set for KindUnsupportedVersion
	Expected int
	Got      int

	// URL is only set for KindInvalidSourceURL
	URL string

	Err error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindUnsupportedVersion:
		return fmt.Sprintf("invalid item version: expected: %d, got: %d", e.Expected, e.Got)
	case KindInvalidSourceURL:
		return fmt.Sprintf("invalid youtube url: %s", e.URL)
	case KindInvalidMetadata:
		return "invalid youtube data"
	case KindMetadataUnavailable:
		if e.Err != nil {
			return fmt.Sprintf("metadata unavailable: %v", e.Err)
		}
		return "metadata unavailable"
	case KindStorage:
		if e.Err != nil {
			return fmt.Sprintf("storage error: %v", e.Err)
		}
		return "storage error"
	case KindNotFound:
		return "not found"
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches on Kind so that the sentinels below work with errors.Is regardless
// of the details carried by a particular instance.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrUnsupportedVersion  = &Error{Kind: KindUnsupportedVersion}
	ErrInvalidSourceURL    = &Error{Kind: KindInvalidSourceURL}
	ErrInvalidMetadata     = &Error{Kind: KindInvalidMetadata}
	ErrMetadataUnavailable = &Error{Kind: KindMetadataUnavailable}
	ErrStorage             = &Error{Kind: KindStorage}
	ErrNotFound            = &Error{Kind: KindNotFound}
)

func UnsupportedVersion(expected, got int) error {
	return &Error{Kind: KindUnsupportedVersion, Expected: expected, Got: got}
}

func InvalidSourceURL(url string) error {
	return &Error{Kind: KindInvalidSourceURL, URL: url}
}

func MetadataUnavailable(cause error) error {
	return &Error{Kind: KindMetadataUnavailable, Err: cause}
}

func Storage(cause error) error {
	return &Error{Kind: KindStorage, Err: cause}
}

// KindOf returns the Kind of the first *Error in err's chain, or KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
