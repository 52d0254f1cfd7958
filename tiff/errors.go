// Package tiff is the collaborator-level entry point spec.md §6 calls
// out: "open by path" file reader/writer construction, decode
// dispatch, and a single aggregated error type. It calls only the
// exported API of ifd, tiffwriter, pipeline, photometric, pixbuf,
// store, tiffcache and wire, never reaching past it.
package tiff

import "fmt"

// Kind discriminates every failure mode spec.md §7 names, widening
// ifd.Kind and tiffwriter.Kind into one discriminant so a caller of
// this package's surface checks one Kind type regardless of which
// inner package actually failed.
type Kind uint8

const (
	Malformed Kind = iota
	Truncated
	Unsupported
	TypeMismatch
	NotFound
	SizeLimitExceeded
	BigTiffRequired
	Disposed
	Completed
	Cancelled
	OutOfRange
	IoFailure
)

func (k Kind) String() string {
	switch k {
	case Malformed:
		return "Malformed"
	case Truncated:
		return "Truncated"
	case Unsupported:
		return "Unsupported"
	case TypeMismatch:
		return "TypeMismatch"
	case NotFound:
		return "NotFound"
	case SizeLimitExceeded:
		return "SizeLimitExceeded"
	case BigTiffRequired:
		return "BigTiffRequired"
	case Disposed:
		return "Disposed"
	case Completed:
		return "Completed"
	case Cancelled:
		return "Cancelled"
	case OutOfRange:
		return "OutOfRange"
	case IoFailure:
		return "IoFailure"
	default:
		return "Unknown"
	}
}

// Error is the one error type tiff's own exported functions return
// directly (inner packages keep their own narrower Kind types; tiff
// wraps them here so a caller of the collaborator surface never needs
// to know ifd.Kind from tiffwriter.Kind).
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("tiff: %s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("tiff: %s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

func errUnsupported(msg string, args ...any) error {
	return &Error{Kind: Unsupported, Msg: fmt.Sprintf(msg, args...)}
}

func errMalformed(msg string, args ...any) error {
	return &Error{Kind: Malformed, Msg: fmt.Sprintf(msg, args...)}
}

func wrapErr(kind Kind, err error) error {
	return &Error{Kind: kind, Msg: err.Error(), Err: err}
}
