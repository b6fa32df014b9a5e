package referrors

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Sentinel errors for use with errors.Is().
// These allow quick checks without type assertions.
var (
	// ErrReference matches every JSONRefError regardless of kind.
	ErrReference = errors.New("json reference error")

	// ErrInvalidReference indicates a malformed reference object or an
	// unresolvable reference URI.
	ErrInvalidReference = errors.New("invalid reference object")

	// ErrPointerResolution indicates a JSON pointer did not address a value.
	ErrPointerResolution = errors.New("unresolvable JSON pointer")

	// ErrUnsupportedScheme indicates no loader is registered for a URI scheme.
	ErrUnsupportedScheme = errors.New("unsupported URI scheme")

	// ErrLoader indicates a registered loader failed to produce a document.
	ErrLoader = errors.New("loader error")

	// ErrCircularReference indicates a reference that resolves to itself.
	ErrCircularReference = errors.New("circular reference")
)

// Kind classifies a JSONRefError.
type Kind int

const (
	// KindInvalidReference means the $ref value is not a string, or a
	// relative reference has no usable base URI.
	KindInvalidReference Kind = iota + 1
	// KindPointerResolution means a token was missing, an index was out of
	// range, or the pointer descended into a scalar.
	KindPointerResolution
	// KindUnsupportedScheme means no loader handles the URI's scheme.
	KindUnsupportedScheme
	// KindLoader means the loader returned an error, preserved as Cause.
	KindLoader
)

// String returns the taxonomy name of the kind.
func (k Kind) String() string {
	switch k {
	case KindInvalidReference:
		return "InvalidReferenceObject"
	case KindPointerResolution:
		return "PointerResolutionError"
	case KindUnsupportedScheme:
		return "UnsupportedURIScheme"
	case KindLoader:
		return "LoaderError"
	default:
		return "JsonRefError"
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindInvalidReference:
		return ErrInvalidReference
	case KindPointerResolution:
		return ErrPointerResolution
	case KindUnsupportedScheme:
		return ErrUnsupportedScheme
	case KindLoader:
		return ErrLoader
	default:
		return nil
	}
}

// JSONRefError is the single error type surfaced when a reference cannot be
// resolved. It carries enough context to locate the failing reference site.
type JSONRefError struct {
	// Kind classifies the failure
	Kind Kind
	// Message describes the failure
	Message string
	// Reference is the reference object being resolved (may be nil)
	Reference map[string]any
	// URI is the absolute URI that resolution attempted, including the fragment
	URI string
	// BaseURI is the base URI the reference was resolved against
	BaseURI string
	// Path is the chain of keys (string) and indices (int) from the document
	// root down to the reference site
	Path []any
	// Circular is true when the reference resolves back to itself
	Circular bool
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *JSONRefError) Error() string {
	msg := "json reference error"
	if e.URI != "" {
		msg = "error while resolving `" + e.URI + "`"
	}
	if len(e.Path) > 0 {
		msg += " at " + FormatPath(e.Path)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *JSONRefError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
// Matches ErrReference, the sentinel for the error's Kind, and
// ErrCircularReference when Circular is set.
func (e *JSONRefError) Is(target error) bool {
	if target == ErrReference {
		return true
	}
	if target == ErrCircularReference && e.Circular {
		return true
	}
	if s := e.Kind.sentinel(); s != nil && target == s {
		return true
	}
	return false
}

// New creates a JSONRefError of the given kind with a formatted message.
func New(kind Kind, format string, args ...any) *JSONRefError {
	return &JSONRefError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates a JSONRefError of the given kind around cause.
func Wrap(kind Kind, cause error, message string) *JSONRefError {
	return &JSONRefError{Kind: kind, Message: message, Cause: cause}
}

// FormatPath renders a reference site path as a JSON pointer,
// e.g. []any{"definitions", "pets", 0} becomes "/definitions/pets/0".
// An empty path renders as "/".
func FormatPath(path []any) string {
	if len(path) == 0 {
		return "/"
	}
	var sb strings.Builder
	for _, p := range path {
		sb.WriteByte('/')
		switch v := p.(type) {
		case string:
			sb.WriteString(strings.ReplaceAll(strings.ReplaceAll(v, "~", "~0"), "/", "~1"))
		case int:
			sb.WriteString(strconv.Itoa(v))
		default:
			fmt.Fprint(&sb, v)
		}
	}
	return sb.String()
}
