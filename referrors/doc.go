// Package referrors provides the structured error type for JSON reference
// resolution.
//
// Import path: github.com/erraggy/jsonref/referrors
//
// Every failure raised while resolving a reference is a [*JSONRefError]. Its
// [Kind] places it in one of four categories:
//
//   - [KindInvalidReference]: the $ref value is not a string, a relative
//     reference has no base URI, or the reference resolves to itself
//   - [KindPointerResolution]: the JSON pointer fragment does not address a value
//   - [KindUnsupportedScheme]: no loader is registered for the URI scheme
//   - [KindLoader]: the loader failed; the original failure is kept as Cause
//
// # Sentinel Errors
//
//   - [ErrReference]: Matches any [JSONRefError]
//   - [ErrInvalidReference], [ErrPointerResolution], [ErrUnsupportedScheme],
//     [ErrLoader]: Match the corresponding [Kind]
//   - [ErrCircularReference]: Matches a [JSONRefError] with Circular=true
//
// # Usage Examples
//
//	v, err := ref.Subject()
//	if errors.Is(err, referrors.ErrPointerResolution) {
//	    // the target document exists but the fragment is wrong
//	}
//
//	var refErr *referrors.JSONRefError
//	if errors.As(err, &refErr) {
//	    fmt.Println(refErr.URI, referrors.FormatPath(refErr.Path))
//	}
package referrors
