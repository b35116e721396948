// Package oaserrors provides structured error types for oasforge.
//
// These error types enable programmatic error handling via errors.Is() and
// errors.As(), allowing callers to distinguish between different categories
// of errors and implement appropriate recovery strategies.
//
// # Error Categories
//
//   - DocumentError: empty input, unparsable input, or a fetched document
//     whose root is not an object
//   - ReferenceError: malformed $ref strings and unresolvable references
//   - PointerError: JSON Pointer fragments that do not resolve
//   - FetchError: network failures, timeouts, and non-success statuses
//   - ConversionError: dialect conversion rejected before any rewrite
//
// # Usage with errors.Is
//
//	result, err := r.Resolve(ctx, data, sourceURL)
//	if err != nil {
//	    if errors.Is(err, oaserrors.ErrPointerNotFound) {
//	        // The $ref fragment named a missing key or bad index
//	    }
//	}
package oaserrors
