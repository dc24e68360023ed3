package widget

import (
	"context"
	"errors"
	"strings"
)

// numericRangeMarkers identify provider failures caused by amounts
// overflowing the provider's internal numeric range. These are quoting
// noise, not user-actionable errors, and are suppressed from the visible
// error state.
var numericRangeMarkers = []string{
	"IntegerOutOfRangeError",
	"safe integer range",
}

// IsNumericRangeDefect reports whether err is a provider numeric-range
// failure.
func IsNumericRangeDefect(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, marker := range numericRangeMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

// NormalizeError maps an execution failure to the message shown to the
// user. Cancellation keeps its own wording so it reads as an action, not a
// fault.
func NormalizeError(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.Canceled):
		return "Transaction cancelled"
	default:
		return err.Error()
	}
}
