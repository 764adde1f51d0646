package facility

import (
	"errors"
	"fmt"
	"regexp"

	"go.jacobcolvin.com/logrouter/record"
)

// ErrInvalidHandle indicates a facility handle failed syntax validation.
var ErrInvalidHandle = errors.New("invalid log handle")

// HandleConsole is the reserved handle of the always-present console
// facility.
const HandleConsole = "console"

const maxHandleLength = 64

var handleRE = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// Facility is a single named log sink. Write renders and persists one
// record; Describe returns a human-readable summary of the sink for facility
// listings.
type Facility interface {
	Handle() string
	Write(rec record.Record) error
	Describe() string
}

// ValidateHandle checks handle against the required syntax: 1 to 64
// characters from [A-Za-z0-9_].
func ValidateHandle(handle string) error {
	if len(handle) > maxHandleLength {
		return fmt.Errorf("%w: %q is too long (max %d chars)", ErrInvalidHandle, handle, maxHandleLength)
	}

	if !handleRE.MatchString(handle) {
		return fmt.Errorf("%w: %q must be alphanumeric with optional underscores", ErrInvalidHandle, handle)
	}

	return nil
}
