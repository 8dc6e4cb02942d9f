/*package error contains the error kinds used throughout imba and simple
functions for reporting fatal errors to the user.
*/
package error

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	log "github.com/sirupsen/logrus"
)

var (
	// InvalidArgument is returned when a caller supplies a value outside the
	// domain of a function: non-positive process counts or box widths,
	// coordinate buffers whose length isn't a multiple of three, empty
	// histograms, and bad configuration variables.
	InvalidArgument = errors.New("invalid argument")
	// Consistency is returned when the particle count in a histogram doesn't
	// match the number of particles which were binned.
	Consistency = errors.New("consistency error")
	// IO is returned when the coordinate buffer can't be acquired.
	IO = errors.New("I/O error")
)

// Invalid returns an InvalidArgument error with the given message. It has the
// same signature as fmt.Errorf.
func Invalid(format string, a ...interface{}) error {
	return fmt.Errorf("%w: %s", InvalidArgument, fmt.Sprintf(format, a...))
}

// IOf wraps err as an IO error with the given message prepended.
func IOf(err error, format string, a ...interface{}) error {
	return fmt.Errorf("%w: %s: %v", IO, fmt.Sprintf(format, a...), err)
}

// Inconsistent returns a Consistency error with the given message.
func Inconsistent(format string, a ...interface{}) error {
	return fmt.Errorf("%w: %s", Consistency, fmt.Sprintf(format, a...))
}

// External reports an error to stderr and kills the program. It should be
// used when an error is something a user could reasonbly be expected to fix
// through changes in configuration/data/environement. It has the same
// signature at the standard fmt.*printf() functions.
func External(format string, a ...interface{}) {
	log.Errorf("imba exited early with the following error:\n" + format, a...)
	os.Exit(1)
}

// Internal reports an error to stderr along with a stack trace and kills the
// program. It should be used when the error requires a code dive to fix. It
// has the same signature at the standard fmt.*printf() functions.
func Internal(format string, a ...interface{}) {
	log.Error("imba exited early with the following error:")
	fmt.Fprintf(os.Stderr, format, a...)
	fmt.Fprintf(os.Stderr, "\n\n")
	debug.PrintStack()
	os.Exit(1)
}

// Report chooses between External and Internal based on the kind of err.
// Consistency errors are bugs, everything else is the user's to fix.
func Report(err error) {
	if errors.Is(err, Consistency) {
		Internal("%s", err.Error())
	}
	External("%s", err.Error())
}
