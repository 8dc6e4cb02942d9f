package lib

/* check.go contains the core functions of imba's "check" mode. */

import (
	log "github.com/sirupsen/logrus"

	g_error "github.com/phil-mansfield/imba/lib/error"
)

// Check runs the imba "check" command on the provided Args: every input file
// is opened and its size is compared against what the binning pass needs, but
// no particles are binned. This function will either return upon
// encountering the first error or will log warnings, depending on what
// Strictness is set to in args. If Check completes, it returns true if all
// tests passed and false otherwise.
func Check(args *Args) (bool, error) {
	return CheckWith(args, openSnapshot)
}

// CheckWith is identical to Check, but opens files with open.
func CheckWith(args *Args, open Opener) (bool, error) {
	ok := true
	fail := func(err error) error {
		ok = false
		if args.Strictness == CrashOnError { return err }
		log.WithField("check", "failed").Warn(err.Error())
		return nil
	}

	nValues := 0
	for _, fname := range args.Files {
		n, err := checkFile(args, fname, open)
		if err != nil {
			if err = fail(err); err != nil { return false, err }
			continue
		}

		log.WithFields(log.Fields{
			"file": fname,
			"values": n,
		}).Debug("Checked file.")
		nValues += n
	}

	if ok && nValues / 3 < args.NProc {
		err := g_error.Invalid("the snapshot has %d particles, which is " +
			"fewer than the %d processes it would be split over.",
			nValues / 3, args.NProc)
		if err = fail(err); err != nil { return false, err }
	}

	return ok, nil
}

// checkFile opens a single file and returns the number of values in it.
func checkFile(args *Args, fname string, open Opener) (int, error) {
	f, err := open(fname, args.Format, args.Offset, args.Order)
	if err != nil { return 0, err }

	n := f.Len()
	if err = f.Close(); err != nil {
		return 0, g_error.IOf(err, "could not close '%s'", fname)
	}

	if n % 3 != 0 {
		return 0, g_error.Invalid("'%s' has %d values, which isn't a " +
			"multiple of 3.", fname, n)
	}
	return n, nil
}
