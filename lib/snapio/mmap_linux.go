package snapio

import (
	"golang.org/x/sys/unix"
)

// Pages are faulted in up front since the whole file is read anyway.
const mapFlags = unix.MAP_PRIVATE | unix.MAP_POPULATE
