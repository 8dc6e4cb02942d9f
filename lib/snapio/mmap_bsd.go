//go:build darwin || freebsd || netbsd || openbsd || dragonfly
// +build darwin freebsd netbsd openbsd dragonfly

package snapio

import (
	"golang.org/x/sys/unix"
)

const mapFlags = unix.MAP_PRIVATE
