//go:build unix

package commands

import "golang.org/x/sys/unix"

// checkFD fails when fd is not an open descriptor of this process.
func checkFD(fd int32) error {
	_, err := unix.FcntlInt(uintptr(fd), unix.F_GETFD, 0)
	return err
}
