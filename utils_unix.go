//go:build unix

package sowait

import (
	"golang.org/x/sys/unix"
)

func errFromUnixErrno(err error) error {
	if err == nil {
		return nil
	}
	errno, ok := err.(unix.Errno)
	if !ok {
		return err
	}
	switch errno {
	case unix.EINTR:
		return ErrInterruptedSyscall
	case unix.ENOSYS:
		return ErrNotSupported
	case unix.EINVAL:
		return ErrInvalidParam
	case unix.EBADF:
		return ErrBadFileDescriptor
	case unix.EAGAIN:
		return ErrTemporarilyUnavailable
	default:
		return errno
	}
}
