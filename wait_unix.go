// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build unix

package sowait

import (
	"errors"
	"math"
	"time"

	"golang.org/x/sys/unix"
)

const (
	pollEventRead  = unix.POLLIN
	pollEventWrite = unix.POLLOUT
)

// probeWaiter selects the readiness strategy for this host.
// poll(2) is preferred when usable; select(2) exists on every unix.
func probeWaiter() (waitFunc, error) {
	ok, err := haveWorkingPoll()
	if err != nil {
		return nil, err
	}
	if ok {
		return pollWaitForSocket, nil
	}
	return selectWaitForSocket, nil
}

// haveWorkingPoll issues a zero-timeout poll on an empty descriptor
// set. ErrNotSupported means the primitive is unusable on this host;
// any other failure propagates.
func haveWorkingPoll() (bool, error) {
	_, err := retryOnIntr(func() (int, error) {
		n, err := unix.Poll(nil, 0)
		return n, errFromUnixErrno(err)
	})
	if err == nil {
		return true, nil
	}
	if errors.Is(err, ErrNotSupported) {
		return false, nil
	}
	return false, err
}

func pollWaitForSocket(so Socket, read, write bool, timeout time.Duration) (bool, error) {
	if !read && !write {
		return false, ErrNoInterest
	}
	events := int16(0)
	if read {
		events |= pollEventRead
	}
	if write {
		events |= pollEventWrite
	}
	msec := pollTimeoutMsec(timeout)
	n, err := retryOnIntr(func() (int, error) {
		fds := []unix.PollFd{{Fd: int32(so.FD()), Events: events}}
		n, err := unix.Poll(fds, msec)
		return n, errFromUnixErrno(err)
	})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// pollTimeoutMsec converts a wait bound to poll(2) milliseconds.
// timeout < 0 maps to -1 (block forever); bounded timeouts are
// clamped so the int conversion cannot wrap on 32-bit platforms.
func pollTimeoutMsec(timeout time.Duration) int {
	if timeout < 0 {
		return -1
	}
	msec := timeout.Milliseconds()
	if msec > math.MaxInt32 {
		msec = math.MaxInt32
	}
	return int(msec)
}

func selectWaitForSocket(so Socket, read, write bool, timeout time.Duration) (bool, error) {
	if !read && !write {
		return false, ErrNoInterest
	}
	fd := so.FD()
	// FdSet holds FD_SETSIZE bits; descriptors past it cannot be
	// waited on with select(2)
	if fd < 0 || fd >= unix.FD_SETSIZE {
		return false, ErrInvalidParam
	}
	n, err := retryOnIntr(func() (int, error) {
		// select clobbers the descriptor sets, and some kernels the
		// timeout too, so both are rebuilt on every attempt
		var rset, wset, eset unix.FdSet
		if read {
			rset.Set(fd)
		}
		if write {
			wset.Set(fd)
		}
		eset.Set(fd)
		var tv *unix.Timeval
		if timeout >= 0 {
			t := unix.NsecToTimeval(timeout.Nanoseconds())
			tv = &t
		}
		n, err := unix.Select(fd+1, &rset, &wset, &eset, tv)
		return n, errFromUnixErrno(err)
	})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
