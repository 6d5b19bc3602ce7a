// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package sowait blocks the calling goroutine until a socket becomes
// readable or writable, using the best readiness primitive available
// on the host.
package sowait

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

var (
	ErrNoInterest             = errors.New("must specify at least one of read, write")
	ErrNoWayToWaitForSocket   = errors.New("no select-equivalent available")
	ErrInterruptedSyscall     = errors.New("interrupted system call")
	ErrNotSupported           = errors.New("function not supported")
	ErrInvalidParam           = errors.New("invalid param")
	ErrBadFileDescriptor      = errors.New("bad file descriptor")
	ErrTemporarilyUnavailable = errors.New("resource temporarily unavailable")
)

// Socket is the interface of waitable handles. FD returns the numeric
// file descriptor identity used by the host readiness primitives.
type Socket interface {
	FD() int
}

// FD makes a raw file descriptor usable as a Socket.
type FD int

func (fd FD) FD() int { return int(fd) }

// waitFunc is the signature shared by the readiness strategies.
// timeout < 0 blocks until readiness; timeout >= 0 bounds the wait.
type waitFunc func(so Socket, read, write bool, timeout time.Duration) (bool, error)

// waitStrategy holds the process-wide readiness strategy. The binding
// is written at most once, by whichever call probes first; a failed
// probe leaves it unbound so the next call probes again.
type waitStrategy struct {
	mu    sync.Mutex
	probe func() (waitFunc, error)
	fn    atomic.Pointer[waitFunc]
}

func (s *waitStrategy) get() (waitFunc, error) {
	if fn := s.fn.Load(); fn != nil {
		return *fn, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if fn := s.fn.Load(); fn != nil {
		return *fn, nil
	}
	fn, err := s.probe()
	if err != nil {
		return nil, err
	}
	s.fn.Store(&fn)
	return fn, nil
}

var defaultStrategy = waitStrategy{probe: probeWaiter}

// WaitForSocket blocks until so satisfies one of the requested
// interests or timeout elapses. It returns true on readiness, which
// includes error and EOF conditions, and false only on timeout.
// At least one of read, write must be requested.
func WaitForSocket(so Socket, read, write bool, timeout time.Duration) (bool, error) {
	fn, err := defaultStrategy.get()
	if err != nil {
		return false, err
	}
	return fn(so, read, write, timeout)
}

// WaitForRead blocks until so is readable, errored or at EOF
func WaitForRead(so Socket, timeout time.Duration) (bool, error) {
	return WaitForSocket(so, true, false, timeout)
}

// WaitForWrite blocks until so is writable or errored
func WaitForWrite(so Socket, timeout time.Duration) (bool, error) {
	return WaitForSocket(so, false, true, timeout)
}

func nullWaitForSocket(Socket, bool, bool, time.Duration) (bool, error) {
	return false, ErrNoWayToWaitForSocket
}

// retryOnIntr re-invokes fn until it completes without being
// interrupted by a signal. A retried wait reuses the caller's
// original timeout, not a remaining-time budget.
func retryOnIntr[T any](fn func() (T, error)) (T, error) {
	for {
		v, err := fn()
		if errors.Is(err, ErrInterruptedSyscall) {
			continue
		}
		return v, err
	}
}
