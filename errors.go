package tun

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"syscall"
)

// OS tags an error with the platform it originated from.
type OS uint8

const (
	OSNone OS = iota
	OSLinux
	OSDarwin
	OSWindows
	OSUnknown
)

func (o OS) String() string {
	switch o {
	case OSNone:
		return "none"
	case OSLinux:
		return "linux"
	case OSDarwin:
		return "darwin"
	case OSWindows:
		return "windows"
	default:
		return "unknown"
	}
}

// Reasons reported by the native allocators. The names are shared with the
// allocator routines and must not change.
const (
	ReasonOpen   = "OpenErr"
	ReasonCtrl   = "CtrlErr"
	ReasonSock   = "SockErr"
	ReasonInfo   = "InfoErr"
	ReasonAddr   = "AddrErr"
	ReasonName   = "NameErr"
	ReasonCreate = "CreateErr"

	ReasonAttach = "AttachErr"
	ReasonConfig = "ConfigErr"
)

// Reasons reported by push and pull.
const (
	ReasonIO         = "IOErr"
	ReasonPerm       = "PermErr"
	ReasonClosed     = "Closed"
	ReasonShortWrite = "ShortWrite"
	ReasonReleased   = "Released"
)

var (
	ErrClosed      = errors.New("tun: interface closed")
	ErrReleased    = errors.New("tun: view released")
	ErrNotOpen     = errors.New("tun: interface not open")
	ErrPusherInUse = errors.New("tun: pusher already in use")
	ErrPullerInUse = errors.New("tun: puller already in use")
	ErrNameTooLong = fmt.Errorf("tun: name longer than %d bytes", NameSize)
	ErrNameInvalid = errors.New("tun: name is not valid text")

	errNoAllocator = errors.New("tun: platform has no allocator")
)

// ErrorOS is returned when a device could not be allocated or set up.
type ErrorOS struct {
	OS     OS
	Reason string
	// Code is the negative status returned by the allocator, 0 otherwise.
	Code int
	Err  error
}

func (e *ErrorOS) Error() string {
	switch e.OS {
	case OSNone:
		return "tun: no os error"
	case OSUnknown:
		if e.Err != nil {
			return "tun: unknown os error: " + e.Err.Error()
		}
		return fmt.Sprintf("tun: unknown os error (code %d)", e.Code)
	}
	msg := fmt.Sprintf("tun: %s os error: %s", e.OS, e.Reason)
	if e.Code != 0 {
		msg += fmt.Sprintf(" (code %d)", e.Code)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ErrorOS) Unwrap() error { return e.Err }

func (e *ErrorOS) Is(target error) bool {
	t, ok := target.(*ErrorOS)
	return ok && t.OS == e.OS && t.Reason == e.Reason
}

// ErrorIO is returned when a transfer against an open device failed.
type ErrorIO struct {
	OS     OS
	Reason string
	Err    error
}

func (e *ErrorIO) Error() string {
	switch e.OS {
	case OSNone:
		return "tun: no io error"
	case OSUnknown:
		if e.Err != nil {
			return "tun: unknown io error: " + e.Err.Error()
		}
		return "tun: unknown io error"
	}
	msg := fmt.Sprintf("tun: %s io error: %s", e.OS, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ErrorIO) Unwrap() error { return e.Err }

func (e *ErrorIO) Is(target error) bool {
	t, ok := target.(*ErrorIO)
	return ok && t.OS == e.OS && t.Reason == e.Reason
}

// ioError classifies a device error. Errors that carry no OS information
// degrade to OSUnknown.
func ioError(o OS, err error) error {
	var errno syscall.Errno
	var pathErr *fs.PathError
	var sysErr *os.SyscallError
	switch {
	case errors.Is(err, os.ErrClosed), errors.Is(err, ErrClosed):
		return &ErrorIO{OS: o, Reason: ReasonClosed, Err: ErrClosed}
	case errors.Is(err, fs.ErrPermission):
		return &ErrorIO{OS: o, Reason: ReasonPerm, Err: err}
	case errors.Is(err, io.EOF):
		return &ErrorIO{OS: o, Reason: ReasonIO, Err: io.EOF}
	case errors.As(err, &errno), errors.As(err, &pathErr), errors.As(err, &sysErr):
		return &ErrorIO{OS: o, Reason: ReasonIO, Err: err}
	default:
		return &ErrorIO{OS: OSUnknown, Reason: ReasonIO, Err: err}
	}
}
