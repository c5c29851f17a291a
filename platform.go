package tun

import (
	"errors"
	"os"
)

// AllocFunc allocates a device named by the bytes of name, which it may
// rewrite with the kernel name. It returns a non-negative handle or a
// negative status code.
type AllocFunc func(name []byte) int

// Platform binds an allocator to the table that explains its status codes
// and to the functions that turn a handle into a Device.
type Platform struct {
	OS       OS
	Allocate AllocFunc
	// Reasons maps every negative status of Allocate to a reason.
	Reasons map[int]string
	// Attach wraps an allocated handle. Defaults to AttachFile.
	Attach func(handle int, name string) (Device, error)
	// Release closes a raw handle when Attach fails.
	Release func(handle int) error
	// Configure applies Options to the named link. May be nil.
	Configure func(name string, options *Options) error
}

var (
	linuxReasons = map[int]string{
		-1: ReasonOpen,
		-2: ReasonCtrl,
	}
	darwinReasons = map[int]string{
		-1: ReasonSock,
		-2: ReasonInfo,
		-3: ReasonAddr,
		-4: ReasonName,
	}
	windowsReasons = map[int]string{
		-1: ReasonCreate,
		-2: ReasonName,
	}
)

func Linux(alloc AllocFunc) Platform {
	return Platform{OS: OSLinux, Allocate: alloc, Reasons: linuxReasons, Release: closeHandle}
}

func Darwin(alloc AllocFunc) Platform {
	return Platform{OS: OSDarwin, Allocate: alloc, Reasons: darwinReasons, Release: closeHandle}
}

func Windows(alloc AllocFunc) Platform {
	return Platform{OS: OSWindows, Allocate: alloc, Reasons: windowsReasons}
}

func (p Platform) openError(code int) error {
	if reason, ok := p.Reasons[code]; ok {
		return &ErrorOS{OS: p.OS, Reason: reason, Code: code}
	}
	return &ErrorOS{OS: OSUnknown, Code: code}
}

// AttachFile wraps a non-blocking descriptor in an *os.File so reads and
// writes park the goroutine on the runtime poller instead of the thread.
func AttachFile(handle int, name string) (Device, error) {
	f := os.NewFile(uintptr(handle), name)
	if f == nil {
		return nil, errors.New("invalid handle")
	}
	return f, nil
}
