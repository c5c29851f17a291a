package tun

import (
	"errors"
	"io"
	"sync"

	"github.com/josexy/coretun/internal/vectorio"
	"go.uber.org/atomic"
)

// Pusher writes raw frames into a device.
type Pusher interface {
	Push(p []byte) (int, error)
}

// Puller reads raw frames out of a device.
type Puller interface {
	Pull(p []byte) (int, error)
}

// Device is the byte stream a handle is wrapped into.
type Device interface {
	io.ReadWriteCloser
}

const (
	stateUnopened uint32 = iota
	stateOpen
	stateClosed
)

var (
	_ Pusher    = (*PushView)(nil)
	_ Puller    = (*PullView)(nil)
	_ io.Writer = (*PushView)(nil)
	_ io.Reader = (*PullView)(nil)
)

// Interface owns one OS handle. Push and pull go through views which never
// own the handle; Close releases it exactly once.
type Interface struct {
	os     OS
	handle int
	dev    Device

	state   atomic.Uint32
	pushing atomic.Bool
	pulling atomic.Bool

	closeOnce sync.Once
}

// OpenInterface allocates a device named by name. The allocator may rewrite
// name with the name chosen by the kernel.
func OpenInterface(p Platform, name *Name) (*Interface, error) {
	if p.Allocate == nil {
		return nil, &ErrorOS{OS: OSUnknown, Err: errNoAllocator}
	}
	handle := p.Allocate(name.Bytes())
	if handle < 0 {
		return nil, p.openError(handle)
	}
	attach := p.Attach
	if attach == nil {
		attach = AttachFile
	}
	dev, err := attach(handle, name.String())
	if err != nil {
		if p.Release != nil {
			_ = p.Release(handle)
		}
		return nil, &ErrorOS{OS: p.OS, Reason: ReasonAttach, Err: err}
	}
	i := &Interface{os: p.OS, handle: handle, dev: dev}
	i.state.Store(stateOpen)
	return i, nil
}

func (i *Interface) OS() OS { return i.os }

func (i *Interface) Handle() int { return i.handle }

// Pusher returns the write view. Only one may be outstanding at a time.
func (i *Interface) Pusher() (*PushView, error) {
	if i.state.Load() != stateOpen {
		return nil, i.stateError()
	}
	if !i.pushing.CompareAndSwap(false, true) {
		return nil, ErrPusherInUse
	}
	return &PushView{iface: i}, nil
}

// Puller returns the read view. Only one may be outstanding at a time.
func (i *Interface) Puller() (*PullView, error) {
	if i.state.Load() != stateOpen {
		return nil, i.stateError()
	}
	if !i.pulling.CompareAndSwap(false, true) {
		return nil, ErrPullerInUse
	}
	return &PullView{iface: i}, nil
}

// Close releases the handle. Views derived earlier fail with ErrClosed. Only
// the call that releases the handle reports its error; later calls return nil.
func (i *Interface) Close() error {
	if i.state.Load() == stateUnopened {
		return ErrNotOpen
	}
	var err error
	i.closeOnce.Do(func() {
		i.state.Store(stateClosed)
		err = i.dev.Close()
	})
	return err
}

func (i *Interface) stateError() error {
	if i.state.Load() == stateClosed {
		return ErrClosed
	}
	return ErrNotOpen
}

func (i *Interface) closed() bool { return i.state.Load() == stateClosed }

// PushView is the write role over an interface.
type PushView struct {
	iface    *Interface
	released atomic.Bool
}

// Push writes p as one frame and returns the number of bytes the device took.
func (v *PushView) Push(p []byte) (int, error) {
	if err := v.check(); err != nil {
		return 0, err
	}
	n, err := v.iface.dev.Write(p)
	return v.result(n, len(p), err)
}

// PushFrags writes the fragments as a single frame.
func (v *PushView) PushFrags(frags ...[]byte) (int, error) {
	if err := v.check(); err != nil {
		return 0, err
	}
	var total int
	for _, f := range frags {
		total += len(f)
	}
	n, err := vectorio.Gather(v.iface.dev, frags)
	return v.result(n, total, err)
}

func (v *PushView) Write(p []byte) (int, error) { return v.Push(p) }

// Release gives the write role back to the interface.
func (v *PushView) Release() {
	if v.released.CompareAndSwap(false, true) {
		v.iface.pushing.Store(false)
	}
}

func (v *PushView) check() error {
	if v.released.Load() {
		return &ErrorIO{OS: v.iface.os, Reason: ReasonReleased, Err: ErrReleased}
	}
	if v.iface.closed() {
		return &ErrorIO{OS: v.iface.os, Reason: ReasonClosed, Err: ErrClosed}
	}
	return nil
}

func (v *PushView) result(n, want int, err error) (int, error) {
	if err != nil {
		if v.iface.closed() {
			err = ErrClosed
		}
		return n, ioError(v.iface.os, err)
	}
	if n < want {
		return n, &ErrorIO{OS: v.iface.os, Reason: ReasonShortWrite, Err: io.ErrShortWrite}
	}
	return n, nil
}

// PullView is the read role over an interface.
type PullView struct {
	iface    *Interface
	released atomic.Bool
}

// Pull blocks until a frame is available and copies up to len(p) bytes of it.
func (v *PullView) Pull(p []byte) (int, error) {
	if v.released.Load() {
		return 0, &ErrorIO{OS: v.iface.os, Reason: ReasonReleased, Err: ErrReleased}
	}
	if v.iface.closed() {
		return 0, &ErrorIO{OS: v.iface.os, Reason: ReasonClosed, Err: ErrClosed}
	}
	if len(p) == 0 {
		return 0, nil
	}
	n, err := v.iface.dev.Read(p)
	if err != nil {
		if v.iface.closed() && !errors.Is(err, io.EOF) {
			err = ErrClosed
		}
		return n, ioError(v.iface.os, err)
	}
	return n, nil
}

// Read reports end of stream as a bare io.EOF for io.Reader consumers.
func (v *PullView) Read(p []byte) (int, error) {
	n, err := v.Pull(p)
	if err != nil && errors.Is(err, io.EOF) {
		return n, io.EOF
	}
	return n, err
}

// Release gives the read role back to the interface.
func (v *PullView) Release() {
	if v.released.CompareAndSwap(false, true) {
		v.iface.pulling.Store(false)
	}
}
