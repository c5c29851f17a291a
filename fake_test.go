package tun

import (
	"io"
	"os"
	"slices"
	"sync"

	"go.uber.org/atomic"
)

// loopDevice is an in-memory packet device. Frames written by the interface
// land on out; frames queued on in are handed to reads. A loopback device
// shares one queue for both.
type loopDevice struct {
	in   chan []byte
	out  chan []byte
	done chan struct{}
	once sync.Once

	closes atomic.Int32
	// short makes writes accept one byte less than offered.
	short bool
	// eof makes reads report end of stream.
	eof bool
	// closeErr is returned by every Close.
	closeErr error
}

func newLoopback() *loopDevice {
	q := make(chan []byte, 16)
	return &loopDevice{in: q, out: q, done: make(chan struct{})}
}

func newPeerDevice() *loopDevice {
	return &loopDevice{
		in:   make(chan []byte, 16),
		out:  make(chan []byte, 16),
		done: make(chan struct{}),
	}
}

func (d *loopDevice) Read(p []byte) (int, error) {
	if d.eof {
		return 0, io.EOF
	}
	select {
	case frame := <-d.in:
		return copy(p, frame), nil
	case <-d.done:
		return 0, os.ErrClosed
	}
}

func (d *loopDevice) Write(p []byte) (int, error) {
	select {
	case <-d.done:
		return 0, os.ErrClosed
	default:
	}
	n := len(p)
	if d.short && n > 0 {
		n--
	}
	select {
	case d.out <- slices.Clone(p[:n]):
		return n, nil
	case <-d.done:
		return 0, os.ErrClosed
	}
}

// Close counts every call so a second release shows up in tests.
func (d *loopDevice) Close() error {
	d.closes.Inc()
	d.once.Do(func() { close(d.done) })
	return d.closeErr
}

// fakeNative stands in for the native allocator and counts how often each
// part of the handle lifecycle runs.
type fakeNative struct {
	handle int
	code   int
	// rename, when set, is written back as the kernel name.
	rename    []byte
	attachErr error

	dev *loopDevice

	allocs   atomic.Int32
	attaches atomic.Int32
	releases atomic.Int32
	lastName []byte
}

func newFakeNative(handle int, dev *loopDevice) *fakeNative {
	return &fakeNative{handle: handle, dev: dev}
}

func (f *fakeNative) alloc(name []byte) int {
	f.allocs.Inc()
	f.lastName = slices.Clone(name)
	if f.code < 0 {
		return f.code
	}
	if f.rename != nil {
		clear(name)
		copy(name, f.rename)
	}
	return f.handle
}

func (f *fakeNative) attach(handle int, _ string) (Device, error) {
	f.attaches.Inc()
	if f.attachErr != nil {
		return nil, f.attachErr
	}
	return f.dev, nil
}

func (f *fakeNative) release(int) error {
	f.releases.Inc()
	return nil
}

func (f *fakeNative) platform(build func(AllocFunc) Platform) *Platform {
	p := build(f.alloc)
	p.Attach = f.attach
	p.Release = f.release
	return &p
}
