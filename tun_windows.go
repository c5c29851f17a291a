package tun

import (
	"errors"
	"sync"

	wgtun "golang.zx2c4.com/wireguard/tun"
)

const defaultWindowsName = "coretun"

var errUnknownHandle = errors.New("unknown handle")

// Wintun devices are not descriptors, so handles index a process-local table.
var windowsHandles = struct {
	sync.Mutex
	next int
	devs map[int]wgtun.Device
}{devs: make(map[int]wgtun.Device)}

// Native returns the policy of the running platform.
func Native() Platform {
	p := Windows(allocWindows)
	p.Attach = attachWindows
	p.Release = releaseWindows
	return p
}

func allocWindows(name []byte) int {
	ifName := string(name[:clen(name)])
	if ifName == "" {
		ifName = defaultWindowsName
	}
	dev, err := wgtun.CreateTUN(ifName, DefaultMTU)
	if err != nil {
		return -1
	}
	realName, err := dev.Name()
	if err != nil || len(realName) > len(name) {
		dev.Close()
		return -2
	}
	clear(name)
	copy(name, realName)

	windowsHandles.Lock()
	defer windowsHandles.Unlock()
	handle := windowsHandles.next
	windowsHandles.next++
	windowsHandles.devs[handle] = dev
	return handle
}

func takeWindowsHandle(handle int) (wgtun.Device, bool) {
	windowsHandles.Lock()
	defer windowsHandles.Unlock()
	dev, ok := windowsHandles.devs[handle]
	delete(windowsHandles.devs, handle)
	return dev, ok
}

func attachWindows(handle int, _ string) (Device, error) {
	dev, ok := takeWindowsHandle(handle)
	if !ok {
		return nil, errUnknownHandle
	}
	return &wintunDevice{dev: dev}, nil
}

func releaseWindows(handle int) error {
	dev, ok := takeWindowsHandle(handle)
	if !ok {
		return errUnknownHandle
	}
	return dev.Close()
}

// wintunDevice moves one packet per call through the batch API.
type wintunDevice struct {
	dev wgtun.Device
}

func (d *wintunDevice) Read(p []byte) (int, error) {
	sizes := []int{0}
	if _, err := d.dev.Read([][]byte{p}, sizes, 0); err != nil {
		return 0, err
	}
	return sizes[0], nil
}

func (d *wintunDevice) Write(p []byte) (int, error) {
	n, err := d.dev.Write([][]byte{p}, 0)
	if err != nil || n == 0 {
		return 0, err
	}
	return len(p), nil
}

func (d *wintunDevice) Close() error { return d.dev.Close() }
