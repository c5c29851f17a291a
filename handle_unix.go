//go:build darwin || linux

package tun

import "golang.org/x/sys/unix"

func closeHandle(handle int) error {
	return unix.Close(handle)
}
