//go:build !(darwin || linux)

package tun

import "os"

func closeHandle(handle int) error {
	f := os.NewFile(uintptr(handle), "")
	if f == nil {
		return os.ErrInvalid
	}
	return f.Close()
}
