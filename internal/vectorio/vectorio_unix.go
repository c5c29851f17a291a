//go:build darwin || linux

package vectorio

import (
	"os"
	"syscall"
	"unsafe"

	"golang.org/x/sys/unix"
)

func writeVectorised(rawConn syscall.RawConn, frags [][]byte) (int, error) {
	iovecList := make([]unix.Iovec, 0, len(frags))
	for _, frag := range frags {
		if len(frag) == 0 {
			continue
		}
		iovec := unix.Iovec{Base: &frag[0]}
		iovec.SetLen(len(frag))
		iovecList = append(iovecList, iovec)
	}
	if len(iovecList) == 0 {
		return 0, errNoRawConn
	}
	var n uintptr
	var innerErr unix.Errno
	err := rawConn.Write(func(fd uintptr) (done bool) {
		//nolint:staticcheck
		n, _, innerErr = unix.Syscall(unix.SYS_WRITEV, fd, uintptr(unsafe.Pointer(&iovecList[0])), uintptr(len(iovecList)))
		return innerErr != unix.EAGAIN && innerErr != unix.EWOULDBLOCK
	})
	if innerErr != 0 {
		return 0, os.NewSyscallError("SYS_WRITEV", innerErr)
	}
	if err != nil {
		return 0, err
	}
	return int(n), nil
}
