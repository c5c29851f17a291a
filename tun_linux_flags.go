//go:build linux

package tun

import (
	"os"
	"runtime"
	"unsafe"

	"golang.org/x/sys/unix"
)

// ifreqData is struct ifreq with ifr_data set, padded to the full union.
type ifreqData struct {
	name [unix.IFNAMSIZ]byte
	data uintptr
	_    [16]byte
}

type ethtoolValue struct {
	cmd  uint32
	data uint32
}

// ethtoolIoctl issues SIOCETHTOOL for one ethtool value on the named link.
var ethtoolIoctl = func(name string, value *ethtoolValue) error {
	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_DGRAM|unix.SOCK_CLOEXEC, unix.IPPROTO_IP)
	if err != nil {
		return err
	}
	defer unix.Close(fd)

	var ifr ifreqData
	copy(ifr.name[:unix.IFNAMSIZ-1], name)
	ifr.data = uintptr(unsafe.Pointer(value))
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), unix.SIOCETHTOOL, uintptr(unsafe.Pointer(&ifr)))
	runtime.KeepAlive(value)
	if errno != 0 {
		return errno
	}
	return nil
}

func rxChecksumOffloaded(name string) (bool, error) {
	value := ethtoolValue{cmd: unix.ETHTOOL_GRXCSUM}
	if err := ethtoolIoctl(name, &value); err != nil {
		return false, os.NewSyscallError("SIOCETHTOOL ETHTOOL_GRXCSUM", err)
	}
	return value.data != 0, nil
}

func disableRxChecksumOffload(name string) error {
	value := ethtoolValue{cmd: unix.ETHTOOL_SRXCSUM, data: 0}
	if err := ethtoolIoctl(name, &value); err != nil {
		return os.NewSyscallError("SIOCETHTOOL ETHTOOL_SRXCSUM", err)
	}
	return nil
}

// relaxRxChecksum turns receive checksum offload off so frames pushed into the
// device must carry valid checksums of their own. Failures are ignored: the
// link works either way.
func relaxRxChecksum(name string) {
	offloaded, err := rxChecksumOffloaded(name)
	if err == nil && offloaded {
		_ = disableRxChecksumOffload(name)
	}
}
