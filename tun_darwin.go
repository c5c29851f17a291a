package tun

import (
	"errors"
	"os"

	"golang.org/x/sys/unix"
)

const (
	utunControlName = "com.apple.net.utun_control"
	sysProtoControl = 2
	utunOptIfName   = 2
)

var errAddressUnsupported = errors.New("assigning addresses is not supported on darwin")

// Native returns the policy of the running platform.
func Native() Platform {
	p := Darwin(allocDarwin)
	p.Configure = configureDarwin
	return p
}

// allocDarwin connects a utun kernel control socket. Frames read from it keep
// the 4-byte protocol family header the kernel prepends.
func allocDarwin(name []byte) int {
	fd, err := unix.Socket(unix.AF_SYSTEM, unix.SOCK_DGRAM, sysProtoControl)
	if err != nil {
		return -1
	}
	unix.CloseOnExec(fd)

	var info unix.CtlInfo
	copy(info.Name[:], utunControlName)
	if err = unix.IoctlCtlInfo(fd, &info); err != nil {
		unix.Close(fd)
		return -2
	}

	sa := &unix.SockaddrCtl{ID: info.Id, Unit: utunUnit(name)}
	if err = unix.Connect(fd, sa); err != nil {
		unix.Close(fd)
		return -3
	}
	// reported with the connect step: the socket is bound but cannot serve
	// as a device
	if err = unix.SetNonblock(fd, true); err != nil {
		unix.Close(fd)
		return -3
	}

	ifName, err := unix.GetsockoptString(fd, sysProtoControl, utunOptIfName)
	if err != nil || len(ifName) > len(name) {
		unix.Close(fd)
		return -4
	}

	clear(name)
	copy(name, ifName)
	return fd
}

func configureDarwin(name string, options *Options) error {
	if len(options.Inet4Address) > 0 || len(options.Inet6Address) > 0 {
		return errAddressUnsupported
	}
	if options.MTU == 0 {
		return nil
	}
	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_DGRAM, 0)
	if err != nil {
		return err
	}
	defer unix.Close(fd)

	var ifr unix.IfreqMTU
	copy(ifr.Name[:], name)
	ifr.MTU = int32(options.MTU)
	return os.NewSyscallError("SIOCSIFMTU", unix.IoctlSetIfreqMTU(fd, &ifr))
}
