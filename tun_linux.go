package tun

import (
	"errors"
	"unsafe"

	"github.com/vishvananda/netlink"
	"golang.org/x/sys/unix"
)

const cloneDevicePath = "/dev/net/tun"

// Native returns the policy of the running platform.
func Native() Platform {
	p := Linux(allocLinux)
	p.Configure = configureLinux
	return p
}

// allocLinux opens the clone device and binds it to name with TUNSETIFF. The
// kernel caps names at IFNAMSIZ-1 bytes; the name it settles on is written
// back into name.
func allocLinux(name []byte) int {
	fd, err := unix.Open(cloneDevicePath, unix.O_RDWR|unix.O_CLOEXEC, 0)
	if err != nil {
		return -1
	}

	var ifr struct {
		name  [unix.IFNAMSIZ]byte
		flags uint16
		_     [22]byte
	}

	copy(ifr.name[:unix.IFNAMSIZ-1], name)
	ifr.flags = unix.IFF_TUN | unix.IFF_NO_PI
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), unix.TUNSETIFF, uintptr(unsafe.Pointer(&ifr)))
	if errno != 0 {
		unix.Close(fd)
		return -2
	}

	// the descriptor is not usable as a device without the poller, so this
	// counts as part of the control step
	if err = unix.SetNonblock(fd, true); err != nil {
		unix.Close(fd)
		return -2
	}

	clear(name)
	copy(name, ifr.name[:clen(ifr.name[:])])
	return fd
}

func configureLinux(name string, options *Options) error {
	tunLink, err := netlink.LinkByName(name)
	if err != nil {
		return err
	}

	if options.MTU > 0 {
		err = netlink.LinkSetMTU(tunLink, int(options.MTU))
		if errors.Is(err, unix.EPERM) {
			// unprivileged
			options.Logger.WithField("name", name).Warn("tun: no permission to configure link")
			return nil
		} else if err != nil {
			return err
		}
	}

	for _, address := range options.Inet4Address {
		addr4, err := netlink.ParseAddr(address.String())
		if err != nil {
			return err
		}
		if err = netlink.AddrAdd(tunLink, addr4); err != nil {
			return err
		}
	}
	for _, address := range options.Inet6Address {
		addr6, err := netlink.ParseAddr(address.String())
		if err != nil {
			return err
		}
		if err = netlink.AddrAdd(tunLink, addr6); err != nil {
			return err
		}
	}

	relaxRxChecksum(name)

	return netlink.LinkSetUp(tunLink)
}
