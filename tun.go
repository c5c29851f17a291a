package tun

import (
	"net/netip"

	"github.com/sirupsen/logrus"
)

// DefaultMTU is used where the MTU can only be chosen at creation time.
const DefaultMTU = 9000

type Options struct {
	Name string
	// MTU of the link. Zero leaves the kernel default in place.
	MTU          uint32
	Inet4Address []netip.Prefix
	Inet6Address []netip.Prefix
	// Platform defaults to Native().
	Platform *Platform
	// Logger defaults to the logrus standard logger.
	Logger logrus.FieldLogger
}

func (o *Options) needsConfigure() bool {
	return o.MTU > 0 || len(o.Inet4Address) > 0 || len(o.Inet6Address) > 0
}

// Open opens the named device on the running platform.
func Open(name string) (*Adapter, error) {
	return New(&Options{Name: name})
}

// NewTunDevice opens a device and assigns the given prefixes to it.
func NewTunDevice(cidrs []netip.Prefix, options *Options) (*Adapter, error) {
	for _, cidr := range cidrs {
		if cidr.Addr().Is4() {
			options.Inet4Address = append(options.Inet4Address, cidr)
		} else if cidr.Addr().Is6() {
			options.Inet6Address = append(options.Inet6Address, cidr)
		}
	}
	return New(options)
}
