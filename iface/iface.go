// Package iface keeps a snapshot of the host's network interfaces so a
// device can be resolved from its kernel name.
package iface

import (
	"errors"
	"fmt"
	"net"
	"net/netip"
	"slices"
	"sync"
)

var ErrNotFound = errors.New("interface not found")

var (
	mu     sync.RWMutex
	record = make(map[string]*Interface)
)

type Interface struct {
	Index        int
	Name         string
	MTU          int
	Flags        net.Flags
	Addrs        []netip.Prefix
	HardwareAddr net.HardwareAddr
}

func (iface *Interface) Up() bool { return iface.Flags&net.FlagUp != 0 }

func (iface *Interface) Inet4() []netip.Prefix {
	return iface.filter(func(addr netip.Prefix) bool { return addr.Addr().Is4() })
}

func (iface *Interface) Inet6() []netip.Prefix {
	return iface.filter(func(addr netip.Prefix) bool { return addr.Addr().Is6() })
}

func (iface *Interface) filter(accept func(addr netip.Prefix) bool) []netip.Prefix {
	var list []netip.Prefix
	for _, addr := range iface.Addrs {
		if accept(addr) {
			list = append(list, addr)
		}
	}
	return list
}

func (iface *Interface) clone() *Interface {
	c := *iface
	c.Addrs = slices.Clone(iface.Addrs)
	c.HardwareAddr = slices.Clone(iface.HardwareAddr)
	return &c
}

// Lookup returns a copy of the recorded interface called name.
func Lookup(name string) (*Interface, error) {
	mu.RLock()
	defer mu.RUnlock()
	if iface, ok := record[name]; ok {
		return iface.clone(), nil
	}
	return nil, fmt.Errorf("%w: name %q", ErrNotFound, name)
}

func LookupIndex(index int) (*Interface, error) {
	mu.RLock()
	defer mu.RUnlock()
	for _, iface := range record {
		if iface.Index == index {
			return iface.clone(), nil
		}
	}
	return nil, fmt.Errorf("%w: index %d", ErrNotFound, index)
}

// All returns copies of every recorded interface ordered by index.
func All() []*Interface {
	mu.RLock()
	defer mu.RUnlock()
	list := make([]*Interface, 0, len(record))
	for _, iface := range record {
		list = append(list, iface.clone())
	}
	slices.SortFunc(list, func(a, b *Interface) int { return a.Index - b.Index })
	return list
}

// Flush replaces the snapshot with the interfaces the host reports now.
// Interfaces without addresses are kept: a freshly opened device has none.
func Flush() error {
	ifaces, err := net.Interfaces()
	if err != nil {
		return err
	}

	fresh := make(map[string]*Interface, len(ifaces))
	for _, iface := range ifaces {
		var prefixes []netip.Prefix
		if addrs, err := iface.Addrs(); err == nil {
			for _, addr := range addrs {
				prefix, err := netip.ParsePrefix(addr.String())
				if err != nil {
					continue
				}
				prefixes = append(prefixes, prefix)
			}
		}
		fresh[iface.Name] = &Interface{
			Index:        iface.Index,
			Name:         iface.Name,
			MTU:          iface.MTU,
			Flags:        iface.Flags,
			Addrs:        prefixes,
			HardwareAddr: iface.HardwareAddr,
		}
	}

	mu.Lock()
	record = fresh
	mu.Unlock()
	return nil
}
