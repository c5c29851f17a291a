package iface

import (
	"net"
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlushRecordsHostInterfaces(t *testing.T) {
	host, err := net.Interfaces()
	require.NoError(t, err)
	require.NoError(t, Flush())

	all := All()
	require.Len(t, all, len(host))
	for i := 1; i < len(all); i++ {
		assert.Less(t, all[i-1].Index, all[i].Index)
	}

	for _, h := range host {
		byName, err := Lookup(h.Name)
		require.NoError(t, err)
		assert.Equal(t, h.Index, byName.Index)
		assert.Equal(t, h.MTU, byName.MTU)

		byIndex, err := LookupIndex(h.Index)
		require.NoError(t, err)
		assert.Equal(t, h.Name, byIndex.Name)
	}
}

func TestLookupMissing(t *testing.T) {
	require.NoError(t, Flush())
	_, err := Lookup("no-such-interface-0")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = LookupIndex(-1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLookupReturnsCopy(t *testing.T) {
	require.NoError(t, Flush())
	all := All()
	if len(all) == 0 {
		t.Skip("host reports no interfaces")
	}
	name := all[0].Name
	first, err := Lookup(name)
	require.NoError(t, err)
	first.Name = "mutated"
	first.Addrs = append(first.Addrs, first.Addrs...)

	second, err := Lookup(name)
	require.NoError(t, err)
	assert.Equal(t, name, second.Name)
}

func TestFamilyFilters(t *testing.T) {
	iface := &Interface{}
	for _, s := range []string{"10.0.0.1/24", "fd00::1/64", "192.168.1.2/16"} {
		iface.Addrs = append(iface.Addrs, netip.MustParsePrefix(s))
	}
	assert.Len(t, iface.Inet4(), 2)
	assert.Len(t, iface.Inet6(), 1)
	assert.False(t, iface.Up())
	iface.Flags |= net.FlagUp
	assert.True(t, iface.Up())
}
