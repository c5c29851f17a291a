//go:build linux

package tun

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/atomic"
	"golang.org/x/sys/unix"
)

func stubEthtool(t *testing.T, fn func(name string, value *ethtoolValue) error) {
	t.Helper()
	saved := ethtoolIoctl
	ethtoolIoctl = fn
	t.Cleanup(func() { ethtoolIoctl = saved })
}

func TestRelaxRxChecksumDisablesOffload(t *testing.T) {
	var cmds []uint32
	stubEthtool(t, func(name string, value *ethtoolValue) error {
		assert.Equal(t, "tun0", name)
		cmds = append(cmds, value.cmd)
		if value.cmd == unix.ETHTOOL_GRXCSUM {
			value.data = 1
		} else {
			assert.Zero(t, value.data)
		}
		return nil
	})

	relaxRxChecksum("tun0")
	assert.Equal(t, []uint32{unix.ETHTOOL_GRXCSUM, unix.ETHTOOL_SRXCSUM}, cmds)
}

func TestRelaxRxChecksumLeavesDisabledOffload(t *testing.T) {
	var calls atomic.Int32
	stubEthtool(t, func(name string, value *ethtoolValue) error {
		calls.Inc()
		value.data = 0
		return nil
	})

	relaxRxChecksum("tun0")
	assert.EqualValues(t, 1, calls.Load())
}

func TestRelaxRxChecksumIgnoresErrors(t *testing.T) {
	var sets atomic.Int32
	stubEthtool(t, func(name string, value *ethtoolValue) error {
		if value.cmd == unix.ETHTOOL_SRXCSUM {
			sets.Inc()
		}
		return unix.EOPNOTSUPP
	})

	assert.NotPanics(t, func() { relaxRxChecksum("tun0") })
	assert.Zero(t, sets.Load())

	_, err := rxChecksumOffloaded("tun0")
	assert.ErrorIs(t, err, unix.EOPNOTSUPP)
	assert.ErrorContains(t, err, "ETHTOOL_GRXCSUM")
	assert.ErrorIs(t, disableRxChecksumOffload("tun0"), unix.EOPNOTSUPP)
}

func TestEthtoolUnknownLink(t *testing.T) {
	_, err := rxChecksumOffloaded("coretun-nolink")
	assert.Error(t, err)
}
