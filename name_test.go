package tun

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNameRoundTrip(t *testing.T) {
	for _, s := range []string{"", "a", "tun0", "utun12", "ünïcødé", strings.Repeat("z", NameSize)} {
		n, err := NewName(s)
		require.NoError(t, err, s)
		got, err := n.Decode()
		require.NoError(t, err)
		assert.Equal(t, s, got)
		assert.Equal(t, len(s), n.Len())
		assert.Equal(t, s, n.String())
	}
}

func TestNameRejects(t *testing.T) {
	_, err := NewName(strings.Repeat("z", NameSize+1))
	assert.ErrorIs(t, err, ErrNameTooLong)
	_, err = NewName("\xff\xfe")
	assert.ErrorIs(t, err, ErrNameInvalid)
	_, err = NewName("tun\x000")
	assert.ErrorIs(t, err, ErrNameInvalid)
}

func TestNameDecodeInvalid(t *testing.T) {
	var n Name
	copy(n[:], []byte{'o', 'k', 0xc3})
	_, err := n.Decode()
	assert.ErrorIs(t, err, ErrNameInvalid)
}

func TestNameLastNonZeroByte(t *testing.T) {
	var n Name
	copy(n[:], []byte{'a', 0, 'b'})
	assert.Equal(t, 3, n.Len())
	got, err := n.Decode()
	require.NoError(t, err)
	assert.Equal(t, "a\x00b", got)
}

func TestNameBytesIsWholeBuffer(t *testing.T) {
	n, err := NewName("tun0")
	require.NoError(t, err)
	b := n.Bytes()
	assert.Len(t, b, NameSize)
	b[4] = '1'
	assert.Equal(t, "tun01", n.String())
}

func TestClen(t *testing.T) {
	assert.Equal(t, 0, clen(nil))
	assert.Equal(t, 3, clen([]byte("abc")))
	assert.Equal(t, 2, clen([]byte{'a', 'b', 0, 'c'}))
}
