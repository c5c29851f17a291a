package tun

import (
	"bytes"
	"fmt"
	"unicode/utf8"
)

// NameSize is the capacity of a name buffer shared with the allocator.
const NameSize = 24

// Name is a zero-padded device name. The logical name is the prefix up to the
// last non-zero byte.
type Name [NameSize]byte

// NewName rejects names that do not fit the buffer instead of truncating them.
func NewName(s string) (Name, error) {
	var n Name
	if len(s) > NameSize {
		return n, fmt.Errorf("%w: %q", ErrNameTooLong, s)
	}
	if !utf8.ValidString(s) || bytes.IndexByte([]byte(s), 0) >= 0 {
		return n, fmt.Errorf("%w: %q", ErrNameInvalid, s)
	}
	copy(n[:], s)
	return n, nil
}

func (n Name) Len() int {
	for i := len(n) - 1; i >= 0; i-- {
		if n[i] != 0 {
			return i + 1
		}
	}
	return 0
}

func (n Name) Decode() (string, error) {
	b := n[:n.Len()]
	if !utf8.Valid(b) {
		return "", fmt.Errorf("%w: % x", ErrNameInvalid, b)
	}
	return string(b), nil
}

// Bytes returns the whole buffer, which the allocator may rewrite.
func (n *Name) Bytes() []byte { return n[:] }

func (n Name) String() string { return string(n[:n.Len()]) }

// clen is the length of the NUL terminated string in b.
func clen(b []byte) int {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		return i
	}
	return len(b)
}
