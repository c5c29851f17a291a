package tun

import (
	"strconv"
	"strings"
)

// utunUnit picks the control unit for a utun name: utunN connects to unit
// N+1, anything else lets the kernel pick the next free unit.
func utunUnit(name []byte) uint32 {
	s := string(name[:clen(name)])
	if !strings.HasPrefix(s, "utun") {
		return 0
	}
	index, err := strconv.ParseUint(s[len("utun"):], 10, 16)
	if err != nil {
		return 0
	}
	return uint32(index) + 1
}
