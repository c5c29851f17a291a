//go:build !(darwin || linux)

package vectorio

import "syscall"

func writeVectorised(syscall.RawConn, [][]byte) (int, error) {
	return 0, errNoRawConn
}
