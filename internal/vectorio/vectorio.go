// Package vectorio writes a frame assembled from several fragments with a
// single write call, so a packet device sees one frame and not several.
package vectorio

import (
	"errors"
	"io"
	"syscall"
)

var errNoRawConn = errors.New("vectorio: writer has no raw connection")

// Gather writes frags to w as one frame and reports the bytes written.
func Gather(w io.Writer, frags [][]byte) (int, error) {
	switch len(frags) {
	case 0:
		return w.Write(nil)
	case 1:
		return w.Write(frags[0])
	}
	if sc, ok := w.(syscall.Conn); ok {
		if rawConn, err := sc.SyscallConn(); err == nil {
			n, err := writeVectorised(rawConn, frags)
			if !errors.Is(err, errNoRawConn) {
				return n, err
			}
		}
	}
	return writeBuffered(w, frags)
}

func writeBuffered(w io.Writer, frags [][]byte) (int, error) {
	var total int
	for _, f := range frags {
		total += len(f)
	}
	frame := make([]byte, 0, total)
	for _, f := range frags {
		frame = append(frame, f...)
	}
	return w.Write(frame)
}
