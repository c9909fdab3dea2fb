package network

import "fmt"

// Conn is a non-blocking connection handle. It is owned by exactly one
// TransportLayer for its whole lifetime.
//
// Read and Write never block: (0, nil) means the operation would block.
// Read returns (0, io.EOF) once the peer has closed its side and keeps
// doing so on later calls. Write may accept fewer bytes than offered.
type Conn interface {
	// Read reads up to len(p) bytes.
	Read(p []byte) (int, error)

	// ReadBuffers scatters a single read across bufs.
	ReadBuffers(bufs [][]byte) (int64, error)

	// Write writes up to len(p) bytes.
	Write(p []byte) (int, error)

	// WriteBuffers gathers bufs into a single write.
	WriteBuffers(bufs [][]byte) (int64, error)

	// FinishConnect completes a non-blocking connect. It returns false
	// while the connect is still in progress.
	FinishConnect() (bool, error)

	// IsOpen reports whether the handle has not been closed.
	IsOpen() bool

	// Close releases the handle.
	Close() error
}

// BufferRange returns the length buffers of bufs starting at offset. It
// mirrors scatter/gather calls taking an offset and a length and rejects
// out-of-range arguments.
func BufferRange(bufs [][]byte, offset, length int) ([][]byte, error) {
	if offset < 0 || offset > len(bufs) {
		return nil, fmt.Errorf("buffer offset %d out of range [0,%d]", offset, len(bufs))
	}
	if length < 0 || length > len(bufs)-offset {
		return nil, fmt.Errorf("buffer length %d out of range [0,%d]", length, len(bufs)-offset)
	}
	return bufs[offset : offset+length], nil
}

// AdvanceBuffers drops the first n bytes from bufs after a partial
// vectorized write and returns the remainder. Emptied buffers are
// removed.
func AdvanceBuffers(bufs [][]byte, n int64) [][]byte {
	for len(bufs) > 0 {
		l := int64(len(bufs[0]))
		if l > n {
			bufs[0] = bufs[0][n:]
			return bufs
		}
		n -= l
		bufs = bufs[1:]
	}
	return bufs
}

// remaining returns the total number of bytes in bufs.
func remaining(bufs [][]byte) int64 {
	var total int64
	for _, b := range bufs {
		total += int64(len(b))
	}
	return total
}
