package outbuf

import (
	"io"
	"sync"

	"github.com/prequel-dev/zspool/internal/pkg/zerr"
)

// BufT is the session's fixed-capacity output buffer. The compression
// context pushes produced bytes in; the session drains them to the sink.
// Contexts running internal workers push from their own goroutines, so
// access is serialized.
type BufT struct {
	mu  sync.Mutex
	buf []byte
	cap int
}

func NewBuf(capacity int) *BufT {
	return &BufT{
		buf: make([]byte, 0, capacity),
		cap: capacity,
	}
}

// Write appends one burst of produced output. A burst that would exceed the
// fixed capacity is an integrity fault, never silent truncation.
func (b *BufT) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.buf)+len(p) > b.cap {
		return 0, zerr.ErrOverflow
	}

	b.buf = append(b.buf, p...)
	return len(p), nil
}

// Drain writes buffered bytes to dst and empties the buffer. Short writes
// are surfaced as errors; a partial drain is not resumable.
func (b *BufT) Drain(dst io.Writer) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.buf) == 0 {
		return 0, nil
	}

	n, err := dst.Write(b.buf)
	if err == nil && n != len(b.buf) {
		err = zerr.WrapIO(io.ErrShortWrite)
	}
	b.buf = b.buf[:0]
	return n, err
}

func (b *BufT) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.buf)
}

func (b *BufT) Cap() int {
	return b.cap
}
