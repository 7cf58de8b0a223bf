package linebuf

import (
	"bufio"
	"io"
)

const (
	delim     = '\n'
	defaultSz = 64 << 10
)

// RdrT reads delimited records of unbounded length from a stream. The
// record buffer is reused across calls; callers must not retain a returned
// slice past the next call.
type RdrT struct {
	br  *bufio.Reader
	rec []byte
	eof bool
}

func NewRdr(rd io.Reader) *RdrT {
	return &RdrT{
		br:  bufio.NewReaderSize(rd, defaultSz),
		rec: make([]byte, 0, defaultSz),
	}
}

// Next returns the next record including its delimiter, growing the record
// buffer as needed. The final record of a stream may arrive unterminated.
// A stream that ends cleanly with no pending bytes returns io.EOF; that is
// the expected end condition, not a failure. Any other read error is
// returned as-is and is fatal to the caller.
func (r *RdrT) Next() ([]byte, error) {
	if r.eof {
		return nil, io.EOF
	}

	r.rec = r.rec[:0]

	for {
		frag, err := r.br.ReadSlice(delim)
		r.rec = append(r.rec, frag...)

		switch err {
		case nil:
			return r.rec, nil
		case bufio.ErrBufferFull:
			continue
		case io.EOF:
			r.eof = true
			if len(r.rec) == 0 {
				return nil, io.EOF
			}
			return r.rec, nil
		default:
			return nil, err
		}
	}
}

// Cap reports the current capacity of the record buffer.
func (r *RdrT) Cap() int {
	return cap(r.rec)
}
