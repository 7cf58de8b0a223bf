package sink

import (
	"bufio"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/prequel-dev/zspool/internal/pkg/zerr"
)

const bufSz = 256 << 10

// SinkT owns the currently writable spool file. Exactly one file is
// writable at a time; a rotated-away file is never reopened.
type SinkT struct {
	prefix   string
	pid      int
	nowFn    func() time.Time
	lastUnix int64
	seq      int
	f        *os.File
	bw       *bufio.Writer
	path     string
	log      zerolog.Logger
}

// NewSink opens the first spool file for the prefix. A nil nowFn selects
// the wall clock.
func NewSink(prefix string, log zerolog.Logger, nowFn func() time.Time) (*SinkT, error) {
	if nowFn == nil {
		nowFn = time.Now
	}

	s := &SinkT{
		prefix: prefix,
		pid:    os.Getpid(),
		nowFn:  nowFn,
		log:    log,
	}

	if err := s._open(); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *SinkT) Write(p []byte) (int, error) {
	if s.f == nil {
		return 0, zerr.ErrClosed
	}

	n, err := s.bw.Write(p)
	if err != nil {
		return n, zerr.WrapIO(err)
	}
	return n, nil
}

// Rotate retires the current file and opens the next. Flush, fsync, or
// close failures on the outgoing segment degrade its durability and are
// logged, not returned; losing the ability to write forward is worse than
// losing durability of the segment being closed. Failure to open the next
// file is returned and is fatal to the caller.
func (s *SinkT) Rotate() error {
	if s.f == nil {
		return zerr.ErrClosed
	}

	if err := s._retire(); err != nil {
		s.log.Warn().
			Err(err).
			Str("path", s.path).
			Msg("spool segment closed without durability")
	}

	return s._open()
}

// Close flushes, syncs, and closes the current file. Unlike Rotate, the
// caller owns the failure policy here.
func (s *SinkT) Close() error {
	if s.f == nil {
		return nil
	}

	if err := s._retire(); err != nil {
		return zerr.WrapIO(err)
	}
	return nil
}

// Path reports the current (or most recently open) spool file.
func (s *SinkT) Path() string {
	return s.path
}

func (s *SinkT) _open() error {
	path := s._nextPath()

	// O_EXCL keeps an unexpected name collision loud instead of silently
	// overwriting a finished segment.
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return zerr.WrapIO(err)
	}

	s.f = f
	s.path = path
	if s.bw == nil {
		s.bw = bufio.NewWriterSize(f, bufSz)
	} else {
		s.bw.Reset(f)
	}
	return nil
}

// _nextPath computes the next spool file name. Opens within the same clock
// second get a monotonic sequence suffix so names never collide.
func (s *SinkT) _nextPath() string {
	now := s.nowFn().Unix()
	if now == s.lastUnix {
		s.seq++
	} else {
		s.lastUnix = now
		s.seq = 0
	}

	if s.seq > 0 {
		return fmt.Sprintf("%s.%d.%d.%d", s.prefix, s.pid, now, s.seq)
	}
	return fmt.Sprintf("%s.%d.%d", s.prefix, s.pid, now)
}

// _retire flushes and closes the current file, reporting the first failure.
func (s *SinkT) _retire() error {
	var firstErr error

	if err := s.bw.Flush(); err != nil {
		firstErr = err
	}
	if err := s.f.Sync(); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := s.f.Close(); err != nil && firstErr == nil {
		firstErr = err
	}

	s.f = nil
	return firstErr
}
