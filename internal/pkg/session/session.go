package session

import (
	"errors"
	"io"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/prequel-dev/zspool/internal/pkg/ack"
	"github.com/prequel-dev/zspool/internal/pkg/engine"
	"github.com/prequel-dev/zspool/internal/pkg/linebuf"
	"github.com/prequel-dev/zspool/internal/pkg/opts"
	"github.com/prequel-dev/zspool/internal/pkg/outbuf"
	"github.com/prequel-dev/zspool/internal/pkg/rotate"
	"github.com/prequel-dev/zspool/internal/pkg/sink"
	"github.com/prequel-dev/zspool/internal/pkg/zerr"
)

type OptsT = opts.OptsT

// Cap on end-of-frame drain spins. A healthy context converges in a few;
// contexts still pending after this many are stalled, not retried forever.
const maxFlushLoops = 128

// SessionT drives the read, compress, drain, ack loop for one process
// lifetime. A single control goroutine owns every buffer; the context's
// internal workers are opaque and fully synchronized by the end directive.
type SessionT struct {
	rdr   *linebuf.RdrT
	ctx   engine.CtxT
	out   *outbuf.BufT
	snk   *sink.SinkT
	ctl   *rotate.CtlT
	acker *ack.AckerT
	chunk int
	log   zerolog.Logger
	stopC <-chan struct{}
	state error
	stats statsT
}

type statsT struct {
	records   atomic.Int64
	bytesIn   atomic.Int64
	bytesOut  atomic.Int64
	rotations atomic.Int64
}

// StatsT is a point-in-time snapshot of session counters.
type StatsT struct {
	Records   int64
	BytesIn   int64
	BytesOut  int64
	Rotations int64
}

func NewSession(rd io.Reader, prefix string, o OptsT) (*SessionT, error) {

	snk, err := sink.NewSink(prefix, o.Logger, nil)
	if err != nil {
		return nil, err
	}

	out := outbuf.NewBuf(o.OutputCap)

	ctx, err := o.NewFactory()(out, o.Cfg())
	if err != nil {
		snk.Close()
		return nil, err
	}

	return &SessionT{
		rdr:   linebuf.NewRdr(rd),
		ctx:   ctx,
		out:   out,
		snk:   snk,
		ctl:   rotate.NewCtl(),
		acker: ack.NewAcker(o.AckWr),
		chunk: o.CalcChunk(),
		log:   o.Logger,
		stopC: o.StopC,
	}, nil
}

// Run executes the control loop until end-of-input, a stop, or a fatal
// error. Every exit funnels through one shutdown path that best-effort
// finalizes the frame and closes the spool file.
func (s *SessionT) Run() error {
	if s.state != nil {
		return s.state
	}

	s.state = s._run()
	if s.state == nil {
		s.state = zerr.ErrClosed
		return nil
	}
	return s.state
}

// Rotate requests a rotation. Safe to call from any goroutine; requests
// coalesce, and the actual swap happens on the control loop between
// records.
func (s *SessionT) Rotate() {
	s.ctl.Request()
}

func (s *SessionT) Stats() StatsT {
	return StatsT{
		Records:   s.stats.records.Load(),
		BytesIn:   s.stats.bytesIn.Load(),
		BytesOut:  s.stats.bytesOut.Load(),
		Rotations: s.stats.rotations.Load(),
	}
}

// Path reports the currently open spool file.
func (s *SessionT) Path() string {
	return s.snk.Path()
}

func (s *SessionT) _run() error {

	if err := s.acker.Emit(); err != nil {
		return s._shutdown(err)
	}

LOOP:
	for {
		// Rotation and stop are observed only here, never inside a
		// compress call.
		if s.ctl.Pending() {
			if err := s._rotate(); err != nil {
				return s._shutdown(err)
			}
		}

		select {
		case <-s.stopC:
			s.log.Info().Msg("stop requested, draining")
			break LOOP
		default:
		}

		rec, err := s.rdr.Next()
		switch {
		case err == io.EOF:
			break LOOP
		case err != nil:
			return s._shutdown(zerr.WrapIO(err))
		}

		if err := s._compress(rec); err != nil {
			return s._shutdown(err)
		}

		s.stats.records.Add(1)
		s.stats.bytesIn.Add(int64(len(rec)))

		if err := s.acker.Emit(); err != nil {
			return s._shutdown(err)
		}
	}

	return s._shutdown(nil)
}

// _compress feeds one record through the context in bounded chunks,
// draining produced output to the sink after every call. One zero-consume
// call is tolerated while the context works off internal state; two in a
// row means it is wedged.
func (s *SessionT) _compress(rec []byte) error {

	var idle bool

	for off := 0; off < len(rec); {

		end := off + s.chunk
		if end > len(rec) {
			end = len(rec)
		}

		res, err := s.ctx.Compress(rec[off:end], engine.DirContinue)
		if err != nil {
			return err
		}

		if res.Consumed == 0 {
			if idle {
				return zerr.WrapEngine(zerr.ErrStall)
			}
			idle = true
		} else {
			idle = false
		}
		off += res.Consumed

		if err := s._drain(); err != nil {
			return err
		}
	}

	return nil
}

func (s *SessionT) _drain() error {
	n, err := s.out.Drain(s.snk)
	s.stats.bytesOut.Add(int64(n))
	return err
}

// _flushFrame issues end directives, draining after each, until the
// context reports nothing pending. This writes the frame trailer and
// checksum; it runs at end-of-input and immediately before a rotation.
func (s *SessionT) _flushFrame() error {

	for i := 0; i < maxFlushLoops; i++ {

		res, err := s.ctx.Compress(nil, engine.DirEnd)
		if err != nil {
			return err
		}

		if err := s._drain(); err != nil {
			return err
		}

		if res.Pending == 0 {
			return nil
		}
	}

	return zerr.WrapEngine(zerr.ErrFlushStall)
}

// _rotate finalizes the current frame, swaps spool files, and opens a new
// frame. Runs only between records on the control goroutine; a failure
// here is unrecoverable since the frame boundary can no longer be trusted.
func (s *SessionT) _rotate() error {

	if err := s._flushFrame(); err != nil {
		return err
	}

	old := s.snk.Path()
	if err := s.snk.Rotate(); err != nil {
		return err
	}

	s.ctx.Reset(s.out)
	s.stats.rotations.Add(1)

	s.log.Info().
		Str("from", old).
		Str("to", s.snk.Path()).
		Msg("spool rotated")

	return nil
}

// _shutdown is the single exit path. On a clean end the final flush and
// close must succeed; after a fatal cause both still run best-effort so
// buffered bytes reach disk, but secondary failures are only logged and
// the original cause is returned.
func (s *SessionT) _shutdown(cause error) error {

	// A context that faulted is not trustworthy; skip its final flush.
	engineFault := cause != nil &&
		(errors.Is(cause, zerr.ErrEngine) || errors.Is(cause, zerr.ErrOverflow))

	if !engineFault {
		if err := s._flushFrame(); err != nil {
			if cause == nil {
				cause = err
			} else {
				s.log.Warn().Err(err).Msg("final flush failed")
			}
		}
	}

	if err := s.snk.Close(); err != nil {
		if cause == nil {
			cause = err
		} else {
			s.log.Warn().
				Err(err).
				Str("path", s.snk.Path()).
				Msg("spool close failed")
		}
	}

	s.log.Info().
		Int64("records", s.stats.records.Load()).
		Int64("bytes_in", s.stats.bytesIn.Load()).
		Int64("bytes_out", s.stats.bytesOut.Load()).
		Int64("rotations", s.stats.rotations.Load()).
		Msg("session done")

	return cause
}
