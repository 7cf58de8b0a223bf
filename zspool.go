// Package zspool is a line-oriented streaming compressor. It reads
// newline-delimited records from an input stream, feeds them through an
// incremental compression context, and persists the frames to spool files
// named <prefix>.<pid>.<unix-time> that rotate on demand without losing or
// corrupting data. A one-line acknowledgement is emitted after startup and
// after each durably written record, giving the producer a pacing signal.
package zspool

import (
	"io"

	"github.com/prequel-dev/zspool/internal/pkg/session"
	"github.com/prequel-dev/zspool/internal/pkg/zerr"
)

// StatsT is a snapshot of session counters.
type StatsT = session.StatsT

type Spooler interface {
	// Run the control loop: read records, compress, drain to the spool
	// file, acknowledge. Blocks until clean end-of-input (nil), a stop
	// request (nil), or a fatal error.
	Run() error

	// Request a rotation: finalize the current frame, fsync and close the
	// current spool file, open the next. Safe from any goroutine; requests
	// coalesce, and the swap runs between records, never mid-record.
	Rotate()

	// Stats returns current counters. Safe to call concurrently with Run.
	Stats() StatsT

	// Path reports the currently open spool file.
	Path() string
}

// Construct a Spooler that reads records from 'rd' and writes compressed
// frames to files under 'prefix'. The first spool file is created here;
// acknowledgements begin when Run is called.
//
// Specify optional parameters in 'optFns'.
func New(rd io.Reader, prefix string, optFns ...OptT) (Spooler, error) {
	if prefix == "" {
		return nil, zerr.WrapConfig(zerr.ErrPrefix)
	}

	o, err := parseOpts(optFns...)
	if err != nil {
		return nil, err
	}

	s, err := session.NewSession(rd, prefix, o)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Spool runs a complete session through end-of-input and returns its final
// counters.
func Spool(rd io.Reader, prefix string, optFns ...OptT) (StatsT, error) {
	sp, err := New(rd, prefix, optFns...)
	if err != nil {
		return StatsT{}, err
	}

	err = sp.Run()
	return sp.Stats(), err
}
