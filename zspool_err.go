package zspool

import (
	"errors"

	"github.com/prequel-dev/zspool/internal/pkg/zerr"
)

//  Forward declare internal errors

const (
	ErrConfig     = zerr.ErrConfig
	ErrLevel      = zerr.ErrLevel
	ErrWorkers    = zerr.ErrWorkers
	ErrCodec      = zerr.ErrCodec
	ErrPrefix     = zerr.ErrPrefix
	ErrOutputCap  = zerr.ErrOutputCap
	ErrAlloc      = zerr.ErrAlloc
	ErrEngine     = zerr.ErrEngine
	ErrStall      = zerr.ErrStall
	ErrFlushStall = zerr.ErrFlushStall
	ErrIO         = zerr.ErrIO
	ErrOverflow   = zerr.ErrOverflow
	ErrClosed     = zerr.ErrClosed
)

// Returns true if 'err' indicates a configuration problem caught before
// the session started.
func ConfigErr(err error) bool {
	return errors.Is(err, ErrConfig)
}

// Returns true if 'err' indicates the compression context faulted; its
// state is not recoverable and the session has shut down.
func EngineErr(err error) bool {
	return errors.Is(err, ErrEngine)
}
