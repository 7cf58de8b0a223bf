package zspool

import (
	"io"

	"github.com/rs/zerolog"

	"github.com/prequel-dev/zspool/internal/pkg/engine"
	"github.com/prequel-dev/zspool/internal/pkg/opts"
	"github.com/prequel-dev/zspool/internal/pkg/zerr"
)

// OptT is a function that sets an option on the session.
type OptT func(*opts.OptsT)

// CodecT selects the compression backend.
type CodecT = engine.CodecT

const (
	// zstd frames with CRC trailer; the default.
	CodecZstd = engine.CodecZstd

	// LZ4 frames with content checksum.
	CodecLZ4 = engine.CodecLZ4

	// Brotli streams; no in-format checksum, bench sweeps only.
	CodecBrotli = engine.CodecBrotli
)

// ParseCodec maps a codec name ("zstd", "lz4", "brotli") to its CodecT.
func ParseCodec(v string) (CodecT, error) {
	return engine.ParseCodec(v)
}

// Specify compression level, minimum 1.  Defaults to 3.
//
// The upper bound depends on the codec; levels beyond it clamp.
func WithLevel(lvl int) OptT {
	return func(o *opts.OptsT) {
		o.Level = lvl
	}
}

// Specify the context's internal worker count, minimum 1.  Defaults to 1.
//
//	1   Compress synchronously in the session goroutine
//	2+  Compress blocks on the engine's internal pool
func WithWorkers(n int) OptT {
	return func(o *opts.OptsT) {
		o.Workers = n
	}
}

// Select the compression codec.  Defaults to CodecZstd.
func WithCodec(codec CodecT) OptT {
	return func(o *opts.OptsT) {
		o.Codec = codec
	}
}

// Enable the frame integrity checksum.  Defaults to enabled.
func WithChecksum(enable bool) OptT {
	return func(o *opts.OptsT) {
		o.Checksum = enable
	}
}

// Specify the fixed output buffer capacity in bytes.  Defaults to 8 MiB.
//
// The capacity must be at least 1 MiB per engine worker so in-flight
// blocks always fit.
func WithOutputCap(n int) OptT {
	return func(o *opts.OptsT) {
		o.OutputCap = n
	}
}

// Specify the acknowledgement writer.  Defaults to io.Discard.
//
// The session writes one "OK" line after startup and one per durably
// written record; a producer paces itself on these.
func WithAckWriter(wr io.Writer) OptT {
	return func(o *opts.OptsT) {
		o.AckWr = wr
	}
}

// Specify a structured logger.  Defaults to a no-op logger.
func WithLogger(log zerolog.Logger) OptT {
	return func(o *opts.OptsT) {
		o.Logger = log
	}
}

// Specify a stop channel.  When it closes, the session finishes the record
// in flight, finalizes the frame, and Run returns nil as if the input had
// ended.
func WithStopC(stopC <-chan struct{}) OptT {
	return func(o *opts.OptsT) {
		o.StopC = stopC
	}
}

func parseOpts(optFuncs ...OptT) (opts.OptsT, error) {
	o := opts.DefaultOpts()

	for _, oFunc := range optFuncs {
		oFunc(&o)
	}

	switch {
	case o.Level < 1:
		return o, zerr.WrapConfig(zerr.ErrLevel)
	case o.Workers < 1:
		return o, zerr.WrapConfig(zerr.ErrWorkers)
	case o.OutputCap < o.MinOutputCap():
		return o, zerr.WrapConfig(zerr.ErrOutputCap)
	}

	return o, nil
}
