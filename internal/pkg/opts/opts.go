package opts

import (
	"io"

	"github.com/rs/zerolog"

	"github.com/prequel-dev/zspool/internal/pkg/engine"
)

const (
	DefaultLevel     = 3
	DefaultWorkers   = 1
	DefaultOutputCap = 8 << 20

	// Largest single burst a backend writes to the output buffer; a 256 KiB
	// block plus frame overhead.
	BlockBound = 288 << 10
)

type OptsT struct {
	Level     int
	Workers   int
	Checksum  bool
	Codec     engine.CodecT
	OutputCap int
	AckWr     io.Writer
	Logger    zerolog.Logger
	StopC     <-chan struct{}
	Factory   engine.FactoryT
}

func DefaultOpts() OptsT {
	return OptsT{
		Level:     DefaultLevel,
		Workers:   DefaultWorkers,
		Checksum:  true,
		Codec:     engine.CodecZstd,
		OutputCap: DefaultOutputCap,
		AckWr:     io.Discard,
		Logger:    zerolog.Nop(),
	}
}

func (o OptsT) Cfg() engine.CfgT {
	return engine.CfgT{
		Level:    o.Level,
		Workers:  o.Workers,
		Checksum: o.Checksum,
	}
}

func (o OptsT) NewFactory() engine.FactoryT {
	if o.Factory != nil {
		return o.Factory
	}
	return engine.Factory(o.Codec)
}

// CalcChunk returns the input slice fed to the context per call. Draining
// after every call then keeps buffered output well under capacity. The
// floor is one block burst; feeding less per call only adds call overhead.
func (o OptsT) CalcChunk() int {
	chunk := o.OutputCap / 8
	if chunk < BlockBound {
		chunk = BlockBound
	}
	return chunk
}

// MinOutputCap is the smallest capacity safe for the worker count: one
// chunk of output plus one in-flight block per worker must fit with margin.
func (o OptsT) MinOutputCap() int {
	return o.Workers << 20
}
