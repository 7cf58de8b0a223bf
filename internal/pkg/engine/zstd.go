package engine

import (
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"

	"github.com/prequel-dev/zspool/internal/pkg/zerr"
)

type zstdCtxT struct {
	enc   *zstd.Encoder
	ended bool
}

// NewZstd creates a zstd context. Workers of 1 encodes synchronously in the
// calling goroutine; higher counts enable the encoder's internal pool, which
// writes to dst from its own goroutines.
func NewZstd(dst io.Writer, cfg CfgT) (CtxT, error) {
	enc, err := zstd.NewWriter(dst,
		zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(cfg.Level)),
		zstd.WithEncoderCRC(cfg.Checksum),
		zstd.WithEncoderConcurrency(cfg.Workers),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", zerr.ErrAlloc, err)
	}
	return &zstdCtxT{enc: enc}, nil
}

func (c *zstdCtxT) Compress(src []byte, dir DirT) (ResultT, error) {
	var res ResultT

	if c.ended {
		if dir == DirEnd {
			return res, nil
		}
		return res, zerr.ErrClosed
	}

	if len(src) > 0 {
		n, err := c.enc.Write(src)
		res.Consumed = n
		if err != nil {
			return res, zerr.WrapEngine(err)
		}
	}

	if dir == DirEnd {
		// Close blocks until every worker has flushed, then writes the
		// frame trailer. Nothing remains pending afterwards.
		c.ended = true
		if err := c.enc.Close(); err != nil {
			return res, zerr.WrapEngine(err)
		}
	}

	return res, nil
}

func (c *zstdCtxT) Reset(dst io.Writer) {
	c.enc.Reset(dst)
	c.ended = false
}
