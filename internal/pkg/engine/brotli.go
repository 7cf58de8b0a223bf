package engine

import (
	"io"

	"github.com/andybalholm/brotli"

	"github.com/prequel-dev/zspool/internal/pkg/zerr"
)

type brotliCtxT struct {
	w     *brotli.Writer
	ended bool
}

// NewBrotli creates a brotli context. The stream format carries no integrity
// checksum and the encoder has no worker pool, so CfgT.Checksum and
// CfgT.Workers are ignored. Available to bench sweeps, not the spool path.
func NewBrotli(dst io.Writer, cfg CfgT) (CtxT, error) {
	q := cfg.Level
	if q > brotli.BestCompression {
		q = brotli.BestCompression
	}
	w := brotli.NewWriterOptions(dst, brotli.WriterOptions{Quality: q})
	return &brotliCtxT{w: w}, nil
}

func (c *brotliCtxT) Compress(src []byte, dir DirT) (ResultT, error) {
	var res ResultT

	if c.ended {
		if dir == DirEnd {
			return res, nil
		}
		return res, zerr.ErrClosed
	}

	if len(src) > 0 {
		n, err := c.w.Write(src)
		res.Consumed = n
		if err != nil {
			return res, zerr.WrapEngine(err)
		}
	}

	if dir == DirEnd {
		c.ended = true
		if err := c.w.Close(); err != nil {
			return res, zerr.WrapEngine(err)
		}
	}

	return res, nil
}

func (c *brotliCtxT) Reset(dst io.Writer) {
	c.w.Reset(dst)
	c.ended = false
}
