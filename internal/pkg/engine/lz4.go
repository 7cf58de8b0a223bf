package engine

import (
	"fmt"
	"io"

	"github.com/pierrec/lz4/v4"

	"github.com/prequel-dev/zspool/internal/pkg/zerr"
)

type lz4CtxT struct {
	w     *lz4.Writer
	ended bool
}

func NewLZ4(dst io.Writer, cfg CfgT) (CtxT, error) {
	w := lz4.NewWriter(dst)

	// 256 KiB blocks keep single write bursts small relative to the
	// session's fixed output buffer.
	wopts := []lz4.Option{
		lz4.CompressionLevelOption(lz4Level(cfg.Level - 1)),
		lz4.ChecksumOption(cfg.Checksum),
		lz4.BlockSizeOption(lz4.Block256Kb),
	}
	if cfg.Workers != 1 {
		wopts = append(wopts, lz4.ConcurrencyOption(cfg.Workers))
	}

	if err := w.Apply(wopts...); err != nil {
		return nil, fmt.Errorf("%w: %w", zerr.ErrAlloc, err)
	}

	return &lz4CtxT{w: w}, nil
}

func (c *lz4CtxT) Compress(src []byte, dir DirT) (ResultT, error) {
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

func (c *lz4CtxT) Reset(dst io.Writer) {
	c.w.Reset(dst)
	c.ended = false
}

func lz4Level(l int) lz4.CompressionLevel {
	if l > 9 {
		l = 9
	}

	var lz4Level lz4.CompressionLevel
	switch l {
	case 0:
		lz4Level = lz4.Fast
	case 1:
		lz4Level = lz4.Level1
	case 2:
		lz4Level = lz4.Level2
	case 3:
		lz4Level = lz4.Level3
	case 4:
		lz4Level = lz4.Level4
	case 5:
		lz4Level = lz4.Level5
	case 6:
		lz4Level = lz4.Level6
	case 7:
		lz4Level = lz4.Level7
	case 8:
		lz4Level = lz4.Level8
	case 9:
		lz4Level = lz4.Level9
	default:
		panic("fail map lz4 compression level")
	}
	return lz4Level
}
