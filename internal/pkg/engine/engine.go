package engine

import (
	"fmt"
	"io"
	"strings"

	"github.com/prequel-dev/zspool/internal/pkg/zerr"
)

// DirT selects the streaming mode of a Compress call.
type DirT byte

const (
	// DirContinue feeds input and leaves the frame open.
	DirContinue DirT = iota
	// DirEnd finalizes the frame, writing the trailer and checksum.
	DirEnd
)

// ResultT reports progress of one Compress call. Consumed is the count of
// src bytes accepted. Pending is the count of bytes the context still
// buffers internally after an end directive; the caller drains and repeats
// until it reaches zero.
type ResultT struct {
	Consumed int
	Pending  int
}

// CfgT fixes the context parameters. They cannot change after creation.
type CfgT struct {
	Level    int
	Workers  int
	Checksum bool
}

// CtxT is an incremental compression context bound to a destination writer.
// Compressed bytes are pushed to the destination as they are produced; a
// context with internal workers may do so from its own goroutines until an
// end directive completes.
type CtxT interface {
	Compress(src []byte, dir DirT) (ResultT, error)
	Reset(dst io.Writer)
}

// FactoryT creates a context writing to dst.
type FactoryT func(dst io.Writer, cfg CfgT) (CtxT, error)

type CodecT byte

const (
	CodecZstd CodecT = iota
	CodecLZ4
	CodecBrotli
)

func (c CodecT) String() string {
	switch c {
	case CodecZstd:
		return "zstd"
	case CodecLZ4:
		return "lz4"
	case CodecBrotli:
		return "brotli"
	}
	return "unknown"
}

func ParseCodec(v string) (CodecT, error) {
	switch strings.ToLower(v) {
	case "zstd":
		return CodecZstd, nil
	case "lz4":
		return CodecLZ4, nil
	case "brotli":
		return CodecBrotli, nil
	}
	return 0, fmt.Errorf("%w: %q", zerr.ErrCodec, v)
}

// New creates a context for the codec writing to dst.
func New(codec CodecT, dst io.Writer, cfg CfgT) (CtxT, error) {
	switch codec {
	case CodecZstd:
		return NewZstd(dst, cfg)
	case CodecLZ4:
		return NewLZ4(dst, cfg)
	case CodecBrotli:
		return NewBrotli(dst, cfg)
	}
	return nil, zerr.ErrCodec
}

// Factory returns a FactoryT bound to the codec.
func Factory(codec CodecT) FactoryT {
	return func(dst io.Writer, cfg CfgT) (CtxT, error) {
		return New(codec, dst, cfg)
	}
}
