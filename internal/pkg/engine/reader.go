package engine

import (
	"bytes"
	"io"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/prequel-dev/zspool/internal/pkg/zerr"
)

var (
	magicZstd = []byte{0x28, 0xb5, 0x2f, 0xfd}
	magicLZ4  = []byte{0x04, 0x22, 0x4d, 0x18}
)

// Sniff reports the codec of a spool file from its leading frame magic.
// Brotli streams carry no magic and cannot be sniffed.
func Sniff(hdr []byte) (CodecT, error) {
	switch {
	case bytes.HasPrefix(hdr, magicZstd):
		return CodecZstd, nil
	case bytes.HasPrefix(hdr, magicLZ4):
		return CodecLZ4, nil
	}
	return 0, zerr.ErrCodec
}

// NewReader decodes a stream produced by a context of the same codec,
// validating block structure and checksums as it reads.
func NewReader(codec CodecT, rd io.Reader) (io.ReadCloser, error) {
	switch codec {
	case CodecZstd:
		dec, err := zstd.NewReader(rd)
		if err != nil {
			return nil, zerr.WrapEngine(err)
		}
		return dec.IOReadCloser(), nil
	case CodecLZ4:
		return io.NopCloser(lz4.NewReader(rd)), nil
	case CodecBrotli:
		return io.NopCloser(brotli.NewReader(rd)), nil
	}
	return nil, zerr.ErrCodec
}
