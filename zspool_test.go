package zspool

import (
	"errors"
	"strings"
	"testing"
)

func TestParseOptsValidate(t *testing.T) {

	tests := map[string]struct {
		opts []OptT
		err  error
	}{
		"defaults": {},
		"level_floor": {
			opts: []OptT{WithLevel(0)},
			err:  ErrLevel,
		},
		"level_negative": {
			opts: []OptT{WithLevel(-3)},
			err:  ErrLevel,
		},
		"workers_floor": {
			opts: []OptT{WithWorkers(0)},
			err:  ErrWorkers,
		},
		"output_cap_floor": {
			opts: []OptT{WithOutputCap(64 << 10)},
			err:  ErrOutputCap,
		},
		"output_cap_vs_workers": {
			opts: []OptT{WithWorkers(4), WithOutputCap(2 << 20)},
			err:  ErrOutputCap,
		},
		"output_cap_fits_workers": {
			opts: []OptT{WithWorkers(4), WithOutputCap(4 << 20)},
		},
		"high_level_ok": {
			opts: []OptT{WithLevel(22)},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := parseOpts(tc.opts...)

			if !errors.Is(err, tc.err) {
				t.Fatalf("Expected err %v, got:%v", tc.err, err)
			}
			if err != nil && !ConfigErr(err) {
				t.Errorf("Expected ConfigErr, got:%v", err)
			}
		})
	}
}

func TestNewEmptyPrefix(t *testing.T) {

	_, err := New(strings.NewReader(""), "")
	if !errors.Is(err, ErrPrefix) {
		t.Fatalf("Expected ErrPrefix, got:%v", err)
	}
	if !ConfigErr(err) {
		t.Errorf("Expected ConfigErr, got:%v", err)
	}
}

func TestNewBadOpts(t *testing.T) {

	// Construction must fail before any spool file is created.
	_, err := New(strings.NewReader(""), "/nonexistent-dir/spool", WithLevel(0))
	if !errors.Is(err, ErrLevel) {
		t.Errorf("Expected ErrLevel, got:%v", err)
	}
}

func TestParseCodecNames(t *testing.T) {

	tests := map[string]struct {
		codec CodecT
		err   error
	}{
		"zstd":   {codec: CodecZstd},
		"lz4":    {codec: CodecLZ4},
		"brotli": {codec: CodecBrotli},
		"xz":     {err: ErrCodec},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			codec, err := ParseCodec(name)
			if !errors.Is(err, tc.err) {
				t.Fatalf("Expected err %v, got:%v", tc.err, err)
			}
			if err == nil && codec != tc.codec {
				t.Errorf("Expected codec %v, got:%v", tc.codec, codec)
			}
		})
	}
}

func TestErrHelpers(t *testing.T) {

	if ConfigErr(ErrEngine) {
		t.Errorf("Expected engine error to not match ConfigErr")
	}
	if !EngineErr(ErrEngine) {
		t.Errorf("Expected EngineErr match")
	}
	if EngineErr(nil) || ConfigErr(nil) {
		t.Errorf("Expected nil to match nothing")
	}
}
