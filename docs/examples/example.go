package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/prequel-dev/zspool"
)

// Demonstrate spooling a line-oriented stream into rotating zstd frames.
func main() {

	dir, err := os.MkdirTemp("", "zspool")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(dir)

	// Each spool file is named <prefix>.<pid>.<unix time>.
	prefix := filepath.Join(dir, "app.log")

	// Records are newline delimited; the trailing delimiter is preserved.
	src := strings.NewReader("alpha\nbeta\ngamma\n")

	sp, err := zspool.New(src, prefix,
		zspool.WithLevel(3),
		zspool.WithCodec(zspool.CodecZstd),
		zspool.WithAckWriter(os.Stdout), // "OK" on start and per durable record
	)
	if err != nil {
		panic(err)
	}

	// Rotation requests coalesce and are honored between records.
	// Queueing one up front splits the stream across two files.
	sp.Rotate()

	// Run consumes the stream until EOF, then flushes the final frame.
	if err := sp.Run(); err != nil {
		panic(err)
	}

	stats := sp.Stats()
	fmt.Printf("records=%d in=%d out=%d rotations=%d\n",
		stats.Records, stats.BytesIn, stats.BytesOut, stats.Rotations)

	// The spool files are ordinary zstd frames.
	files, _ := filepath.Glob(prefix + ".*")
	for _, f := range files {
		fmt.Println(f)
	}
}
