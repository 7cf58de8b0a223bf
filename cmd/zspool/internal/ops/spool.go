package ops

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"

	"github.com/prequel-dev/zspool"
)

func RunSpool(log zerolog.Logger) error {

	codec, err := zspool.ParseCodec(CLI.Spool.Codec)
	if err != nil {
		return err
	}
	if codec == zspool.CodecBrotli {
		return errors.New("brotli carries no integrity checksum; spool requires zstd or lz4")
	}

	outCap, err := humanize.ParseBytes(CLI.Spool.OutCap)
	if err != nil {
		return fmt.Errorf("invalid output capacity '%s': %w", CLI.Spool.OutCap, err)
	}

	rd, err := openInput(CLI.Spool.Input)
	if err != nil {
		return err
	}
	defer rd.Close()

	stopC := make(chan struct{})

	sp, err := zspool.New(rd, CLI.Spool.Prefix,
		zspool.WithLevel(CLI.Spool.Level),
		zspool.WithWorkers(CLI.Spool.Workers),
		zspool.WithCodec(codec),
		zspool.WithChecksum(!CLI.Spool.NoCheck),
		zspool.WithOutputCap(int(outCap)),
		zspool.WithAckWriter(os.Stdout),
		zspool.WithLogger(log),
		zspool.WithStopC(stopC),
	)
	if err != nil {
		return err
	}

	// SIGHUP requests a rotation; the swap happens on the session loop
	// between records. SIGINT and SIGTERM drain and exit cleanly.
	hupC := make(chan os.Signal, 1)
	signal.Notify(hupC, syscall.SIGHUP)
	go func() {
		for range hupC {
			sp.Rotate()
		}
	}()

	termC := make(chan os.Signal, 1)
	signal.Notify(termC, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-termC
		close(stopC)
	}()

	err = sp.Run()

	signal.Stop(hupC)
	signal.Stop(termC)

	return err
}

func openInput(name string) (io.ReadCloser, error) {
	if name == "" || name == "-" {
		return io.NopCloser(os.Stdin), nil
	}

	fh, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("cannot open source '%s': %w", name, err)
	}
	return fh, nil
}
