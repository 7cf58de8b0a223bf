package main

import (
	"fmt"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"

	"github.com/prequel-dev/zspool/cmd/zspool/internal/ops"
)

var version = "dev"

func main() {

	var (
		errS string
		kctx = kong.Parse(&ops.CLI,
			kong.Name("zspool"),
			kong.Description("Line-oriented streaming compressor with rotating spool files"),
			kong.Vars{"version": version},
		)
		log = newLogger(ops.CLI.LogLevel)
	)

	switch kctx.Command() {
	case "spool <prefix>":
		if err := ops.RunSpool(log); err != nil {
			errS = fmt.Sprintf("fail spool: %v", err)
		}
	case "verify <file>":
		if err := ops.RunVerify(); err != nil {
			errS = fmt.Sprintf("fail verify: %v", err)
		}
	case "bench", "bench <file>":
		if err := ops.RunBench(); err != nil {
			errS = fmt.Sprintf("fail bench: %v", err)
		}
	default:
		errS = fmt.Sprintf("unknown command '%s'", kctx.Command())
	}

	if errS != "" {
		fmt.Fprintf(os.Stderr, "zspool: %s\n", errS)
		os.Exit(1)
	}
}

// newLogger writes to stderr; stdout is reserved for acknowledgements.
func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}).Level(lvl).With().Timestamp().Logger()
}
