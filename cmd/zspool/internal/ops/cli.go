package ops

import "github.com/alecthomas/kong"

var CLI struct {
	Spool struct {
		Prefix  string `arg:"" help:"Spool file path prefix; files are named <prefix>.<pid>.<unix-time>"`
		Level   int    `help:"Compression level, minimum 1" default:"3" short:"l"`
		Workers int    `help:"Engine worker count, minimum 1" default:"1" short:"w"`
		Codec   string `help:"Compression codec [zstd, lz4]" default:"zstd"`
		NoCheck bool   `help:"Disable the frame integrity checksum"`
		Input   string `help:"Read records from file; use '-' for stdin" default:"-" short:"i"`
		OutCap  string `help:"Output buffer capacity" default:"8MiB"`
	} `cmd:"" aliases:"s,sp" help:"Compress newline-delimited records into rotating spool files; SIGHUP rotates"`
	Verify struct {
		File []string `arg:"" type:"existingfile" help:"Spool files to verify"`
	} `cmd:"" aliases:"v,ver" help:"Verify spool file frame integrity"`
	Bench struct {
		File     string `optional:"" arg:"" type:"existingfile" help:"Sample input; use '-' for stdin"`
		Codecs   string `help:"Codecs to sweep [zstd, lz4, brotli]" default:"zstd,lz4"`
		Levels   string `help:"Levels to sweep" default:"1,3,6,9"`
		Parallel int    `help:"Concurrent trials" default:"2" short:"p"`
	} `cmd:"" aliases:"b" help:"Compare codecs and levels on a sample"`

	LogLevel string           `help:"Log level [trace, debug, info, warn, error]" default:"info"`
	Version  kong.VersionFlag `help:"Print version and quit"`
}
