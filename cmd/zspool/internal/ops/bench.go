package ops

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gammazero/workerpool"
	"github.com/jedib0t/go-pretty/v6/progress"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/prequel-dev/zspool/internal/pkg/engine"
)

const benchChunk = 256 << 10

type trialT struct {
	codec engine.CodecT
	level int
	n     int64
	dur   time.Duration
	ddur  time.Duration
	err   error
}

func RunBench() error {

	src, err := _loadSample(CLI.Bench.File)
	if err != nil {
		return err
	}
	if len(src) == 0 {
		return errors.New("no data to bench")
	}

	codecs, err := _parseCodecs(CLI.Bench.Codecs)
	if err != nil {
		return err
	}

	levels, err := _parseLevels(CLI.Bench.Levels)
	if err != nil {
		return err
	}

	var trials []*trialT
	for _, c := range codecs {
		for _, l := range levels {
			trials = append(trials, &trialT{codec: c, level: l})
		}
	}

	pw := newProgressWriter(len(trials))
	go pw.Render()

	wp := workerpool.New(CLI.Bench.Parallel)

	for _, tr := range trials {
		tr := tr

		tk := &progress.Tracker{
			Message: fmt.Sprintf("%s level %d", tr.codec, tr.level),
			Total:   int64(len(src)),
			Units:   progress.UnitsBytes,
		}
		pw.AppendTracker(tk)

		wp.Submit(func() {
			tr.n, tr.dur, tr.ddur, tr.err = _benchOne(src, tr.codec, tr.level, tk)
			tk.MarkAsDone()
		})
	}

	wp.StopWait()

	for pw.IsRenderInProgress() {
		time.Sleep(time.Millisecond * 100)
	}

	return _benchResults(int64(len(src)), trials)
}

// _benchOne round-trips the sample through one codec and level in RAM,
// timing the compress and decompress halves separately.
func _benchOne(src []byte, codec engine.CodecT, level int, tk *progress.Tracker) (n int64, dur, ddur time.Duration, err error) {

	var (
		buf   bytes.Buffer
		start = time.Now()
	)

	ctx, err := engine.New(codec, &buf, engine.CfgT{Level: level, Workers: 1, Checksum: true})
	if err != nil {
		return
	}

	for off := 0; off < len(src); {
		end := off + benchChunk
		if end > len(src) {
			end = len(src)
		}

		var res engine.ResultT
		if res, err = ctx.Compress(src[off:end], engine.DirContinue); err != nil {
			return
		}
		off += res.Consumed
		tk.SetValue(int64(off))
	}

	if _, err = ctx.Compress(nil, engine.DirEnd); err != nil {
		return
	}

	var (
		split = time.Now()
		frd   io.ReadCloser
	)
	n = int64(buf.Len())
	dur = split.Sub(start)

	if frd, err = engine.NewReader(codec, &buf); err != nil {
		return
	}
	defer frd.Close()

	if _, err = io.Copy(io.Discard, frd); err != nil {
		return
	}

	ddur = time.Since(split)
	return
}

func _benchResults(srcSz int64, trials []*trialT) error {
	fmt.Println()

	t := table.NewWriter()
	t.SetTitle("Bench Results")
	t.SetStyle(table.StyleColoredBright)
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Codec", "Level", "SrcSize", "Compressed", "Ratio", "Compress", "Decompress"})

	var last engine.CodecT
	for i, tr := range trials {
		if i > 0 && tr.codec != last {
			t.AppendSeparator()
		}
		last = tr.codec

		if tr.err != nil {
			t.AppendRow(table.Row{tr.codec, tr.level, humanSz(srcSz), strUnset, strUnset, strUnset, tr.err.Error()})
			continue
		}

		percent := fmt.Sprintf("%.1f%%", float64(tr.n)/float64(srcSz)*100.0)
		t.AppendRow(table.Row{
			tr.codec, tr.level,
			humanSz(srcSz), humanSz(tr.n), percent,
			tr.dur.Round(time.Microsecond), tr.ddur.Round(time.Microsecond),
		})
	}

	t.Render()
	return nil
}

func newProgressWriter(nTrackers int) progress.Writer {
	pw := progress.NewWriter()
	pw.SetAutoStop(true)
	pw.SetMessageLength(24)
	pw.SetNumTrackersExpected(nTrackers)
	pw.SetSortBy(progress.SortByPercentDsc)
	pw.SetTrackerLength(25)
	pw.SetTrackerPosition(progress.PositionRight)
	pw.SetUpdateFrequency(time.Millisecond * 100)
	pw.Style().Visibility.ETA = true
	pw.Style().Visibility.Speed = true
	return pw
}

func _loadSample(name string) ([]byte, error) {
	if name == "" || name == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(name)
}

func _parseCodecs(v string) ([]engine.CodecT, error) {
	var codecs []engine.CodecT
	for _, s := range strings.Split(v, ",") {
		c, err := engine.ParseCodec(strings.TrimSpace(s))
		if err != nil {
			return nil, err
		}
		codecs = append(codecs, c)
	}
	return codecs, nil
}

func _parseLevels(v string) ([]int, error) {
	var levels []int
	for _, s := range strings.Split(v, ",") {
		l, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil || l < 1 {
			return nil, fmt.Errorf("invalid level '%s'", s)
		}
		levels = append(levels, l)
	}
	return levels, nil
}
