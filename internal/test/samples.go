package test

import (
	"bytes"
	"crypto/sha256"
	"embed"
	"encoding/hex"
	"fmt"
	"io"
	"testing"
)

//go:embed samples/*
var content embed.FS

const (
	SmallLog = iota
	LargeLog
	LongLine
	Unterminated
)

var (
	cacheSmallLog = readAll("samples/syslog.txt")
	cacheLargeLog = genLines(1 << 14)
)

// Various line-oriented samples for testing different use cases
func LoadSample(t testing.TB, ty int) ([]byte, string) {

	switch ty {
	case SmallLog:
		return cacheSmallLog, Sha2sum(cacheSmallLog)
	case LargeLog:
		return cacheLargeLog, Sha2sum(cacheLargeLog)
	case LongLine:
		return genLongLine()
	case Unterminated:
		data := bytes.TrimSuffix(cacheSmallLog, []byte("\n"))
		return data, Sha2sum(data)
	}

	t.Fatalf("Cannot find sample")
	return nil, ""
}

// CountLines reports the record count a spool session would see, counting
// an unterminated tail as one record.
func CountLines(data []byte) int64 {
	if len(data) == 0 {
		return 0
	}
	n := int64(bytes.Count(data, []byte("\n")))
	if data[len(data)-1] != '\n' {
		n++
	}
	return n
}

func readAll(name string) []byte {
	fh, err := content.Open(name)
	if err != nil {
		panic(err)
	}
	defer fh.Close()
	data, err := io.ReadAll(fh)
	if err != nil {
		panic(err)
	}
	return data
}

// genLines produces a deterministic line-oriented corpus; repeated shapes
// with rolling counters so it compresses like real traffic.
func genLines(n int) []byte {

	var (
		buf   bytes.Buffer
		hosts = []string{"host-a01", "host-b07", "host-c02", "host-d11"}
		msgs  = []string{
			`level=info msg="batch committed" n=%d lag=%dms`,
			`level=warn msg="slow query" table=events dur=%dms attempt=%d`,
			`level=info msg="listener accepted" fd=%d peer=10.20.9.%d`,
			`level=error msg="upstream timeout" service=billing attempt=%d code=%d`,
		}
	)

	for i := 0; i < n; i++ {
		fmt.Fprintf(&buf, "2026-03-14T07:%02d:%02d.%03dZ %s app[2044]: ",
			(i/60)%60, i%60, (i*7)%1000, hosts[i%len(hosts)])
		fmt.Fprintf(&buf, msgs[i%len(msgs)], i%500, (i*3)%250)
		buf.WriteByte('\n')
	}

	return buf.Bytes()
}

// genLongLine produces a single record larger than the line reader's
// initial buffer, exercising record growth and chunked compression.
func genLongLine() ([]byte, string) {

	var buf bytes.Buffer
	buf.WriteString(`2026-03-14T07:42:00.000Z host-a01 app[2044]: level=debug msg="dump" payload=`)

	for buf.Len() < 300<<10 {
		fmt.Fprintf(&buf, "%08x", buf.Len())
	}
	buf.WriteByte('\n')

	data := buf.Bytes()
	return data, Sha2sum(data)
}

func Sha2sum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
