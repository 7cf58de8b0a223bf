package sink

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/prequel-dev/zspool/internal/pkg/zerr"
)

type fakeClockT struct {
	now time.Time
}

func (c *fakeClockT) Now() time.Time {
	return c.now
}

func (c *fakeClockT) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func newTestSink(t *testing.T, clk *fakeClockT) (*SinkT, string) {
	t.Helper()

	prefix := filepath.Join(t.TempDir(), "spool")

	s, err := NewSink(prefix, zerolog.Nop(), clk.Now)
	if err != nil {
		t.Fatalf("Expected nil error on NewSink, got:%v", err)
	}
	return s, prefix
}

// File names follow <prefix>.<pid>.<unix time>; opens within the same
// clock second get a sequence suffix instead of colliding.
func TestSinkNaming(t *testing.T) {

	var (
		clk  = &fakeClockT{now: time.Unix(1700000000, 0)}
		pid  = os.Getpid()
		s, p = newTestSink(t, clk)
	)
	defer s.Close()

	if want := fmt.Sprintf("%s.%d.%d", p, pid, 1700000000); s.Path() != want {
		t.Errorf("Expected %s, got:%s", want, s.Path())
	}

	if err := s.Rotate(); err != nil {
		t.Fatalf("Expected nil error on Rotate, got:%v", err)
	}
	if want := fmt.Sprintf("%s.%d.%d.1", p, pid, 1700000000); s.Path() != want {
		t.Errorf("Expected %s, got:%s", want, s.Path())
	}

	clk.Advance(time.Second)

	if err := s.Rotate(); err != nil {
		t.Fatalf("Expected nil error on Rotate, got:%v", err)
	}
	if want := fmt.Sprintf("%s.%d.%d", p, pid, 1700000001); s.Path() != want {
		t.Errorf("Expected %s, got:%s", want, s.Path())
	}
}

// Rotation flushes the outgoing segment before the swap; bytes written
// before and after land in their respective files.
func TestSinkRotateContents(t *testing.T) {

	clk := &fakeClockT{now: time.Unix(1700000000, 0)}
	s, _ := newTestSink(t, clk)

	first := s.Path()

	if _, err := s.Write([]byte("one")); err != nil {
		t.Fatalf("Expected nil error on Write, got:%v", err)
	}
	if err := s.Rotate(); err != nil {
		t.Fatalf("Expected nil error on Rotate, got:%v", err)
	}

	second := s.Path()

	if _, err := s.Write([]byte("two")); err != nil {
		t.Fatalf("Expected nil error on Write, got:%v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Expected nil error on Close, got:%v", err)
	}

	for path, want := range map[string]string{first: "one", second: "two"} {
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("Fail read %s: %v", path, err)
		}
		if string(data) != want {
			t.Errorf("Expected %q in %s, got:%q", want, path, data)
		}
	}
}

func TestSinkClosed(t *testing.T) {

	clk := &fakeClockT{now: time.Unix(1700000000, 0)}
	s, _ := newTestSink(t, clk)

	if err := s.Close(); err != nil {
		t.Fatalf("Expected nil error on Close, got:%v", err)
	}

	// Double close is a noop.
	if err := s.Close(); err != nil {
		t.Errorf("Expected nil error on double Close, got:%v", err)
	}

	if _, err := s.Write([]byte("late")); !errors.Is(err, zerr.ErrClosed) {
		t.Errorf("Expected ErrClosed on Write, got:%v", err)
	}
	if err := s.Rotate(); !errors.Is(err, zerr.ErrClosed) {
		t.Errorf("Expected ErrClosed on Rotate, got:%v", err)
	}
}

// A retire failure on the outgoing segment degrades durability but does
// not abort the rotation; the sink keeps writing forward.
func TestSinkDegradedRotate(t *testing.T) {

	clk := &fakeClockT{now: time.Unix(1700000000, 0)}
	s, _ := newTestSink(t, clk)

	if _, err := s.Write([]byte("stranded")); err != nil {
		t.Fatalf("Expected nil error on Write, got:%v", err)
	}

	// Yank the descriptor so the buffered flush inside Rotate fails.
	if err := s.f.Close(); err != nil {
		t.Fatalf("Fail close descriptor: %v", err)
	}

	if err := s.Rotate(); err != nil {
		t.Fatalf("Expected nil error on degraded Rotate, got:%v", err)
	}

	if _, err := s.Write([]byte("onward")); err != nil {
		t.Fatalf("Expected nil error on Write after rotate, got:%v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Expected nil error on Close, got:%v", err)
	}

	data, err := os.ReadFile(s.Path())
	if err != nil || string(data) != "onward" {
		t.Errorf("Expected onward in new segment, got:%q err:%v", data, err)
	}
}

// An existing file at the computed name fails the open loudly rather than
// overwriting a finished segment.
func TestSinkCollision(t *testing.T) {

	var (
		clk    = &fakeClockT{now: time.Unix(1700000000, 0)}
		prefix = filepath.Join(t.TempDir(), "spool")
		taken  = fmt.Sprintf("%s.%d.%d", prefix, os.Getpid(), 1700000000)
	)

	if err := os.WriteFile(taken, []byte("finished segment"), 0o644); err != nil {
		t.Fatalf("Fail seed file: %v", err)
	}

	if _, err := NewSink(prefix, zerolog.Nop(), clk.Now); !errors.Is(err, zerr.ErrIO) {
		t.Errorf("Expected ErrIO on collision, got:%v", err)
	}

	data, err := os.ReadFile(taken)
	if err != nil || string(data) != "finished segment" {
		t.Errorf("Expected seed file untouched, got:%q err:%v", data, err)
	}
}
