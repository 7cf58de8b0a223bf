package ack

import (
	"bytes"
	"errors"
	"testing"

	"github.com/prequel-dev/zspool/internal/pkg/zerr"
)

func TestEmit(t *testing.T) {

	var (
		buf   bytes.Buffer
		acker = NewAcker(&buf)
	)

	for i := 0; i < 3; i++ {
		if err := acker.Emit(); err != nil {
			t.Fatalf("Expected nil error on Emit, got:%v", err)
		}
	}

	if buf.String() != "OK\nOK\nOK\n" {
		t.Errorf("Expected 3 tokens, got:%q", buf.String())
	}
	if acker.Count() != 3 {
		t.Errorf("Expected count 3, got:%d", acker.Count())
	}
}

type failWrT struct{}

func (failWrT) Write(p []byte) (int, error) {
	return 0, errors.New("gone")
}

func TestEmitFail(t *testing.T) {

	acker := NewAcker(failWrT{})

	if err := acker.Emit(); !errors.Is(err, zerr.ErrIO) {
		t.Errorf("Expected ErrIO, got:%v", err)
	}
	if acker.Count() != 0 {
		t.Errorf("Expected count 0 after failed emit, got:%d", acker.Count())
	}
}
