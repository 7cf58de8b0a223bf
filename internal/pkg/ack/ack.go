package ack

import (
	"io"

	"github.com/prequel-dev/zspool/internal/pkg/zerr"
)

// Token is the one-line acknowledgement emitted once after startup and once
// per durably written record. It is the producer's sole pacing signal.
var Token = []byte("OK\n")

type AckerT struct {
	wr io.Writer
	n  int64
}

func NewAcker(wr io.Writer) *AckerT {
	return &AckerT{wr: wr}
}

// Emit writes one token. A failed emit breaks the pacing contract with the
// producer and is fatal.
func (a *AckerT) Emit() error {
	if _, err := a.wr.Write(Token); err != nil {
		return zerr.WrapIO(err)
	}
	a.n++
	return nil
}

func (a *AckerT) Count() int64 {
	return a.n
}
