package zerr

import "fmt"

type constError string

func (err constError) Error() string {
	return string(err)
}

const (
	ErrConfig     constError = "zspool bad config"
	ErrLevel      constError = "zspool bad compression level"
	ErrWorkers    constError = "zspool bad worker count"
	ErrCodec      constError = "zspool unknown codec"
	ErrPrefix     constError = "zspool empty path prefix"
	ErrOutputCap  constError = "zspool bad output buffer capacity"
	ErrAlloc      constError = "zspool fail create context"
	ErrEngine     constError = "zspool engine fail"
	ErrStall      constError = "zspool engine consumed no input"
	ErrFlushStall constError = "zspool flush did not converge"
	ErrIO         constError = "zspool io fail"
	ErrOverflow   constError = "zspool output buffer overflow"
	ErrClosed     constError = "zspool closed"
)

func WrapConfig(err error) error {
	return fmt.Errorf("%w: %w", ErrConfig, err)
}

func WrapEngine(err error) error {
	return fmt.Errorf("%w: %w", ErrEngine, err)
}

func WrapIO(err error) error {
	return fmt.Errorf("%w: %w", ErrIO, err)
}
