package workbook

import (
	"errors"
	"fmt"

	"github.com/rosterhq/rostertrack/pkg/serrors"
)

// ErrWorkerFailed marks a background decode that died before producing a
// result. Callers retry synchronously on it; genuine decode errors are
// returned as-is and retrying would not help.
var ErrWorkerFailed = serrors.NewError("WORKBOOK_WORKER_FAILED", "background decode worker failed")

// DecodeResult carries the outcome of a background decode.
type DecodeResult struct {
	Workbook *Workbook
	Err      error
}

// DecodeAsync runs DecodeBytes on a worker goroutine and delivers exactly
// one result on the returned channel. Worker crashes are converted into
// ErrWorkerFailed instead of taking the process down.
func DecodeAsync(data []byte) <-chan DecodeResult {
	ch := make(chan DecodeResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- DecodeResult{Err: fmt.Errorf("%w: %v", ErrWorkerFailed, r)}
			}
		}()
		wb, err := DecodeBytes(data)
		ch <- DecodeResult{Workbook: wb, Err: err}
	}()
	return ch
}

// DecodeAuto decodes on a worker goroutine when background decoding is on
// and the payload is at least threshold bytes, falling back to the
// synchronous path when the worker fails. Output is identical either way.
func DecodeAuto(data []byte, background bool, threshold int64) (*Workbook, error) {
	if background && int64(len(data)) >= threshold {
		res := <-DecodeAsync(data)
		if res.Err == nil {
			return res.Workbook, nil
		}
		if !errors.Is(res.Err, ErrWorkerFailed) {
			return nil, res.Err
		}
	}
	return DecodeBytes(data)
}
