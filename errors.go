package colscan

import (
	"errors"
	"fmt"

	"github.com/hupe1980/colscan/blobstore"
	"github.com/hupe1980/colscan/internal/chunk"
	"github.com/hupe1980/colscan/internal/filter"
	"github.com/hupe1980/colscan/internal/measure"
	"github.com/hupe1980/colscan/internal/offheap"
	"github.com/hupe1980/colscan/internal/resource"
)

var (
	// ErrUnsupportedValueKind is returned when a codec cannot produce the
	// requested value kind.
	ErrUnsupportedValueKind = measure.ErrUnsupportedValueKind

	// ErrFilterUnsupported is returned for predicates that cannot be
	// evaluated, including pages that fail to decode.
	ErrFilterUnsupported = filter.ErrFilterUnsupported

	// ErrUseAfterRelease is the panic value (wrapped) of reads from a
	// released off-heap store.
	ErrUseAfterRelease = offheap.ErrUseAfterRelease

	// ErrAlreadyPopulated is returned when a store is populated twice.
	ErrAlreadyPopulated = chunk.ErrAlreadyPopulated

	// ErrMemoryLimitExceeded is returned when off-heap memory would exceed
	// the configured limit.
	ErrMemoryLimitExceeded = resource.ErrMemoryLimitExceeded

	// ErrNotFound is returned when a chunk file does not exist.
	ErrNotFound = blobstore.ErrNotFound

	// ErrInvalidParallelism is returned for a parallelism below one.
	ErrInvalidParallelism = errors.New("parallelism must be positive")
)

// ErrBlockScan reports the block whose scan failed.
//
// The underlying error can be accessed via errors.Unwrap.
type ErrBlockScan struct {
	Block int
	cause error
}

func (e *ErrBlockScan) Error() string {
	return fmt.Sprintf("scan block %d: %v", e.Block, e.cause)
}

func (e *ErrBlockScan) Unwrap() error { return e.cause }

func translateError(block int, err error) error {
	if err == nil {
		return nil
	}
	var bs *ErrBlockScan
	if errors.As(err, &bs) {
		return err
	}
	return &ErrBlockScan{Block: block, cause: err}
}
