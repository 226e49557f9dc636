package ingest

import "fmt"

// BlockSpan is an inclusive block range.
type BlockSpan struct {
	From uint64
	To   uint64
}

// SplitSpan splits an inclusive block range into spans of at most batchSize
// blocks.
func SplitSpan(from, to, batchSize uint64) ([]BlockSpan, error) {
	if batchSize == 0 {
		return nil, fmt.Errorf("batch size must be greater than zero")
	}
	if to < from {
		return nil, fmt.Errorf("to block must be >= from block")
	}

	spans := make([]BlockSpan, 0)
	start := from
	for start <= to {
		end := to
		if remaining := to - start + 1; remaining > batchSize {
			end = start + batchSize - 1
		}
		spans = append(spans, BlockSpan{From: start, To: end})
		if end == to {
			break
		}
		start = end + 1
	}

	return spans, nil
}
