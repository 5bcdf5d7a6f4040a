// Package payload implements the L2 account parser (spec §4.2): it
// iterates fixed-layout AccountHeader records out of a PayloadBuffer,
// applies the resolved filter, and routes each header's payload through
// the decoder registry.
package payload

import (
	"sync/atomic"

	"github.com/yottaes/ssp/internal/batch"
	"github.com/yottaes/ssp/internal/decode"
	"github.com/yottaes/ssp/internal/filter"
	"github.com/yottaes/ssp/internal/header"
)

// Parse iterates buf (one AppendVec's worth of packed account records),
// dispatching each header's payload to registry and appending
// filter-matching headers to the returned batch.
//
// Decoded batches produced by registry are sent on decodedCh as they're
// emitted (one decoder crossing BatchThreshold may fire mid-iteration);
// blockedDecoded is incremented whenever such a send would have blocked
// because decodedCh was full, matching spec §4.2 step e.
//
// The offset walk is O(len(buf)): each iteration advances by at least
// header.Size bytes, so a buffer with no valid records terminates
// immediately. A trailing remainder smaller than header.Size is silently
// ignored, per spec.
func Parse(buf []byte, resolved filter.Resolved, registry *decode.Registry, decodedCh chan<- *batch.RecordBatch, blockedDecoded *uint64) []header.AccountHeader {
	var accounts []header.AccountHeader

	offset := 0
	for offset+header.Size <= len(buf) {
		h := header.Decode(buf[offset : offset+header.Size])
		offset += header.Size

		if h.DataLen > uint64(len(buf)-offset) {
			// A malformed trailing record claims more data than the
			// buffer holds; stop here rather than slicing out of
			// bounds. Treated as end of valid records, matching the
			// spec's tolerance for a truncated trailing fragment.
			break
		}
		dataEnd := offset + int(h.DataLen)
		data := buf[offset:dataEnd]
		offset = dataEnd

		// Round up to the next 8-byte boundary.
		offset = (offset + 7) &^ 7

		if decoded, dispatched := registry.Dispatch(h.Pubkey, h.Owner, data); dispatched && decoded != nil {
			select {
			case decodedCh <- decoded:
			default:
				atomic.AddUint64(blockedDecoded, 1)
				decodedCh <- decoded
			}
		}

		if resolved.Matches(h) {
			accounts = append(accounts, h)
		}
	}

	return accounts
}
