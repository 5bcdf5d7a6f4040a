// Package decode implements the owner-keyed decoder registry (spec
// §4.3): a pluggable dispatch from an account's owner program to a set
// of decoders that project matching payloads into columnar RecordBatch
// rows.
package decode

import (
	"github.com/yottaes/ssp/internal/batch"
	"github.com/yottaes/ssp/internal/keys"
)

// BatchThreshold is the row count at which a decoder finalizes its
// column builders into a RecordBatch (spec §4.3: 8192-16384, one chosen
// constant).
const BatchThreshold = 8192

// Decoder is the capability set every pluggable account decoder
// implements (spec §4.3, §9 "model as a capability set").
type Decoder interface {
	// Name is the stable output table name, e.g. "mints".
	Name() string

	// Owner is the program Key this decoder claims.
	Owner() keys.Key

	// Matches reports whether this decoder should process an account
	// with the given owner and payload length. Combines owner equality
	// with expected payload length.
	Matches(owner keys.Key, dataLen uint64) bool

	// Decode appends one row built from pubkey/data. It returns a
	// non-nil batch when the accumulated row count crosses
	// BatchThreshold, nil otherwise.
	Decode(pubkey keys.Key, data []byte) *batch.RecordBatch

	// Flush finalizes whatever rows remain buffered, returning nil if
	// none are buffered.
	Flush() *batch.RecordBatch
}

// Registry maps an owner Key to the ordered list of decoders that claim
// it. Decoder instances are owned exclusively by one parser (spec §3
// "single-threaded-exclusive, not shared"); a Registry is therefore
// built fresh per parser from a constructor list, never shared.
type Registry struct {
	byOwner map[keys.Key][]Decoder
	all     []Decoder
}

// NewRegistry builds a registry from decoders, preserving registration
// order within each owner's bucket (spec: "Decoder matching precedence
// is registration order").
func NewRegistry(decoders ...Decoder) *Registry {
	reg := &Registry{
		byOwner: make(map[keys.Key][]Decoder, len(decoders)),
		all:     decoders,
	}
	for _, d := range decoders {
		owner := d.Owner()
		reg.byOwner[owner] = append(reg.byOwner[owner], d)
	}
	return reg
}

// Dispatch routes (pubkey, owner, data) to the first matching decoder
// registered for owner, per spec §4.2 step e ("stop after the first
// matching decoder per header"). It returns the emitted batch (if any)
// and whether any decoder was invoked at all. A decoder being invoked
// and a decoder actually accepting the payload are the same event here,
// since Matches is checked before Decode is called.
func (reg *Registry) Dispatch(pubkey, owner keys.Key, data []byte) (*batch.RecordBatch, bool) {
	for _, d := range reg.byOwner[owner] {
		if d.Matches(owner, uint64(len(data))) {
			return d.Decode(pubkey, data), true
		}
	}
	return nil, false
}

// FlushAll finalizes every registered decoder's remaining buffered rows.
// Returned batches exclude decoders with zero buffered rows.
func (reg *Registry) FlushAll() []*batch.RecordBatch {
	var out []*batch.RecordBatch
	for _, d := range reg.all {
		if b := d.Flush(); b != nil {
			out = append(out, b)
		}
	}
	return out
}
