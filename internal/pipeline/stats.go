package pipeline

import "sync/atomic"

// Stats are the pipeline's final backpressure and throughput counters
// (spec §4.5, §6). They are non-authoritative health indicators, not
// part of the decoded data itself, and are always populated on return
// from Run even when Run also returns an error.
type Stats struct {
	// BlockedDecompressor counts sends to the raw-entry channel that
	// found it full.
	BlockedDecompressor uint64
	// BlockedAccounts counts sends to the accounts channel that found it
	// full.
	BlockedAccounts uint64
	// BlockedDecoded counts sends to the decoded-batch channel (from
	// either a parser mid-iteration or a decoder's final Flush) that
	// found it full.
	BlockedDecoded uint64
	// StarvedAccounts counts receives on the accounts channel that found
	// it empty.
	StarvedAccounts uint64
	// StarvedDecoded counts receives on the decoded-batch channel that
	// found it empty.
	StarvedDecoded uint64
	// RowsReceived is the total number of account headers accepted by
	// the configured filter.
	RowsReceived uint64
}

// counters holds the live atomic values mutated during a run; Stats is
// the immutable snapshot taken at the end.
type counters struct {
	blockedDecompressor uint64
	blockedAccounts     uint64
	blockedDecoded      uint64
	starvedAccounts     uint64
	starvedDecoded      uint64
	rowsReceived        uint64
}

func (c *counters) snapshot() Stats {
	return Stats{
		BlockedDecompressor: atomic.LoadUint64(&c.blockedDecompressor),
		BlockedAccounts:     atomic.LoadUint64(&c.blockedAccounts),
		BlockedDecoded:      atomic.LoadUint64(&c.blockedDecoded),
		StarvedAccounts:     atomic.LoadUint64(&c.starvedAccounts),
		StarvedDecoded:      atomic.LoadUint64(&c.starvedDecoded),
		RowsReceived:        atomic.LoadUint64(&c.rowsReceived),
	}
}
