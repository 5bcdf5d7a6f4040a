// Package pipeline wires together the L1-L4 stages (internal/tarzst,
// internal/payload, internal/decode, internal/writer) into the bounded,
// concurrent snapshot-ingestion pipeline described in spec §4-§6: one
// decompressor, a pool of parsers, and two pools of writers connected by
// capacity-bounded channels, joined in dependency order by a supervisor
// goroutine (this package's Run).
package pipeline

import (
	"io"

	"github.com/yottaes/ssp/internal/decode"
	"github.com/yottaes/ssp/internal/filter"
)

// NewDecoders builds one fresh set of decoder instances. It is called
// once per parser goroutine: decoder instances are single-threaded
// exclusive and are never shared across parsers (spec §3, §4.3).
type NewDecoders func() []decode.Decoder

// DefaultDecoders returns the two built-in decoders (spec §4.3: mint and
// token account accounts owned by the SPL Token program).
func DefaultDecoders() []decode.Decoder {
	return []decode.Decoder{decode.NewMintDecoder(), decode.NewTokenAccountDecoder()}
}

// Config is the pipeline's configuration surface (spec §4.5, §6). The CLI
// argument surface that would populate it is explicitly out of scope
// (spec §1); cmd/ssp builds one of these directly.
type Config struct {
	// Source is the compressed tar stream to ingest.
	Source io.Reader
	// SourceSize, if known (e.g. from os.FileInfo.Size), enables a
	// percentage progress bar instead of a plain rate ticker.
	SourceSize int64

	// Filter selects which account headers are written to the accounts
	// output; it never affects decoder dispatch (spec §4.2 step e vs f).
	Filter filter.Resolved

	// Parsers, AccountsWriters, and DecodedWriters size the L2/L4 worker
	// pools. Non-positive values fall back to defaults.
	Parsers         int
	AccountsWriters int
	DecodedWriters  int

	// RawCapacity, AccountsCapacity, and DecodedCapacity size the
	// L1->L2, L2->L4a, and L2/L3->L4b channels respectively.
	RawCapacity      int
	AccountsCapacity int
	DecodedCapacity  int

	// OutputDir is the destination directory for every shard file;
	// created if missing.
	OutputDir string
	// FilePrefix, if set, is prepended to every shard file name (e.g.
	// "snap1_accounts_0.parquet"). Defaults to "".
	FilePrefix string

	// NewDecoders overrides the decoder set used by every parser.
	// Defaults to DefaultDecoders.
	NewDecoders NewDecoders
}

func (c Config) withDefaults() Config {
	if c.Parsers <= 0 {
		c.Parsers = 4
	}
	if c.AccountsWriters <= 0 {
		c.AccountsWriters = 1
	}
	if c.DecodedWriters <= 0 {
		c.DecodedWriters = 2
	}
	if c.RawCapacity <= 0 {
		c.RawCapacity = 128
	}
	if c.AccountsCapacity <= 0 {
		c.AccountsCapacity = 128
	}
	if c.DecodedCapacity <= 0 {
		c.DecodedCapacity = 256
	}
	if c.NewDecoders == nil {
		c.NewDecoders = DefaultDecoders
	}
	return c
}
