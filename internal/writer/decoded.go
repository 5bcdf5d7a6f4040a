package writer

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"

	"github.com/yottaes/ssp/internal/batch"
	"github.com/yottaes/ssp/internal/keys"
	"github.com/yottaes/ssp/internal/perr"
)

// tableWriter is the minimal capability a decoded-table writer needs:
// append one RecordBatch's rows, and finalize the file.
type tableWriter interface {
	write(b *batch.RecordBatch) error
	close() error
}

// DecodedWriter drains (table, RecordBatch) items onto one or more
// lazily-created per-table shard files (spec §4.4 "decoded writers").
type DecodedWriter struct {
	dir    string
	prefix string
	shard  int
	open   map[string]tableWriter
}

// NewDecodedWriter prepares a decoded-table writer for the given shard
// index; no files are created until the first batch for each table
// arrives.
func NewDecodedWriter(dir, prefix string, shard int) *DecodedWriter {
	return &DecodedWriter{dir: dir, prefix: prefix, shard: shard, open: make(map[string]tableWriter)}
}

// Write appends b's rows to this shard's file for b.Table, creating the
// file on first use with b's schema.
func (w *DecodedWriter) Write(b *batch.RecordBatch) error {
	if b == nil || b.Rows == 0 {
		return nil
	}
	tw, ok := w.open[b.Table]
	if !ok {
		var err error
		tw, err = newTableWriter(w.dir, w.prefix, b.Table, w.shard)
		if err != nil {
			return err
		}
		w.open[b.Table] = tw
	}
	return tw.write(b)
}

// Close finalizes every open per-table file.
func (w *DecodedWriter) Close() error {
	var firstErr error
	for _, tw := range w.open {
		if err := tw.close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func newTableWriter(dir, prefix, table string, shard int) (tableWriter, error) {
	switch table {
	case "mints":
		return newMintTableWriter(dir, prefix, shard)
	case "token_accounts":
		return newTokenAccountTableWriter(dir, prefix, shard)
	default:
		// Only decode.Decoder.Name() values the registry actually
		// constructs ("mints", "token_accounts") ever reach here; an
		// unrecognized table name is a decoded-record shape the writer
		// doesn't know, not a tar/archive framing problem, so it's
		// classified as RecordSize rather than ArchiveFormat.
		return nil, perr.New(perr.KindRecordSize, "writer.newTableWriter",
			fmt.Errorf("unknown decoded table %q", table))
	}
}

func createShardFile(dir, prefix, table string, shard int) (*os.File, string, error) {
	path := filepath.Join(dir, fmt.Sprintf("%s%s_%d.parquet", prefix, table, shard))
	f, err := os.Create(path)
	if err != nil {
		return nil, "", perr.New(perr.KindIO, "writer.createShardFile", err)
	}
	return f, path, nil
}

type mintTableWriter struct {
	file *os.File
	pw   *parquet.GenericWriter[MintRow]
}

func newMintTableWriter(dir, prefix string, shard int) (*mintTableWriter, error) {
	f, _, err := createShardFile(dir, prefix, "mints", shard)
	if err != nil {
		return nil, err
	}
	return &mintTableWriter{file: f, pw: parquet.NewGenericWriter[MintRow](f, writerOptions()...)}, nil
}

func (w *mintTableWriter) write(b *batch.RecordBatch) error {
	pubkeys := b.Columns[0].Data.([]keys.Key)
	mintAuthorities := b.Columns[1].Data.([]*keys.Key)
	freezeAuthorities := b.Columns[2].Data.([]*keys.Key)
	supplies := b.Columns[3].Data.([]uint64)
	decimals := b.Columns[4].Data.([]uint8)
	isInitialized := b.Columns[5].Data.([]bool)

	rows := make([]MintRow, b.Rows)
	for i := range rows {
		rows[i] = MintRow{
			Pubkey:          keyBytes(pubkeys[i]),
			MintAuthority:   nullableKeyBytes(mintAuthorities[i]),
			FreezeAuthority: nullableKeyBytes(freezeAuthorities[i]),
			Supply:          supplies[i],
			Decimals:        decimals[i],
			IsInitialized:   isInitialized[i],
		}
	}
	if _, err := w.pw.Write(rows); err != nil {
		return perr.New(perr.KindIO, "writer.mintTableWriter.write", err)
	}
	return nil
}

func (w *mintTableWriter) close() error {
	if err := w.pw.Close(); err != nil {
		w.file.Close()
		return perr.New(perr.KindIO, "writer.mintTableWriter.close", err)
	}
	if err := w.file.Close(); err != nil {
		return perr.New(perr.KindIO, "writer.mintTableWriter.close", err)
	}
	return nil
}

type tokenAccountTableWriter struct {
	file *os.File
	pw   *parquet.GenericWriter[TokenAccountRow]
}

func newTokenAccountTableWriter(dir, prefix string, shard int) (*tokenAccountTableWriter, error) {
	f, _, err := createShardFile(dir, prefix, "token_accounts", shard)
	if err != nil {
		return nil, err
	}
	return &tokenAccountTableWriter{file: f, pw: parquet.NewGenericWriter[TokenAccountRow](f, writerOptions()...)}, nil
}

func (w *tokenAccountTableWriter) write(b *batch.RecordBatch) error {
	pubkeys := b.Columns[0].Data.([]keys.Key)
	mints := b.Columns[1].Data.([]keys.Key)
	owners := b.Columns[2].Data.([]keys.Key)
	amounts := b.Columns[3].Data.([]uint64)
	delegates := b.Columns[4].Data.([]*keys.Key)
	states := b.Columns[5].Data.([]uint8)
	isNative := b.Columns[6].Data.([]*uint64)
	delegatedAmounts := b.Columns[7].Data.([]uint64)
	closeAuthorities := b.Columns[8].Data.([]*keys.Key)

	rows := make([]TokenAccountRow, b.Rows)
	for i := range rows {
		rows[i] = TokenAccountRow{
			Pubkey:          keyBytes(pubkeys[i]),
			Mint:            keyBytes(mints[i]),
			Owner:           keyBytes(owners[i]),
			Amount:          amounts[i],
			Delegate:        nullableKeyBytes(delegates[i]),
			State:           states[i],
			IsNative:        isNative[i],
			DelegatedAmount: delegatedAmounts[i],
			CloseAuthority:  nullableKeyBytes(closeAuthorities[i]),
		}
	}
	if _, err := w.pw.Write(rows); err != nil {
		return perr.New(perr.KindIO, "writer.tokenAccountTableWriter.write", err)
	}
	return nil
}

func (w *tokenAccountTableWriter) close() error {
	if err := w.pw.Close(); err != nil {
		w.file.Close()
		return perr.New(perr.KindIO, "writer.tokenAccountTableWriter.close", err)
	}
	if err := w.file.Close(); err != nil {
		return perr.New(perr.KindIO, "writer.tokenAccountTableWriter.close", err)
	}
	return nil
}
