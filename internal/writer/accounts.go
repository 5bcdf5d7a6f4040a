package writer

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"

	"github.com/yottaes/ssp/internal/header"
	"github.com/yottaes/ssp/internal/perr"
)

// maxRowsPerRowGroup is the spec's "max row-group size ~= 1,000,000
// rows" (§4.4, §6), shared by every table's writer.
const maxRowsPerRowGroup = 1_000_000

func writerOptions() []parquet.WriterOption {
	return []parquet.WriterOption{
		parquet.Compression(&parquet.Snappy),
		parquet.MaxRowsPerRowGroup(maxRowsPerRowGroup),
	}
}

// AccountsWriter owns one shard's "accounts_<i>.parquet" output file
// (spec §4.4 "accounts writers").
type AccountsWriter struct {
	file *os.File
	pw   *parquet.GenericWriter[AccountRow]
	path string
}

// NewAccountsWriter creates <prefix>accounts_<shard>.parquet under dir.
// An empty prefix yields the bare "accounts_<shard>.parquet" name.
func NewAccountsWriter(dir, prefix string, shard int) (*AccountsWriter, error) {
	path := filepath.Join(dir, fmt.Sprintf("%saccounts_%d.parquet", prefix, shard))
	f, err := os.Create(path)
	if err != nil {
		return nil, perr.New(perr.KindIO, "writer.NewAccountsWriter", err)
	}
	pw := parquet.NewGenericWriter[AccountRow](f, writerOptions()...)
	return &AccountsWriter{file: f, pw: pw, path: path}, nil
}

// Write appends one non-empty batch of headers as rows.
func (w *AccountsWriter) Write(headers []header.AccountHeader) error {
	if len(headers) == 0 {
		return nil
	}
	rows := make([]AccountRow, len(headers))
	for i, h := range headers {
		rows[i] = AccountRow{
			Pubkey:     keyBytes(h.Pubkey),
			Lamports:   h.Lamports,
			Owner:      keyBytes(h.Owner),
			DataLen:    h.DataLen,
			Executable: h.Executable,
			RentEpoch:  h.RentEpoch,
		}
	}
	if _, err := w.pw.Write(rows); err != nil {
		return perr.New(perr.KindIO, "writer.AccountsWriter.Write", err)
	}
	return nil
}

// Close finalizes the Parquet file footer and closes the underlying
// file. Per spec §9 open question (a), writes are not fsync'd.
func (w *AccountsWriter) Close() error {
	if err := w.pw.Close(); err != nil {
		w.file.Close()
		return perr.New(perr.KindIO, "writer.AccountsWriter.Close", err)
	}
	if err := w.file.Close(); err != nil {
		return perr.New(perr.KindIO, "writer.AccountsWriter.Close", err)
	}
	return nil
}
