package writer

import (
	"testing"

	"github.com/yottaes/ssp/internal/batch"
	"github.com/yottaes/ssp/internal/decode"
	"github.com/yottaes/ssp/internal/header"
	"github.com/yottaes/ssp/internal/keys"
)

func keyAt(b byte) keys.Key {
	var k keys.Key
	for i := range k {
		k[i] = b
	}
	return k
}

func TestAccountsWriterRoundTrip(t *testing.T) {
	dir := t.TempDir()

	w, err := NewAccountsWriter(dir, "", 0)
	if err != nil {
		t.Fatalf("NewAccountsWriter: %v", err)
	}

	headers := []header.AccountHeader{
		{Pubkey: keyAt(0x01), Owner: keyAt(0xAA), Lamports: 10, DataLen: 0, RentEpoch: 1},
		{Pubkey: keyAt(0x02), Owner: keyAt(0xBB), Lamports: 20, DataLen: 4, RentEpoch: 2, Executable: true},
	}
	if err := w.Write(headers); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	rows, err := VerifyShardRowCounts(dir, "", "accounts")
	if err != nil {
		t.Fatalf("VerifyShardRowCounts: %v", err)
	}
	if rows != int64(len(headers)) {
		t.Fatalf("rows = %d, want %d", rows, len(headers))
	}
}

func TestAccountsWriterSkipsEmptyBatch(t *testing.T) {
	dir := t.TempDir()
	w, err := NewAccountsWriter(dir, "", 0)
	if err != nil {
		t.Fatalf("NewAccountsWriter: %v", err)
	}
	if err := w.Write(nil); err != nil {
		t.Fatalf("Write(nil): %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	rows, err := VerifyShardRowCounts(dir, "", "accounts")
	if err != nil {
		t.Fatalf("VerifyShardRowCounts: %v", err)
	}
	if rows != 0 {
		t.Fatalf("rows = %d, want 0", rows)
	}
}

func TestDecodedWriterLazilyCreatesPerTableFiles(t *testing.T) {
	dir := t.TempDir()
	w := NewDecodedWriter(dir, "", 0)

	mintDecoder := decode.NewMintDecoder()
	mintDecoder.Decode(keyAt(0x01), make([]byte, decode.MintSize))
	mintBatch := mintDecoder.Flush()
	if mintBatch == nil {
		t.Fatal("expected a flushed mint batch")
	}

	if err := w.Write(mintBatch); err != nil {
		t.Fatalf("Write(mints): %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	rows, err := VerifyShardRowCounts(dir, "", "mints")
	if err != nil {
		t.Fatalf("VerifyShardRowCounts: %v", err)
	}
	if rows != 1 {
		t.Fatalf("rows = %d, want 1", rows)
	}

	tokenRows, err := VerifyShardRowCounts(dir, "", "token_accounts")
	if err != nil {
		t.Fatalf("VerifyShardRowCounts: %v", err)
	}
	if tokenRows != 0 {
		t.Fatalf("expected no token_accounts file to have been created, got %d rows", tokenRows)
	}
}

func TestDecodedWriterUnknownTable(t *testing.T) {
	dir := t.TempDir()
	w := NewDecodedWriter(dir, "", 0)
	err := w.Write(&batch.RecordBatch{Table: "unknown", Rows: 1, Columns: nil})
	if err == nil {
		t.Fatal("expected error writing an unrecognized table")
	}
}
