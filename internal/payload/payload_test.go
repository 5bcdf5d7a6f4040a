package payload

import (
	"encoding/binary"
	"testing"

	"github.com/yottaes/ssp/internal/batch"
	"github.com/yottaes/ssp/internal/decode"
	"github.com/yottaes/ssp/internal/filter"
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

// appendRecord writes one (header, data, pad8) tuple into buf and
// returns the extended slice, mirroring the wire tiling spec §3/§8.
func appendRecord(buf []byte, h header.AccountHeader, data []byte) []byte {
	h.DataLen = uint64(len(data))
	rec := make([]byte, header.Size)
	header.Encode(rec, h)
	buf = append(buf, rec...)
	buf = append(buf, data...)
	for len(buf)%8 != 0 {
		buf = append(buf, 0)
	}
	return buf
}

func TestParseEmptyBuffer(t *testing.T) {
	registry := decode.NewRegistry()
	decodedCh := make(chan *batch.RecordBatch, 1)
	var blocked uint64

	accounts := Parse(nil, filter.All, registry, decodedCh, &blocked)
	if len(accounts) != 0 {
		t.Fatalf("expected no accounts from empty buffer, got %d", len(accounts))
	}
}

func TestParseRoundTripTiling(t *testing.T) {
	registry := decode.NewRegistry()
	decodedCh := make(chan *batch.RecordBatch, 8)
	var blocked uint64

	want := []header.AccountHeader{
		{Pubkey: keyAt(0x01), Lamports: 1, Owner: keyAt(0xAA)},
		{Pubkey: keyAt(0x02), Lamports: 2, Owner: keyAt(0xBB)},
		{Pubkey: keyAt(0x03), Lamports: 3, Owner: keyAt(0xCC)},
	}

	var buf []byte
	for i, h := range want {
		buf = appendRecord(buf, h, make([]byte, i*3)) // varying data lengths exercise padding
	}

	got := Parse(buf, filter.All, registry, decodedCh, &blocked)
	if len(got) != len(want) {
		t.Fatalf("got %d headers, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].Pubkey != want[i].Pubkey || got[i].Owner != want[i].Owner {
			t.Fatalf("header %d mismatch: got %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestParseTrailingRemainderIgnored(t *testing.T) {
	registry := decode.NewRegistry()
	decodedCh := make(chan *batch.RecordBatch, 1)
	var blocked uint64

	buf := appendRecord(nil, header.AccountHeader{Pubkey: keyAt(0x01), Lamports: 1}, nil)
	buf = append(buf, make([]byte, header.Size-1)...) // strict remainder < header.Size

	got := Parse(buf, filter.All, registry, decodedCh, &blocked)
	if len(got) != 1 {
		t.Fatalf("expected exactly 1 header, got %d", len(got))
	}
}

func TestParseFilterExcludesDeadByDefault(t *testing.T) {
	registry := decode.NewRegistry()
	decodedCh := make(chan *batch.RecordBatch, 1)
	var blocked uint64

	resolved, err := filter.Resolve(filter.Spec{})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	buf := appendRecord(nil, header.AccountHeader{Pubkey: keyAt(0x01), Lamports: 0}, nil)
	buf = appendRecord(buf, header.AccountHeader{Pubkey: keyAt(0x02), Lamports: 5}, nil)

	got := Parse(buf, resolved, registry, decodedCh, &blocked)
	if len(got) != 1 {
		t.Fatalf("expected 1 live account, got %d", len(got))
	}
	if got[0].Pubkey != keyAt(0x02) {
		t.Fatalf("expected surviving header to be the live one, got %+v", got[0])
	}
}

func TestParseFilterByPubkey(t *testing.T) {
	registry := decode.NewRegistry()
	decodedCh := make(chan *batch.RecordBatch, 1)
	var blocked uint64

	target := keyAt(0x42)
	resolved, err := filter.Resolve(filter.Spec{Pubkey: target.String(), IncludeDead: true})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	var buf []byte
	for i := byte(1); i <= 5; i++ {
		pk := keyAt(i)
		if i == 2 || i == 4 {
			pk = target
		}
		buf = appendRecord(buf, header.AccountHeader{Pubkey: pk}, nil)
	}

	got := Parse(buf, resolved, registry, decodedCh, &blocked)
	if len(got) != 2 {
		t.Fatalf("expected exactly 2 matches, got %d", len(got))
	}
	for _, h := range got {
		if h.Pubkey != target {
			t.Fatalf("unexpected non-matching pubkey in result: %x", h.Pubkey)
		}
	}
}

func TestParseDecoderDispatchAndGenericAccountsCoexist(t *testing.T) {
	registry := decode.NewRegistry(decode.NewTokenAccountDecoder())
	decodedCh := make(chan *batch.RecordBatch, 8)
	var blocked uint64

	data := make([]byte, decode.TokenAccountSize)
	binary.LittleEndian.PutUint64(data[64:], 42) // amount field, arbitrary non-zero

	h := header.AccountHeader{Pubkey: keyAt(0x01), Owner: decode.TokenProgram, Lamports: 1}
	buf := appendRecord(nil, h, data)

	got := Parse(buf, filter.All, registry, decodedCh, &blocked)
	if len(got) != 1 {
		t.Fatalf("expected the header to still land in the generic accounts batch, got %d", len(got))
	}

	for i := 0; i < decode.BatchThreshold-1; i++ {
		Parse(appendRecord(nil, h, data), filter.All, registry, decodedCh, &blocked)
	}
	select {
	case b := <-decodedCh:
		if b.Table != "token_accounts" {
			t.Fatalf("Table = %q, want token_accounts", b.Table)
		}
	default:
		t.Fatal("expected a decoded batch to have been sent after crossing BatchThreshold")
	}
}

func TestParseUnmatchedOwnerStillCountedGeneric(t *testing.T) {
	// A decoder registered for TokenProgram with the wrong data_len must
	// not claim the header, but the header still lands in the generic
	// accounts batch (spec §9 open question b).
	registry := decode.NewRegistry(decode.NewMintDecoder())
	decodedCh := make(chan *batch.RecordBatch, 1)
	var blocked uint64

	h := header.AccountHeader{Pubkey: keyAt(0x01), Owner: decode.TokenProgram, Lamports: 1}
	buf := appendRecord(nil, h, make([]byte, 5)) // wrong length for mint (82)

	got := Parse(buf, filter.All, registry, decodedCh, &blocked)
	if len(got) != 1 {
		t.Fatalf("expected header in generic accounts batch despite no decoder match, got %d", len(got))
	}
	select {
	case b := <-decodedCh:
		t.Fatalf("expected no decoded batch, got %+v", b)
	default:
	}
}
