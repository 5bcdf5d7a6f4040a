// Package header defines the fixed-layout on-wire AccountHeader record
// and the startup (package init) size assertion that guards it (spec §3,
// §9).
package header

import (
	"encoding/binary"

	"github.com/yottaes/ssp/internal/keys"
)

// Size is the exact on-wire byte width of an AccountHeader.
const Size = 136

// AccountHeader is a 136-byte fixed-layout record read directly off the
// wire in little-endian byte order. It is followed by exactly DataLen
// payload bytes, then zero-padding to the next 8-byte boundary.
type AccountHeader struct {
	WriteVersion uint64
	DataLen      uint64
	Pubkey       keys.Key
	Lamports     uint64
	RentEpoch    uint64
	Owner        keys.Key
	Executable   bool
	Hash         [32]byte
}

// field offsets within the 136-byte record, per spec §3.
const (
	offWriteVersion = 0
	offDataLen      = 8
	offPubkey       = 16
	offLamports     = 48
	offRentEpoch    = 56
	offOwner        = 64
	offExecutable   = 96
	// offPadding = 97, 7 bytes, unused
	offHash = 104
)

func init() {
	// Static layout assertion: the offsets above must exactly tile the
	// documented 136-byte record (spec §4.3's "compile-time (or startup)
	// assertion" requirement, applied here to the header itself as well
	// as the decoders in internal/decode).
	if offHash+32 != Size {
		panic("header: AccountHeader offset layout does not sum to 136 bytes")
	}
}

// Decode reinterprets buf[:Size] as an AccountHeader. The caller must
// ensure len(buf) >= Size; Decode does not allocate and does not copy
// the Pubkey/Owner/Hash fields beyond the fixed-size arrays themselves.
func Decode(buf []byte) AccountHeader {
	_ = buf[Size-1] // bounds check hint, mirrors encoding/binary idioms

	var h AccountHeader
	h.WriteVersion = binary.LittleEndian.Uint64(buf[offWriteVersion:])
	h.DataLen = binary.LittleEndian.Uint64(buf[offDataLen:])
	h.Pubkey = keys.FromBytes(buf[offPubkey : offPubkey+keys.Size])
	h.Lamports = binary.LittleEndian.Uint64(buf[offLamports:])
	h.RentEpoch = binary.LittleEndian.Uint64(buf[offRentEpoch:])
	h.Owner = keys.FromBytes(buf[offOwner : offOwner+keys.Size])
	h.Executable = buf[offExecutable] != 0
	copy(h.Hash[:], buf[offHash:offHash+32])
	return h
}

// Encode writes h into buf[:Size] in the wire layout, the inverse of
// Decode. Used by synthetic fixture builders.
func Encode(buf []byte, h AccountHeader) {
	_ = buf[Size-1]

	binary.LittleEndian.PutUint64(buf[offWriteVersion:], h.WriteVersion)
	binary.LittleEndian.PutUint64(buf[offDataLen:], h.DataLen)
	copy(buf[offPubkey:offPubkey+keys.Size], h.Pubkey[:])
	binary.LittleEndian.PutUint64(buf[offLamports:], h.Lamports)
	binary.LittleEndian.PutUint64(buf[offRentEpoch:], h.RentEpoch)
	copy(buf[offOwner:offOwner+keys.Size], h.Owner[:])
	if h.Executable {
		buf[offExecutable] = 1
	} else {
		buf[offExecutable] = 0
	}
	// padding bytes (offExecutable+1 .. offHash) left zero.
	copy(buf[offHash:offHash+32], h.Hash[:])
}
