package decode

import (
	"encoding/binary"

	"github.com/yottaes/ssp/internal/keys"
)

// coptionKeySize is the wire size of a COption<Pubkey>: a 4-byte
// little-endian tag (0 = absent, 1 = present) followed by 32 key bytes.
const coptionKeySize = 4 + keys.Size

// coptionU64Size is the wire size of a COption<u64>: a 4-byte tag
// followed by an 8-byte value.
const coptionU64Size = 4 + 8

// decodeCOptionKey reads a 36-byte tagged-union field. It returns
// (key, true) when the tag is 1, or (zero, false) when the tag is 0 (or
// any other non-1 value, treated as absent per the wire contract).
func decodeCOptionKey(b []byte) (keys.Key, bool) {
	_ = b[coptionKeySize-1]
	tag := binary.LittleEndian.Uint32(b[0:4])
	if tag != 1 {
		return keys.Key{}, false
	}
	return keys.FromBytes(b[4 : 4+keys.Size]), true
}

// decodeCOptionU64 reads a 12-byte tagged-union field (4-byte tag +
// 8-byte value).
func decodeCOptionU64(b []byte) (uint64, bool) {
	_ = b[coptionU64Size-1]
	tag := binary.LittleEndian.Uint32(b[0:4])
	if tag != 1 {
		return 0, false
	}
	return binary.LittleEndian.Uint64(b[4:12]), true
}
