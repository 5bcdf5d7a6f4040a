// Package keys implements the 32-byte account identifier used throughout
// the snapshot pipeline: public keys, owner-program addresses, and
// record-owner addresses are all the same fixed-size Key type.
package keys

import (
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcutil/base58"
)

// Size is the fixed byte width of a Key.
const Size = 32

// Key is an opaque 32-byte identifier. Equality is byte equality; the
// zero value is the all-zero key (used by COption "absent" decoding,
// never a real on-chain identifier).
type Key [Size]byte

// FromBytes copies exactly Size bytes into a Key. It panics if b is
// shorter than Size, matching the teacher's "trust the wire contract"
// posture for a hot-path helper only ever called with pre-sliced input.
func FromBytes(b []byte) Key {
	var k Key
	copy(k[:], b[:Size])
	return k
}

// IsZero reports whether k is the all-zero key.
func (k Key) IsZero() bool {
	return k == Key{}
}

// String renders k as base58, the standard encoding for ledger
// identifiers.
func (k Key) String() string {
	return base58.Encode(k[:])
}

// Hex renders k as lowercase hex, useful for logging alongside raw
// wire dumps.
func (k Key) Hex() string {
	return hex.EncodeToString(k[:])
}

// Parse decodes a base58 string into a Key. It returns an error if the
// decoded payload is not exactly Size bytes.
func Parse(s string) (Key, error) {
	decoded := base58.Decode(s)
	if len(decoded) != Size {
		return Key{}, fmt.Errorf("keys: decoded base58 value is %d bytes, want %d", len(decoded), Size)
	}
	return FromBytes(decoded), nil
}
