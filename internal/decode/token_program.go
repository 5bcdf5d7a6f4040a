package decode

import "github.com/yottaes/ssp/internal/keys"

// TokenProgram is the owner address shared by the mint and token-account
// record shapes (spec §4.3). The two decoders registered against it are
// disambiguated purely by payload length: MintSize vs TokenAccountSize.
var TokenProgram = keys.Key{
	6, 221, 246, 225, 215, 101, 161, 147, 217, 203, 225, 70, 206, 235, 121, 172,
	28, 180, 133, 237, 95, 91, 55, 145, 58, 140, 245, 133, 126, 255, 0, 169,
}

const (
	// MintSize is the on-wire byte width of a mint record.
	MintSize = 82
	// TokenAccountSize is the on-wire byte width of a token-account
	// record.
	TokenAccountSize = 165
)

func init() {
	// Startup size assertions, per spec §4.3.
	if mintWireSize() != MintSize {
		panic("decode: mint record layout does not sum to 82 bytes")
	}
	if tokenAccountWireSize() != TokenAccountSize {
		panic("decode: token-account record layout does not sum to 165 bytes")
	}
}

func mintWireSize() int {
	// mint_authority COption<Pubkey>(36) + supply u64(8) + decimals u8(1)
	// + is_initialized u8(1) + freeze_authority COption<Pubkey>(36)
	return coptionKeySize + 8 + 1 + 1 + coptionKeySize
}

func tokenAccountWireSize() int {
	// mint Pubkey(32) + owner Pubkey(32) + amount u64(8) +
	// delegate COption<Pubkey>(36) + state u8(1) + is_native COption<u64>(12)
	// + delegated_amount u64(8) + close_authority COption<Pubkey>(36)
	return keys.Size + keys.Size + 8 + coptionKeySize + 1 + coptionU64Size + 8 + coptionKeySize
}
