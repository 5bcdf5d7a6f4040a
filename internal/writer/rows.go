// Package writer implements the L4 columnar batch writer pool (spec
// §4.4, §6): one Parquet file per shard per table, snappy-compressed,
// dictionary encoding disabled, row groups capped at ~1,000,000 rows.
package writer

import "github.com/yottaes/ssp/internal/keys"

// AccountRow is the "accounts" table schema (spec §6).
type AccountRow struct {
	Pubkey     []byte `parquet:"pubkey,plain"`
	Lamports   uint64 `parquet:"lamports"`
	Owner      []byte `parquet:"owner,plain"`
	DataLen    uint64 `parquet:"data_len"`
	Executable bool   `parquet:"executable"`
	RentEpoch  uint64 `parquet:"rent_epoch"`
}

// MintRow is the "mints" table schema (spec §6).
type MintRow struct {
	Pubkey          []byte `parquet:"pubkey,plain"`
	MintAuthority   []byte `parquet:"mint_authority,optional,plain"`
	FreezeAuthority []byte `parquet:"freeze_authority,optional,plain"`
	Supply          uint64 `parquet:"supply"`
	Decimals        uint8  `parquet:"decimals"`
	IsInitialized   bool   `parquet:"is_initialized"`
}

// TokenAccountRow is the "token_accounts" table schema (spec §6).
type TokenAccountRow struct {
	Pubkey          []byte  `parquet:"pubkey,plain"`
	Mint            []byte  `parquet:"mint,plain"`
	Owner           []byte  `parquet:"owner,plain"`
	Amount          uint64  `parquet:"amount"`
	Delegate        []byte  `parquet:"delegate,optional,plain"`
	State           uint8   `parquet:"state"`
	IsNative        *uint64 `parquet:"is_native,optional"`
	DelegatedAmount uint64  `parquet:"delegated_amount"`
	CloseAuthority  []byte  `parquet:"close_authority,optional,plain"`
}

func keyBytes(k keys.Key) []byte {
	b := make([]byte, keys.Size)
	copy(b, k[:])
	return b
}

func nullableKeyBytes(k *keys.Key) []byte {
	if k == nil {
		return nil
	}
	return keyBytes(*k)
}
