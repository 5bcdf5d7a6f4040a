package decode

import (
	"encoding/binary"

	"github.com/yottaes/ssp/internal/batch"
	"github.com/yottaes/ssp/internal/keys"
)

// mint field offsets within the 82-byte record.
const (
	mintOffMintAuthority   = 0
	mintOffSupply          = mintOffMintAuthority + coptionKeySize // 36
	mintOffDecimals        = mintOffSupply + 8                     // 44
	mintOffIsInitialized   = mintOffDecimals + 1                   // 45
	mintOffFreezeAuthority = mintOffIsInitialized + 1              // 46
)

// MintDecoder decodes TokenProgram mint records (82 bytes) into the
// "mints" table (spec §4.3, §6).
type MintDecoder struct {
	rows int

	pubkeyB          keyBuilder
	mintAuthorityB   nullableKeyBuilder
	freezeAuthorityB nullableKeyBuilder
	supplyB          u64Builder
	decimalsB        u8Builder
	isInitializedB   boolBuilder
}

// NewMintDecoder returns a MintDecoder with empty column builders.
func NewMintDecoder() *MintDecoder {
	return &MintDecoder{}
}

func (d *MintDecoder) Name() string    { return "mints" }
func (d *MintDecoder) Owner() keys.Key { return TokenProgram }

func (d *MintDecoder) Matches(owner keys.Key, dataLen uint64) bool {
	return owner == TokenProgram && dataLen == MintSize
}

func (d *MintDecoder) Decode(pubkey keys.Key, data []byte) *batch.RecordBatch {
	_ = data[MintSize-1]

	d.pubkeyB.append(pubkey)

	if ma, ok := decodeCOptionKey(data[mintOffMintAuthority : mintOffMintAuthority+coptionKeySize]); ok {
		d.mintAuthorityB.appendValue(ma)
	} else {
		d.mintAuthorityB.appendNull()
	}

	if fa, ok := decodeCOptionKey(data[mintOffFreezeAuthority : mintOffFreezeAuthority+coptionKeySize]); ok {
		d.freezeAuthorityB.appendValue(fa)
	} else {
		d.freezeAuthorityB.appendNull()
	}

	supply := binary.LittleEndian.Uint64(data[mintOffSupply : mintOffSupply+8])
	d.supplyB.append(supply)
	d.decimalsB.append(data[mintOffDecimals])
	d.isInitializedB.append(data[mintOffIsInitialized] != 0)

	d.rows++
	if d.rows >= BatchThreshold {
		return d.buildBatch()
	}
	return nil
}

func (d *MintDecoder) Flush() *batch.RecordBatch {
	return d.buildBatch()
}

func (d *MintDecoder) buildBatch() *batch.RecordBatch {
	if d.rows == 0 {
		return nil
	}
	rows := d.rows
	d.rows = 0

	return &batch.RecordBatch{
		Table: d.Name(),
		Rows:  rows,
		Columns: []batch.Column{
			{Name: "pubkey", Data: d.pubkeyB.finish()},
			{Name: "mint_authority", Data: d.mintAuthorityB.finish()},
			{Name: "freeze_authority", Data: d.freezeAuthorityB.finish()},
			{Name: "supply", Data: d.supplyB.finish()},
			{Name: "decimals", Data: d.decimalsB.finish()},
			{Name: "is_initialized", Data: d.isInitializedB.finish()},
		},
	}
}
