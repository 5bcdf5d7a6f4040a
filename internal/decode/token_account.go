package decode

import (
	"encoding/binary"

	"github.com/yottaes/ssp/internal/batch"
	"github.com/yottaes/ssp/internal/keys"
)

// token-account field offsets within the 165-byte record.
const (
	taOffMint            = 0
	taOffOwner           = taOffMint + keys.Size          // 32
	taOffAmount          = taOffOwner + keys.Size         // 64
	taOffDelegate        = taOffAmount + 8                // 72
	taOffState           = taOffDelegate + coptionKeySize // 108
	taOffIsNative        = taOffState + 1                 // 109
	taOffDelegatedAmount = taOffIsNative + coptionU64Size // 121
	taOffCloseAuthority  = taOffDelegatedAmount + 8       // 129
)

// TokenAccountDecoder decodes TokenProgram token-account records (165
// bytes) into the "token_accounts" table (spec §4.3, §6).
type TokenAccountDecoder struct {
	rows int

	pubkeyB          keyBuilder
	mintB            keyBuilder
	ownerB           keyBuilder
	amountB          u64Builder
	delegateB        nullableKeyBuilder
	stateB           u8Builder
	isNativeB        nullableU64Builder
	delegatedAmountB u64Builder
	closeAuthorityB  nullableKeyBuilder
}

// NewTokenAccountDecoder returns a TokenAccountDecoder with empty column
// builders.
func NewTokenAccountDecoder() *TokenAccountDecoder {
	return &TokenAccountDecoder{}
}

func (d *TokenAccountDecoder) Name() string    { return "token_accounts" }
func (d *TokenAccountDecoder) Owner() keys.Key { return TokenProgram }

func (d *TokenAccountDecoder) Matches(owner keys.Key, dataLen uint64) bool {
	return owner == TokenProgram && dataLen == TokenAccountSize
}

func (d *TokenAccountDecoder) Decode(pubkey keys.Key, data []byte) *batch.RecordBatch {
	_ = data[TokenAccountSize-1]

	d.pubkeyB.append(pubkey)
	d.mintB.append(keys.FromBytes(data[taOffMint : taOffMint+keys.Size]))
	d.ownerB.append(keys.FromBytes(data[taOffOwner : taOffOwner+keys.Size]))
	d.amountB.append(binary.LittleEndian.Uint64(data[taOffAmount : taOffAmount+8]))

	if delegate, ok := decodeCOptionKey(data[taOffDelegate : taOffDelegate+coptionKeySize]); ok {
		d.delegateB.appendValue(delegate)
	} else {
		d.delegateB.appendNull()
	}

	d.stateB.append(data[taOffState])

	if isNative, ok := decodeCOptionU64(data[taOffIsNative : taOffIsNative+coptionU64Size]); ok {
		d.isNativeB.appendValue(isNative)
	} else {
		d.isNativeB.appendNull()
	}

	d.delegatedAmountB.append(binary.LittleEndian.Uint64(data[taOffDelegatedAmount : taOffDelegatedAmount+8]))

	if closeAuthority, ok := decodeCOptionKey(data[taOffCloseAuthority : taOffCloseAuthority+coptionKeySize]); ok {
		d.closeAuthorityB.appendValue(closeAuthority)
	} else {
		d.closeAuthorityB.appendNull()
	}

	d.rows++
	if d.rows >= BatchThreshold {
		return d.buildBatch()
	}
	return nil
}

func (d *TokenAccountDecoder) Flush() *batch.RecordBatch {
	return d.buildBatch()
}

func (d *TokenAccountDecoder) buildBatch() *batch.RecordBatch {
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
			{Name: "mint", Data: d.mintB.finish()},
			{Name: "owner", Data: d.ownerB.finish()},
			{Name: "amount", Data: d.amountB.finish()},
			{Name: "delegate", Data: d.delegateB.finish()},
			{Name: "state", Data: d.stateB.finish()},
			{Name: "is_native", Data: d.isNativeB.finish()},
			{Name: "delegated_amount", Data: d.delegatedAmountB.finish()},
			{Name: "close_authority", Data: d.closeAuthorityB.finish()},
		},
	}
}
