package decode

import "github.com/yottaes/ssp/internal/keys"

// keyBuilder accumulates a non-nullable Key column.
type keyBuilder struct{ values []keys.Key }

func (b *keyBuilder) append(k keys.Key) { b.values = append(b.values, k) }
func (b *keyBuilder) finish() []keys.Key {
	out := b.values
	b.values = nil
	return out
}

// nullableKeyBuilder accumulates a nullable Key column as []*keys.Key;
// a nil entry represents SQL NULL / Parquet optional-absent.
type nullableKeyBuilder struct{ values []*keys.Key }

func (b *nullableKeyBuilder) appendValue(k keys.Key) {
	kk := k
	b.values = append(b.values, &kk)
}
func (b *nullableKeyBuilder) appendNull() { b.values = append(b.values, nil) }
func (b *nullableKeyBuilder) finish() []*keys.Key {
	out := b.values
	b.values = nil
	return out
}

// u64Builder accumulates a non-nullable uint64 column.
type u64Builder struct{ values []uint64 }

func (b *u64Builder) append(v uint64) { b.values = append(b.values, v) }
func (b *u64Builder) finish() []uint64 {
	out := b.values
	b.values = nil
	return out
}

// nullableU64Builder accumulates a nullable uint64 column.
type nullableU64Builder struct{ values []*uint64 }

func (b *nullableU64Builder) appendValue(v uint64) { b.values = append(b.values, &v) }
func (b *nullableU64Builder) appendNull()          { b.values = append(b.values, nil) }
func (b *nullableU64Builder) finish() []*uint64 {
	out := b.values
	b.values = nil
	return out
}

// u8Builder accumulates a non-nullable uint8 column.
type u8Builder struct{ values []uint8 }

func (b *u8Builder) append(v uint8) { b.values = append(b.values, v) }
func (b *u8Builder) finish() []uint8 {
	out := b.values
	b.values = nil
	return out
}

// boolBuilder accumulates a non-nullable bool column.
type boolBuilder struct{ values []bool }

func (b *boolBuilder) append(v bool) { b.values = append(b.values, v) }
func (b *boolBuilder) finish() []bool {
	out := b.values
	b.values = nil
	return out
}
