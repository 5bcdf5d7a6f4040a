// Package batch defines the columnar RecordBatch handoff unit produced
// by decoders and consumed by writers (spec §3).
package batch

// RecordBatch is an in-memory columnar slice carrying a schema tag
// (stable table name) and a set of equal-length named columns. Columns
// are stored as opaque `any` slices; the writer picks a per-table writer
// by Table and type-asserts each column by position, matching the schema
// declared for that table.
type RecordBatch struct {
	Table   string
	Columns []Column
	Rows    int
}

// Column is one named column of a RecordBatch. Data is one of:
// []keys.Key, []*keys.Key (nullable), []uint64, []*uint64 (nullable),
// []uint8, []bool.
type Column struct {
	Name string
	Data any
}
