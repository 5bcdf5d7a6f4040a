// Package testdata builds synthetic fixtures shared by this module's
// tests and benchmarks: packed PayloadBuffer byte sequences and
// zstd-compressed tar streams containing them.
package testdata

import (
	"bytes"

	"github.com/klauspost/compress/zstd"
	sha256simd "github.com/minio/sha256-simd"

	"github.com/yottaes/ssp/internal/header"
)

// Record is one synthetic (header, data) pair to pack into a
// PayloadBuffer.
type Record struct {
	Header header.AccountHeader
	Data   []byte
}

// BuildPayloadBuffer packs records into a contiguous (header, data,
// pad8) byte sequence, exactly the layout internal/payload.Parse
// expects (spec §3, §8 "round-trip tiling").
func BuildPayloadBuffer(records []Record) []byte {
	var buf []byte
	for _, r := range records {
		h := r.Header
		h.DataLen = uint64(len(r.Data))

		rec := make([]byte, header.Size)
		header.Encode(rec, h)
		buf = append(buf, rec...)
		buf = append(buf, r.Data...)
		for len(buf)%8 != 0 {
			buf = append(buf, 0)
		}
	}
	return buf
}

// DeterministicHash derives a 32-byte value from seed using SIMD
// sha256, for building unique-looking AccountHeader.Hash fixtures
// without needing true randomness (a single sha256simd.Sum256 of seed).
func DeterministicHash(seed []byte) [32]byte {
	return sha256simd.Sum256(seed)
}

// TarFile describes one synthetic tar archive entry (always written as
// a regular file).
type TarFile struct {
	Name string
	Data []byte
}

// BuildTarZst builds a zstd-compressed tar stream containing the given
// entries, terminated by the standard two all-zero blocks.
func BuildTarZst(entries []TarFile) ([]byte, error) {
	var tarBuf bytes.Buffer
	for _, e := range entries {
		writeTarEntry(&tarBuf, e.Name, '0', e.Data)
	}
	tarBuf.Write(make([]byte, 512)) // terminating zero blocks
	tarBuf.Write(make([]byte, 512))

	var zstdBuf bytes.Buffer
	zw, err := zstd.NewWriter(&zstdBuf)
	if err != nil {
		return nil, err
	}
	if _, err := zw.Write(tarBuf.Bytes()); err != nil {
		zw.Close()
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return zstdBuf.Bytes(), nil
}

func writeTarEntry(buf *bytes.Buffer, name string, typeflag byte, data []byte) {
	hdr := make([]byte, 512)
	copy(hdr[0:100], name)
	putOctal(hdr[124:136], int64(len(data)))
	hdr[156] = typeflag

	buf.Write(hdr)
	buf.Write(data)
	if pad := (512 - len(data)%512) % 512; pad > 0 {
		buf.Write(make([]byte, pad))
	}
}

func putOctal(b []byte, v int64) {
	s := []byte{}
	if v == 0 {
		s = []byte{'0'}
	}
	for v > 0 {
		s = append([]byte{byte('0' + v%8)}, s...)
		v /= 8
	}
	// left-pad with '0', leave the last byte as NUL terminator.
	for i := 0; i < len(b)-1-len(s); i++ {
		b[i] = '0'
	}
	copy(b[len(b)-1-len(s):len(b)-1], s)
	b[len(b)-1] = 0
}
