// Package tarzst implements the L1 stage (spec §4.1): a streaming
// zstd decompressor feeding a small, self-contained tar reader, yielding
// the raw payload of every archive entry whose path contains
// "accounts/" and whose type flag is a regular file.
//
// archive/tar is deliberately not used here: the spec calls for an
// inline, allocation-minimal tar reader that preserves backpressure by
// reading exactly one entry's bytes at a time, rather than buffering
// through a general-purpose decoder.
package tarzst

import (
	"bufio"
	"errors"
	"io"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/yottaes/ssp/internal/perr"
)

const (
	blockSize = 512
	// nameSize is the width of the tar header's name field (bytes 0..100).
	nameSize = 100
	// typeflagOffset is the byte offset of the tar entry's type flag.
	typeflagOffset = 156
	// sizeOffset/sizeLen locate the octal (or GNU binary) size field.
	sizeOffset = 124
	sizeLen    = 12

	// readAheadSize is the minimum buffered read-ahead window (spec:
	// "wrap the source in a >=1 MiB read-ahead buffer").
	readAheadSize = 1 << 20

	// decoderMaxWindow honors "a window of up to 2 GiB (log2 window >= 31)".
	decoderMaxWindow = 1 << 31

	// maxEntrySize bounds a decoded entry size against corrupted or
	// adversarial headers. Account data entries are far smaller than
	// this in practice; it exists only to reject implausible values
	// before they reach make([]byte, size).
	maxEntrySize = 1 << 40
)

// Reader pulls decompressed tar entries matching the accounts directory
// out of a compressed byte source.
type Reader struct {
	zr  *zstd.Decoder
	buf []byte // scratch block buffer, reused across Next calls
}

// New wraps src in a read-ahead buffer and a streaming zstd decoder
// configured for a wide window.
func New(src io.Reader) (*Reader, error) {
	buffered := bufio.NewReaderSize(src, readAheadSize)
	zr, err := zstd.NewReader(buffered,
		zstd.WithDecoderMaxWindow(decoderMaxWindow),
	)
	if err != nil {
		return nil, perr.New(perr.KindDecompress, "tarzst.New", err)
	}
	return &Reader{zr: zr, buf: make([]byte, blockSize)}, nil
}

// Close releases the underlying zstd decoder's resources.
func (r *Reader) Close() {
	r.zr.Close()
}

// Next returns the raw payload of the next "accounts/" entry, skipping
// any non-matching entries along the way. It returns io.EOF when the
// archive's terminating all-zero block (or a clean end-of-stream) is
// reached.
func (r *Reader) Next() ([]byte, error) {
	for {
		hdr, err := r.readBlock()
		if err != nil {
			return nil, err
		}
		if isZeroBlock(hdr) {
			return nil, io.EOF
		}

		size, err := parseSize(hdr[sizeOffset : sizeOffset+sizeLen])
		if err != nil {
			return nil, perr.New(perr.KindArchiveFormat, "tarzst.Next", err)
		}
		padded := (size + blockSize - 1) / blockSize * blockSize

		name := cstring(hdr[:nameSize])
		typeflag := hdr[typeflagOffset]
		matching := (typeflag == '0' || typeflag == 0) && strings.Contains(name, "accounts/")

		if !matching {
			if err := r.discard(padded); err != nil {
				return nil, err
			}
			continue
		}

		data := make([]byte, size)
		if _, err := io.ReadFull(r.zr, data); err != nil {
			return nil, classifyReadErr("tarzst.Next: read entry data", err)
		}
		if err := r.discard(padded - size); err != nil {
			return nil, err
		}
		return data, nil
	}
}

// readBlock reads exactly one 512-byte tar header block. A clean EOF
// (nothing read yet, no bytes at all) is treated as end-of-archive; any
// other short read is an ArchiveFormatError.
func (r *Reader) readBlock() ([]byte, error) {
	n, err := io.ReadFull(r.zr, r.buf)
	if err != nil {
		if errors.Is(err, io.EOF) && n == 0 {
			return nil, io.EOF
		}
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, perr.New(perr.KindArchiveFormat, "tarzst.readBlock", errors.New("truncated tar header block"))
		}
		return nil, classifyReadErr("tarzst.readBlock", err)
	}
	return r.buf, nil
}

// discard skips exactly n bytes of entry data/padding.
func (r *Reader) discard(n int64) error {
	if n == 0 {
		return nil
	}
	if _, err := io.CopyN(io.Discard, r.zr, n); err != nil {
		return classifyReadErr("tarzst.discard", err)
	}
	return nil
}

func classifyReadErr(op string, err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return perr.New(perr.KindArchiveFormat, op, err)
	}
	return perr.New(perr.KindIO, op, err)
}

func isZeroBlock(b []byte) bool {
	for _, c := range b {
		if c != 0 {
			return false
		}
	}
	return true
}

func cstring(b []byte) string {
	if i := indexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}

func indexByte(b []byte, c byte) int {
	for i, v := range b {
		if v == c {
			return i
		}
	}
	return -1
}

// parseSize decodes the tar size field: NUL/space-terminated octal
// ASCII, or (if the high bit of the first byte is set) an 11-byte
// big-endian binary value per the GNU tar extension.
func parseSize(b []byte) (int64, error) {
	var v int64

	if b[0]&0x80 != 0 {
		for _, c := range b[1:] {
			v = v<<8 | int64(c)
		}
	} else {
		seenDigit := false
		for _, c := range b {
			if c == 0 || c == ' ' {
				if seenDigit {
					break
				}
				continue
			}
			if c < '0' || c > '7' {
				return 0, errors.New("tarzst: invalid octal size field")
			}
			v = v<<3 | int64(c-'0')
			seenDigit = true
		}
	}

	if v < 0 || v > maxEntrySize {
		return 0, errors.New("tarzst: impossible entry size")
	}
	return v, nil
}
