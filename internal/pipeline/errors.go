package pipeline

import "github.com/yottaes/ssp/internal/perr"

// The pipeline's error vocabulary (spec §7) lives in internal/perr so
// every stage package (tarzst, writer, filter, ...) can classify its
// own failures without importing this package. These aliases let
// callers of internal/pipeline refer to pipeline.Kind / pipeline.Error
// without a second import.
type (
	Kind  = perr.Kind
	Error = perr.Error
)

const (
	KindIO            = perr.KindIO
	KindArchiveFormat = perr.KindArchiveFormat
	KindDecompress    = perr.KindDecompress
	KindRecordSize    = perr.KindRecordSize
	KindInvalidFilter = perr.KindInvalidFilter
	KindChannelClosed = perr.KindChannelClosed
)
