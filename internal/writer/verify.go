package writer

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"

	"github.com/yottaes/ssp/internal/perr"
)

// VerifyShardRowCounts re-opens every "<prefix><table>_*.parquet" shard
// file under dir and sums their row counts. It is a post-run sanity check
// (grounded in original_source/src/db.rs's re-open-and-count step), not
// part of the production run path — the pipeline itself never calls
// this; it exists for tests and optional operator verification.
func VerifyShardRowCounts(dir, prefix, table string) (int64, error) {
	matches, err := filepath.Glob(filepath.Join(dir, prefix+table+"_*.parquet"))
	if err != nil {
		return 0, perr.New(perr.KindIO, "writer.VerifyShardRowCounts", err)
	}

	var total int64
	for _, path := range matches {
		n, err := rowCount(path)
		if err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}

func rowCount(path string) (int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, perr.New(perr.KindIO, "writer.rowCount", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return 0, perr.New(perr.KindIO, "writer.rowCount", err)
	}

	pf, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		return 0, perr.New(perr.KindIO, "writer.rowCount", fmt.Errorf("open parquet file %s: %w", path, err))
	}
	return pf.NumRows(), nil
}
