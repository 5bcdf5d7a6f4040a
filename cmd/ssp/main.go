// Command ssp ingests a compressed ledger-snapshot tar archive and emits
// Parquet shards for its accounts and decoded SPL Token records. The CLI
// argument surface is intentionally minimal (out of scope per this
// project's design); it exists only to exercise internal/pipeline end to
// end against a real file.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/yottaes/ssp/internal/filter"
	"github.com/yottaes/ssp/internal/pipeline"
)

func usage() {
	fmt.Println("Usage: ssp <snapshot.tar.zst> <output-dir> [pubkey-filter]")
	fmt.Println()
	fmt.Println("Arguments:")
	fmt.Println("  snapshot.tar.zst - zstd-compressed tar stream of packed account records")
	fmt.Println("  output-dir       - destination directory for accounts_*/mints_*/token_accounts_*.parquet")
	fmt.Println("  pubkey-filter    - optional base58 pubkey; only matching accounts are written")
}

func main() {
	if len(os.Args) < 3 {
		usage()
		os.Exit(1)
	}

	inputPath := os.Args[1]
	outputDir := os.Args[2]

	var filterSpec filter.Spec
	if len(os.Args) > 3 {
		filterSpec.Pubkey = os.Args[3]
	}
	resolved, err := filter.Resolve(filterSpec)
	if err != nil {
		log.Fatalf("ssp: invalid filter: %v", err)
	}

	f, err := os.Open(inputPath)
	if err != nil {
		log.Fatalf("ssp: open %s: %v", inputPath, err)
	}
	defer f.Close()

	size := int64(0)
	if stat, err := f.Stat(); err == nil {
		size = stat.Size()
	}

	fmt.Printf("ssp: ingesting %s -> %s\n", inputPath, outputDir)

	stats, err := pipeline.Run(pipeline.Config{
		Source:     f,
		SourceSize: size,
		Filter:     resolved,
		OutputDir:  outputDir,
	})
	if err != nil {
		log.Fatalf("ssp: %v", err)
	}

	fmt.Printf("ssp: done, rows=%d blocked(decompressor=%d accounts=%d decoded=%d) starved(accounts=%d decoded=%d)\n",
		stats.RowsReceived, stats.BlockedDecompressor, stats.BlockedAccounts, stats.BlockedDecoded,
		stats.StarvedAccounts, stats.StarvedDecoded)
}
