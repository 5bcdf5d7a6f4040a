package pipeline

import (
	"io"
	"log"
	"os"
	"sync"
	"sync/atomic"

	"github.com/yottaes/ssp/internal/batch"
	"github.com/yottaes/ssp/internal/decode"
	"github.com/yottaes/ssp/internal/header"
	"github.com/yottaes/ssp/internal/payload"
	"github.com/yottaes/ssp/internal/perr"
	"github.com/yottaes/ssp/internal/tarzst"
	"github.com/yottaes/ssp/internal/writer"
)

// Run drives the full ingestion pipeline to completion: one decompressor
// (L1) feeds cfg.Parsers parser goroutines (L2), which in turn feed
// cfg.AccountsWriters accounts-shard writers and cfg.DecodedWriters
// decoded-table writers (L4). It blocks until the source is fully
// consumed (or a fatal error occurs) and always returns a populated
// Stats, even alongside a non-nil error (spec §7: "metrics counters are
// still reported").
func Run(cfg Config) (Stats, error) {
	cfg = cfg.withDefaults()

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return Stats{}, perr.New(perr.KindIO, "pipeline.Run", err)
	}

	var cnt counters
	src := &countingReader{r: cfg.Source}

	rawCh := make(chan []byte, cfg.RawCapacity)
	accountsCh := make(chan []header.AccountHeader, cfg.AccountsCapacity)
	decodedCh := make(chan *batch.RecordBatch, cfg.DecodedCapacity)

	var errOnce sync.Once
	var firstErr error
	recordErr := func(err error) {
		if err == nil {
			return
		}
		errOnce.Do(func() { firstErr = err })
	}

	done := make(chan struct{})
	go statusReporter(cfg, src, &cnt, done)

	// L1: the sole decompressor goroutine. It owns rawCh's send side
	// exclusively, so closing rawCh once it returns is safe.
	decompDone := make(chan error, 1)
	go func() {
		decompDone <- runDecompressor(src, rawCh, &cnt)
	}()

	// L2: a pool of parsers, each with its own decoder registry (decoder
	// instances are single-threaded exclusive, spec §3).
	var wgParsers sync.WaitGroup
	for i := 0; i < cfg.Parsers; i++ {
		wgParsers.Add(1)
		go func() {
			defer wgParsers.Done()
			runParser(cfg, rawCh, accountsCh, decodedCh, &cnt)
		}()
	}

	// L4: accounts-shard writers and decoded-table writers draining the
	// two downstream channels concurrently.
	var wgWriters sync.WaitGroup
	for shard := 0; shard < cfg.AccountsWriters; shard++ {
		wgWriters.Add(1)
		go func(shard int) {
			defer wgWriters.Done()
			if err := runAccountsWriter(cfg, shard, accountsCh, &cnt); err != nil {
				recordErr(err)
				// Keep draining so parsers never block on a failed writer.
				for range accountsCh {
				}
			}
		}(shard)
	}
	for shard := 0; shard < cfg.DecodedWriters; shard++ {
		wgWriters.Add(1)
		go func(shard int) {
			defer wgWriters.Done()
			if err := runDecodedWriter(cfg, shard, decodedCh, &cnt); err != nil {
				recordErr(err)
				// Keep draining so parsers never block on a failed writer.
				for range decodedCh {
				}
			}
		}(shard)
	}

	// Supervisor join order matches the data's own dependency chain:
	// decompressor, then parsers (its only consumers), then writers
	// (the parsers' only consumers).
	recordErr(<-decompDone)
	close(rawCh)

	wgParsers.Wait()
	close(accountsCh)
	close(decodedCh)

	wgWriters.Wait()
	close(done)

	stats := cnt.snapshot()
	log.Printf("ssp: done rows=%d blocked(decompressor=%d accounts=%d decoded=%d) starved(accounts=%d decoded=%d)",
		stats.RowsReceived, stats.BlockedDecompressor, stats.BlockedAccounts, stats.BlockedDecoded,
		stats.StarvedAccounts, stats.StarvedDecoded)

	return stats, firstErr
}

// runDecompressor pulls successive entries out of src until the archive
// is exhausted, sending each onto rawCh.
func runDecompressor(src io.Reader, rawCh chan<- []byte, cnt *counters) error {
	r, err := tarzst.New(src)
	if err != nil {
		return err
	}
	defer r.Close()

	for {
		buf, err := r.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		sendRaw(rawCh, buf, cnt)
	}
}

func sendRaw(rawCh chan<- []byte, buf []byte, cnt *counters) {
	select {
	case rawCh <- buf:
	default:
		atomic.AddUint64(&cnt.blockedDecompressor, 1)
		rawCh <- buf
	}
}

// runParser drains rawCh, building its own decoder registry and parsing
// every buffer with internal/payload.Parse, then flushes its registry's
// remaining buffered rows once rawCh is exhausted.
func runParser(cfg Config, rawCh <-chan []byte, accountsCh chan<- []header.AccountHeader, decodedCh chan<- *batch.RecordBatch, cnt *counters) {
	registry := decode.NewRegistry(cfg.NewDecoders()...)

	for buf := range rawCh {
		accounts := payload.Parse(buf, cfg.Filter, registry, decodedCh, &cnt.blockedDecoded)
		if len(accounts) == 0 {
			continue
		}
		atomic.AddUint64(&cnt.rowsReceived, uint64(len(accounts)))
		select {
		case accountsCh <- accounts:
		default:
			atomic.AddUint64(&cnt.blockedAccounts, 1)
			accountsCh <- accounts
		}
	}

	for _, b := range registry.FlushAll() {
		select {
		case decodedCh <- b:
		default:
			atomic.AddUint64(&cnt.blockedDecoded, 1)
			decodedCh <- b
		}
	}
}

// runAccountsWriter drains accountsCh into one accounts_<shard>.parquet
// file until the channel is closed and drained. A receive that finds the
// channel momentarily empty counts as starvation, per spec §4.5.
func runAccountsWriter(cfg Config, shard int, accountsCh <-chan []header.AccountHeader, cnt *counters) error {
	w, err := writer.NewAccountsWriter(cfg.OutputDir, cfg.FilePrefix, shard)
	if err != nil {
		return err
	}

	for {
		var headers []header.AccountHeader
		var ok bool
		select {
		case headers, ok = <-accountsCh:
		default:
			atomic.AddUint64(&cnt.starvedAccounts, 1)
			headers, ok = <-accountsCh
		}
		if !ok {
			return w.Close()
		}
		if err := w.Write(headers); err != nil {
			w.Close()
			return err
		}
	}
}

// runDecodedWriter drains decodedCh into this shard's lazily-created
// per-table files until the channel is closed and drained.
func runDecodedWriter(cfg Config, shard int, decodedCh <-chan *batch.RecordBatch, cnt *counters) error {
	w := writer.NewDecodedWriter(cfg.OutputDir, cfg.FilePrefix, shard)

	for {
		var b *batch.RecordBatch
		var ok bool
		select {
		case b, ok = <-decodedCh:
		default:
			atomic.AddUint64(&cnt.starvedDecoded, 1)
			b, ok = <-decodedCh
		}
		if !ok {
			return w.Close()
		}
		if err := w.Write(b); err != nil {
			w.Close()
			return err
		}
	}
}
