package pipeline

import (
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/schollz/progressbar/v3"
)

// countingReader tracks bytes read from an underlying source so the
// status reporter can show ingestion progress without the decompressor
// itself knowing about reporting.
type countingReader struct {
	r    io.Reader
	read uint64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	atomic.AddUint64(&c.read, uint64(n))
	return n, err
}

func (c *countingReader) bytesRead() int64 {
	return int64(atomic.LoadUint64(&c.read))
}

// statusReporter periodically prints ingestion progress until done is
// closed. With a known SourceSize it drives a percentage progress bar;
// otherwise it falls back to a plain rate ticker, the same split the
// teacher's statsReporter made between knowing and not knowing the total
// amount of work up front.
func statusReporter(cfg Config, src *countingReader, cnt *counters, done <-chan struct{}) {
	if cfg.SourceSize > 0 {
		reportWithBar(cfg.SourceSize, src, done)
		return
	}
	reportWithTicker(cnt, done)
}

func reportWithBar(total int64, src *countingReader, done <-chan struct{}) {
	bar := progressbar.DefaultBytes(total, "ingesting snapshot")
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	var last int64
	for {
		select {
		case <-done:
			bar.Set64(total)
			return
		case <-ticker.C:
			n := src.bytesRead()
			bar.Add64(n - last)
			last = n
		}
	}
}

func reportWithTicker(cnt *counters, done <-chan struct{}) {
	start := time.Now()
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	var lastRows uint64
	lastTime := start
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			now := time.Now()
			rows := atomic.LoadUint64(&cnt.rowsReceived)
			overall := float64(rows) / time.Since(start).Seconds()
			current := float64(rows-lastRows) / now.Sub(lastTime).Seconds()
			fmt.Printf("[ssp] rows: %d | overall %.0f/s | current %.0f/s | blocked(dec=%d acct=%d dec_out=%d)\n",
				rows, overall, current,
				atomic.LoadUint64(&cnt.blockedDecompressor),
				atomic.LoadUint64(&cnt.blockedAccounts),
				atomic.LoadUint64(&cnt.blockedDecoded))
			lastRows = rows
			lastTime = now
		}
	}
}
