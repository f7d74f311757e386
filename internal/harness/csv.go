package harness

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/sakateka/rwlog/internal/monitor"
)

// csvDumpCapacity bounds how many of the newest records dumpCSV reads
// out of the monitor in one snapshot call.
const csvDumpCapacity = 1 << 16

// dumpCSV writes the monitor's final snapshot to path with header
// seq,origin,timestamp_ns,message, rows in ascending seq order.
func dumpCSV(path string, mon *monitor.Monitor) error {
	f, err := createWithRetry(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"seq", "origin", "timestamp_ns", "message"}); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	buf := make([]monitor.Record, csvDumpCapacity)
	n, err := mon.Snapshot(buf)
	if err != nil {
		return fmt.Errorf("failed to snapshot for csv dump: %w", err)
	}

	for _, rec := range buf[:n] {
		row := []string{
			strconv.FormatUint(rec.Seq, 10),
			strconv.FormatUint(rec.Origin, 10),
			strconv.FormatInt(rec.Timestamp.UnixNano(), 10),
			rec.Text(),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	w.Flush()
	return w.Error()
}

const csvCreateAttempts = 3

// createWithRetry retries a transient os.Create failure (e.g. the
// containing directory not yet visible to this process) with a short
// bounded backoff before giving up.
func createWithRetry(path string) (*os.File, error) {
	b := backoff.ExponentialBackOff{
		InitialInterval:     10 * time.Millisecond,
		RandomizationFactor: backoff.DefaultRandomizationFactor,
		Multiplier:          backoff.DefaultMultiplier,
		MaxInterval:         200 * time.Millisecond,
	}
	b.Reset()

	var lastErr error
	for attempt := 0; attempt < csvCreateAttempts; attempt++ {
		f, err := os.Create(path)
		if err == nil {
			return f, nil
		}
		lastErr = err
		if attempt < csvCreateAttempts-1 {
			time.Sleep(b.NextBackOff())
		}
	}
	return nil, lastErr
}
