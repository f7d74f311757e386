// Package harness drives the synthetic reader/writer workload described
// by the spec against an internal/monitor.Monitor and reports resulting
// throughput and latency statistics. None of the safety or ordering
// guarantees live here; this package only exercises the monitor's
// public contract the way a well-behaved worker must.
package harness

import (
	"fmt"
	"time"

	"github.com/c2h5oh/datasize"

	"github.com/sakateka/rwlog/internal/monitor"
)

// Config holds the external knobs of the workload. Defaults match the
// spec's CLI surface.
type Config struct {
	Capacity int
	Readers  int
	Writers  int

	// WriterBatch is the number of appends performed per writer critical
	// section.
	WriterBatch int

	// Duration is how long the workload runs before the stop flag is
	// set.
	Duration time.Duration

	// ReaderDelay and WriterDelay are the post-section sleeps each
	// worker observes before its next iteration.
	ReaderDelay time.Duration
	WriterDelay time.Duration

	// DumpCSV, if true, writes the final snapshot to log.csv.
	DumpCSV bool
}

// DefaultConfig returns the spec's documented defaults.
func DefaultConfig() Config {
	return Config{
		Capacity:    1024,
		Readers:     2,
		Writers:     2,
		WriterBatch: 2,
		Duration:    10 * time.Second,
		ReaderDelay: 2000 * time.Microsecond,
		WriterDelay: 3000 * time.Microsecond,
	}
}

// Validate checks the configuration against the bounds the spec's CLI
// surface documents, returning the first violation found.
func (c Config) Validate() error {
	if c.Capacity <= 0 {
		return fmt.Errorf("capacity must be > 0, got %d", c.Capacity)
	}
	if c.Readers < 0 {
		return fmt.Errorf("readers must be >= 0, got %d", c.Readers)
	}
	if c.Writers < 0 {
		return fmt.Errorf("writers must be >= 0, got %d", c.Writers)
	}
	if c.WriterBatch < 1 {
		return fmt.Errorf("writer-batch must be >= 1, got %d", c.WriterBatch)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("seconds must be > 0, got %s", c.Duration)
	}
	if c.ReaderDelay < 0 {
		return fmt.Errorf("rd-us must be >= 0, got %s", c.ReaderDelay)
	}
	if c.WriterDelay < 0 {
		return fmt.Errorf("wr-us must be >= 0, got %s", c.WriterDelay)
	}
	return nil
}

// RingMemorySize is the approximate memory footprint of the configured
// ring, logged at startup for operator visibility.
func (c Config) RingMemorySize() datasize.ByteSize {
	const recordOverhead = 24 // Seq + Origin + Timestamp, approximate
	perRecord := datasize.ByteSize(recordOverhead) + monitor.MessageBoundSize
	return perRecord * datasize.ByteSize(c.Capacity)
}
