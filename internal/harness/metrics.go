package harness

import (
	"fmt"
	"strings"
	"time"
)

// WriterStats accumulates one writer worker's lifetime counters.
type WriterStats struct {
	Appends  uint64
	waitSum  time.Duration
	sections uint64
}

func (s *WriterStats) recordWait(d time.Duration) {
	s.waitSum += d
	s.sections++
}

func (s WriterStats) avgWait() time.Duration {
	if s.sections == 0 {
		return 0
	}
	return s.waitSum / time.Duration(s.sections)
}

// ReaderStats accumulates one reader worker's lifetime counters.
type ReaderStats struct {
	Snapshots   uint64
	LastSeenSeq uint64
	sectionSum  time.Duration
}

func (s *ReaderStats) recordSection(d time.Duration) {
	s.sectionSum += d
}

func (s ReaderStats) avgSection() time.Duration {
	if s.Snapshots == 0 {
		return 0
	}
	return s.sectionSum / time.Duration(s.Snapshots)
}

// Report is the aggregated, human-readable summary of one workload run.
type Report struct {
	Readers  int
	Writers  int
	Duration time.Duration

	TotalWritten   uint64
	SnapshotsTaken uint64

	AvgWriterWait    time.Duration
	AvgReaderSection time.Duration

	// HighestSeqSeen is the largest seq observed by any reader; useful
	// to sanity-check against TotalWritten after a run.
	HighestSeqSeen uint64
}

func buildReport(cfg Config, writers []*writerWorker, readers []*readerWorker, totalWritten uint64) Report {
	r := Report{
		Readers:      len(readers),
		Writers:      len(writers),
		Duration:     cfg.Duration,
		TotalWritten: totalWritten,
	}

	var waitSum time.Duration
	var writerSections uint64
	for _, w := range writers {
		waitSum += w.stats.waitSum
		writerSections += w.stats.sections
	}
	if writerSections > 0 {
		r.AvgWriterWait = waitSum / time.Duration(writerSections)
	}

	var sectionSum time.Duration
	for _, rd := range readers {
		r.SnapshotsTaken += rd.stats.Snapshots
		sectionSum += rd.stats.sectionSum
		if rd.stats.LastSeenSeq > r.HighestSeqSeen {
			r.HighestSeqSeen = rd.stats.LastSeenSeq
		}
	}
	if r.SnapshotsTaken > 0 {
		r.AvgReaderSection = sectionSum / time.Duration(r.SnapshotsTaken)
	}

	return r
}

// String formats the report the way the CLI prints it to stdout.
func (r Report) String() string {
	var b strings.Builder

	seconds := r.Duration.Seconds()
	throughput := 0.0
	if seconds > 0 {
		throughput = float64(r.TotalWritten) / seconds
	}

	fmt.Fprintf(&b, "=== Reader-Writer Log Report ===\n")
	fmt.Fprintf(&b, "Readers: %d  Writers: %d\n", r.Readers, r.Writers)
	fmt.Fprintf(&b, "Entries written: %d\n", r.TotalWritten)
	fmt.Fprintf(&b, "Throughput: %.1f entries/sec\n", throughput)
	fmt.Fprintf(&b, "Avg writer wait: %s\n", r.AvgWriterWait)
	fmt.Fprintf(&b, "Avg reader section time: %s\n", r.AvgReaderSection)
	fmt.Fprintf(&b, "Snapshots taken: %d\n", r.SnapshotsTaken)
	fmt.Fprintf(&b, "Highest seq observed by a reader: %d\n", r.HighestSeqSeen)

	return b.String()
}
