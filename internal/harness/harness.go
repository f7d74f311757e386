package harness

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sakateka/rwlog/internal/monitor"
)

// Run builds a Monitor for cfg, spawns cfg.Readers reader workers and
// cfg.Writers writer workers, lets them run until ctx is canceled or
// cfg.Duration elapses, joins them, and returns the aggregated Report.
//
// Run treats monitor creation failure as fatal, mirroring the CLI's
// exit-1 contract. After the workers are joined it aggregates, into one
// multierror, the worker group's error (the first one only, as
// errgroup reports it) with any failure to read total_written, dump the
// CSV, or close the monitor.
func Run(ctx context.Context, cfg Config, log *zap.SugaredLogger) (Report, error) {
	if err := cfg.Validate(); err != nil {
		return Report{}, fmt.Errorf("invalid configuration: %w", err)
	}

	log.Infow("starting workload",
		"capacity", cfg.Capacity,
		"readers", cfg.Readers,
		"writers", cfg.Writers,
		"ring_memory", cfg.RingMemorySize().String(),
	)

	mon, err := monitor.New(cfg.Capacity)
	if err != nil {
		return Report{}, fmt.Errorf("failed to create monitor: %w", err)
	}

	stop := &stopFlag{}

	writers := make([]*writerWorker, cfg.Writers)
	readers := make([]*readerWorker, cfg.Readers)

	wg, gctx := errgroup.WithContext(ctx)

	for i := range writers {
		w := newWriterWorker(uint64(i), cfg, mon, stop, log.Named("writer"))
		writers[i] = w
		wg.Go(func() error {
			w.run()
			return nil
		})
	}
	for i := range readers {
		r := newReaderWorker(uint64(i), cfg, mon, stop, log.Named("reader"))
		readers[i] = r
		wg.Go(func() error {
			r.run()
			return nil
		})
	}

	wg.Go(func() error {
		select {
		case <-time.After(cfg.Duration):
		case <-gctx.Done():
		}
		stop.set()
		if err := mon.WakeAll(); err != nil {
			log.Warnw("wake_all failed during shutdown", "error", err)
		}
		return nil
	})

	var joinErr *multierror.Error
	if err := wg.Wait(); err != nil {
		joinErr = multierror.Append(joinErr, err)
	}

	total, err := mon.TotalWritten()
	if err != nil {
		joinErr = multierror.Append(joinErr, fmt.Errorf("failed to read total_written: %w", err))
	}

	report := buildReport(cfg, writers, readers, total)

	if cfg.DumpCSV {
		if err := dumpCSV("log.csv", mon); err != nil {
			joinErr = multierror.Append(joinErr, fmt.Errorf("failed to dump csv: %w", err))
		}
	}

	if err := mon.Close(); err != nil {
		joinErr = multierror.Append(joinErr, fmt.Errorf("failed to close monitor: %w", err))
	}

	return report, joinErr.ErrorOrNil()
}
