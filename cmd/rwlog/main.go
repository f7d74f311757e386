// Command rwlog runs the bounded reader-writer event-log workload
// described by the project spec: N writer goroutines append short
// records to a shared circular buffer while M reader goroutines take
// snapshots of the newest records, mediated by a writer-preference
// monitor.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sakateka/rwlog/internal/harness"
	"github.com/sakateka/rwlog/internal/logging"
	"github.com/sakateka/rwlog/internal/xcmd"
)

// Cmd is the command line arguments, bound to cobra flags in init().
type Cmd struct {
	Capacity    int
	Readers     int
	Writers     int
	WriterBatch int
	Seconds     int
	ReaderUs    int
	WriterUs    int
	DumpCSV     bool
}

var cmd Cmd

var rootCmd = &cobra.Command{
	Use:   "rwlog",
	Short: "Bounded in-memory reader-writer event log workload",
	RunE: func(_ *cobra.Command, _ []string) error {
		return run(cmd)
	},
}

func init() {
	def := harness.DefaultConfig()

	flags := rootCmd.Flags()
	flags.IntVar(&cmd.Capacity, "capacity", def.Capacity, "ring capacity")
	flags.IntVar(&cmd.Readers, "readers", def.Readers, "number of reader goroutines")
	flags.IntVar(&cmd.Writers, "writers", def.Writers, "number of writer goroutines")
	flags.IntVar(&cmd.WriterBatch, "writer-batch", def.WriterBatch, "appends per writer critical section")
	flags.IntVar(&cmd.Seconds, "seconds", int(def.Duration.Seconds()), "run duration in seconds")
	flags.IntVar(&cmd.ReaderUs, "rd-us", int(def.ReaderDelay.Microseconds()), "reader post-section delay, microseconds")
	flags.IntVar(&cmd.WriterUs, "wr-us", int(def.WriterDelay.Microseconds()), "writer post-section delay, microseconds")
	flags.BoolVar(&cmd.DumpCSV, "dump-csv", false, "dump final snapshot to log.csv")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Printf("ERROR: %v\n", err)
		os.Exit(1)
	}
}

func toConfig(cmd Cmd) harness.Config {
	return harness.Config{
		Capacity:    cmd.Capacity,
		Readers:     cmd.Readers,
		Writers:     cmd.Writers,
		WriterBatch: cmd.WriterBatch,
		Duration:    time.Duration(cmd.Seconds) * time.Second,
		ReaderDelay: time.Duration(cmd.ReaderUs) * time.Microsecond,
		WriterDelay: time.Duration(cmd.WriterUs) * time.Microsecond,
		DumpCSV:     cmd.DumpCSV,
	}
}

func run(cmd Cmd) error {
	cfg := toConfig(cmd)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log, _, err := logging.Init(&logging.Config{Level: zap.InfoLevel})
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer log.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	wg, ctx := errgroup.WithContext(ctx)

	var report harness.Report
	wg.Go(func() error {
		// Unblocks the interrupt waiter below once the workload finishes
		// on its own (duration elapsed), not only on SIGINT/SIGTERM.
		defer cancel()

		var runErr error
		report, runErr = harness.Run(ctx, cfg, log)
		return runErr
	})
	wg.Go(func() error {
		err := xcmd.WaitInterrupted(ctx)
		var interrupted xcmd.Interrupted
		if errors.As(err, &interrupted) {
			log.Infow("caught signal, stopping workload", "signal", interrupted.Signal)
		}
		return err
	})

	var interrupted xcmd.Interrupted
	if err := wg.Wait(); err != nil && !errors.As(err, &interrupted) && !errors.Is(err, context.Canceled) {
		return err
	}

	fmt.Print(report.String())
	return nil
}
