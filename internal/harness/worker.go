package harness

import (
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/sakateka/rwlog/internal/monitor"
)

// stopFlag is the single piece of cross-worker state outside the
// monitor: a write-once latch workers check at the top of every loop
// iteration, per the spec's "no backpressure, check-before-block"
// shutdown discipline.
type stopFlag struct {
	stopped atomic.Bool
}

func (f *stopFlag) set()        { f.stopped.Store(true) }
func (f *stopFlag) isSet() bool { return f.stopped.Load() }

// writerWorker loops: begin_write, append up to batch entries, end_write,
// sleep. It stops the next time it observes the stop flag at the top of
// its loop.
type writerWorker struct {
	id    uint64
	cfg   Config
	mon   *monitor.Monitor
	stop  *stopFlag
	log   *zap.SugaredLogger
	stats WriterStats
}

func newWriterWorker(id uint64, cfg Config, mon *monitor.Monitor, stop *stopFlag, log *zap.SugaredLogger) *writerWorker {
	return &writerWorker{id: id, cfg: cfg, mon: mon, stop: stop, log: log}
}

func (w *writerWorker) run() {
	for !w.stop.isSet() {
		waitStart := time.Now()
		if err := w.mon.BeginWrite(); err != nil {
			w.log.Warnw("writer exiting: begin_write failed", "writer", w.id, "error", err)
			return
		}
		w.stats.recordWait(time.Since(waitStart))

		for i := 0; i < w.cfg.WriterBatch; i++ {
			msg := fmt.Sprintf("writer%d-msg%d", w.id, w.stats.Appends+1)
			_, truncated, err := w.mon.Append(w.id, []byte(msg))
			if err != nil {
				// append failure is non-fatal: continue the batch.
				w.log.Warnw("append failed", "writer", w.id, "error", err)
				continue
			}
			w.stats.Appends++
			if truncated {
				w.log.Debugw("message truncated", "writer", w.id)
			}
		}

		if err := w.mon.EndWrite(); err != nil {
			w.log.Warnw("writer exiting: end_write failed", "writer", w.id, "error", err)
			return
		}

		if w.stop.isSet() {
			return
		}
		time.Sleep(w.cfg.WriterDelay)
	}
}

// readerWorker loops: begin_read, snapshot into a bounded local buffer,
// end_read, sleep. It tracks the highest seq it has observed across
// iterations as a monotonicity check.
type readerWorker struct {
	id    uint64
	cfg   Config
	mon   *monitor.Monitor
	stop  *stopFlag
	log   *zap.SugaredLogger
	stats ReaderStats
}

const readerLocalCapacity = 256

func newReaderWorker(id uint64, cfg Config, mon *monitor.Monitor, stop *stopFlag, log *zap.SugaredLogger) *readerWorker {
	return &readerWorker{id: id, cfg: cfg, mon: mon, stop: stop, log: log}
}

func (r *readerWorker) run() {
	buf := make([]monitor.Record, readerLocalCapacity)

	for !r.stop.isSet() {
		sectionStart := time.Now()
		if err := r.mon.BeginRead(); err != nil {
			r.log.Warnw("reader exiting: begin_read failed", "reader", r.id, "error", err)
			return
		}

		n, err := r.mon.Snapshot(buf)
		if err != nil {
			r.log.Warnw("snapshot failed", "reader", r.id, "error", err)
		} else if n > 0 {
			last := buf[n-1].Seq
			if last < r.stats.LastSeenSeq {
				r.log.Warnw("reader observed seq regression", "reader", r.id, "prev", r.stats.LastSeenSeq, "got", last)
			} else {
				r.stats.LastSeenSeq = last
			}
		}
		r.stats.Snapshots++

		if err := r.mon.EndRead(); err != nil {
			r.log.Warnw("reader exiting: end_read failed", "reader", r.id, "error", err)
			return
		}
		r.stats.recordSection(time.Since(sectionStart))

		if r.stop.isSet() {
			return
		}
		time.Sleep(r.cfg.ReaderDelay)
	}
}
