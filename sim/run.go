package sim

import (
	"context"
	"errors"
	"time"

	"github.com/pthm-cable/pursuit/telemetry"
)

// Recorder receives episode output. *telemetry.OutputManager implements it,
// including as a nil pointer.
type Recorder interface {
	WriteTick(r telemetry.TickRecord) error
	WriteWindow(stats telemetry.WindowStats) error
	WritePerf(runID string, stats telemetry.PerfStats, windowEnd int) error
	WriteBookmark(b telemetry.Bookmark) error
	WriteEpisode(e telemetry.EpisodeRecord) error
	WriteSnapshot(s *telemetry.Snapshot) (string, error)
}

// Session steps a Sim while streaming its telemetry to a Recorder. Write
// failures are logged and collected; they never stop the episode.
type Session struct {
	sim       *Sim
	rec       Recorder
	collector *telemetry.Collector
	detector  *telemetry.BookmarkDetector
	started   time.Time
	finished  bool
	errs      []error
}

// Record starts a telemetry session. A nil rec discards everything.
func (s *Sim) Record(rec Recorder) *Session {
	if rec == nil {
		rec = (*telemetry.OutputManager)(nil)
	}
	ss := &Session{
		sim:       s,
		rec:       rec,
		collector: telemetry.NewCollector(s.runID, s.cfg.Telemetry.WindowSec, s.cfg.Sim.DT),
		detector:  telemetry.NewBookmarkDetector(s.cfg.Telemetry.NearMissDistance, s.cfg.Telemetry.HoldStreak),
		started:   time.Now(),
	}
	ss.collector.StartAt(s.tick)

	s.logger.Info("episode started",
		"seed", s.seed,
		"tick", s.tick,
		"obstacles", s.bodies.obstacles,
		"replan_every", s.cfg.Sim.ReplanEvery,
	)
	return ss
}

// Run steps the episode until it ends or ctx is done. The returned error
// joins any telemetry write failures.
func (s *Sim) Run(ctx context.Context, rec Recorder) (telemetry.EpisodeRecord, error) {
	ss := s.Record(rec)
	for !s.outcome.Done() {
		if ctx.Err() != nil {
			s.Cancel()
			break
		}
		ss.Step()
	}
	ep := ss.Finish()
	return ep, ss.Err()
}

// Sim returns the simulation being recorded.
func (ss *Session) Sim() *Sim { return ss.sim }

// Step advances the simulation one tick and records it.
func (ss *Session) Step() telemetry.TickRecord {
	done := ss.sim.outcome.Done()
	r := ss.sim.Step()
	if done {
		return r
	}

	if ss.sim.cfg.Telemetry.RecordTicks {
		ss.check(ss.rec.WriteTick(r))
	}

	ss.collector.Record(r)
	if ss.collector.ShouldFlush(r.Tick) {
		ss.flush()
	}

	for _, bm := range ss.detector.Check(r) {
		ss.mark(bm)
	}
	return r
}

// Finish flushes the open window and writes the episode record. A running
// episode is cancelled first. Calling Finish again returns the same record
// without writing.
func (ss *Session) Finish() telemetry.EpisodeRecord {
	s := ss.sim
	if ss.finished {
		return s.Episode()
	}
	ss.finished = true
	s.Cancel()

	if ss.collector.Pending() {
		ss.flush()
	}

	ep := s.Episode()
	ep.WallMillis = time.Since(ss.started).Milliseconds()
	if bm := ss.detector.Finish(ep); bm != nil {
		ss.mark(*bm)
	}
	ss.check(ss.rec.WriteEpisode(ep))

	s.logger.Info("episode finished", "episode", ep)
	return ep
}

// Err joins every telemetry write failure so far.
func (ss *Session) Err() error {
	return errors.Join(ss.errs...)
}

func (ss *Session) check(err error) {
	if err == nil {
		return
	}
	ss.sim.logger.Error("telemetry write failed", "error", err)
	ss.errs = append(ss.errs, err)
}

// flush closes the current window and writes it with the phase timings.
func (ss *Session) flush() {
	tick := ss.sim.tick
	stats := ss.collector.Flush(tick)
	perf := ss.sim.perf.Stats()

	ss.sim.logger.Debug("window", "stats", stats)
	ss.sim.logger.Debug("perf", "perf", perf)

	ss.check(ss.rec.WriteWindow(stats))
	ss.check(ss.rec.WritePerf(ss.sim.runID, perf, tick))
}

// mark records a bookmark and, when enabled, the state that produced it.
func (ss *Session) mark(bm telemetry.Bookmark) {
	bm.LogBookmark(ss.sim.logger)
	ss.check(ss.rec.WriteBookmark(bm))

	if !ss.sim.cfg.Telemetry.Snapshots {
		return
	}
	path, err := ss.rec.WriteSnapshot(ss.sim.Snapshot(&bm))
	ss.check(err)
	if path != "" {
		ss.sim.logger.Info("snapshot saved", "path", path, "tick", bm.Tick)
	}
}
