package telemetry

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/pursuit/config"
)

// csvFile is an output CSV opened on first write. The header is written
// with the first batch of rows only.
type csvFile struct {
	path          string
	file          *os.File
	headerWritten bool
}

func (c *csvFile) write(records any) error {
	if c.file == nil {
		f, err := os.Create(c.path)
		if err != nil {
			return fmt.Errorf("creating %s: %w", filepath.Base(c.path), err)
		}
		c.file = f
	}

	if !c.headerWritten {
		// First write includes headers
		if err := gocsv.Marshal(records, c.file); err != nil {
			return err
		}
		c.headerWritten = true
		return nil
	}
	// Subsequent writes skip headers
	return gocsv.MarshalWithoutHeaders(records, c.file)
}

func (c *csvFile) close() error {
	if c.file == nil {
		return nil
	}
	return c.file.Close()
}

// OutputManager handles structured run output with CSV logging.
// A nil *OutputManager discards everything, so callers need no checks when
// output is disabled. It is safe for concurrent use.
type OutputManager struct {
	mu  sync.Mutex
	dir string

	ticks     csvFile
	windows   csvFile
	perf      csvFile
	bookmarks csvFile
	episodes  csvFile
}

// NewOutputManager creates a new output manager and initializes the output directory.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	return &OutputManager{
		dir:       dir,
		ticks:     csvFile{path: filepath.Join(dir, "ticks.csv")},
		windows:   csvFile{path: filepath.Join(dir, "windows.csv")},
		perf:      csvFile{path: filepath.Join(dir, "perf.csv")},
		bookmarks: csvFile{path: filepath.Join(dir, "bookmarks.csv")},
		episodes:  csvFile{path: filepath.Join(dir, "episodes.csv")},
	}, nil
}

// WriteConfig saves the effective configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteTick writes one row to ticks.csv.
func (om *OutputManager) WriteTick(r TickRecord) error {
	if om == nil {
		return nil
	}
	om.mu.Lock()
	defer om.mu.Unlock()

	if err := om.ticks.write([]TickRecord{r}); err != nil {
		return fmt.Errorf("writing tick: %w", err)
	}
	return nil
}

// WriteWindow writes a window stats record to windows.csv.
func (om *OutputManager) WriteWindow(stats WindowStats) error {
	if om == nil {
		return nil
	}
	om.mu.Lock()
	defer om.mu.Unlock()

	if err := om.windows.write([]WindowStats{stats}); err != nil {
		return fmt.Errorf("writing window stats: %w", err)
	}
	return nil
}

// WritePerf writes a performance stats record to perf.csv.
func (om *OutputManager) WritePerf(runID string, stats PerfStats, windowEnd int) error {
	if om == nil {
		return nil
	}
	om.mu.Lock()
	defer om.mu.Unlock()

	if err := om.perf.write([]PerfStatsCSV{stats.ToCSV(runID, windowEnd)}); err != nil {
		return fmt.Errorf("writing perf: %w", err)
	}
	return nil
}

// WriteBookmark writes a bookmark record to bookmarks.csv.
func (om *OutputManager) WriteBookmark(b Bookmark) error {
	if om == nil {
		return nil
	}
	om.mu.Lock()
	defer om.mu.Unlock()

	if err := om.bookmarks.write([]Bookmark{b}); err != nil {
		return fmt.Errorf("writing bookmark: %w", err)
	}
	return nil
}

// WriteEpisode writes an episode outcome to episodes.csv.
func (om *OutputManager) WriteEpisode(e EpisodeRecord) error {
	if om == nil {
		return nil
	}
	om.mu.Lock()
	defer om.mu.Unlock()

	if err := om.episodes.write([]EpisodeRecord{e}); err != nil {
		return fmt.Errorf("writing episode: %w", err)
	}
	return nil
}

// WriteSnapshot saves a snapshot under the snapshots subdirectory.
func (om *OutputManager) WriteSnapshot(s *Snapshot) (string, error) {
	if om == nil || s == nil {
		return "", nil
	}
	return SaveSnapshot(s, filepath.Join(om.dir, "snapshots"))
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close flushes and closes all output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}
	om.mu.Lock()
	defer om.mu.Unlock()

	var firstErr error
	for _, f := range []*csvFile{&om.ticks, &om.windows, &om.perf, &om.bookmarks, &om.episodes} {
		if err := f.close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
