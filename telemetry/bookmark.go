package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkNearMiss   BookmarkType = "near_miss"
	BookmarkHoldStreak BookmarkType = "hold_streak"
	BookmarkBlocked    BookmarkType = "blocked"
	BookmarkIntercept  BookmarkType = "intercept"
	BookmarkCollision  BookmarkType = "collision"
)

// Bookmark marks a tick worth replaying.
type Bookmark struct {
	RunID       string       `csv:"run_id" json:"run_id"`
	Type        BookmarkType `csv:"type" json:"type"`
	Tick        int          `csv:"tick" json:"tick"`
	Description string       `csv:"description" json:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark(logger *slog.Logger) {
	logger.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// BookmarkDetector detects interesting moments in an episode.
type BookmarkDetector struct {
	nearMiss   float64 // Clearance below this is a near miss
	holdStreak int     // Consecutive holds that trigger a bookmark

	// State tracking
	inNearMiss  bool
	holds       int
	blockedSeen bool
}

// NewBookmarkDetector creates a detector.
func NewBookmarkDetector(nearMiss float64, holdStreak int) *BookmarkDetector {
	if holdStreak < 1 {
		holdStreak = 10
	}
	return &BookmarkDetector{nearMiss: nearMiss, holdStreak: holdStreak}
}

// Check analyzes the latest tick and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(r TickRecord) []Bookmark {
	var bookmarks []Bookmark

	if b := bd.checkNearMiss(r); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkHoldStreak(r); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkBlocked(r); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	return bookmarks
}

// Finish returns the bookmark for the episode's outcome, if it has one.
func (bd *BookmarkDetector) Finish(e EpisodeRecord) *Bookmark {
	switch e.Outcome {
	case OutcomeIntercepted:
		return &Bookmark{
			RunID:       e.RunID,
			Type:        BookmarkIntercept,
			Tick:        e.Ticks,
			Description: fmt.Sprintf("Target intercepted after %.1fs over %.2fm", e.SimTime, e.PathLength),
		}
	case OutcomeCollided:
		return &Bookmark{
			RunID:       e.RunID,
			Type:        BookmarkCollision,
			Tick:        e.Ticks,
			Description: fmt.Sprintf("Collision after %.1fs with %d holds", e.SimTime, e.Holds),
		}
	}
	return nil
}

// checkNearMiss fires once each time clearance drops below the threshold.
func (bd *BookmarkDetector) checkNearMiss(r TickRecord) *Bookmark {
	if r.Clearance >= bd.nearMiss {
		bd.inNearMiss = false
		return nil
	}
	if bd.inNearMiss {
		return nil
	}
	bd.inNearMiss = true
	return &Bookmark{
		RunID:       r.RunID,
		Type:        BookmarkNearMiss,
		Tick:        r.Tick,
		Description: fmt.Sprintf("Clearance %.3fm below %.3fm", r.Clearance, bd.nearMiss),
	}
}

// checkHoldStreak fires exactly once when consecutive holds reach the streak length.
func (bd *BookmarkDetector) checkHoldStreak(r TickRecord) *Bookmark {
	if !r.Held {
		bd.holds = 0
		return nil
	}
	bd.holds++
	if bd.holds != bd.holdStreak {
		return nil
	}
	return &Bookmark{
		RunID:       r.RunID,
		Type:        BookmarkHoldStreak,
		Tick:        r.Tick,
		Description: fmt.Sprintf("Held position for %d ticks (%s)", bd.holds, r.Reason),
	}
}

// checkBlocked fires the first time a plan finds every sector occupied.
func (bd *BookmarkDetector) checkBlocked(r TickRecord) *Bookmark {
	if bd.blockedSeen || !r.Planned || r.FreeSectors > 0 {
		return nil
	}
	bd.blockedSeen = true
	return &Bookmark{
		RunID:       r.RunID,
		Type:        BookmarkBlocked,
		Tick:        r.Tick,
		Description: "Every sector occupied",
	}
}
