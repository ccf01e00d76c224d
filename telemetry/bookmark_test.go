package telemetry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func types(bookmarks []Bookmark) []BookmarkType {
	var out []BookmarkType
	for _, b := range bookmarks {
		out = append(out, b.Type)
	}
	return out
}

func TestBookmarkDetector_NearMissFiresOncePerApproach(t *testing.T) {
	bd := NewBookmarkDetector(0.05, 10)
	clearances := []float64{0.5, 0.2, 0.04, 0.03, 0.02, 0.3, 0.01}

	var fired []int
	for i, c := range clearances {
		for _, b := range bd.Check(TickRecord{Tick: i, Clearance: c}) {
			if b.Type == BookmarkNearMiss {
				fired = append(fired, b.Tick)
			}
		}
	}

	assert.Equal(t, []int{2, 6}, fired)
}

func TestBookmarkDetector_NoObstacles(t *testing.T) {
	bd := NewBookmarkDetector(0.05, 10)
	assert.Empty(t, bd.Check(TickRecord{Clearance: math.Inf(1)}))
}

func TestBookmarkDetector_HoldStreak(t *testing.T) {
	bd := NewBookmarkDetector(0.05, 3)

	var fired []int
	held := []bool{true, true, false, true, true, true, true, true}
	for i, h := range held {
		for _, b := range bd.Check(TickRecord{Tick: i, Held: h, Reason: "no valley", Clearance: 1}) {
			require.Equal(t, BookmarkHoldStreak, b.Type)
			assert.Contains(t, b.Description, "no valley")
			fired = append(fired, b.Tick)
		}
	}

	assert.Equal(t, []int{5}, fired, "streak should fire exactly once when it reaches 3")
}

func TestBookmarkDetector_BlockedOnlyOnPlannedTicks(t *testing.T) {
	bd := NewBookmarkDetector(0.05, 10)

	assert.Empty(t, bd.Check(TickRecord{Tick: 1, Planned: false, FreeSectors: 0, Clearance: 1}))
	assert.Equal(t, []BookmarkType{BookmarkBlocked},
		types(bd.Check(TickRecord{Tick: 2, Planned: true, FreeSectors: 0, Clearance: 1})))
	assert.Empty(t, bd.Check(TickRecord{Tick: 3, Planned: true, FreeSectors: 0, Clearance: 1}))
}

func TestBookmarkDetector_Finish(t *testing.T) {
	bd := NewBookmarkDetector(0.05, 10)

	b := bd.Finish(EpisodeRecord{RunID: "r", Outcome: OutcomeIntercepted, Ticks: 120, SimTime: 12})
	require.NotNil(t, b)
	assert.Equal(t, BookmarkIntercept, b.Type)
	assert.Equal(t, 120, b.Tick)
	assert.Equal(t, "r", b.RunID)

	b = bd.Finish(EpisodeRecord{Outcome: OutcomeCollided, Ticks: 40})
	require.NotNil(t, b)
	assert.Equal(t, BookmarkCollision, b.Type)

	assert.Nil(t, bd.Finish(EpisodeRecord{Outcome: OutcomeTimedOut}))
}
