package planner

import (
	"errors"
	"io"
	"log/slog"
	"math"
	"testing"

	"github.com/pthm-cable/pursuit/config"
	"github.com/pthm-cable/pursuit/geom"
	"github.com/pthm-cable/pursuit/kinematics"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestPlanner(t *testing.T, mutate func(*config.PlannerConfig)) *Planner {
	t.Helper()
	cfg := config.Default().Planner
	if mutate != nil {
		mutate(&cfg)
	}
	p, err := New(cfg, quietLogger())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return p
}

func pointAtDeg(deg, r float64) geom.Point {
	sin, cos := math.Sincos(geom.Radians(deg))
	return geom.Point{X: r * cos, Y: r * sin}
}

func containing(r *Ring, p geom.Point) []int {
	var ids []int
	for _, s := range r.Sectors() {
		if s.Contains(p) {
			ids = append(ids, s.ID)
		}
	}
	return ids
}

func TestRingLayout(t *testing.T) {
	r := NewRing(9, 1)
	if r.Len() != 40 {
		t.Fatalf("expected 40 sectors, got %d", r.Len())
	}

	first, last := r.Sector(1), r.Sector(40)
	if first.StartDeg != 1 || first.EndDeg != 10 {
		t.Errorf("sector 1 = %v, want (1, 10]", first)
	}
	if last.StartDeg != 352 || last.EndDeg != 361 {
		t.Errorf("sector 40 = %v, want (352, 361]", last)
	}

	for i, s := range r.Sectors() {
		if s.ID != i+1 {
			t.Errorf("sector at index %d has id %d", i, s.ID)
		}
		if i > 0 && s.StartDeg != r.Sectors()[i-1].EndDeg {
			t.Errorf("sector %d does not start where %d ends", s.ID, s.ID-1)
		}
	}
}

func TestSectorsTileCircleForAnyLayout(t *testing.T) {
	layouts := []struct {
		width, offset float64
	}{
		{9, 0},
		{10, 5},
		{90, 0},
		{45, 22.5},
		{120, 90},
	}
	for _, l := range layouts {
		r := NewRing(l.width, l.offset)
		for b := 0.0; b < 360; b += 0.25 {
			for _, dist := range []float64{0.3, 1, 5} {
				if ids := containing(r, pointAtDeg(b, dist)); len(ids) != 1 {
					t.Errorf("width %v offset %v: bearing %.2f at %v in sectors %v, want exactly one",
						l.width, l.offset, b, dist, ids)
				}
			}
		}
	}
}

func TestRingOffsetWraps(t *testing.T) {
	r := NewRing(9, 1)
	tests := []struct {
		id, k, want int
	}{
		{1, 0, 1},
		{1, 2, 3},
		{39, 2, 1},
		{40, 1, 1},
		{1, -1, 40},
		{20, 80, 20},
	}
	for _, tt := range tests {
		if got := r.Offset(tt.id, tt.k); got != tt.want {
			t.Errorf("Offset(%d, %d) = %d, want %d", tt.id, tt.k, got, tt.want)
		}
	}
}

func TestSectorsTileCircle(t *testing.T) {
	r := NewRing(9, 1)

	// Bearings strictly inside sectors.
	for b := 0.25; b < 360; b += 0.5 {
		ids := containing(r, pointAtDeg(b, 1))
		if len(ids) != 1 {
			t.Errorf("bearing %.2f contained by sectors %v, want exactly one", b, ids)
		}
	}

	// Integer bearings, including the shared boundaries between neighbours.
	for b := 0; b < 360; b++ {
		ids := containing(r, pointAtDeg(float64(b), 1))
		if len(ids) != 1 {
			t.Errorf("bearing %d contained by sectors %v, want exactly one", b, ids)
		}
	}
}

func TestLocateMatchesBearing(t *testing.T) {
	r := NewRing(9, 1)
	tests := []struct {
		bearing float64
		want    int
	}{
		{0, 40},
		{5, 1},
		{90, 10},
		{180, 20},
		{270, 30},
		{355, 40},
	}
	for _, tt := range tests {
		s, ok := r.Locate(pointAtDeg(tt.bearing, 2))
		if !ok || s.ID != tt.want {
			t.Errorf("bearing %v: got sector %d (found=%v), want %d", tt.bearing, s.ID, ok, tt.want)
		}
	}

	if _, ok := r.Locate(geom.Point{}); ok {
		t.Error("origin should not be located in any sector")
	}
}

func TestHistogramObstacleAhead(t *testing.T) {
	p := newTestPlanner(t, nil)
	res := p.Plan(kinematics.Pose{}, Snapshot{
		Target:    geom.Point{X: 2, Y: 0},
		Obstacles: []geom.Point{{X: 0.5, Y: 0}},
	})

	h := res.Histogram
	if h.Len() != 40 {
		t.Fatalf("expected 40 sectors, got %d", h.Len())
	}
	for id := 1; id <= h.Len(); id++ {
		v := h.Value(id)
		if v < 0 {
			t.Errorf("sector %d has negative occupancy %v", id, v)
		}
		if h.Empty(id) != (v == 0) {
			t.Errorf("sector %d: Empty()=%v but occupancy %v", id, h.Empty(id), v)
		}
	}

	if h.Empty(40) {
		t.Error("sector containing bearing 0 should be occupied")
	}
	if !h.Empty(20) {
		t.Errorf("sector containing bearing 180 should be empty, got %v", h.Value(20))
	}

	occupied := map[int]bool{39: true, 40: true, 1: true, 2: true}
	for id := 1; id <= h.Len(); id++ {
		if occupied[id] == h.Empty(id) {
			t.Errorf("sector %d: occupied=%v, occupancy %v", id, occupied[id], h.Value(id))
		}
	}
	if h.EmptyCount() != 36 {
		t.Errorf("expected 36 empty sectors, got %d", h.EmptyCount())
	}
}

func TestHistogramOccupancyValues(t *testing.T) {
	p := newTestPlanner(t, nil)
	res := p.Plan(kinematics.Pose{}, Snapshot{
		Target:    geom.Point{X: 0, Y: 2},
		Obstacles: []geom.Point{{X: 0.5, Y: 0}},
	})

	// A 0.2 m footprint at 0.5 m sampled on a 6x6 grid touches four sectors.
	want := map[int]float64{1: 0.123223, 2: 0.335668, 39: 0.236946, 40: 0.145473}
	for id := 1; id <= res.Histogram.Len(); id++ {
		got := res.Histogram.Value(id)
		if math.Abs(got-want[id]) > 1e-6 {
			t.Errorf("sector %d occupancy = %.6f, want %.6f", id, got, want[id])
		}
	}

	// Every touched sector clears the default valley threshold.
	for id := range want {
		if res.Histogram.Value(id) < config.Default().Planner.OccupancyThreshold {
			t.Errorf("sector %d is below the occupancy threshold", id)
		}
	}
}

func TestPlanSteersAroundObstacle(t *testing.T) {
	p := newTestPlanner(t, nil)
	res := p.Plan(kinematics.Pose{}, Snapshot{
		Target:    geom.Point{X: 2, Y: 0},
		Obstacles: []geom.Point{{X: 0.5, Y: 0}},
	})

	if !res.OK() {
		t.Fatalf("expected a valley, got %v", res.Err)
	}
	if res.TargetSector != 40 {
		t.Errorf("target sector = %d, want 40", res.TargetSector)
	}
	// Nearest free run is 36-38; its middle is 27° clockwise of the target.
	if res.ChosenSector != 37 {
		t.Errorf("chosen sector = %d, want 37", res.ChosenSector)
	}
	if math.Abs(res.AngleDiffDeg-27) > 1e-9 {
		t.Errorf("angle diff = %v, want 27", res.AngleDiffDeg)
	}
	if !res.Chosen(37) || res.Chosen(40) {
		t.Error("Chosen should only report sector 37")
	}
	if res.Waypoint.X <= 0 || res.Waypoint.Y >= 0 {
		t.Errorf("waypoint %v should be ahead and to the right", res.Waypoint)
	}
	if res.Considered != 1 || res.Unlocated != 0 {
		t.Errorf("considered=%d unlocated=%d, want 1 and 0", res.Considered, res.Unlocated)
	}
}

func TestPlanTargetAtNinetyDegrees(t *testing.T) {
	p := newTestPlanner(t, nil)
	res := p.Plan(kinematics.Pose{}, Snapshot{Target: geom.Point{X: 0, Y: 2}})

	if !res.OK() {
		t.Fatalf("expected a valley, got %v", res.Err)
	}
	if res.Histogram.EmptyCount() != 40 {
		t.Errorf("expected every sector empty, got %d", res.Histogram.EmptyCount())
	}
	if res.Valleys != 40 {
		t.Errorf("expected 40 valleys, got %d", res.Valleys)
	}
	if res.TargetSector != 10 || res.ChosenSector != 10 {
		t.Errorf("target=%d chosen=%d, want 10 and 10", res.TargetSector, res.ChosenSector)
	}
	if res.AngleDiffDeg != 0 {
		t.Errorf("angle diff = %v, want 0", res.AngleDiffDeg)
	}

	wantX := 0.5 / math.Tan(geom.Radians(86.5))
	if math.Abs(res.Waypoint.Y-0.5) > 1e-9 || math.Abs(res.Waypoint.X-wantX) > 1e-9 {
		t.Errorf("waypoint = %v, want (%v, 0.5)", res.Waypoint, wantX)
	}
}

func TestPlanTargetBehindOnVerticalBoundaryLayout(t *testing.T) {
	p := newTestPlanner(t, func(c *config.PlannerConfig) {
		c.SectorWidthDeg = 10
		c.SectorOffsetDeg = 5
	})
	res := p.Plan(kinematics.Pose{}, Snapshot{Target: geom.Point{X: 0, Y: -2}})

	if !res.OK() {
		t.Fatalf("expected a valley, got %v", res.Err)
	}
	if res.TargetSector != 27 || res.ChosenSector != 27 {
		t.Errorf("target=%d chosen=%d, want 27 and 27", res.TargetSector, res.ChosenSector)
	}
	if math.Abs(res.Waypoint.Y+0.5) > 1e-9 || math.Abs(res.Waypoint.X) > 1e-9 {
		t.Errorf("waypoint = %v, want (0, -0.5)", res.Waypoint)
	}
}

func TestPlanWaypointIsRelativeToRobot(t *testing.T) {
	p := newTestPlanner(t, nil)
	pose := kinematics.Pose{X: -3, Y: 1}
	res := p.Plan(pose, Snapshot{Target: geom.Point{X: -3, Y: 3}})

	if !res.OK() {
		t.Fatalf("expected a valley, got %v", res.Err)
	}
	if math.Abs(res.Waypoint.Y-1.5) > 1e-9 {
		t.Errorf("waypoint y = %v, want 1.5", res.Waypoint.Y)
	}
	if d := geom.Distance(res.Waypoint, pose.Position()); d < 0.5 || d > 0.5*math.Sqrt2 {
		t.Errorf("look-ahead distance %v out of range", d)
	}
}

func TestPlanRotateWaypoint(t *testing.T) {
	pose := kinematics.Pose{Heading: math.Pi / 2}
	snap := Snapshot{Target: geom.Point{X: 0, Y: 2}}

	plain := newTestPlanner(t, nil).Plan(pose, snap)
	if plain.ChosenSector != 40 {
		t.Fatalf("chosen sector = %d, want 40", plain.ChosenSector)
	}
	// The robot-frame offset is added unrotated.
	if plain.Waypoint.X < 0.49 {
		t.Errorf("unrotated waypoint = %v, want x = 0.5", plain.Waypoint)
	}

	rotated := newTestPlanner(t, func(c *config.PlannerConfig) { c.RotateWaypoint = true }).Plan(pose, snap)
	if math.Abs(rotated.Waypoint.Y-0.5) > 1e-9 {
		t.Errorf("rotated waypoint = %v, want y = 0.5", rotated.Waypoint)
	}
	if math.Abs(rotated.Waypoint.X) > 0.05 {
		t.Errorf("rotated waypoint = %v, want x near 0", rotated.Waypoint)
	}
}

func TestPlanHoldsWhenTargetUnlocatable(t *testing.T) {
	p := newTestPlanner(t, nil)
	pose := kinematics.Pose{X: 1, Y: 1}
	res := p.Plan(pose, Snapshot{Target: geom.Point{X: 1, Y: 1}})

	if !errors.Is(res.Err, ErrTargetUnlocatable) {
		t.Fatalf("expected ErrTargetUnlocatable, got %v", res.Err)
	}
	if !res.Hold() || res.OK() {
		t.Error("result should hold position")
	}
	if res.Waypoint != pose.Position() {
		t.Errorf("hold waypoint = %v, want robot position", res.Waypoint)
	}
	if res.ChosenSector != 0 || res.TargetSector != 0 {
		t.Errorf("no sector should be set, got target=%d chosen=%d", res.TargetSector, res.ChosenSector)
	}
}

func TestPlanHoldsWhenSurrounded(t *testing.T) {
	p := newTestPlanner(t, nil)
	var obstacles []geom.Point
	for deg := 0.0; deg < 360; deg += 15 {
		obstacles = append(obstacles, pointAtDeg(deg, 0.5))
	}

	res := p.Plan(kinematics.Pose{}, Snapshot{Target: geom.Point{X: 2, Y: 0}, Obstacles: obstacles})

	if !errors.Is(res.Err, ErrNoValley) {
		t.Fatalf("expected ErrNoValley, got %v", res.Err)
	}
	if res.Valleys != 0 {
		t.Errorf("expected no valleys, got %d", res.Valleys)
	}
	if res.TargetSector != 40 {
		t.Errorf("target sector should still be reported, got %d", res.TargetSector)
	}
	if res.Waypoint != (geom.Point{}) {
		t.Errorf("hold waypoint = %v, want origin", res.Waypoint)
	}
}

func TestPlanIgnoresDistantObstacles(t *testing.T) {
	p := newTestPlanner(t, nil)
	res := p.Plan(kinematics.Pose{}, Snapshot{
		Target:    geom.Point{X: 2, Y: 0},
		Obstacles: []geom.Point{{X: 3, Y: 0}, {X: 0, Y: -2}},
	})

	if res.Considered != 0 {
		t.Errorf("expected distant obstacles to be skipped, %d considered", res.Considered)
	}
	if res.Histogram.EmptyCount() != 40 {
		t.Errorf("expected an empty histogram, got %d empty", res.Histogram.EmptyCount())
	}
	if res.ChosenSector != 40 {
		t.Errorf("chosen sector = %d, want 40", res.ChosenSector)
	}
}

func TestPlanObstacleFrameFollowsHeading(t *testing.T) {
	// Obstacle north of a robot facing north is straight ahead.
	p := newTestPlanner(t, nil)
	res := p.Plan(kinematics.Pose{Heading: math.Pi / 2}, Snapshot{
		Target:    geom.Point{X: 0, Y: 2},
		Obstacles: []geom.Point{{X: 0, Y: 0.5}},
	})

	if res.Histogram.Empty(40) {
		t.Error("sector ahead of the robot should be occupied")
	}
	if !res.Histogram.Empty(10) {
		t.Error("sector to the robot's left should be empty")
	}
}

func TestFindValleysWrapAround(t *testing.T) {
	r := NewRing(9, 1)
	blockedExcept := func(free ...int) Histogram {
		h := Histogram{values: make([]float64, r.Len())}
		for i := range h.values {
			h.values[i] = 1
		}
		for _, id := range free {
			h.values[id-1] = 0
		}
		return h
	}

	straddling := findValleys(r, blockedExcept(40, 1, 2), 3, 0.005)
	inside := findValleys(r, blockedExcept(20, 21, 22), 3, 0.005)

	if len(straddling) != 1 || len(inside) != 1 {
		t.Fatalf("expected one valley each, got %d and %d", len(straddling), len(inside))
	}
	want := []int{40, 1, 2}
	for i, id := range straddling[0].Sectors {
		if id != want[i] {
			t.Fatalf("straddling valley = %v, want %v", straddling[0].Sectors, want)
		}
	}
	if straddling[0].TargetSector() != 1 {
		t.Errorf("straddling middle = %d, want 1", straddling[0].TargetSector())
	}
	if inside[0].TargetSector() != 21 {
		t.Errorf("inside middle = %d, want 21", inside[0].TargetSector())
	}
}

func TestFindValleysThreshold(t *testing.T) {
	r := NewRing(9, 1)
	h := Histogram{values: make([]float64, r.Len())}
	h.values[4] = 0.004 // below threshold, still passable
	h.values[9] = 0.005 // at threshold, blocked

	valleys := findValleys(r, h, 3, 0.005)
	if len(valleys) != 37 {
		t.Errorf("expected 37 valleys, got %d", len(valleys))
	}
	for _, v := range valleys {
		for _, id := range v.Sectors {
			if id == 10 {
				t.Errorf("valley %v includes blocked sector 10", v.Sectors)
			}
		}
	}
}

func TestClosestValleyTieKeepsFirst(t *testing.T) {
	r := NewRing(9, 1)
	// Middles 9 and 11 are equally far from sector 10.
	valleys := []Valley{{Sectors: []int{8, 9, 10}}, {Sectors: []int{10, 11, 12}}}
	v, diff, ok := closestValley(r, valleys, r.Sector(10).CenterDeg())
	if !ok {
		t.Fatal("expected a valley")
	}
	if v.TargetSector() != 9 {
		t.Errorf("expected first valley to win the tie, got middle %d", v.TargetSector())
	}
	if math.Abs(diff-9) > 1e-9 {
		t.Errorf("diff = %v, want 9", diff)
	}

	if _, _, ok := closestValley(r, nil, 0); ok {
		t.Error("no valleys should report not found")
	}
}

func TestProjectFollowsSectorCenter(t *testing.T) {
	const lookahead = 0.5
	var sectors []Sector
	for _, r := range []*Ring{NewRing(9, 1), NewRing(9, 0), NewRing(10, 5)} {
		sectors = append(sectors, r.Sectors()...)
	}
	for _, s := range sectors {
		off := project(s, lookahead)

		dominant := math.Max(math.Abs(off.X), math.Abs(off.Y))
		if math.Abs(dominant-lookahead) > 1e-9 {
			t.Errorf("sector %d: dominant axis %v, want %v", s.ID, dominant, lookahead)
		}
		bearing := geom.WrapDeg(geom.Degrees(math.Atan2(off.Y, off.X)))
		if geom.AngleDiffDeg(bearing, s.CenterDeg()) > 1e-6 {
			t.Errorf("sector %d: offset bearing %v, want %v", s.ID, bearing, s.CenterDeg())
		}
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.PlannerConfig)
	}{
		{"sector width does not divide 360", func(c *config.PlannerConfig) { c.SectorWidthDeg = 7 }},
		{"zero sector width", func(c *config.PlannerConfig) { c.SectorWidthDeg = 0 }},
		{"half-turn sectors", func(c *config.PlannerConfig) { c.SectorWidthDeg = 180; c.ValleyWidth = 1 }},
		{"zero valley width", func(c *config.PlannerConfig) { c.ValleyWidth = 0 }},
		{"valley wider than ring", func(c *config.PlannerConfig) { c.ValleyWidth = 41 }},
		{"zero grid step", func(c *config.PlannerConfig) { c.GridStep = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default().Planner
			tt.mutate(&cfg)
			if _, err := New(cfg, nil); !errors.Is(err, config.ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
		})
	}
}
