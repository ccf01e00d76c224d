package ui

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/pursuit/kinematics"
	"github.com/pthm-cable/pursuit/planner"
	"github.com/pthm-cable/pursuit/sim"
)

func field(t *testing.T, sections []SectionDescriptor, label string) FieldDescriptor {
	t.Helper()
	for _, sd := range sections {
		for _, fd := range sd.Fields {
			if fd.Label == label {
				return fd
			}
		}
	}
	require.Failf(t, "missing field", "label %q", label)
	return FieldDescriptor{}
}

func TestStatePanelGetters(t *testing.T) {
	sections := StatePanelSections(0.5)
	f := sim.Frame{
		Pose:      kinematics.Pose{X: 1.25, Y: -0.5, Heading: math.Pi / 2},
		Wheels:    kinematics.WheelState{Left: 0.2, Right: -0.1},
		Result:    planner.Result{TargetSector: 40, ChosenSector: 39, Valleys: 2},
		Clearance: math.Inf(1),
	}

	assert.Equal(t, "(1.25, -0.50)", field(t, sections, "Position").TextGetter(f))
	assert.InDelta(t, 90, field(t, sections, "Heading").Getter(f), 1e-4)
	assert.InDelta(t, -0.1, field(t, sections, "Right").Getter(f), 1e-6)
	assert.Equal(t, float32(39), field(t, sections, "Chosen").Getter(f))
	assert.Equal(t, "-", field(t, sections, "Clearance").TextGetter(f))
	assert.Zero(t, field(t, sections, "Free").Getter(f))
}

func TestStatePanelReasonOnlyWhenHolding(t *testing.T) {
	sections := StatePanelSections(0.5)
	reason := field(t, sections, "Reason")
	r := NewRenderer()

	ok := sim.Frame{}
	held := sim.Frame{Result: planner.Result{Err: errors.New("planner: no free valley")}}

	assert.False(t, reason.Visible(ok))
	assert.True(t, reason.Visible(held))
	assert.Equal(t, "planner: no free valley", reason.TextGetter(held))
	assert.Equal(t, r.Theme.LineHeight, r.SectionHeight(sections[1], held)-r.SectionHeight(sections[1], ok))
}

func TestOutcomeLabels(t *testing.T) {
	assert.Equal(t, "INTERCEPTED", outcomeLabel(sim.Intercepted))
	assert.Equal(t, "COLLIDED", outcomeLabel(sim.Collided))
	assert.Equal(t, "abcdefgh", shortID("abcdefgh-1234"))
	assert.Equal(t, "abc", shortID("abc"))
}
