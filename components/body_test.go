package components

import "testing"

func TestBounce(t *testing.T) {
	const minX, minY, maxX, maxY = -4, -2.5, 4, 2.5
	body := Body{Radius: 0.1}

	tests := []struct {
		name    string
		pos     Position
		vel     Velocity
		want    Velocity
		bounced bool
	}{
		{"inside", Position{X: 0, Y: 0}, Velocity{X: 1, Y: 1}, Velocity{X: 1, Y: 1}, false},
		{"past right edge moving out", Position{X: 3.95}, Velocity{X: 0.2, Y: 0.1}, Velocity{X: -0.2, Y: 0.1}, true},
		{"past right edge moving in", Position{X: 3.95}, Velocity{X: -0.2}, Velocity{X: -0.2}, false},
		{"past left edge", Position{X: -3.95}, Velocity{X: -0.2}, Velocity{X: 0.2}, true},
		{"past bottom edge", Position{Y: -2.45}, Velocity{Y: -0.3}, Velocity{Y: 0.3}, true},
		{"corner flips both", Position{X: 3.95, Y: 2.45}, Velocity{X: 0.1, Y: 0.1}, Velocity{X: -0.1, Y: -0.1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos, vel := tt.pos, tt.vel
			got := Bounce(&pos, &vel, body, minX, minY, maxX, maxY)
			if got != tt.bounced || vel != tt.want {
				t.Errorf("Bounce() = %v, vel %+v; want %v, %+v", got, vel, tt.bounced, tt.want)
			}
			if pos != tt.pos {
				t.Errorf("position changed to %+v", pos)
			}
		})
	}
}

func TestRoleRoundTrip(t *testing.T) {
	for _, r := range []Role{RoleObstacle, RoleTarget} {
		got, err := ParseRole(r.String())
		if err != nil || got != r {
			t.Errorf("ParseRole(%q) = %v, %v", r.String(), got, err)
		}
	}
	if _, err := ParseRole("ghost"); err == nil {
		t.Error("expected error for unknown role")
	}
}
