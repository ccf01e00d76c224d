package sim

import (
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/pursuit/components"
	"github.com/pthm-cable/pursuit/config"
	"github.com/pthm-cable/pursuit/geom"
	"github.com/pthm-cable/pursuit/planner"
	"github.com/pthm-cable/pursuit/telemetry"
)

// bodies holds the target and the obstacles as ECS entities.
type bodies struct {
	world *ecs.World

	mapper *ecs.Map4[
		components.Position,
		components.Velocity,
		components.Body,
		components.Kind,
	]
	filter *ecs.Filter4[
		components.Position,
		components.Velocity,
		components.Body,
		components.Kind,
	]
	posMap  *ecs.Map1[components.Position]
	bodyMap *ecs.Map1[components.Body]

	target    ecs.Entity
	obstacles int
}

func newBodies() *bodies {
	world := ecs.NewWorld()
	return &bodies{
		world: world,
		mapper: ecs.NewMap4[
			components.Position,
			components.Velocity,
			components.Body,
			components.Kind,
		](world),
		filter: ecs.NewFilter4[
			components.Position,
			components.Velocity,
			components.Body,
			components.Kind,
		](world),
		posMap:  ecs.NewMap1[components.Position](world),
		bodyMap: ecs.NewMap1[components.Body](world),
	}
}

// spawn creates one body. The first target spawned is the one tracked.
func (b *bodies) spawn(pos components.Position, vel components.Velocity, body components.Body, kind components.Kind) ecs.Entity {
	e := b.mapper.NewEntity(&pos, &vel, &body, &kind)
	switch kind.Role {
	case components.RoleTarget:
		if b.target.IsZero() {
			b.target = e
		}
	case components.RoleObstacle:
		b.obstacles = max(b.obstacles, kind.Index+1)
	}
	return e
}

// populate spawns the target and the obstacle field. Obstacles are placed
// uniformly in the bounds inset by two radii with Gaussian velocities.
func (b *bodies) populate(w config.WorldConfig, rng *rand.Rand) {
	r := w.UnitRadius
	targetVel := components.Velocity{}
	if w.TargetMoves {
		targetVel = components.Velocity{
			X: rng.NormFloat64() * w.ObstacleVelocitySigma,
			Y: rng.NormFloat64() * w.ObstacleVelocitySigma,
		}
	}
	b.spawn(components.Position{X: w.MaxX - 1, Y: w.MaxY - 1}, targetVel,
		components.Body{Radius: r}, components.Kind{Role: components.RoleTarget})

	minX, maxX := w.MinX+2*r, w.MaxX-2*r
	minY, maxY := w.MinY+2*r, w.MaxY-2*r
	for i := 0; i < w.Obstacles; i++ {
		pos := components.Position{
			X: minX + rng.Float64()*(maxX-minX),
			Y: minY + rng.Float64()*(maxY-minY),
		}
		vel := components.Velocity{
			X: rng.NormFloat64() * w.ObstacleVelocitySigma,
			Y: rng.NormFloat64() * w.ObstacleVelocitySigma,
		}
		b.spawn(pos, vel, components.Body{Radius: r}, components.Kind{Role: components.RoleObstacle, Index: i})
	}
}

// move integrates every body by dt and bounces it off the world bounds.
func (b *bodies) move(w config.WorldConfig, dt float64) {
	query := b.filter.Query()
	for query.Next() {
		pos, vel, body, _ := query.Get()
		pos.X += vel.X * dt
		pos.Y += vel.Y * dt
		components.Bounce(pos, vel, *body, w.MinX, w.MinY, w.MaxX, w.MaxY)
	}
}

// targetCircle returns the tracked target.
func (b *bodies) targetCircle() Circle {
	pos := b.posMap.Get(b.target)
	body := b.bodyMap.Get(b.target)
	return Circle{Center: geom.Point{X: pos.X, Y: pos.Y}, Radius: body.Radius}
}

// obstacleCircles returns the obstacles in spawn order.
func (b *bodies) obstacleCircles() []Circle {
	out := make([]Circle, b.obstacles)
	query := b.filter.Query()
	for query.Next() {
		pos, _, body, kind := query.Get()
		if kind.Role != components.RoleObstacle {
			continue
		}
		out[kind.Index] = Circle{Center: geom.Point{X: pos.X, Y: pos.Y}, Radius: body.Radius}
	}
	return out
}

// truth returns the exact positions as a planner snapshot.
func (b *bodies) truth(obstacles []Circle) planner.Snapshot {
	snap := planner.Snapshot{
		Target:    b.targetCircle().Center,
		Obstacles: make([]geom.Point, len(obstacles)),
	}
	for i, o := range obstacles {
		snap.Obstacles[i] = o.Center
	}
	return snap
}

// states lists every body for a snapshot, target first.
func (b *bodies) states() []telemetry.BodyState {
	var out []telemetry.BodyState
	query := b.filter.Query()
	for query.Next() {
		pos, vel, body, kind := query.Get()
		state := telemetry.BodyState{
			Role:   kind.Role.String(),
			Index:  kind.Index,
			X:      pos.X,
			Y:      pos.Y,
			VelX:   vel.X,
			VelY:   vel.Y,
			Radius: body.Radius,
		}
		if query.Entity() == b.target {
			out = append([]telemetry.BodyState{state}, out...)
			continue
		}
		out = append(out, state)
	}
	return out
}

// load recreates bodies from snapshot states.
func (b *bodies) load(states []telemetry.BodyState) error {
	for _, st := range states {
		role, err := components.ParseRole(st.Role)
		if err != nil {
			return err
		}
		b.spawn(
			components.Position{X: st.X, Y: st.Y},
			components.Velocity{X: st.VelX, Y: st.VelY},
			components.Body{Radius: st.Radius},
			components.Kind{Role: role, Index: st.Index},
		)
	}
	if b.target.IsZero() {
		return ErrNoTarget
	}
	return nil
}
