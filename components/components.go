// Package components defines ECS components for the simulation.
package components

import "fmt"

// Role distinguishes the moving bodies the robot senses.
type Role uint8

const (
	RoleObstacle Role = iota // Must be avoided
	RoleTarget               // Must be intercepted
)

func (r Role) String() string {
	switch r {
	case RoleObstacle:
		return "obstacle"
	case RoleTarget:
		return "target"
	}
	return "unknown"
}

// ParseRole is the inverse of Role.String.
func ParseRole(s string) (Role, error) {
	switch s {
	case "obstacle":
		return RoleObstacle, nil
	case "target":
		return RoleTarget, nil
	}
	return 0, fmt.Errorf("unknown role %q", s)
}

// Kind tags an entity with its role.
type Kind struct {
	Role  Role
	Index int // Spawn order within the role
}
