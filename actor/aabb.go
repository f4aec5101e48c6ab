package actor

import "github.com/go-gl/mathgl/mgl64"

// AABB represents an axis-aligned bounding box
type AABB struct {
	Min mgl64.Vec3
	Max mgl64.Vec3
}

// ContainsPoint checks if a point is inside the AABB, bounds included
func (a AABB) ContainsPoint(point mgl64.Vec3) bool {
	for axis := 0; axis < 3; axis++ {
		if point[axis] < a.Min[axis] || point[axis] > a.Max[axis] {
			return false
		}
	}
	return true
}

// Overlaps checks if two AABBs overlap on all three axes
func (a AABB) Overlaps(other AABB) bool {
	for axis := 0; axis < 3; axis++ {
		if a.Max[axis] < other.Min[axis] || a.Min[axis] > other.Max[axis] {
			return false
		}
	}
	return true
}
