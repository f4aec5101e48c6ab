package actor

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ShapeInterface is the interface that all collision shapes must implement
type ShapeInterface interface {
	// ComputeAABB calculates the axis-aligned bounding box for the shape
	// at the given transform
	ComputeAABB(transform Transform)
	GetAABB() AABB
	ComputeInertia(mass float64) mgl64.Mat3
	// CollideWithPlane returns the points of the shape lying behind the plane
	// Normal · p + Distance = 0, with their penetration depth.
	CollideWithPlane(normal mgl64.Vec3, distance float64, transform Transform) (bool, []PlaneContact)
}

// PlaneContact is a point of a shape found behind a plane
type PlaneContact struct {
	Position    mgl64.Vec3
	Penetration float64
}

// Box represents an oriented box collision shape
// The box is defined by its half-extents (half-width, half-height, half-depth)
type Box struct {
	HalfExtents mgl64.Vec3
	aabb        AABB
}

// Corners returns the 8 corners of the box in world space
func (b *Box) Corners(transform Transform) [8]mgl64.Vec3 {
	hx, hy, hz := b.HalfExtents.X(), b.HalfExtents.Y(), b.HalfExtents.Z()
	local := [8]mgl64.Vec3{
		{-hx, -hy, -hz},
		{+hx, -hy, -hz},
		{-hx, +hy, -hz},
		{+hx, +hy, -hz},
		{-hx, -hy, +hz},
		{+hx, -hy, +hz},
		{-hx, +hy, +hz},
		{+hx, +hy, +hz},
	}

	var world [8]mgl64.Vec3
	for i, corner := range local {
		world[i] = transform.Rotation.Rotate(corner).Add(transform.Position)
	}

	return world
}

func (b *Box) ComputeAABB(transform Transform) {
	corners := b.Corners(transform)
	min := corners[0]
	max := corners[0]

	for _, corner := range corners[1:] {
		for axis := 0; axis < 3; axis++ {
			min[axis] = math.Min(min[axis], corner[axis])
			max[axis] = math.Max(max[axis], corner[axis])
		}
	}

	b.aabb = AABB{Min: min, Max: max}
}

func (b *Box) GetAABB() AABB {
	return b.aabb
}

func (b *Box) ComputeInertia(mass float64) mgl64.Mat3 {
	x := b.HalfExtents.X() * 2
	y := b.HalfExtents.Y() * 2
	z := b.HalfExtents.Z() * 2

	// I = (m/12) * (d1² + d2²)
	factor := mass / 12.0
	ix := factor * (y*y + z*z)
	iy := factor * (x*x + z*z)
	iz := factor * (x*x + y*y)

	return mgl64.Mat3{
		ix, 0, 0,
		0, iy, 0,
		0, 0, iz,
	}
}

func (b *Box) CollideWithPlane(normal mgl64.Vec3, distance float64, transform Transform) (bool, []PlaneContact) {
	var contacts []PlaneContact

	for _, corner := range b.Corners(transform) {
		signedDistance := normal.Dot(corner) + distance
		if signedDistance < 0 {
			contacts = append(contacts, PlaneContact{Position: corner, Penetration: -signedDistance})
		}
	}

	return len(contacts) > 0, contacts
}

// ProxyRadius is the radius of the sphere standing in for the box against other boxes:
// the mean of the horizontal half-extents.
func (b *Box) ProxyRadius() float64 {
	return (b.HalfExtents.X() + b.HalfExtents.Z()) / 2.0
}

// Sphere represents a spherical collision shape
type Sphere struct {
	Radius float64
	aabb   AABB
}

// ComputeAABB calculates the axis-aligned bounding box for the sphere
func (s *Sphere) ComputeAABB(transform Transform) {
	radiusVec := mgl64.Vec3{s.Radius, s.Radius, s.Radius}

	s.aabb = AABB{
		Min: transform.Position.Sub(radiusVec),
		Max: transform.Position.Add(radiusVec),
	}
}

func (s *Sphere) GetAABB() AABB {
	return s.aabb
}

func (s *Sphere) ComputeInertia(mass float64) mgl64.Mat3 {
	// I = (2/5) * m * r²
	i := (2.0 / 5.0) * mass * s.Radius * s.Radius

	return mgl64.Mat3{
		i, 0, 0,
		0, i, 0,
		0, 0, i,
	}
}

func (s *Sphere) CollideWithPlane(normal mgl64.Vec3, distance float64, transform Transform) (bool, []PlaneContact) {
	signedDistance := normal.Dot(transform.Position) + distance
	penetration := s.Radius - signedDistance
	if penetration <= 0 {
		return false, nil
	}

	deepest := transform.Position.Sub(normal.Mul(s.Radius))
	return true, []PlaneContact{{Position: deepest, Penetration: penetration}}
}

// Plane represents an infinite plane collision shape
// The plane is defined by the equation: Normal · p + Distance = 0
// where Normal is the plane's normal vector (must be normalized)
// and Distance is the signed distance from the origin along the normal
type Plane struct {
	Normal   mgl64.Vec3
	Distance float64
	aabb     AABB
}

func (p *Plane) ComputeAABB(transform Transform) {
	const thickness = 1.0
	const infinity = 1e10

	planePoint := p.Normal.Mul(-p.Distance).Add(transform.Position)
	min := planePoint.Sub(p.Normal.Mul(thickness))
	max := planePoint

	for axis := 0; axis < 3; axis++ {
		if min[axis] > max[axis] {
			min[axis], max[axis] = max[axis], min[axis]
		}
		// non-dominant axes extend to infinity
		if math.Abs(p.Normal[axis]) < 1.0 {
			min[axis] = -infinity
			max[axis] = infinity
		}
	}

	p.aabb = AABB{Min: min, Max: max}
}

func (p *Plane) GetAABB() AABB {
	return p.aabb
}

func (p *Plane) ComputeInertia(mass float64) mgl64.Mat3 {
	return mgl64.Mat3{}
}

// CollideWithPlane is never true: planes only bound the arena
func (p *Plane) CollideWithPlane(normal mgl64.Vec3, distance float64, transform Transform) (bool, []PlaneContact) {
	return false, nil
}

// SignedDistance returns the distance of point to the plane, positive on the normal side
func (p *Plane) SignedDistance(point mgl64.Vec3) float64 {
	return p.Normal.Dot(point) + p.Distance
}
