package economy

// Point is a world position. The scheduler only ever needs straight-line
// distance comparisons; pathfinding is outside the core.
type Point struct {
	X float64
	Y float64
}

// DistSq returns the squared straight-line distance to other. Candidate
// selection compares squared distances, so the square root is never taken.
func (p Point) DistSq(other Point) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return dx*dx + dy*dy
}
