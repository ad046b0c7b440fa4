package quadtree

// ExtentFromCenter builds the bounding square of half-size halfSize around center.
func ExtentFromCenter(center Point, halfSize float32) Extent {
	return Extent{
		Origin: Point{X: center.X - halfSize, Y: center.Y - halfSize},
		Size:   halfSize * 2,
	}
}

// Split returns quadrant i: odd i is offset on x, i >= 2 is offset on y.
func (e Extent) Split(i int) Extent {
	half := e.Size * 0.5
	split := Extent{Origin: e.Origin, Size: half}
	if i%2 == 1 {
		split.Origin.X += half
	}
	if i >= 2 {
		split.Origin.Y += half
	}
	return split
}

func (e Extent) Center() Point {
	half := e.Size * 0.5
	return Point{X: e.Origin.X + half, Y: e.Origin.Y + half}
}

// Contains reports whether o lies entirely within e. Both are half-open, so a
// point extent sitting on the far edge of e is outside.
func (e Extent) Contains(o Extent) bool {
	return spanContains(e.Origin.X, e.Size, o.Origin.X, o.Size) &&
		spanContains(e.Origin.Y, e.Size, o.Origin.Y, o.Size)
}

func spanContains(lo, size, olo, osize float32) bool {
	hi := lo + size
	return olo >= lo && olo < hi && olo+osize <= hi
}

// MinSqDist is the squared distance from p to the nearest point of e, zero when p is inside.
func (e Extent) MinSqDist(p Point) float32 {
	dx := axisDist(e.Origin.X, e.Size, p.X)
	dy := axisDist(e.Origin.Y, e.Size, p.Y)
	return dx*dx + dy*dy
}

func axisDist(lo, size, v float32) float32 {
	if v < lo {
		return lo - v
	}
	if hi := lo + size; v > hi {
		return v - hi
	}
	return 0
}

func (e Extent) valid() bool {
	return e.Size >= 0 && e.Size == e.Size
}

// quadrant picks the child of e that fully contains o. ok is false when o
// straddles a midline.
func (e Extent) quadrant(o Extent) (idx int, ok bool) {
	half := e.Size * 0.5
	midX := e.Origin.X + half
	switch {
	case o.Origin.X >= midX:
		idx++
	case o.Origin.X+o.Size > midX:
		return 0, false
	}
	midY := e.Origin.Y + half
	switch {
	case o.Origin.Y >= midY:
		idx += 2
	case o.Origin.Y+o.Size > midY:
		return 0, false
	}
	return idx, true
}
