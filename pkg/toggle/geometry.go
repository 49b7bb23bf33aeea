package toggle

// Box is an element's position and outer size in document coordinates.
type Box struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Rect is an axis-aligned rectangle given by its edges.
type Rect struct {
	XMin, XMax float64
	YMin, YMax float64
}

// Rect converts the box to edge form.
func (b Box) Rect() Rect {
	return Rect{
		XMin: b.X,
		XMax: b.X + b.Width,
		YMin: b.Y,
		YMax: b.Y + b.Height,
	}
}

// RectFromArea converts a complete area to edge form. The second return
// value is false when any coordinate is missing.
func RectFromArea(a Area) (Rect, bool) {
	if !a.Complete() {
		return Rect{}, false
	}
	return Box{X: *a.X, Y: *a.Y, Width: *a.Width, Height: *a.Height}.Rect(), true
}

// Intersects reports whether r and o overlap with positive area. Rectangles
// that only share an edge do not intersect.
func (r Rect) Intersects(o Rect) bool {
	return r.XMin < o.XMax && r.XMax > o.XMin &&
		r.YMin < o.YMax && r.YMax > o.YMin
}
