package state

// SessionState is the phase of a pointer gesture.
type SessionState int

const (
	Idle SessionState = iota
	Accumulating
)

func (s SessionState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Accumulating:
		return "accumulating"
	}
	return "unknown"
}

// Paint is the style a committed element is drawn with.
type Paint struct {
	Color string
	Width float64
}

// Session turns one pointer-down to pointer-up gesture into an element.
//
// Brush gestures keep every point they are given, unless MinDistance is
// positive: then a point closer than MinDistance to the last kept point is
// held back and only kept if the gesture ends on it, so the first and last
// points always survive exactly. Shape and line gestures keep two points, the
// anchor and the current position.
type Session struct {
	MinDistance float64

	state   SessionState
	tool    Tool
	points  []Point
	held    Point
	hasHeld bool
}

func (s *Session) State() SessionState { return s.state }

// Tool is the tool of the gesture in progress. It is empty when idle.
func (s *Session) Tool() Tool { return s.tool }

// Points returns a copy of the accumulated points, including a held back one.
func (s *Session) Points() []Point {
	out := make([]Point, 0, len(s.points)+1)
	out = append(out, s.points...)
	if s.hasHeld {
		out = append(out, s.held)
	}
	return out
}

// Begin starts a gesture at p. It reports false, leaving the session idle,
// when tool does not draw. A gesture already in progress is discarded first.
func (s *Session) Begin(tool Tool, p Point) bool {
	s.reset()
	if !tool.Draws() {
		return false
	}
	s.state = Accumulating
	s.tool = tool
	s.points = []Point{p}
	return true
}

// Move records the pointer at p. It is ignored while idle.
func (s *Session) Move(p Point) {
	if s.state != Accumulating {
		return
	}
	if s.tool != ToolBrush {
		if len(s.points) == 1 {
			s.points = append(s.points, p)
		} else {
			s.points[1] = p
		}
		return
	}
	if s.MinDistance > 0 && distance(s.points[len(s.points)-1], p) < s.MinDistance {
		s.held, s.hasHeld = p, true
		return
	}
	s.points = append(s.points, p)
	s.hasHeld = false
}

// Pending returns the element that committing now would produce.
func (s *Session) Pending(paint Paint) (Element, bool) {
	if s.state != Accumulating {
		return nil, false
	}
	points := s.Points()
	anchor := points[0]
	current := points[len(points)-1]
	switch s.tool {
	case ToolBrush:
		return NewFreehandPath(points, paint.Color, paint.Width), true
	case ToolLine:
		return NewFreehandPath([]Point{anchor, current}, paint.Color, paint.Width), true
	case ToolCircle:
		return NewCircle(anchor, distance(anchor, current), paint.Color, paint.Color, paint.Width), true
	case ToolRectangle:
		return RectFromCorners(anchor, current, paint.Color, paint.Color, paint.Width), true
	}
	return nil, false
}

// End finishes the gesture and returns the element it produced. The session
// is idle afterwards. It reports false if no gesture was in progress.
func (s *Session) End(paint Paint) (Element, bool) {
	e, ok := s.Pending(paint)
	s.reset()
	return e, ok
}

// Cancel discards the gesture in progress. It reports whether there was one.
func (s *Session) Cancel() bool {
	active := s.state == Accumulating
	s.reset()
	return active
}

func (s *Session) reset() {
	s.state = Idle
	s.tool = ""
	s.points = nil
	s.held = Point{}
	s.hasHeld = false
}
