package model

// timeSeries is a time-bounded buffer: entries older than window seconds
// relative to the newest entry are evicted on append. The bound is on
// time, not on element count.
type timeSeries struct {
	window float64
	pts    []Point
}

func newTimeSeries(window float64) timeSeries {
	return timeSeries{window: window}
}

// append inserts a sample, keeping the X coordinate monotonically
// non-decreasing and unique. A sample at an already-present latest X
// replaces it (last write wins); a sample older than the newest entry is
// refused.
func (t *timeSeries) append(x, y float64) bool {
	if n := len(t.pts); n > 0 {
		last := t.pts[n-1].X
		if x < last {
			return false
		}
		if x == last {
			t.pts[n-1].Y = y
			return true
		}
	}

	t.pts = append(t.pts, Point{X: x, Y: y})
	t.evict()

	return true
}

func (t *timeSeries) evict() {
	if len(t.pts) == 0 {
		return
	}

	cutoff := t.pts[len(t.pts)-1].X - t.window
	first := 0
	for first < len(t.pts) && t.pts[first].X < cutoff {
		first++
	}
	if first > 0 {
		t.pts = append(t.pts[:0], t.pts[first:]...)
	}
}

// points returns a copy; the backing slice is never aliased outside the
// model's lock.
func (t *timeSeries) points() []Point {
	cp := make([]Point, len(t.pts))
	copy(cp, t.pts)

	return cp
}

func (t *timeSeries) latest() (Point, bool) {
	if len(t.pts) == 0 {
		return Point{}, false
	}

	return t.pts[len(t.pts)-1], true
}

// within returns a copy of the entries in the trailing span seconds,
// relative to the newest entry.
func (t *timeSeries) within(span float64) []Point {
	if len(t.pts) == 0 {
		return nil
	}

	cutoff := t.pts[len(t.pts)-1].X - span
	first := 0
	for first < len(t.pts) && t.pts[first].X < cutoff {
		first++
	}
	cp := make([]Point, len(t.pts)-first)
	copy(cp, t.pts[first:])

	return cp
}
