package model

import "strconv"

// Kind discriminates the closed set of payload types an update can carry.
type Kind int

const (
	KindInt Kind = iota
	KindFloat
	KindString
	KindStrings
	KindSeries
)

// Point is one sample in a time series: X is the offset in seconds, Y the
// sample value.
type Point struct {
	X float64
	Y float64
}

// Value is a tagged union over the payload types. Sinks reduce array-typed
// values to their latest element with Reduce; they never inspect the
// concrete type ad hoc.
type Value struct {
	kind Kind
	i    int64
	f    float64
	s    string
	ss   []string
	pts  []Point
}

func Int(v int64) Value {
	return Value{kind: KindInt, i: v}
}

func Float(v float64) Value {
	return Value{kind: KindFloat, f: v}
}

func String(v string) Value {
	return Value{kind: KindString, s: v}
}

func Strings(v []string) Value {
	cp := make([]string, len(v))
	copy(cp, v)

	return Value{kind: KindStrings, ss: cp}
}

func Series(v []Point) Value {
	cp := make([]Point, len(v))
	copy(cp, v)

	return Value{kind: KindSeries, pts: cp}
}

func Bool(v bool) Value {
	if v {
		return Int(1)
	}

	return Int(0)
}

func (v Value) Kind() Kind {
	return v.kind
}

func (v Value) Int() int64 {
	return v.i
}

func (v Value) Float() float64 {
	return v.f
}

func (v Value) Str() string {
	return v.s
}

func (v Value) StringSlice() []string {
	cp := make([]string, len(v.ss))
	copy(cp, v.ss)

	return cp
}

func (v Value) Points() []Point {
	cp := make([]Point, len(v.pts))
	copy(cp, v.pts)

	return cp
}

// Reduce collapses an array-typed value to its most recent element.
// Scalar values are returned unchanged. An empty series reduces to the
// zero scalar of its element type.
func (v Value) Reduce() Value {
	switch v.kind {
	case KindStrings:
		if len(v.ss) == 0 {
			return String("")
		}

		return String(v.ss[len(v.ss)-1])
	case KindSeries:
		if len(v.pts) == 0 {
			return Float(0)
		}

		return Float(v.pts[len(v.pts)-1].Y)
	default:
		return v
	}
}

// Scalar returns the reduced value as a plain Go scalar, suitable for a
// wire client. Rounding happens here, at the sink boundary, or not at all.
func (v Value) Scalar() any {
	r := v.Reduce()
	switch r.kind {
	case KindInt:
		return r.i
	case KindFloat:
		return r.f
	default:
		return r.s
	}
}

// Text renders the reduced value for the tabular recording log.
func (v Value) Text() string {
	r := v.Reduce()
	switch r.kind {
	case KindInt:
		return strconv.FormatInt(r.i, 10)
	case KindFloat:
		return strconv.FormatFloat(r.f, 'f', -1, 64)
	default:
		return r.s
	}
}
