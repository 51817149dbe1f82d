package ass

import (
	"regexp"
	"strings"
	"time"
)

// SegmentFilter decides whether a dialogue line is part of a selection.
type SegmentFilter func(Segment) bool

func ByActor(name string) SegmentFilter {
	return func(s Segment) bool {
		return strings.EqualFold(s.ActorName, name)
	}
}

func ByStyle(name string) SegmentFilter {
	return func(s Segment) bool {
		return strings.EqualFold(s.StyleName, name)
	}
}

func ByText(pattern *regexp.Regexp) SegmentFilter {
	return func(s Segment) bool {
		return pattern.MatchString(s.Text())
	}
}

func ByLayer(layer int) SegmentFilter {
	return func(s Segment) bool {
		return s.Layer == layer
	}
}

func ByEffect(effect string) SegmentFilter {
	return func(s Segment) bool {
		return s.Effect == effect
	}
}

// ByTimeRange matches lines that overlap [from, to).
func ByTimeRange(from, to time.Duration) SegmentFilter {
	return func(s Segment) bool {
		return s.Start() < to && s.End() > from
	}
}

func All(filters ...SegmentFilter) SegmentFilter {
	return func(s Segment) bool {
		for _, f := range filters {
			if !f(s) {
				return false
			}
		}
		return true
	}
}

func Any(filters ...SegmentFilter) SegmentFilter {
	return func(s Segment) bool {
		for _, f := range filters {
			if f(s) {
				return true
			}
		}
		return false
	}
}

func Not(filter SegmentFilter) SegmentFilter {
	return func(s Segment) bool {
		return !filter(s)
	}
}

// Select returns the indices of matching dialogue lines.
func (f *File) Select(filter SegmentFilter) []int {
	var indices []int
	for i, seg := range f.Segments {
		if filter(seg) {
			indices = append(indices, i)
		}
	}
	return indices
}

// SelectSegments returns pointers into the file so selections can be
// edited in place.
func (f *File) SelectSegments(filter SegmentFilter) []*Segment {
	var selected []*Segment
	for i := range f.Segments {
		if filter(f.Segments[i]) {
			selected = append(selected, &f.Segments[i])
		}
	}
	return selected
}
