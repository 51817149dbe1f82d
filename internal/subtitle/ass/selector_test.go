package ass

import (
	"regexp"
	"testing"
	"time"
)

func selectorFile() *File {
	return Parse("[Events]\n"+
		"Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text\n"+
		"Dialogue: 0,0:00:00.00,0:00:02.00,Default,Alice,0,0,0,,first line\n"+
		"Dialogue: 1,0:00:01.00,0:00:03.00,Title,Bob,0,0,0,fade,second line\n"+
		"Dialogue: 0,0:00:05.00,0:00:06.00,Default,alice,0,0,0,,third line\n",
		ParseOptions{})
}

func TestSelectByActor(t *testing.T) {
	f := selectorFile()
	got := f.Select(ByActor("Alice"))
	if len(got) != 2 || got[0] != 0 || got[1] != 2 {
		t.Errorf("indices: %v (matching is case insensitive)", got)
	}
}

func TestSelectByStyle(t *testing.T) {
	f := selectorFile()
	got := f.Select(ByStyle("title"))
	if len(got) != 1 || got[0] != 1 {
		t.Errorf("indices: %v", got)
	}
}

func TestSelectByText(t *testing.T) {
	f := selectorFile()
	got := f.Select(ByText(regexp.MustCompile(`^first`)))
	if len(got) != 1 || got[0] != 0 {
		t.Errorf("indices: %v", got)
	}
}

func TestSelectByLayerAndEffect(t *testing.T) {
	f := selectorFile()
	if got := f.Select(ByLayer(1)); len(got) != 1 || got[0] != 1 {
		t.Errorf("layer: %v", got)
	}
	if got := f.Select(ByEffect("fade")); len(got) != 1 || got[0] != 1 {
		t.Errorf("effect: %v", got)
	}
}

func TestSelectByTimeRange(t *testing.T) {
	f := selectorFile()
	// [1.5s, 4s) overlaps the first two lines, not the third
	got := f.Select(ByTimeRange(1500*time.Millisecond, 4*time.Second))
	if len(got) != 2 || got[0] != 0 || got[1] != 1 {
		t.Errorf("indices: %v", got)
	}
	// a range that only touches a line's end does not match
	if got := f.Select(ByTimeRange(6*time.Second, 7*time.Second)); len(got) != 0 {
		t.Errorf("touching range: %v", got)
	}
}

func TestSelectCombinators(t *testing.T) {
	f := selectorFile()

	both := All(ByActor("Alice"), ByStyle("Default"))
	if got := f.Select(both); len(got) != 2 {
		t.Errorf("all: %v", got)
	}

	either := Any(ByActor("Bob"), ByLayer(0))
	if got := f.Select(either); len(got) != 3 {
		t.Errorf("any: %v", got)
	}

	if got := f.Select(Not(ByActor("Alice"))); len(got) != 1 || got[0] != 1 {
		t.Errorf("not: %v", got)
	}
}

func TestSelectSegmentsEditsInPlace(t *testing.T) {
	f := selectorFile()
	for _, seg := range f.SelectSegments(ByActor("Bob")) {
		seg.Layer = 9
	}
	if f.Segments[1].Layer != 9 {
		t.Error("edit through the selection did not stick")
	}
}
