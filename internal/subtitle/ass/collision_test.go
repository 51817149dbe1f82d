package ass

import (
	"strings"
	"testing"
)

const collisionScript = `[Script Info]
PlayResX: 1920
PlayResY: 1080

[V4+ Styles]
Format: Name, Fontname, Fontsize, Outline, Shadow, Spacing, MarginL, MarginR, MarginV
Style: Default,Arial,48,2,1,0,10,10,30
Style: Big,Arial,96,2,1,0,10,10,30

[Events]
Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text
Dialogue: 0,0:00:00.00,0:00:04.00,Default,,0,0,0,,first
Dialogue: 0,0:00:01.00,0:00:05.00,Default,,0,0,0,,second
Dialogue: 0,0:00:02.00,0:00:06.00,Big,,0,0,0,,third
Dialogue: 0,0:00:10.00,0:00:11.00,Default,,0,0,0,,alone
`

func TestResolveCollisions(t *testing.T) {
	f := Parse(collisionScript, ParseOptions{})
	f.ResolveCollisions()

	if f.Segments[0].MarginV != 0 {
		t.Errorf("first line must keep its margin, got %d", f.Segments[0].MarginV)
	}
	// second overlaps first, bumped by its own font size
	if f.Segments[1].MarginV != 48 {
		t.Errorf("second line margin: got %d, want 48", f.Segments[1].MarginV)
	}
	// third overlaps both, stacked above the highest live margin
	if f.Segments[2].MarginV != 48+96 {
		t.Errorf("third line margin: got %d, want %d", f.Segments[2].MarginV, 48+96)
	}
	// no overlap after the stack clears
	if f.Segments[3].MarginV != 0 {
		t.Errorf("isolated line margin: got %d", f.Segments[3].MarginV)
	}
}

func TestResolveCollisionsSeparateZones(t *testing.T) {
	script := "[Events]\n" +
		"Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text\n" +
		"Dialogue: 0,0:00:00.00,0:00:04.00,Default,,0,0,0,,bottom line\n" +
		"Dialogue: 0,0:00:01.00,0:00:05.00,Default,,0,0,0,,{\\an8}top line\n"
	f := Parse(script, ParseOptions{})
	f.ResolveCollisions()

	// an8 anchors to the top of the screen, no shared zone, no bump
	if f.Segments[0].MarginV != 0 || f.Segments[1].MarginV != 0 {
		t.Errorf("margins: %d and %d",
			f.Segments[0].MarginV, f.Segments[1].MarginV)
	}
}

func TestResolveCollisionsSkipsComments(t *testing.T) {
	script := "[Events]\n" +
		"Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text\n" +
		"Comment: 0,0:00:00.00,0:00:04.00,Default,,0,0,0,,note\n" +
		"Dialogue: 0,0:00:01.00,0:00:05.00,Default,,0,0,0,,dialogue\n"
	f := Parse(script, ParseOptions{})
	f.ResolveCollisions()

	if f.Segments[1].MarginV != 0 {
		t.Errorf("comments must not collide: margin %d", f.Segments[1].MarginV)
	}
}

func TestResampleResolution(t *testing.T) {
	f := Parse(collisionScript, ParseOptions{})
	f.Segments[0].MarginL = 100
	f.Segments[0].MarginV = 50

	if err := f.ResampleResolution(1280, 720); err != nil {
		t.Fatalf("resample: %v", err)
	}

	if got := f.ScriptInfoValue("PlayResX"); got != "1280" {
		t.Errorf("playresx: %q", got)
	}
	if got := f.ScriptInfoValue("PlayResY"); got != "720" {
		t.Errorf("playresy: %q", got)
	}

	// 1080 -> 720 is a 2/3 vertical factor
	if got := f.Styles[0].Values["Fontsize"]; got != "32" {
		t.Errorf("fontsize: %q", got)
	}
	if got := f.Styles[1].Values["Fontsize"]; got != "64" {
		t.Errorf("big fontsize: %q", got)
	}
	// style margins follow the horizontal factor 2/3
	if got := f.Styles[0].Values["MarginL"]; !strings.HasPrefix(got, "6.6666") {
		t.Errorf("marginl: %q", got)
	}

	if f.Segments[0].MarginL != 67 {
		t.Errorf("event marginl: got %d, want 67", f.Segments[0].MarginL)
	}
	if f.Segments[0].MarginV != 33 {
		t.Errorf("event marginv: got %d, want 33", f.Segments[0].MarginV)
	}
}

func TestResampleResolutionScalesInlineTags(t *testing.T) {
	script := "[Script Info]\n" +
		"PlayResX: 1920\n" +
		"PlayResY: 1080\n" +
		"\n" +
		"[Events]\n" +
		"Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text\n" +
		"Dialogue: 0,0:00:00.00,0:00:01.00,Default,,0,0,0,,{\\pos(960,540)\\fs48}centered\n"
	f := Parse(script, ParseOptions{})

	if err := f.ResampleResolution(960, 540); err != nil {
		t.Fatalf("resample: %v", err)
	}

	tags := f.Segments[0].Words[0].Styles[0].Tags
	if tags.PositionX == nil || *tags.PositionX != 480 {
		t.Errorf("x: %v", tags.PositionX)
	}
	if tags.PositionY == nil || *tags.PositionY != 270 {
		t.Errorf("y: %v", tags.PositionY)
	}
	if tags.FontSize == nil || *tags.FontSize != 24 {
		t.Errorf("font size: %v", tags.FontSize)
	}
}

func TestResampleResolutionRequiresPlayRes(t *testing.T) {
	f := Parse("[Events]\n"+
		"Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text\n"+
		"Dialogue: 0,0:00:00.00,0:00:01.00,Default,,0,0,0,,text\n",
		ParseOptions{})

	if err := f.ResampleResolution(1280, 720); err == nil {
		t.Error("expected error without PlayResX/PlayResY")
	}

	f2 := Parse(collisionScript, ParseOptions{})
	if err := f2.ResampleResolution(0, 720); err == nil {
		t.Error("expected error for a zero target dimension")
	}
}
