package ass

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/typesub/typesub/internal/subtitle"
)

func TestRenderRoundTrip(t *testing.T) {
	f := Parse(sampleScript, ParseOptions{IncludeComments: true})
	rendered, err := f.Render()
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	again := Parse(rendered, ParseOptions{IncludeComments: true})
	if got := again.ScriptInfoValue("Title"); got != "Sample" {
		t.Errorf("title lost: %q", got)
	}
	if len(again.Styles) != len(f.Styles) {
		t.Errorf("styles: got %d, want %d", len(again.Styles), len(f.Styles))
	}
	if len(again.Segments) != len(f.Segments) {
		t.Fatalf("segments: got %d, want %d", len(again.Segments), len(f.Segments))
	}
	for i := range f.Segments {
		if got, want := again.Segments[i].Text(), f.Segments[i].Text(); got != want {
			t.Errorf("segment %d: got %q, want %q", i, got, want)
		}
		if again.Segments[i].IsComment != f.Segments[i].IsComment {
			t.Errorf("segment %d: comment flag changed", i)
		}
	}
}

func TestRenderPreservesComments(t *testing.T) {
	f := Parse(sampleScript, ParseOptions{IncludeComments: true})
	rendered, err := f.Render()
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	lines := strings.Split(rendered, "\n")
	for i, line := range lines {
		if line == "[Script Info]" {
			if i+1 >= len(lines) || !strings.HasPrefix(lines[i+1], ";") {
				t.Errorf("comment not restored right after the header: %q", lines[i+1])
			}
			return
		}
	}
	t.Fatal("script info section missing")
}

func TestRenderPreservesCustomSections(t *testing.T) {
	script := sampleScript + "\n[Fonts]\nfontname: arial.ttf\nAAAA\n"
	f := Parse(script, ParseOptions{})
	rendered, err := f.Render()
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	if !strings.Contains(rendered, "[Fonts]\nfontname: arial.ttf\nAAAA") {
		t.Errorf("custom section lost:\n%s", rendered)
	}
}

func TestRenderEventLine(t *testing.T) {
	seg := Segment{
		Layer:     2,
		StyleName: "Title",
		ActorName: "Bob",
		MarginL:   5,
		MarginR:   6,
		MarginV:   7,
		Effect:    "fade",
		Words: []Word{
			{Text: "hi", Start: time.Second, End: 2 * time.Second},
		},
	}
	got := renderEventLine(seg)
	want := "Dialogue: 2,0:00:01.00,0:00:02.00,Title,Bob,5,6,7,fade,hi"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	seg.IsComment = true
	if got := renderEventLine(seg); !strings.HasPrefix(got, "Comment: ") {
		t.Errorf("comment prefix: %q", got)
	}
}

func TestGenerate(t *testing.T) {
	subs := &subtitle.Subtitles{
		Language: "en",
		Segments: []subtitle.Segment{
			plainSegment([]string{"Hello", "world"}, 0, 0.5),
		},
	}
	f := Generate(subs, DefaultEngineConfig())

	if got := f.ScriptInfoValue("ScriptType"); got != "v4.00+" {
		t.Errorf("script type: %q", got)
	}
	if len(f.Styles) != 1 || f.Styles[0].Name != "Default" {
		t.Fatalf("styles: %+v", f.Styles)
	}
	if got := f.Styles[0].Values["Fontname"]; got != "Arial" {
		t.Errorf("fontname: %q", got)
	}
	if len(f.Segments) != 1 {
		t.Fatalf("segments: %d", len(f.Segments))
	}
	if f.Segments[0].StyleName != "Default" {
		t.Errorf("style name: %q", f.Segments[0].StyleName)
	}
	if f.Language != "en" {
		t.Errorf("language: %q", f.Language)
	}
}

func TestWriterRender(t *testing.T) {
	subs := &subtitle.Subtitles{
		Segments: []subtitle.Segment{
			plainSegment([]string{"First"}, 1, 1),
		},
	}
	w := NewWriter()
	content, err := w.Render(subs)
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	for _, want := range []string{
		"[Script Info]",
		"[V4+ Styles]",
		"Format: Name, Fontname, Fontsize,",
		"[Events]",
		"Dialogue: 0,0:00:01.00,0:00:02.00,Default,,0,0,0,,First",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("output missing %q:\n%s", want, content)
		}
	}
}

func TestWriterWrite(t *testing.T) {
	subs := &subtitle.Subtitles{
		Segments: []subtitle.Segment{
			plainSegment([]string{"disk"}, 0, 1),
		},
	}
	path := filepath.Join(t.TempDir(), "deep", "out.ass")

	w := NewWriter()
	if err := w.Write(subs, path); err != nil {
		t.Fatalf("write: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if !strings.Contains(string(data), "disk") {
		t.Error("written file missing dialogue")
	}
}

func TestFileWrite(t *testing.T) {
	f := Parse(sampleScript, ParseOptions{})
	path := filepath.Join(t.TempDir(), "copy.ass")
	if err := f.Write(path); err != nil {
		t.Fatalf("write: %v", err)
	}

	reparsed, err := OpenFile(path, nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if len(reparsed.Segments) != len(f.Segments) {
		t.Errorf("segments: got %d, want %d", len(reparsed.Segments), len(f.Segments))
	}
}
