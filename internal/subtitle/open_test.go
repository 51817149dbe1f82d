package subtitle

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	return path
}

func TestOpenSRT(t *testing.T) {
	content := "1\n" +
		"00:00:01,000 --> 00:00:02,500\n" +
		"Hello world\n" +
		"\n" +
		"2\n" +
		"00:00:03,000 --> 00:00:04,000\n" +
		"Two\n" +
		"lines\n"
	path := writeTemp(t, "test.srt", content)

	f, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if f.Format() != FormatSRT {
		t.Errorf("format: got %s", f.Format())
	}

	subs := f.Subtitles()
	if len(subs.Segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(subs.Segments))
	}
	if got := subs.Segments[0].Text(); got != "Hello world" {
		t.Errorf("text: got %q", got)
	}
	if subs.Segments[0].Start() != time.Second {
		t.Errorf("start: got %v", subs.Segments[0].Start())
	}
	if subs.Segments[0].End() != 2500*time.Millisecond {
		t.Errorf("end: got %v", subs.Segments[0].End())
	}
	if got := subs.Segments[1].Text(); got != "Two lines" {
		t.Errorf("multiline cue: got %q", got)
	}
}

func TestOpenSRTWithBOM(t *testing.T) {
	content := "\uFEFF1\n" +
		"00:00:00,000 --> 00:00:01,000\n" +
		"BOM test\n"
	path := writeTemp(t, "bom.srt", content)

	f, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if len(f.Subtitles().Segments) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(f.Subtitles().Segments))
	}
}

func TestOpenSRTSkipsMalformedCues(t *testing.T) {
	content := "1\n" +
		"not a timestamp\n" +
		"orphan text\n" +
		"\n" +
		"2\n" +
		"00:00:01,000 --> 00:00:02,000\n" +
		"Valid cue\n"
	path := writeTemp(t, "malformed.srt", content)

	f, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	subs := f.Subtitles()
	if len(subs.Segments) != 1 {
		t.Fatalf("expected only the valid cue, got %d segments", len(subs.Segments))
	}
	if got := subs.Segments[0].Text(); got != "Valid cue" {
		t.Errorf("text: got %q", got)
	}
}

func TestOpenVTT(t *testing.T) {
	content := "WEBVTT\n" +
		"\n" +
		"NOTE this block is skipped\n" +
		"still part of the note\n" +
		"\n" +
		"1\n" +
		"00:00:01.000 --> 00:00:02.000\n" +
		"First cue\n" +
		"\n" +
		"01:30.500 --> 01:32.000\n" +
		"Short timestamps\n"
	path := writeTemp(t, "test.vtt", content)

	f, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if f.Format() != FormatVTT {
		t.Errorf("format: got %s", f.Format())
	}

	subs := f.Subtitles()
	if len(subs.Segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(subs.Segments))
	}
	if got := subs.Segments[0].Text(); got != "First cue" {
		t.Errorf("text: got %q", got)
	}
	wantStart := 90*time.Second + 500*time.Millisecond
	if subs.Segments[1].Start() != wantStart {
		t.Errorf("short timestamp start: got %v, want %v",
			subs.Segments[1].Start(), wantStart)
	}
}

func TestOpenUnsupportedExtension(t *testing.T) {
	if _, err := Open("subs.docx"); err == nil {
		t.Error("expected error for unsupported extension")
	}
}

func TestSetText(t *testing.T) {
	content := "1\n" +
		"00:00:00,000 --> 00:00:02,000\n" +
		"Original text\n"
	path := writeTemp(t, "settext.srt", content)

	f, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	if err := f.SetText(0, "Replaced words here"); err != nil {
		t.Fatalf("set text: %v", err)
	}
	seg := f.Subtitles().Segments[0]
	if got := seg.Text(); got != "Replaced words here" {
		t.Errorf("text: got %q", got)
	}
	// timing is preserved and redistributed over the new words
	if seg.Start() != 0 || seg.End() != 2*time.Second {
		t.Errorf("timing changed: %v-%v", seg.Start(), seg.End())
	}

	if err := f.SetText(5, "out of range"); err == nil {
		t.Error("expected error for out-of-range index")
	}
	if err := f.SetText(-1, "negative"); err == nil {
		t.Error("expected error for negative index")
	}
}

func TestSRTRoundTrip(t *testing.T) {
	content := "1\n" +
		"00:00:01,000 --> 00:00:02,000\n" +
		"Round trip\n"
	path := writeTemp(t, "in.srt", content)

	f, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	out := filepath.Join(t.TempDir(), "out.srt")
	if err := f.Write(out); err != nil {
		t.Fatalf("write: %v", err)
	}

	reparsed, err := Open(out)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	subs := reparsed.Subtitles()
	if len(subs.Segments) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(subs.Segments))
	}
	if got := subs.Segments[0].Text(); got != "Round trip" {
		t.Errorf("text: got %q", got)
	}
	if subs.Segments[0].Start() != time.Second {
		t.Errorf("start: got %v", subs.Segments[0].Start())
	}
}

func TestOpenMissingFile(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "missing.srt")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestNormalizeSortsSegments(t *testing.T) {
	subs := &Subtitles{Segments: []Segment{
		{Words: []Word{tw("later", 5.0, 6.0)}},
		{Words: []Word{tw("earlier", 1.0, 2.0)}},
	}}
	subs.Normalize(nil)
	if subs.Segments[0].Text() != "earlier" {
		t.Errorf("segments not sorted: first is %q", subs.Segments[0].Text())
	}
}

func TestSubtitlesWords(t *testing.T) {
	subs := &Subtitles{Segments: []Segment{
		{Words: []Word{tw("a", 0, 0.5), tw("b", 0.5, 1.0)}},
		{Words: []Word{tw("c", 1.0, 1.5)}},
	}}
	words := subs.Words()
	if len(words) != 3 {
		t.Fatalf("expected 3 words, got %d", len(words))
	}
	var texts []string
	for _, w := range words {
		texts = append(texts, w.Text)
	}
	if strings.Join(texts, "") != "abc" {
		t.Errorf("order: %v", texts)
	}
}
