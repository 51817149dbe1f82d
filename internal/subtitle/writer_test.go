package subtitle

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func sampleSubs() *Subtitles {
	return &Subtitles{
		Language: "en",
		Segments: []Segment{
			{Words: []Word{
				tw("Hello", 0.0, 0.5),
				tw("world", 0.5, 1.0),
			}},
			{Words: []Word{
				tw("Second", 2.0, 2.5),
				tw("line", 2.5, 3.0),
			}},
		},
	}
}

func TestSRTWriterRender(t *testing.T) {
	w := &SRTWriter{}
	got, err := w.Render(sampleSubs())
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	want := "1\n" +
		"00:00:00,000 --> 00:00:01,000\n" +
		"Hello world\n\n" +
		"2\n" +
		"00:00:02,000 --> 00:00:03,000\n" +
		"Second line\n\n"
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestVTTWriterRender(t *testing.T) {
	w := &VTTWriter{}
	got, err := w.Render(sampleSubs())
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	if !strings.HasPrefix(got, "WEBVTT\n\n") {
		t.Error("missing WEBVTT header")
	}
	if !strings.Contains(got, "00:00:02.000 --> 00:00:03.000") {
		t.Errorf("missing dot-separated timestamps:\n%s", got)
	}
}

func TestTXTWriterRender(t *testing.T) {
	w := &TXTWriter{}
	got, err := w.Render(sampleSubs())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "Hello world\nSecond line\n" {
		t.Errorf("got %q", got)
	}
}

func TestJSONWriterRender(t *testing.T) {
	w := &JSONWriter{}
	got, err := w.Render(sampleSubs())
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	var doc struct {
		Language string `json:"language"`
		Segments []struct {
			Start float64 `json:"start"`
			End   float64 `json:"end"`
			Text  string  `json:"text"`
			Words []struct {
				Word  string  `json:"word"`
				Start float64 `json:"start"`
				End   float64 `json:"end"`
			} `json:"words"`
		} `json:"segments"`
	}
	if err := json.Unmarshal([]byte(got), &doc); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if doc.Language != "en" {
		t.Errorf("language: got %q", doc.Language)
	}
	if len(doc.Segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(doc.Segments))
	}
	if doc.Segments[0].Text != "Hello world" {
		t.Errorf("text: got %q", doc.Segments[0].Text)
	}
	if len(doc.Segments[0].Words) != 2 {
		t.Errorf("expected 2 words, got %d", len(doc.Segments[0].Words))
	}
	if doc.Segments[0].Words[1].Start != 0.5 {
		t.Errorf("word start: got %v", doc.Segments[0].Words[1].Start)
	}
}

func TestNewWriter(t *testing.T) {
	for _, format := range []Format{FormatSRT, FormatVTT, FormatTXT, FormatJSON} {
		if _, err := NewWriter(format); err != nil {
			t.Errorf("%s: %v", format, err)
		}
	}
	if _, err := NewWriter(FormatASS); err == nil {
		t.Error("expected error for ass format")
	}
	if _, err := NewWriter(Format("bogus")); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestWriterWriteCreatesDirectories(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "out.srt")

	w := &SRTWriter{}
	if err := w.Write(sampleSubs(), path); err != nil {
		t.Fatalf("write: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if !strings.Contains(string(data), "Hello world") {
		t.Error("written file missing content")
	}
}

func TestFormatSRTTime(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "00:00:00,000"},
		{1500 * time.Millisecond, "00:00:01,500"},
		{time.Hour + 2*time.Minute + 3*time.Second + 45*time.Millisecond, "01:02:03,045"},
		{999500 * time.Microsecond, "00:00:01,000"}, // rounds half up
		{999499 * time.Microsecond, "00:00:00,999"},
		{-time.Second, "00:00:00,000"}, // negatives clamp to zero
	}
	for _, tt := range tests {
		if got := FormatSRTTime(tt.d); got != tt.want {
			t.Errorf("FormatSRTTime(%v): got %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestFormatVTTTime(t *testing.T) {
	if got := FormatVTTTime(61500 * time.Millisecond); got != "00:01:01.500" {
		t.Errorf("got %q", got)
	}
}

func TestFormatASSTime(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0:00:00.00"},
		{1230 * time.Millisecond, "0:00:01.23"},
		{time.Hour + 2*time.Minute + 3*time.Second + 450*time.Millisecond, "1:02:03.45"},
		{995 * time.Millisecond, "0:00:01.00"}, // rounds half up to the next centisecond
		{994 * time.Millisecond, "0:00:00.99"},
		{11 * time.Hour, "11:00:00.00"}, // hours are unpadded
	}
	for _, tt := range tests {
		if got := FormatASSTime(tt.d); got != tt.want {
			t.Errorf("FormatASSTime(%v): got %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestGetFormatFromExtension(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"out.srt", FormatSRT},
		{"out.VTT", FormatVTT},
		{"out.ass", FormatASS},
		{"out.ssa", FormatASS},
		{"out.txt", FormatTXT},
		{"out.json", FormatJSON},
		{"out.mkv", FormatSRT},
	}
	for _, tt := range tests {
		if got := GetFormatFromExtension(tt.path); got != tt.want {
			t.Errorf("%s: got %s, want %s", tt.path, got, tt.want)
		}
	}
}

func TestGetExtensionForFormat(t *testing.T) {
	if got := GetExtensionForFormat(FormatASS); got != ".ass" {
		t.Errorf("got %q", got)
	}
	if got := GetExtensionForFormat(FormatSRT); got != ".srt" {
		t.Errorf("got %q", got)
	}
}
