package subtitle

import (
	"strings"
	"testing"
	"time"
)

func tw(text string, start, end float64) Word {
	return Word{
		Text:  text,
		Start: time.Duration(start * float64(time.Second)),
		End:   time.Duration(end * float64(time.Second)),
	}
}

func segmentTexts(segments []Segment) []string {
	texts := make([]string, len(segments))
	for i, seg := range segments {
		texts[i] = seg.Text()
	}
	return texts
}

func TestSegmentShortLineStaysTogether(t *testing.T) {
	cfg := DefaultSegmenterConfig()
	cfg.CharLimit = 100
	s := NewSegmenter(cfg)

	segments := s.Segment([]Word{
		tw("This", 0.0, 0.4),
		tw("is", 0.4, 0.6),
		tw("a", 0.6, 0.7),
		tw("test.", 0.7, 1.2),
	})

	if len(segments) != 1 {
		t.Fatalf("expected 1 segment, got %d: %v", len(segments), segmentTexts(segments))
	}
	if got := segments[0].Text(); got != "This is a test." {
		t.Errorf("text: got %q, want %q", got, "This is a test.")
	}
}

func TestSegmentDropsInvalidWords(t *testing.T) {
	cfg := DefaultSegmenterConfig()
	cfg.CharLimit = 100
	s := NewSegmenter(cfg)

	segments := s.Segment([]Word{
		tw("Good", 0.0, 0.4),
		tw("   ", 0.4, 0.45),
		tw("bad", 0.45, 0.4),
		tw("words", 0.5, 0.9),
	})

	if len(segments) != 1 {
		t.Fatalf("expected 1 segment, got %d: %v", len(segments), segmentTexts(segments))
	}
	if got := segments[0].Text(); got != "Good words" {
		t.Errorf("text: got %q, want %q", got, "Good words")
	}
	for _, w := range segments[0].Words {
		if w.End < w.Start {
			t.Errorf("word %q kept with end before start", w.Text)
		}
	}
}

func TestSegmentPunctuationForcesBreak(t *testing.T) {
	cfg := DefaultSegmenterConfig()
	cfg.CharLimit = 15
	s := NewSegmenter(cfg)

	// "End. New word" fits in 15 chars, but the sentence bonus makes
	// breaking after "End." cheaper than keeping one line
	segments := s.Segment([]Word{
		tw("End.", 0.0, 0.5),
		tw("New", 0.6, 1.0),
		tw("word", 1.1, 1.5),
	})

	if len(segments) != 2 {
		t.Fatalf("expected 2 segments, got %d: %v", len(segments), segmentTexts(segments))
	}
	if got := segments[0].Text(); got != "End." {
		t.Errorf("first segment: got %q, want %q", got, "End.")
	}
	if got := segments[1].Text(); got != "New word" {
		t.Errorf("second segment: got %q, want %q", got, "New word")
	}
}

func TestSegmentSplitsAtSilenceGap(t *testing.T) {
	cfg := DefaultSegmenterConfig()
	cfg.CharLimit = 20
	s := NewSegmenter(cfg)

	// the whole text fits on one line, the 1.5s pause drives the break
	segments := s.Segment([]Word{
		tw("Hi", 0.0, 0.5),
		tw("there", 0.5, 1.0),
		tw("my", 2.5, 3.0),
		tw("friend", 3.0, 3.5),
	})

	if len(segments) != 2 {
		t.Fatalf("expected 2 segments, got %d: %v", len(segments), segmentTexts(segments))
	}
	if got := segments[0].Text(); got != "Hi there" {
		t.Errorf("first segment: got %q, want %q", got, "Hi there")
	}
	if got := segments[1].Text(); got != "my friend" {
		t.Errorf("second segment: got %q, want %q", got, "my friend")
	}
}

func TestSegmentOverlongSingleWord(t *testing.T) {
	cfg := DefaultSegmenterConfig()
	cfg.CharLimit = 20
	s := NewSegmenter(cfg)

	long := strings.Repeat("a", 35)
	segments := s.Segment([]Word{tw(long, 0.0, 2.0)})

	if len(segments) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(segments))
	}
	if got := segments[0].Text(); got != long {
		t.Errorf("text: got %q, want the full word", got)
	}
}

func TestSegmentOverlongWordAmongOthers(t *testing.T) {
	cfg := DefaultSegmenterConfig()
	cfg.CharLimit = 10
	s := NewSegmenter(cfg)

	segments := s.Segment([]Word{
		tw("short", 0.0, 0.5),
		tw(strings.Repeat("b", 25), 0.5, 2.5),
		tw("after", 2.5, 3.0),
	})

	// the oversized word gets its own segment, neighbors are unaffected
	found := false
	for _, seg := range segments {
		if seg.Text() == strings.Repeat("b", 25) {
			found = true
			continue
		}
		if len(seg.Text()) > 10 {
			t.Errorf("segment %q exceeds the limit", seg.Text())
		}
	}
	if !found {
		t.Error("oversized word not isolated in its own segment")
	}
}

func TestSegmentCoversEveryWordInOrder(t *testing.T) {
	cfg := DefaultSegmenterConfig()
	cfg.CharLimit = 12
	s := NewSegmenter(cfg)

	words := []Word{
		tw("one", 0.0, 0.3),
		tw("two", 0.3, 0.6),
		tw("three,", 0.6, 1.0),
		tw("four", 2.0, 2.4),
		tw("five.", 2.4, 3.0),
		tw("six", 3.2, 3.6),
	}
	segments := s.Segment(words)

	var flattened []Word
	for _, seg := range segments {
		if len(seg.Words) == 0 {
			t.Fatal("empty segment produced")
		}
		flattened = append(flattened, seg.Words...)
	}
	if len(flattened) != len(words) {
		t.Fatalf("expected %d words, got %d", len(words), len(flattened))
	}
	for i := range words {
		if flattened[i] != words[i] {
			t.Errorf("word %d: got %+v, want %+v", i, flattened[i], words[i])
		}
	}
}

func TestSegmentRespectsCharLimit(t *testing.T) {
	cfg := DefaultSegmenterConfig()
	cfg.CharLimit = 15
	s := NewSegmenter(cfg)

	var words []Word
	for i := 0; i < 30; i++ {
		start := float64(i) * 0.4
		words = append(words, tw("word", start, start+0.35))
	}

	for _, seg := range s.Segment(words) {
		if n := len(seg.Text()); n > 15 {
			t.Errorf("segment %q has %d chars, limit 15", seg.Text(), n)
		}
	}
}

func TestSegmentReadingSpeedCeiling(t *testing.T) {
	cfg := DefaultSegmenterConfig()
	cfg.CharLimit = 60
	s := NewSegmenter(cfg)

	// 44 chars crammed into one second must not stay on one line
	words := []Word{
		tw("abcdefghijklmnopqrst", 0.0, 0.5),
		tw("uvwxyzabcdefghijklmnopq", 0.5, 1.0),
	}
	segments := s.Segment(words)

	if len(segments) != 2 {
		t.Fatalf("expected the ceiling to split the line, got %d segments", len(segments))
	}
}

func TestSegmentEmptyInput(t *testing.T) {
	s := NewSegmenter(DefaultSegmenterConfig())
	if got := s.Segment(nil); got != nil {
		t.Errorf("expected nil for empty input, got %v", got)
	}
}

func TestNewSegmenterDefaultsCharLimit(t *testing.T) {
	s := NewSegmenter(SegmenterConfig{})
	if s.cfg.CharLimit != 42 {
		t.Errorf("char limit: got %d, want 42", s.cfg.CharLimit)
	}
}
