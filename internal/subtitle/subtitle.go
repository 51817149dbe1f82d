package subtitle

import (
	"sort"
	"strings"
	"time"

	"github.com/typesub/typesub/internal/logging"
)

// represents a single timed word from a transcription
type Word struct {
	Text  string
	Start time.Duration
	End   time.Duration
}

func (w Word) Duration() time.Duration {
	return w.End - w.Start
}

// represents one on-screen subtitle cue, composed of timed words
type Segment struct {
	Words []Word
}

func (s Segment) Start() time.Duration {
	if len(s.Words) == 0 {
		return 0
	}
	return s.Words[0].Start
}

func (s Segment) End() time.Duration {
	if len(s.Words) == 0 {
		return 0
	}
	return s.Words[len(s.Words)-1].End
}

func (s Segment) Duration() time.Duration {
	return s.End() - s.Start()
}

// joined display text of the segment
func (s Segment) Text() string {
	parts := make([]string, 0, len(s.Words))
	for _, w := range s.Words {
		if w.Text == "" {
			continue
		}
		parts = append(parts, w.Text)
	}
	return strings.Join(parts, " ")
}

// represents a complete subtitle track
type Subtitles struct {
	Segments []Segment
	Language string
}

// flattens all segments back into a single ordered word stream
func (s *Subtitles) Words() []Word {
	var words []Word
	for _, seg := range s.Segments {
		words = append(words, seg.Words...)
	}
	return words
}

// sorts segments by start time and reports overlaps. Overlapping
// segments are kept; players stack them, so this is not fatal.
func (s *Subtitles) Normalize(log *logging.Logger) {
	sort.SliceStable(s.Segments, func(i, j int) bool {
		return s.Segments[i].Start() < s.Segments[j].Start()
	})
	if log == nil {
		return
	}
	for i := 1; i < len(s.Segments); i++ {
		prev, curr := s.Segments[i-1], s.Segments[i]
		if curr.Start() < prev.End() {
			log.Warnw("Overlapping segments",
				"index", i,
				"previousEnd", prev.End(),
				"start", curr.Start())
		}
	}
}

// represents supported subtitle formats
type Format string

const (
	FormatSRT  Format = "srt"
	FormatVTT  Format = "vtt"
	FormatASS  Format = "ass"
	FormatTXT  Format = "txt"
	FormatJSON Format = "json"
)

// interface for writing subtitles to files
type Writer interface {
	Render(subs *Subtitles) (string, error)
	Write(subs *Subtitles, path string) error
}

// interface for parsing subtitle files
type Parser interface {
	Parse(path string) (*Subtitles, error)
}
