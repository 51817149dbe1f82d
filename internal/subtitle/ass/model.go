package ass

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/typesub/typesub/internal/subtitle"
)

// StyleRange attaches a tag block to a half-open rune range within one
// word's text. The block's opening tags are spliced in immediately
// before StartChar when the dialogue text is rendered.
type StyleRange struct {
	StartChar int
	EndChar   int
	Tags      TagBlock
}

// Word is a timed word plus its inline style ranges.
type Word struct {
	Text   string
	Start  time.Duration
	End    time.Duration
	Styles []StyleRange
	// NewlineBefore marks a \N line break preceding this word.
	NewlineBefore bool
}

// Segment is one Dialogue or Comment event with full ASS metadata.
type Segment struct {
	Words     []Word
	Layer     int
	StyleName string
	ActorName string
	MarginL   int
	MarginR   int
	MarginV   int
	Effect    string
	IsComment bool
}

// FromSegment lifts a plain segment into a styled one with no ranges.
func FromSegment(seg subtitle.Segment) Segment {
	words := make([]Word, 0, len(seg.Words))
	for _, w := range seg.Words {
		words = append(words, Word{Text: w.Text, Start: w.Start, End: w.End})
	}
	return Segment{Words: words, StyleName: "Default"}
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

// Text returns the plain joined text with all tags stripped. Line
// breaks carried by \N become real newlines.
func (s Segment) Text() string {
	var sb strings.Builder
	first := true
	for _, w := range s.Words {
		if w.Text == "" {
			continue
		}
		if !first {
			if w.NewlineBefore {
				sb.WriteString("\n")
			} else {
				sb.WriteString(" ")
			}
		}
		sb.WriteString(w.Text)
		first = false
	}
	return sb.String()
}

// Plain drops the style information, for conversion to other formats.
func (s Segment) Plain() subtitle.Segment {
	var words []subtitle.Word
	for _, w := range s.Words {
		if w.Text == "" {
			continue
		}
		words = append(words, subtitle.Word{
			Text:  w.Text,
			Start: w.Start,
			End:   w.End,
		})
	}
	return subtitle.Segment{Words: words}
}

// RenderText reconstructs the inline dialogue text, splicing each style
// range's tag block at its character offset. Offsets are applied left
// to right with a running adjustment so multiple insertions into one
// word do not clobber each other. Newlines render as literal \N.
func (s Segment) RenderText() string {
	var sb strings.Builder
	needSpace := false

	for _, w := range s.Words {
		// tag-only synthetic words carry trailing blocks, no space
		if needSpace && w.Text != "" {
			if w.NewlineBefore {
				sb.WriteString("\\N")
			} else {
				sb.WriteString(" ")
			}
		}

		runes := []rune(w.Text)
		cursor := 0
		for _, sr := range w.Styles {
			at := sr.StartChar
			if at > len(runes) {
				at = len(runes)
			}
			if at > cursor {
				sb.WriteString(string(runes[cursor:at]))
				cursor = at
			}
			sb.WriteString(sr.Tags.String())
		}
		if cursor < len(runes) {
			sb.WriteString(string(runes[cursor:]))
		}

		if w.Text != "" {
			needSpace = true
		}
	}

	return strings.ReplaceAll(sb.String(), "\n", "\\N")
}

// RuneLen returns the word length in runes, the unit style offsets use.
func (w Word) RuneLen() int {
	return utf8.RuneCountInString(w.Text)
}

// Style is one [V4+ Styles] definition with the column layout declared
// by the file's Format line, values kept verbatim for round-tripping.
type Style struct {
	Name   string
	Values map[string]string
}

// PositionedComment is a ; comment line with its original position
// among the section's content lines.
type PositionedComment struct {
	Index int
	Text  string
}

// ScriptInfoEntry is one Key: Value pair of the [Script Info] section.
type ScriptInfoEntry struct {
	Key   string
	Value string
}

// File is a parsed ASS file with everything needed to re-emit it.
type File struct {
	ScriptInfo         []ScriptInfoEntry
	ScriptInfoComments []PositionedComment

	StyleFormat    []string
	Styles         []Style
	StylesComments []PositionedComment

	EventFormat    []string
	Segments       []Segment
	EventsComments []PositionedComment

	// unknown sections like [Fonts], keyed by their bracketed header,
	// content lines in order
	CustomSections map[string][]string
	// header order of custom sections as encountered
	CustomSectionOrder []string

	Language string
}

// ScriptInfoValue looks up a [Script Info] key, empty when absent.
func (f *File) ScriptInfoValue(key string) string {
	for _, e := range f.ScriptInfo {
		if e.Key == key {
			return e.Value
		}
	}
	return ""
}

// SetScriptInfo updates a key in place or appends it.
func (f *File) SetScriptInfo(key, value string) {
	for i, e := range f.ScriptInfo {
		if e.Key == key {
			f.ScriptInfo[i].Value = value
			return
		}
	}
	f.ScriptInfo = append(f.ScriptInfo, ScriptInfoEntry{Key: key, Value: value})
}

// Subtitles converts dialogue events to the plain format, skipping
// comment events and tag-only synthetic words.
func (f *File) Subtitles() *subtitle.Subtitles {
	subs := &subtitle.Subtitles{Language: f.Language}
	for _, seg := range f.Segments {
		if seg.IsComment {
			continue
		}
		plain := seg.Plain()
		if len(plain.Words) == 0 {
			continue
		}
		subs.Segments = append(subs.Segments, plain)
	}
	return subs
}
