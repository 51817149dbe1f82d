package ass

import (
	"sort"
	"strings"
	"time"

	"github.com/typesub/typesub/internal/subtitle"
)

// Syllable is one karaoke unit with its absolute start time.
type Syllable struct {
	Text     string
	Start    time.Duration
	Duration time.Duration
	Type     string
}

// HasKaraoke reports whether any word in the segment carries karaoke
// timing tags.
func (s Segment) HasKaraoke() bool {
	for _, w := range s.Words {
		for _, sr := range w.Styles {
			if sr.Tags.Karaoke != nil {
				return true
			}
		}
	}
	return false
}

// Syllables extracts karaoke syllables in reading order. Each karaoke
// tag opens a syllable that runs until the next tag, text before the
// first tag is dropped. Start times accumulate from the segment start.
func (s Segment) Syllables() []Syllable {
	var syllables []Syllable
	cursor := s.Start()
	open := false
	var current Syllable

	flush := func() {
		if open {
			current.Text = strings.TrimRight(current.Text, " ")
			syllables = append(syllables, current)
			open = false
		}
	}

	for wi, w := range s.Words {
		if w.Text == "" && len(w.Styles) == 0 {
			continue
		}
		marks := karaokeMarks(w)
		runes := []rune(w.Text)

		if open && wi > 0 {
			if w.NewlineBefore {
				current.Text += "\n"
			} else {
				current.Text += " "
			}
		}

		prev := 0
		for _, m := range marks {
			if m.offset > prev && open {
				current.Text += string(runes[prev:m.offset])
			}
			flush()
			d := time.Duration(m.tag.Duration) * 10 * time.Millisecond
			current = Syllable{Start: cursor, Duration: d, Type: m.tag.Type}
			cursor += d
			open = true
			prev = m.offset
		}
		if open && prev < len(runes) {
			current.Text += string(runes[prev:])
		}
	}
	flush()
	return syllables
}

type karaokeMark struct {
	offset int
	tag    Karaoke
}

func karaokeMarks(w Word) []karaokeMark {
	var marks []karaokeMark
	for _, sr := range w.Styles {
		if sr.Tags.Karaoke != nil {
			marks = append(marks, karaokeMark{offset: sr.StartChar, tag: *sr.Tags.Karaoke})
		}
	}
	sort.SliceStable(marks, func(i, j int) bool {
		return marks[i].offset < marks[j].offset
	})
	return marks
}

// SyllableWords converts karaoke syllables back into timed words, so a
// karaoke script can drive segmentation without a transcript.
func SyllableWords(syllables []Syllable) []subtitle.Word {
	var words []subtitle.Word
	for _, syl := range syllables {
		text := strings.TrimSpace(syl.Text)
		if text == "" {
			continue
		}
		words = append(words, subtitle.Word{
			Text:  text,
			Start: syl.Start,
			End:   syl.Start + syl.Duration,
		})
	}
	return words
}
