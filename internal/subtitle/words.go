package subtitle

import (
	"strings"
	"time"
	"unicode/utf8"
)

// DistributeWords splits cue text on whitespace and assigns each word a
// slice of [start, end] proportional to its rune length. Formats without
// word timing (SRT, VTT, plain text) get approximate timings this way so
// downstream styling and re-segmentation still work.
func DistributeWords(text string, start, end time.Duration) []Word {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return nil
	}

	total := 0
	for _, f := range fields {
		total += utf8.RuneCountInString(f)
	}
	if total == 0 || end < start {
		end = start
	}

	span := end - start
	words := make([]Word, 0, len(fields))
	consumed := 0
	cursor := start

	for _, f := range fields {
		consumed += utf8.RuneCountInString(f)
		wordEnd := start + time.Duration(float64(span)*float64(consumed)/float64(total))
		words = append(words, Word{Text: f, Start: cursor, End: wordEnd})
		cursor = wordEnd
	}
	// absorb rounding drift on the final word
	words[len(words)-1].End = end
	return words
}
