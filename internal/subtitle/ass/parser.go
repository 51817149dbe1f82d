package ass

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/typesub/typesub/internal/logging"
	"github.com/typesub/typesub/internal/subtitle"
)

var assTimestampRegex = regexp.MustCompile(`^(\d+):(\d{2}):(\d{2})\.(\d{2})$`)

// ParseOptions controls optional parser behavior.
type ParseOptions struct {
	// IncludeComments preserves ; comment lines with their positions.
	IncludeComments bool
	Logger          *logging.Logger
}

type section int

const (
	sectionNone section = iota
	sectionScriptInfo
	sectionStyles
	sectionEvents
	sectionCustom
)

type parser struct {
	opts ParseOptions
	file *File

	section      section
	customHeader string
	lineIndex    int
	eventColumns []string
	textColumn   int
	sawEventsFmt bool
	sawStylesFmt bool
}

// Parse reads ASS content into a File. The parser is tolerant: bad
// lines are skipped with a warning and never abort the whole file.
func Parse(content string, opts ParseOptions) *File {
	p := &parser{
		opts: opts,
		file: &File{CustomSections: map[string][]string{}},
	}

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		if i == 0 {
			line = strings.TrimPrefix(line, "\uFEFF")
		}
		line = strings.TrimRight(line, "\r")
		p.consume(line)
	}
	return p.file
}

// ParseFile reads and parses an ASS file from disk.
func ParseFile(path string, opts ParseOptions) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read ASS file: %w", err)
	}
	return Parse(string(data), opts), nil
}

func (p *parser) warnw(msg string, kv ...any) {
	if p.opts.Logger != nil {
		p.opts.Logger.Warnw(msg, kv...)
	}
}

func (p *parser) consume(line string) {
	trimmed := strings.TrimSpace(line)

	if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
		p.enterSection(trimmed)
		return
	}

	if trimmed == "" {
		return
	}

	if strings.HasPrefix(trimmed, ";") && p.section != sectionCustom {
		if p.opts.IncludeComments {
			comment := PositionedComment{Index: p.lineIndex, Text: trimmed}
			switch p.section {
			case sectionScriptInfo:
				p.file.ScriptInfoComments = append(p.file.ScriptInfoComments, comment)
			case sectionStyles:
				p.file.StylesComments = append(p.file.StylesComments, comment)
			case sectionEvents:
				p.file.EventsComments = append(p.file.EventsComments, comment)
			}
			p.lineIndex++
		}
		return
	}

	switch p.section {
	case sectionScriptInfo:
		p.consumeScriptInfo(trimmed)
	case sectionStyles:
		p.consumeStyle(trimmed)
	case sectionEvents:
		p.consumeEvent(line, trimmed)
	case sectionCustom:
		if strings.HasPrefix(trimmed, ";") && !p.opts.IncludeComments {
			return
		}
		// custom content keeps leading whitespace
		p.file.CustomSections[p.customHeader] = append(
			p.file.CustomSections[p.customHeader],
			strings.TrimRight(line, " \t"))
	}
}

func (p *parser) enterSection(header string) {
	p.lineIndex = 0
	switch strings.ToLower(header) {
	case "[script info]":
		p.section = sectionScriptInfo
	case "[v4+ styles]", "[v4 styles]":
		p.section = sectionStyles
	case "[events]":
		p.section = sectionEvents
	default:
		p.section = sectionCustom
		p.customHeader = header
		if _, seen := p.file.CustomSections[header]; !seen {
			p.file.CustomSections[header] = nil
			p.file.CustomSectionOrder = append(p.file.CustomSectionOrder, header)
		}
	}
}

func (p *parser) consumeScriptInfo(line string) {
	p.lineIndex++
	key, value, found := strings.Cut(line, ":")
	if !found {
		return
	}
	p.file.ScriptInfo = append(p.file.ScriptInfo, ScriptInfoEntry{
		Key:   strings.TrimSpace(key),
		Value: strings.TrimSpace(value),
	})
}

func (p *parser) consumeStyle(line string) {
	p.lineIndex++
	switch {
	case strings.HasPrefix(line, "Format:"):
		p.file.StyleFormat = splitColumns(strings.TrimPrefix(line, "Format:"))
		p.sawStylesFmt = true
	case strings.HasPrefix(line, "Style:"):
		if !p.sawStylesFmt {
			p.warnw("Skipping Style line found before Format line")
			return
		}
		values := strings.Split(strings.TrimPrefix(line, "Style:"), ",")
		style := Style{Values: map[string]string{}}
		for i, col := range p.file.StyleFormat {
			if i >= len(values) {
				break
			}
			v := strings.TrimSpace(values[i])
			style.Values[col] = v
			if col == "Name" {
				style.Name = v
			}
		}
		p.file.Styles = append(p.file.Styles, style)
	}
}

func (p *parser) consumeEvent(raw, line string) {
	p.lineIndex++
	switch {
	case strings.HasPrefix(line, "Format:"):
		p.eventColumns = splitColumns(strings.TrimPrefix(line, "Format:"))
		p.file.EventFormat = p.eventColumns
		p.textColumn = -1
		for i, col := range p.eventColumns {
			if strings.EqualFold(col, "Text") {
				p.textColumn = i
			}
		}
		p.sawEventsFmt = true
	case strings.HasPrefix(line, "Dialogue:"), strings.HasPrefix(line, "Comment:"):
		if !p.sawEventsFmt {
			p.warnw("Skipping Dialogue line found before Format line")
			return
		}
		isComment := strings.HasPrefix(line, "Comment:")
		body := strings.TrimSpace(line[strings.Index(line, ":")+1:])
		seg, ok := p.parseEventLine(body, isComment)
		if !ok {
			p.warnw("Skipping malformed ASS Dialogue line", "line", raw)
			return
		}
		p.file.Segments = append(p.file.Segments, seg)
	}
}

func splitColumns(s string) []string {
	parts := strings.Split(s, ",")
	cols := make([]string, 0, len(parts))
	for _, part := range parts {
		cols = append(cols, strings.TrimSpace(part))
	}
	return cols
}

func (p *parser) parseEventLine(body string, isComment bool) (Segment, bool) {
	// positional split, the final (Text) column consumes the remainder
	// of the line including embedded commas
	fields := strings.SplitN(body, ",", len(p.eventColumns))
	if len(fields) < len(p.eventColumns) {
		return Segment{}, false
	}

	seg := Segment{StyleName: "Default", IsComment: isComment}
	var start, end time.Duration
	var text string
	haveStart, haveEnd := false, false

	for i, col := range p.eventColumns {
		value := fields[i]
		if i != p.textColumn {
			value = strings.TrimSpace(value)
		}
		switch strings.ToLower(col) {
		case "layer":
			seg.Layer, _ = strconv.Atoi(value)
		case "start":
			t, err := parseASSTimestamp(value)
			if err != nil {
				return Segment{}, false
			}
			start, haveStart = t, true
		case "end":
			t, err := parseASSTimestamp(value)
			if err != nil {
				return Segment{}, false
			}
			end, haveEnd = t, true
		case "style":
			seg.StyleName = value
		case "name", "actor":
			seg.ActorName = value
		case "marginl":
			seg.MarginL, _ = strconv.Atoi(value)
		case "marginr":
			seg.MarginR, _ = strconv.Atoi(value)
		case "marginv":
			seg.MarginV, _ = strconv.Atoi(value)
		case "effect":
			seg.Effect = value
		case "text":
			text = value
		}
	}

	if !haveStart || !haveEnd || start > end {
		return Segment{}, false
	}

	words, warnings := tokenizeDialogueText(text, start, end)
	for _, w := range warnings {
		p.warnw(w)
	}
	seg.Words = words
	return seg, true
}

func parseASSTimestamp(s string) (time.Duration, error) {
	m := assTimestampRegex.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("invalid ASS timestamp: %q", s)
	}
	h, _ := strconv.Atoi(m[1])
	min, _ := strconv.Atoi(m[2])
	sec, _ := strconv.Atoi(m[3])
	cs, _ := strconv.Atoi(m[4])

	return time.Duration(h)*time.Hour +
		time.Duration(min)*time.Minute +
		time.Duration(sec)*time.Second +
		time.Duration(cs)*10*time.Millisecond, nil
}

// tokenizeDialogueText splits dialogue text into whitespace-delimited
// words with style ranges at rune offsets. A tag block attaches to the
// next literal text; trailing blocks go to a synthetic zero-duration
// empty word at the segment end.
func tokenizeDialogueText(text string, start, end time.Duration) ([]Word, []string) {
	var words []Word
	var warnings []string

	var current []rune
	var currentStyles []StyleRange
	var pending []TagBlock
	newlineBefore := false
	nextNewline := false

	flushWord := func() {
		if len(current) == 0 && len(currentStyles) == 0 {
			newlineBefore = newlineBefore || nextNewline
			nextNewline = false
			return
		}
		// fill range ends up to the next range or the word end
		for i := range currentStyles {
			if i+1 < len(currentStyles) {
				currentStyles[i].EndChar = currentStyles[i+1].StartChar
			} else {
				currentStyles[i].EndChar = len(current)
			}
		}
		words = append(words, Word{
			Text:          string(current),
			Styles:        currentStyles,
			NewlineBefore: newlineBefore,
		})
		current = nil
		currentStyles = nil
		newlineBefore = nextNewline
		nextNewline = false
	}

	attachPending := func() {
		for _, block := range pending {
			currentStyles = append(currentStyles, StyleRange{
				StartChar: len(current),
				Tags:      block,
			})
		}
		pending = nil
	}

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == '{':
			closing := indexRune(runes, i+1, '}')
			if closing < 0 {
				// unterminated block, keep as literal
				attachPending()
				current = append(current, r)
				continue
			}
			block, blockWarnings := ParseTagBlock(string(runes[i+1 : closing]))
			warnings = append(warnings, blockWarnings...)
			pending = append(pending, block)
			i = closing
		case r == '\\' && i+1 < len(runes) && (runes[i+1] == 'N' || runes[i+1] == 'n'):
			nextNewline = true
			flushWord()
			i++
		case r == ' ' || r == '\t':
			flushWord()
		default:
			attachPending()
			current = append(current, r)
		}
	}
	flushWord()

	// trailing blocks with no following text
	if len(pending) > 0 {
		styles := make([]StyleRange, 0, len(pending))
		for _, block := range pending {
			styles = append(styles, StyleRange{Tags: block})
		}
		words = append(words, Word{Start: end, End: end, Styles: styles})
	}

	distributeWordTimes(words, start, end)
	return words, warnings
}

func indexRune(runes []rune, from int, want rune) int {
	for i := from; i < len(runes); i++ {
		if runes[i] == want {
			return i
		}
	}
	return -1
}

// distributeWordTimes assigns each text word a slice of the segment
// duration proportional to its rune length. Synthetic tag-only words
// already carry their timestamps.
func distributeWordTimes(words []Word, start, end time.Duration) {
	total := 0
	for _, w := range words {
		total += utf8.RuneCountInString(w.Text)
	}
	if total == 0 {
		return
	}
	if end < start {
		end = start
	}

	span := end - start
	consumed := 0
	cursor := start
	for i := range words {
		if words[i].Text == "" {
			continue
		}
		consumed += utf8.RuneCountInString(words[i].Text)
		wordEnd := start + time.Duration(float64(span)*float64(consumed)/float64(total))
		words[i].Start = cursor
		words[i].End = wordEnd
		cursor = wordEnd
	}
}

// OpenFile parses an ASS file and wraps it in the generic subtitle
// File interface used by the CLI commands.
func OpenFile(path string, log *logging.Logger) (*File, error) {
	return ParseFile(path, ParseOptions{IncludeComments: true, Logger: log})
}

// Format implements subtitle.File.
func (f *File) Format() subtitle.Format {
	return subtitle.FormatASS
}

// SetText replaces a segment's words with re-distributed plain words.
// Inline style ranges on the old words are dropped.
func (f *File) SetText(index int, text string) error {
	if index < 0 || index >= len(f.Segments) {
		return fmt.Errorf(
			"index %d out of range (0-%d)", index, len(f.Segments)-1,
		)
	}
	seg := &f.Segments[index]
	start, end := seg.Start(), seg.End()
	plain := subtitle.DistributeWords(text, start, end)
	words := make([]Word, 0, len(plain))
	for _, w := range plain {
		words = append(words, Word{Text: w.Text, Start: w.Start, End: w.End})
	}
	seg.Words = words
	return nil
}

// SetTextWithOverlay puts the translated text above the original
// line, keeping the original words and their styling.
func (f *File) SetTextWithOverlay(index int, translated string) error {
	if index < 0 || index >= len(f.Segments) {
		return fmt.Errorf(
			"index %d out of range (0-%d)", index, len(f.Segments)-1,
		)
	}
	seg := &f.Segments[index]
	start, end := seg.Start(), seg.End()
	plain := subtitle.DistributeWords(translated, start, end)
	words := make([]Word, 0, len(plain)+len(seg.Words))
	for _, w := range plain {
		words = append(words, Word{Text: w.Text, Start: w.Start, End: w.End})
	}
	if len(seg.Words) > 0 && len(words) > 0 {
		seg.Words[0].NewlineBefore = true
	}
	seg.Words = append(words, seg.Words...)
	return nil
}

// Write renders the file and writes it to disk.
func (f *File) Write(path string) error {
	content, err := f.Render()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write ASS file: %w", err)
	}
	return nil
}
