package ass

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/typesub/typesub/internal/subtitle"
)

var canonicalEventColumns = []string{
	"Layer", "Start", "End", "Style", "Name",
	"MarginL", "MarginR", "MarginV", "Effect", "Text",
}

// Render serializes the file back to ASS text.
func (f *File) Render() (string, error) {
	var out []string

	scriptInfo := make([]string, 0, len(f.ScriptInfo))
	for _, entry := range f.ScriptInfo {
		scriptInfo = append(scriptInfo, entry.Key+": "+entry.Value)
	}
	out = append(out, "[Script Info]")
	out = append(out, interleaveComments(scriptInfo, f.ScriptInfoComments)...)
	out = append(out, "")

	styleFormat := f.StyleFormat
	if len(styleFormat) == 0 {
		styleFormat = canonicalStyleColumns
	}
	styles := []string{"Format: " + strings.Join(styleFormat, ", ")}
	for _, style := range f.Styles {
		values := make([]string, 0, len(styleFormat))
		for _, col := range styleFormat {
			values = append(values, style.Values[col])
		}
		styles = append(styles, "Style: "+strings.Join(values, ","))
	}
	out = append(out, "[V4+ Styles]")
	out = append(out, interleaveComments(styles, f.StylesComments)...)
	out = append(out, "")

	events := []string{"Format: " + strings.Join(canonicalEventColumns, ", ")}
	for _, seg := range f.Segments {
		events = append(events, renderEventLine(seg))
	}
	out = append(out, "[Events]")
	out = append(out, interleaveComments(events, f.EventsComments)...)

	for _, header := range f.CustomSectionOrder {
		out = append(out, "", header)
		out = append(out, f.CustomSections[header]...)
	}

	return strings.Join(out, "\n") + "\n", nil
}

func renderEventLine(seg Segment) string {
	kind := "Dialogue: "
	if seg.IsComment {
		kind = "Comment: "
	}
	fields := []string{
		strconv.Itoa(seg.Layer),
		subtitle.FormatASSTime(seg.Start()),
		subtitle.FormatASSTime(seg.End()),
		seg.StyleName,
		seg.ActorName,
		strconv.Itoa(seg.MarginL),
		strconv.Itoa(seg.MarginR),
		strconv.Itoa(seg.MarginV),
		seg.Effect,
		seg.RenderText(),
	}
	return kind + strings.Join(fields, ",")
}

// interleaveComments places each comment back at its recorded position
// among the section lines.
func interleaveComments(lines []string, comments []PositionedComment) []string {
	if len(comments) == 0 {
		return lines
	}
	sorted := make([]PositionedComment, len(comments))
	copy(sorted, comments)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Index < sorted[j].Index
	})

	merged := make([]string, 0, len(lines)+len(sorted))
	next := 0
	for _, line := range lines {
		for next < len(sorted) && sorted[next].Index <= len(merged) {
			merged = append(merged, sorted[next].Text)
			next++
		}
		merged = append(merged, line)
	}
	for ; next < len(sorted); next++ {
		merged = append(merged, sorted[next].Text)
	}
	return merged
}

// Generate runs every segment through the style engine and assembles a
// complete file using the configured base styles.
func Generate(subs *subtitle.Subtitles, config EngineConfig) *File {
	styler := NewStyler(config)
	defaultStyle := config.DefaultStyleName()

	file := &File{
		ScriptInfo:     config.ScriptInfo,
		StyleFormat:    canonicalStyleColumns,
		EventFormat:    canonicalEventColumns,
		CustomSections: map[string][]string{},
		Language:       subs.Language,
	}
	if len(file.ScriptInfo) == 0 {
		file.ScriptInfo = DefaultScriptInfo()
	}

	for _, cs := range config.Styles {
		values := make(map[string]string, len(cs))
		for _, field := range cs {
			values[field.Key] = field.Value
		}
		file.Styles = append(file.Styles, Style{Name: cs.Name(), Values: values})
	}

	for _, seg := range subs.Segments {
		file.Segments = append(file.Segments, styler.ProcessSegment(seg, defaultStyle))
	}
	return file
}

// Writer renders plain subtitles as a styled ASS document.
type Writer struct {
	Config EngineConfig
}

// NewWriter uses the default single-style configuration.
func NewWriter() *Writer {
	return &Writer{Config: DefaultEngineConfig()}
}

func (w *Writer) Render(subs *subtitle.Subtitles) (string, error) {
	return Generate(subs, w.Config).Render()
}

func (w *Writer) Write(subs *subtitle.Subtitles, path string) error {
	content, err := w.Render(subs)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write ASS file: %w", err)
	}
	return nil
}
