package subtitle

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// SubRip format
type SRTWriter struct{}

// WebVTT format
type VTTWriter struct{}

// plain text, one segment per line
type TXTWriter struct{}

// word-timing JSON, mirrors the transcription interchange shape
type JSONWriter struct{}

// NewWriter returns a writer for the given format. ASS output is
// handled by the ass package since it carries style state.
func NewWriter(format Format) (Writer, error) {
	switch format {
	case FormatSRT:
		return &SRTWriter{}, nil
	case FormatVTT:
		return &VTTWriter{}, nil
	case FormatTXT:
		return &TXTWriter{}, nil
	case FormatJSON:
		return &JSONWriter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

func (w *SRTWriter) Render(subs *Subtitles) (string, error) {
	var sb strings.Builder
	for i, seg := range subs.Segments {
		// index (1-based)
		sb.WriteString(fmt.Sprintf("%d\n", i+1))

		// timestamps: 00:00:00,000 --> 00:00:00,000
		sb.WriteString(fmt.Sprintf("%s --> %s\n",
			FormatSRTTime(seg.Start()),
			FormatSRTTime(seg.End())))

		sb.WriteString(seg.Text())
		sb.WriteString("\n\n")
	}
	return sb.String(), nil
}

func (w *SRTWriter) Write(subs *Subtitles, path string) error {
	return writeRendered(w, subs, path)
}

func (w *VTTWriter) Render(subs *Subtitles) (string, error) {
	var sb strings.Builder
	sb.WriteString("WEBVTT\n\n")

	for i, seg := range subs.Segments {
		// optional cue identifier
		sb.WriteString(fmt.Sprintf("%d\n", i+1))

		// timestamps: 00:00:00.000 --> 00:00:00.000
		sb.WriteString(fmt.Sprintf("%s --> %s\n",
			FormatVTTTime(seg.Start()),
			FormatVTTTime(seg.End())))

		sb.WriteString(seg.Text())
		sb.WriteString("\n\n")
	}
	return sb.String(), nil
}

func (w *VTTWriter) Write(subs *Subtitles, path string) error {
	return writeRendered(w, subs, path)
}

func (w *TXTWriter) Render(subs *Subtitles) (string, error) {
	var sb strings.Builder
	for _, seg := range subs.Segments {
		sb.WriteString(seg.Text())
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

func (w *TXTWriter) Write(subs *Subtitles, path string) error {
	return writeRendered(w, subs, path)
}

type jsonWord struct {
	Word  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

type jsonSegment struct {
	Start float64    `json:"start"`
	End   float64    `json:"end"`
	Text  string     `json:"text"`
	Words []jsonWord `json:"words"`
}

type jsonDocument struct {
	Language string        `json:"language,omitempty"`
	Segments []jsonSegment `json:"segments"`
}

func (w *JSONWriter) Render(subs *Subtitles) (string, error) {
	doc := jsonDocument{
		Language: subs.Language,
		Segments: make([]jsonSegment, 0, len(subs.Segments)),
	}
	for _, seg := range subs.Segments {
		js := jsonSegment{
			Start: seg.Start().Seconds(),
			End:   seg.End().Seconds(),
			Text:  seg.Text(),
			Words: make([]jsonWord, 0, len(seg.Words)),
		}
		for _, word := range seg.Words {
			js.Words = append(js.Words, jsonWord{
				Word:  word.Text,
				Start: word.Start.Seconds(),
				End:   word.End.Seconds(),
			})
		}
		doc.Segments = append(doc.Segments, js)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal subtitles: %w", err)
	}
	return string(data) + "\n", nil
}

func (w *JSONWriter) Write(subs *Subtitles, path string) error {
	return writeRendered(w, subs, path)
}

func writeRendered(w Writer, subs *Subtitles, path string) error {
	content, err := w.Render(subs)
	if err != nil {
		return err
	}
	if err := ensureDir(path); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0644)
}

// FormatSRTTime renders 00:00:00,000 with round-half-up milliseconds.
func FormatSRTTime(d time.Duration) string {
	ms := roundedMillis(d)
	return fmt.Sprintf("%02d:%02d:%02d,%03d",
		ms/3600000, ms/60000%60, ms/1000%60, ms%1000)
}

// FormatVTTTime renders 00:00:00.000 with round-half-up milliseconds.
func FormatVTTTime(d time.Duration) string {
	ms := roundedMillis(d)
	return fmt.Sprintf("%02d:%02d:%02d.%03d",
		ms/3600000, ms/60000%60, ms/1000%60, ms%1000)
}

// FormatASSTime renders H:MM:SS.CC with round-half-up centiseconds.
// Hours are unpadded and unbounded.
func FormatASSTime(d time.Duration) string {
	cs := roundedCentis(d)
	return fmt.Sprintf("%d:%02d:%02d.%02d",
		cs/360000, cs/6000%60, cs/100%60, cs%100)
}

func roundedMillis(d time.Duration) int64 {
	if d < 0 {
		d = 0
	}
	return int64((d + 500*time.Microsecond) / time.Millisecond)
}

func roundedCentis(d time.Duration) int64 {
	if d < 0 {
		d = 0
	}
	return int64((d + 5*time.Millisecond) / (10 * time.Millisecond))
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0755)
}

// subtitle format based on file extension
func GetFormatFromExtension(path string) Format {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".srt":
		return FormatSRT
	case ".vtt":
		return FormatVTT
	case ".ass", ".ssa":
		return FormatASS
	case ".txt":
		return FormatTXT
	case ".json":
		return FormatJSON
	default:
		return FormatSRT
	}
}

// file extension for a format
func GetExtensionForFormat(format Format) string {
	switch format {
	case FormatVTT:
		return ".vtt"
	case FormatASS:
		return ".ass"
	case FormatTXT:
		return ".txt"
	case FormatJSON:
		return ".json"
	default:
		return ".srt"
	}
}
