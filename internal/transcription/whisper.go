package transcription

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/typesub/typesub/internal/subtitle"
)

// ErrInvalidStructure means the document is valid JSON but carries no
// usable timing data.
var ErrInvalidStructure = errors.New("transcript has no segments or words")

// word entry from a Whisper-style transcript
type WhisperWord struct {
	Word  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// segment entry from a Whisper-style transcript
type WhisperSegment struct {
	Start float64       `json:"start"`
	End   float64       `json:"end"`
	Text  string        `json:"text"`
	Words []WhisperWord `json:"words"`
}

// Whisper-style transcript document, either word timestamps at the top
// level, per segment, or segment text only
type WhisperTranscript struct {
	Text     string           `json:"text"`
	Language string           `json:"language"`
	Segments []WhisperSegment `json:"segments"`
	Words    []WhisperWord    `json:"words"`
}

// Parse decodes a Whisper-style JSON transcript.
func Parse(data []byte) (*WhisperTranscript, error) {
	var transcript WhisperTranscript
	if err := json.Unmarshal(data, &transcript); err != nil {
		return nil, fmt.Errorf("failed to parse transcript JSON: %w", err)
	}
	if len(transcript.Segments) == 0 && len(transcript.Words) == 0 {
		return nil, ErrInvalidStructure
	}
	return &transcript, nil
}

// Flatten converts the transcript into timed words. Word timestamps
// are used where present, segment text is distributed evenly otherwise.
func (t *WhisperTranscript) Flatten() []subtitle.Word {
	if len(t.Words) > 0 {
		return convertWords(t.Words)
	}

	var words []subtitle.Word
	for _, seg := range t.Segments {
		if len(seg.Words) > 0 {
			words = append(words, convertWords(seg.Words)...)
			continue
		}
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}
		words = append(words, subtitle.DistributeWords(
			text,
			time.Duration(seg.Start*float64(time.Second)),
			time.Duration(seg.End*float64(time.Second)),
		)...)
	}
	return words
}

func convertWords(entries []WhisperWord) []subtitle.Word {
	words := make([]subtitle.Word, 0, len(entries))
	for _, e := range entries {
		text := strings.TrimSpace(e.Word)
		if text == "" || e.End < e.Start {
			continue
		}
		words = append(words, subtitle.Word{
			Text:  text,
			Start: time.Duration(e.Start * float64(time.Second)),
			End:   time.Duration(e.End * float64(time.Second)),
		})
	}
	return words
}

// LoadFile reads a transcript from disk and flattens it to words.
func LoadFile(path string) ([]subtitle.Word, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read transcript: %w", err)
	}
	transcript, err := Parse(data)
	if err != nil {
		return nil, "", err
	}
	words := transcript.Flatten()
	if len(words) == 0 {
		return nil, "", ErrInvalidStructure
	}
	return words, transcript.Language, nil
}
