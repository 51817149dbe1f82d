package transcribe

import (
	"context"
	"fmt"
	"time"

	"github.com/typesub/typesub/internal/audio"
	"github.com/typesub/typesub/internal/subtitle"
)

// transcription result with word-level timestamps
type Result struct {
	Words    []subtitle.Word
	Language string
	Duration time.Duration
}

// interface for audio transcription
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (*Result, error)
}

type ConcurrentTranscriber interface {
	Transcriber
	TranscribeWithChunks(
		ctx context.Context,
		chunks []audio.ChunkInfo,
		concurrency int,
	) (*Result, error)
}

// transcription service provider
type Provider string

const (
	ProviderOpenAI Provider = "openai"
	ProviderGemini Provider = "gemini"
)

// transcription options
type Options struct {
	Language           string // Source language of audio
	TranscriptLanguage string // Output language for transcript (default: "native")
	Model              string
	Prompt             string
}

// creates transcriber based on provider
func Factory(
	ctx context.Context,
	provider Provider,
	apiKey string,
	opts Options,
) (Transcriber, error) {
	switch provider {
	case ProviderGemini:
		return NewGeminiTranscriber(ctx, apiKey, opts)
	case ProviderOpenAI:
		return NewOpenAITranscriber(ctx, apiKey, opts)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}

// shifts word timestamps by a chunk offset
func offsetWords(words []subtitle.Word, offset time.Duration) []subtitle.Word {
	adjusted := make([]subtitle.Word, len(words))
	for i, w := range words {
		adjusted[i] = subtitle.Word{
			Text:  w.Text,
			Start: w.Start + offset,
			End:   w.End + offset,
		}
	}
	return adjusted
}
