package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/typesub/typesub/internal/subtitle"
	"github.com/typesub/typesub/internal/transcription"
)

var segmentCmd = &cobra.Command{
	Use:   "segment [transcript.json]",
	Short: "Build subtitles from a word-level transcript file",
	Long: `Build subtitles from a Whisper-style JSON transcript.

The transcript must contain word or segment timing data. Words are
segmented into lines balancing line length, reading speed, punctuation
breaks, and silence gaps, then written in any supported format.

Examples:
  typesub segment transcript.json
  typesub segment transcript.json -f ass --style-config styles.json
  typesub segment transcript.json -f vtt --char-limit 38 -o talk.vtt`,
	Args: cobra.ExactArgs(1),
	RunE: runSegment,
}

func init() {
	rootCmd.AddCommand(segmentCmd)

	segmentCmd.Flags().
		StringP("format", "f", "srt", "Output subtitle format (srt, vtt, ass, txt, json)")
	addSegmentationFlags(segmentCmd)
	addStyleFlags(segmentCmd)
}

func runSegment(cmd *cobra.Command, args []string) error {
	transcriptPath := args[0]

	formatStr, _ := cmd.Flags().GetString("format")
	outputPath, _ := cmd.Flags().GetString("output")
	language, _ := cmd.Flags().GetString("language")

	format, err := parseFormat(formatStr)
	if err != nil {
		return err
	}

	if _, err := os.Stat(transcriptPath); os.IsNotExist(err) {
		return fmt.Errorf("transcript not found: %s", transcriptPath)
	}

	words, transcriptLanguage, err := transcription.LoadFile(transcriptPath)
	if err != nil {
		return fmt.Errorf("failed to load transcript: %w", err)
	}
	if language == "" {
		language = transcriptLanguage
	}

	logger.Infow("Loaded transcript",
		"input", transcriptPath,
		"words", len(words),
		"language", language,
	)

	segmenter := subtitle.NewSegmenter(segmenterConfigFromFlags(cmd))
	subs := &subtitle.Subtitles{
		Segments: segmenter.Segment(words),
		Language: language,
	}
	subs.Normalize(logger)

	if outputPath == "" {
		outputPath = defaultOutputPath(transcriptPath, format)
	}

	if err := writeSubtitles(cmd, subs, format, outputPath); err != nil {
		return fmt.Errorf("failed to write subtitles: %w", err)
	}

	absOutput, _ := filepath.Abs(outputPath)
	fmt.Printf("Subtitles written: %s\n", absOutput)
	fmt.Printf("  Lines: %d\n", len(subs.Segments))

	return nil
}
