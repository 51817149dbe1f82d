package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/typesub/typesub/internal/subtitle"
	"github.com/typesub/typesub/internal/subtitle/ass"
)

var convertCmd = &cobra.Command{
	Use:   "convert [subtitle_file]",
	Short: "Convert a subtitle file to another format",
	Long: `Convert between subtitle formats.

Reads SRT, VTT, or ASS and writes SRT, VTT, ASS, TXT, or JSON.
Converting to ASS applies the style rule engine. ASS to ASS rewrites
the script as-is, tags and comments included; converting from ASS to
another format keeps the dialogue text and timing but drops inline
override tags.

Examples:
  typesub convert video.srt -f vtt
  typesub convert video.ass -f srt
  typesub convert video.srt -f ass --style-config styles.json`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().
		StringP("format", "f", "", "Output subtitle format (srt, vtt, ass, txt, json) (required)")
	addStyleFlags(convertCmd)

	_ = convertCmd.MarkFlagRequired("format")
}

func runConvert(cmd *cobra.Command, args []string) error {
	inputPath := args[0]

	formatStr, _ := cmd.Flags().GetString("format")
	outputPath, _ := cmd.Flags().GetString("output")
	language, _ := cmd.Flags().GetString("language")

	format, err := parseFormat(formatStr)
	if err != nil {
		return err
	}

	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return fmt.Errorf("subtitle file not found: %s", inputPath)
	}

	inFile, err := openSubtitleFile(inputPath)
	if err != nil {
		return fmt.Errorf("failed to parse subtitle file: %w", err)
	}

	// ASS to ASS keeps the script intact, override tags, comments,
	// styles, and custom sections included, instead of re-styling from
	// plain text
	if assFile, ok := inFile.(*ass.File); ok && format == subtitle.FormatASS {
		if outputPath == "" {
			outputPath = defaultOutputPath(inputPath, format)
		}
		logger.Infow("Converting subtitles",
			"input", inputPath,
			"output", outputPath,
			"from", inFile.Format(),
			"to", format,
		)
		if err := assFile.Write(outputPath); err != nil {
			return fmt.Errorf("failed to write subtitles: %w", err)
		}
		absOutput, _ := filepath.Abs(outputPath)
		fmt.Printf("Subtitles converted successfully: %s\n", absOutput)
		fmt.Printf("  Lines: %d\n", len(assFile.Segments))
		return nil
	}

	subs := inFile.Subtitles()
	if len(subs.Segments) == 0 {
		return fmt.Errorf("subtitle file contains no dialogue")
	}
	if language != "" {
		subs.Language = language
	}
	subs.Normalize(logger)

	if outputPath == "" {
		outputPath = defaultOutputPath(inputPath, format)
	}

	logger.Infow("Converting subtitles",
		"input", inputPath,
		"output", outputPath,
		"from", inFile.Format(),
		"to", format,
	)

	if err := writeSubtitles(cmd, subs, format, outputPath); err != nil {
		return fmt.Errorf("failed to write subtitles: %w", err)
	}

	absOutput, _ := filepath.Abs(outputPath)
	fmt.Printf("Subtitles converted successfully: %s\n", absOutput)
	fmt.Printf("  Lines: %d\n", len(subs.Segments))

	return nil
}
