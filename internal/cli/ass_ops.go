package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/typesub/typesub/internal/subtitle/ass"
	"github.com/typesub/typesub/internal/video"
)

var resampleCmd = &cobra.Command{
	Use:   "resample [subtitle.ass]",
	Short: "Rescale an ASS script to a new playback resolution",
	Long: `Rescale every size and position in an ASS script to a new playback
resolution. Font sizes, margins, outline widths, and positioning tags
are scaled proportionally, and PlayResX/PlayResY are updated.

The target resolution comes from --width/--height or is read from a
video file with --from-video.

Examples:
  typesub resample movie.ass --width 1280 --height 720
  typesub resample movie.ass --from-video movie.mp4 -o resampled.ass`,
	Args: cobra.ExactArgs(1),
	RunE: runResample,
}

var fixCollisionsCmd = &cobra.Command{
	Use:   "fix-collisions [subtitle.ass]",
	Short: "Stack overlapping ASS lines vertically",
	Long: `Stack time-overlapping dialogue lines by raising their vertical
margins, so simultaneous lines render above one another instead of
being moved around by the player. Lines anchored to different screen
zones (top, middle, bottom) are stacked independently.

Examples:
  typesub fix-collisions movie.ass
  typesub fix-collisions movie.ass -o fixed.ass`,
	Args: cobra.ExactArgs(1),
	RunE: runFixCollisions,
}

func init() {
	rootCmd.AddCommand(resampleCmd)
	rootCmd.AddCommand(fixCollisionsCmd)

	resampleCmd.Flags().Int("width", 0, "Target playback width in pixels")
	resampleCmd.Flags().Int("height", 0, "Target playback height in pixels")
	resampleCmd.Flags().
		String("from-video", "", "Read the target resolution from this video file")
}

func openASSFile(path string) (*ass.File, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("subtitle file not found: %s", path)
	}
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".ass" && ext != ".ssa" {
		return nil, fmt.Errorf("expected an ASS file, got %q", ext)
	}
	return ass.OpenFile(path, logger)
}

func runResample(cmd *cobra.Command, args []string) error {
	inputPath := args[0]

	width, _ := cmd.Flags().GetInt("width")
	height, _ := cmd.Flags().GetInt("height")
	fromVideo, _ := cmd.Flags().GetString("from-video")
	outputPath, _ := cmd.Flags().GetString("output")

	if fromVideo != "" {
		processor := video.NewProcessor("")
		info, err := processor.GetInfo(context.Background(), fromVideo)
		if err != nil {
			return fmt.Errorf("failed to probe video: %w", err)
		}
		if info.Width <= 0 || info.Height <= 0 {
			return fmt.Errorf("video has no resolution information: %s", fromVideo)
		}
		width, height = info.Width, info.Height
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("target resolution is required: use --width/--height or --from-video")
	}

	file, err := openASSFile(inputPath)
	if err != nil {
		return err
	}

	logger.Infow("Resampling script",
		"input", inputPath,
		"width", width,
		"height", height,
	)

	if err := file.ResampleResolution(width, height); err != nil {
		return err
	}

	if outputPath == "" {
		outputPath = inputPath
	}
	if err := file.Write(outputPath); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	absOutput, _ := filepath.Abs(outputPath)
	fmt.Printf("Script resampled to %dx%d: %s\n", width, height, absOutput)

	return nil
}

func runFixCollisions(cmd *cobra.Command, args []string) error {
	inputPath := args[0]
	outputPath, _ := cmd.Flags().GetString("output")

	file, err := openASSFile(inputPath)
	if err != nil {
		return err
	}

	file.ResolveCollisions()

	if outputPath == "" {
		outputPath = inputPath
	}
	if err := file.Write(outputPath); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	absOutput, _ := filepath.Abs(outputPath)
	fmt.Printf("Overlapping lines stacked: %s\n", absOutput)

	return nil
}
