package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/typesub/typesub/internal/subtitle"
	"github.com/typesub/typesub/internal/subtitle/ass"
)

func parseFormat(s string) (subtitle.Format, error) {
	switch strings.ToLower(s) {
	case "srt":
		return subtitle.FormatSRT, nil
	case "vtt":
		return subtitle.FormatVTT, nil
	case "ass":
		return subtitle.FormatASS, nil
	case "txt":
		return subtitle.FormatTXT, nil
	case "json":
		return subtitle.FormatJSON, nil
	default:
		return "", fmt.Errorf(
			"unsupported format %q: use srt, vtt, ass, txt, or json", s)
	}
}

func addSegmentationFlags(cmd *cobra.Command) {
	cmd.Flags().
		Int("char-limit", 0, "Maximum characters per subtitle line (default 42)")
	cmd.Flags().
		Float64("target-cps", 0, "Reading speed target in characters per second (default 20)")
	cmd.Flags().
		Float64("max-cps", 0, "Hard reading speed ceiling in characters per second (default 21)")
}

func segmenterConfigFromFlags(cmd *cobra.Command) subtitle.SegmenterConfig {
	cfg := subtitle.DefaultSegmenterConfig()
	if v, _ := cmd.Flags().GetInt("char-limit"); v > 0 {
		cfg.CharLimit = v
	}
	if v, _ := cmd.Flags().GetFloat64("target-cps"); v > 0 {
		cfg.TargetCPS = v
	}
	if v, _ := cmd.Flags().GetFloat64("max-cps"); v > 0 {
		cfg.MaxCPS = v
	}
	return cfg
}

func addStyleFlags(cmd *cobra.Command) {
	cmd.Flags().
		String("style-config", "", "JSON style rule config for ASS output")
}

// writeSubtitles writes in the requested format, routing ASS output
// through the style engine.
func writeSubtitles(
	cmd *cobra.Command,
	subs *subtitle.Subtitles,
	format subtitle.Format,
	outputPath string,
) error {
	if format == subtitle.FormatASS {
		assWriter := ass.NewWriter()
		if configPath, _ := cmd.Flags().GetString("style-config"); configPath != "" {
			config, err := ass.LoadEngineConfig(configPath)
			if err != nil {
				return err
			}
			assWriter.Config = config
		}
		return assWriter.Write(subs, outputPath)
	}

	writer, err := subtitle.NewWriter(format)
	if err != nil {
		return err
	}
	return writer.Write(subs, outputPath)
}

// openSubtitleFile opens any supported subtitle file, keeping full
// ASS structure when the input is ASS.
func openSubtitleFile(path string) (subtitle.File, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ass", ".ssa":
		return ass.OpenFile(path, logger)
	default:
		return subtitle.Open(path)
	}
}

// defaultOutputPath swaps the input extension for the format's one.
func defaultOutputPath(inputPath string, format subtitle.Format) string {
	base := strings.TrimSuffix(inputPath, filepath.Ext(inputPath))
	return base + subtitle.GetExtensionForFormat(format)
}
