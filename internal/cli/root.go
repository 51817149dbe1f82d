package cli

import (
	"github.com/spf13/cobra"
	"github.com/typesub/typesub/internal/logging"
)

var (
	verbose bool
	logger  *logging.Logger
)

var rootCmd = &cobra.Command{
	Use:   "typesub",
	Short: "Typesetting subtitle generator with styled ASS output",
	Long: `Typesub turns word-level transcripts into readable subtitles.

It segments word timings into well-paced lines, applies rule-based
ASS styling (colors, karaoke, animations), and reads or writes SRT,
VTT, ASS, TXT, and JSON. Transcripts can come from a Whisper-style
JSON file or directly from AI transcription of audio and video.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = logging.NewLogger(verbose)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().
		BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output file path")
	rootCmd.PersistentFlags().
		StringP("language", "l", "", "Language code (e.g., en, es, fr)")
}
