package cli

import (
	"github.com/spf13/cobra"

	"github.com/handiism/mgnify-downloader/internal/config"
	"github.com/handiism/mgnify-downloader/internal/tui"
)

// NewTUICmd builds the mgnify-tui command.
func NewTUICmd() *cobra.Command {
	opts := &rootOptions{}

	var (
		outputDir string
		workers   int
	)

	cmd := &cobra.Command{
		Use:           "mgnify-tui",
		Short:         "mgnify-tui is an interactive front-end to 'mgnify-dl fetch'.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			settings, err := loadSettings(opts, func(s *config.Settings) {
				if outputDir != "" {
					s.OutputRoot = outputDir
				}

				if workers > 0 {
					s.MaxConcurrentAnalyses = workers
				}
			})
			if err != nil {
				return err
			}

			return tui.Run(settings)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "path to a JSON settings file")
	cmd.Flags().StringVar(&opts.envFile, "env-file", ".env", "path to a .env file with MGNIFY_* overrides")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "output directory (default from settings, \".\")")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "analyses fetched in parallel (default from settings, 3)")

	return cmd
}

// ExecuteTUI runs the mgnify-tui command line.
func ExecuteTUI() {
	if err := NewTUICmd().Execute(); err != nil {
		die("%s", err.Error())
	}
}
