package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/handiism/mgnify-downloader/internal/config"
	"github.com/handiism/mgnify-downloader/internal/download"
)

type listOptions struct {
	pageSize int
	output   string
	delay    int
	workers  int
}

func newListCmd(root *rootOptions) *cobra.Command {
	opts := &listOptions{delay: -1}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List every analysis that has an assembly",
		Long: `List every analysis that has an assembly.

Pages through the MGnify analyses listing and writes one line per analysis
with a linked assembly to {date}_analyses_and_assembly.txt:

  MGYA00585223, assemblies, ERZ1746242

Pages that cannot be read are logged and listed in
{date}_analyses_and_assembly.failed_pages.txt.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd, root, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.pageSize, "page-size", "p", 0, "analyses per page (default from settings, 1000)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output directory (default from settings, \".\")")
	cmd.Flags().IntVar(&opts.delay, "delay", -1, "pause after each page in milliseconds (default from settings, 750)")
	cmd.Flags().IntVarP(&opts.workers, "workers", "w", 0, "pages fetched in parallel (default from settings, 3)")

	return cmd
}

func runList(cmd *cobra.Command, root *rootOptions, opts *listOptions) error {
	settings, err := loadSettings(root, func(s *config.Settings) {
		if opts.pageSize > 0 {
			s.PageSize = opts.pageSize
		}

		if opts.output != "" {
			s.OutputRoot = opts.output
		}

		if opts.delay >= 0 {
			s.PageDelayMillis = opts.delay
		}

		if opts.workers > 0 {
			s.MaxConcurrentPages = opts.workers
		}
	})
	if err != nil {
		return err
	}

	enumerator := download.NewEnumerator(settings, logProgress)

	summary, runErr := enumerator.Run(cmd.Context())
	if summary == nil {
		return runErr
	}

	printListSummary(cmd.OutOrStdout(), summary, enumerator.Layout())
	writeMetrics(root, enumerator.Metrics())

	if runErr != nil {
		return fmt.Errorf("list interrupted: %w", runErr)
	}

	return nil
}
