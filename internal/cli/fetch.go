package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/handiism/mgnify-downloader/internal/config"
	"github.com/handiism/mgnify-downloader/internal/download"
	"github.com/handiism/mgnify-downloader/internal/model"
)

type fetchOptions struct {
	input   string
	codes   []int
	output  string
	workers int
}

func newFetchCmd(root *rootOptions) *cobra.Command {
	opts := &fetchOptions{}

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch analyses, their studies, samples and artifacts",
		Long: `Fetch analyses, their studies, samples and artifacts.

The input file lists one analysis id per line; anything after the first comma
is ignored, so the output of 'mgnify-dl list' can be used directly.

Select artifact types to download with -d, e.g. -d 1 7 or -d 1,7. Codes
given as arguments are added to the selection:

` + model.ArtifactHelp() + `
Without -d only metadata is fetched.

Output, under --output:
  analyses_assemblies/{analysis}/{artifact}
  studies_name_and_abstract/{study}.name_and_abstract
  samples_metadata/{sample}.metadata
  additional/1_studies.txt, 2_samples.txt, 4_analyses.txt
  additional/not_downloaded.assemblies.{date}_analyses.txt
  additional/not_downloaded.assemblies.{date}_analyses.urls.txt`,
		Args: func(_ *cobra.Command, args []string) error {
			_, err := parseCodeArgs(args)

			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			extra, err := parseCodeArgs(args)
			if err != nil {
				return err
			}

			opts.codes = append(opts.codes, extra...)

			return runFetch(cmd, root, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "file of analysis ids")
	cmd.Flags().IntSliceVarP(&opts.codes, "download", "d", nil, "artifact type codes to download")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output directory (default from settings, \".\")")
	cmd.Flags().IntVarP(&opts.workers, "workers", "w", 0, "analyses fetched in parallel (default from settings, 3)")

	if err := cmd.MarkFlagRequired("input"); err != nil {
		panic(err)
	}

	return cmd
}

// parseCodeArgs reads the integers following -d, which pflag leaves as
// positional arguments.
func parseCodeArgs(args []string) ([]int, error) {
	codes := make([]int, 0, len(args))

	for _, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("invalid artifact code %q", a)
		}

		codes = append(codes, n)
	}

	return codes, nil
}

func runFetch(cmd *cobra.Command, root *rootOptions, opts *fetchOptions) error {
	labels, warnings, err := model.ParseArtifactCodes(opts.codes)
	if err != nil {
		return err
	}

	for _, w := range warnings {
		warn("%s", w)
	}

	settings, err := loadSettings(root, func(s *config.Settings) {
		if opts.output != "" {
			s.OutputRoot = opts.output
		}

		if opts.workers > 0 {
			s.MaxConcurrentAnalyses = opts.workers
		}
	})
	if err != nil {
		return err
	}

	manager := download.NewManager(settings, labels, logProgress)

	if err := manager.Initialize(cmd.Context(), opts.input); err != nil {
		return err
	}

	summary, runErr := manager.StartDownloads(cmd.Context())
	if summary == nil {
		return runErr
	}

	printFetchSummary(cmd.OutOrStdout(), summary, manager.Layout())
	writeMetrics(root, manager.Metrics())

	if runErr != nil {
		return fmt.Errorf("fetch interrupted: %w", runErr)
	}

	return nil
}
