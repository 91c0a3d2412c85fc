package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/inconshreveable/log15"
	"github.com/spf13/cobra"

	"github.com/handiism/mgnify-downloader/internal/config"
	"github.com/handiism/mgnify-downloader/internal/metrics"
)

// appLogger is used for logging events in our commands.
var appLogger = log15.New() //nolint:gochecknoglobals

func init() { //nolint:gochecknoinits
	appLogger.SetHandler(log15.LvlFilterHandler(log15.LvlInfo, log15.StderrHandler))
}

// rootOptions are the flags shared by every subcommand.
type rootOptions struct {
	configPath  string
	envFile     string
	metricsFile string
	logFile     string
	saveConfig  string
	verbose     bool
}

// NewRootCmd builds the mgnify-dl command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "mgnify-dl",
		Short: "mgnify-dl downloads metagenomic assembly analyses from MGnify.",
		Long: `mgnify-dl downloads metagenomic assembly analyses from MGnify.

The 'list' subcommand writes every analysis that has an assembly, with its
assembly id, to {date}_analyses_and_assembly.txt.

The 'fetch' subcommand takes a list of analysis ids and saves their studies,
samples and selected artifacts under the output directory.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			setupLogging(opts)
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "path to a JSON settings file")
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "path to a .env file with MGNIFY_* overrides")
	cmd.PersistentFlags().StringVar(&opts.metricsFile, "metrics-file", "",
		"write run counters to this file in Prometheus text format")
	cmd.PersistentFlags().StringVar(&opts.logFile, "log-file", "", "log to this file instead of STDERR")
	cmd.PersistentFlags().StringVar(&opts.saveConfig, "save-config", "",
		"write the resolved settings to this JSON file for later use with --config")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log per analysis and per page progress")

	cmd.AddCommand(newFetchCmd(opts), newListCmd(opts))

	return cmd
}

// Execute runs the command line. This is called by main.main().
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		die("%s", err.Error())
	}
}

// loadSettings applies the config file, then the environment, then flags.
// With --save-config the result is written back out.
func loadSettings(opts *rootOptions, flags func(*config.Settings)) (*config.Settings, error) {
	settings := config.DefaultSettings()

	if opts.configPath != "" {
		var err error

		settings, err = config.Load(opts.configPath)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
	}

	if err := settings.ApplyEnv(opts.envFile); err != nil {
		return nil, err
	}

	flags(settings)

	if err := settings.Validate(); err != nil {
		return nil, err
	}

	if opts.saveConfig != "" {
		if err := settings.Save(opts.saveConfig); err != nil {
			return nil, fmt.Errorf("saving config: %w", err)
		}

		info("settings saved to %s", opts.saveConfig)
	}

	return settings, nil
}

func writeMetrics(opts *rootOptions, m *metrics.Metrics) {
	if opts.metricsFile == "" {
		return
	}

	if err := m.WriteTextfile(opts.metricsFile); err != nil {
		warn("Could not write metrics to [%s]: %s", opts.metricsFile, err)

		return
	}

	info("metrics written to %s", opts.metricsFile)
}

func setupLogging(opts *rootOptions) {
	lvl := log15.LvlInfo
	if opts.verbose {
		lvl = log15.LvlDebug
	}

	appLogger = log15.New("run", uuid.NewString())

	handler := log15.StreamHandler(os.Stderr, cliFormat())

	var fileErr error

	if opts.logFile != "" {
		fh, err := log15.FileHandler(opts.logFile, log15.LogfmtFormat())
		if err == nil {
			handler = fh
		}

		fileErr = err
	}

	appLogger.SetHandler(log15.LvlFilterHandler(lvl, handler))

	if fileErr != nil {
		warn("Could not log to file [%s]: %s", opts.logFile, fileErr)
	}
}

// info is a convenience to log a message at the Info level.
func info(msg string, a ...any) {
	appLogger.Info(fmt.Sprintf(msg, a...))
}

// warn is a convenience to log a message at the Warn level.
func warn(msg string, a ...any) {
	appLogger.Warn(fmt.Sprintf(msg, a...))
}

// die is a convenience to log a message at the Error level and exit non zero.
func die(msg string, a ...any) {
	appLogger.Error(fmt.Sprintf(msg, a...))
	os.Exit(1)
}

// cliFormat returns a log15.Format that prints the level and plain message.
func cliFormat() log15.Format { //nolint:ireturn
	return log15.FormatFunc(func(r *log15.Record) []byte {
		b := &bytes.Buffer{}
		fmt.Fprintf(b, "%-5s %s\n", r.Lvl.String(), r.Msg)

		return b.Bytes()
	})
}
