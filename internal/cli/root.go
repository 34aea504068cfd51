// Package cli implements the wikictl command line client.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/wikinsight/wikinsight/internal/config"
	"github.com/wikinsight/wikinsight/internal/insights"
	"github.com/wikinsight/wikinsight/internal/logger"
	"github.com/wikinsight/wikinsight/internal/wikiapi"
)

type options struct {
	backend string
	timeout time.Duration
	json    bool
	noColor bool
	verbose bool
}

// env is what every subcommand runs against once flags are resolved.
type env struct {
	opts    *options
	backend *wikiapi.Client
	printer *printer
}

// NewRootCmd builds the wikictl command tree writing to out and errOut.
func NewRootCmd(out, errOut io.Writer) *cobra.Command {
	opts := &options{}
	e := &env{opts: opts}

	root := &cobra.Command{
		Use:   "wikictl",
		Short: "Query Wikipedia engagement insights from the terminal",
		Long: `wikictl talks to the insights backend used by the wikinsight web app.

Example usage:
  wikictl predict "Alan Turing"           # Predict engagement for one article
  wikictl compare Go Rust --swap          # Compare two articles
  wikictl home                            # On this day and top trending
  wikictl chart https://en.wikipedia.org/wiki/Go_(programming_language)`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return e.init(cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	root.PersistentFlags().StringVar(&opts.backend, "backend", "", "insights backend URI (default from BACKEND_URI)")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", 0, "backend request timeout (default from BACKEND_TIMEOUT_SECONDS)")
	root.PersistentFlags().BoolVar(&opts.json, "json", false, "print the result as JSON")
	root.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "disable colored output")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log backend calls to stderr")

	root.AddCommand(
		newPredictCmd(e),
		newCompareCmd(e),
		newHomeCmd(e),
		newChartCmd(e),
	)
	return root
}

func (e *env) init(out, errOut io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if e.opts.backend != "" {
		cfg.BackendURI = strings.TrimRight(strings.TrimSpace(e.opts.backend), "/")
	}
	if e.opts.timeout > 0 {
		cfg.BackendTimeout = e.opts.timeout
	}

	var log logger.Logger = &logger.NopLogger{}
	if e.opts.verbose {
		cfg.LogLevel = "debug"
		if log, err = logger.InitWriter(cfg, errOut); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
	}

	e.backend = wikiapi.NewDefault(cfg.BackendURI, cfg.BackendTimeout, log)
	e.printer = newPrinter(out, errOut, colorsEnabled(e.opts.noColor))
	return nil
}

func colorsEnabled(noColor bool) bool {
	if noColor {
		return false
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	return os.Getenv("TERM") != "dumb"
}

// outcomeErr turns a failed interaction into the command's error, preferring
// the inline backend text over the toast.
func outcomeErr(outcome insights.Outcome, inline string, notices []insights.Notice) error {
	switch outcome {
	case insights.OutcomeOK, insights.OutcomeIdle:
		return nil
	}
	if inline != "" {
		return errors.New(inline)
	}
	for _, n := range notices {
		if n.Level == insights.NoticeError || n.Level == insights.NoticeWarning {
			return errors.New(n.Text)
		}
	}
	return fmt.Errorf("request ended with %s", outcome)
}
