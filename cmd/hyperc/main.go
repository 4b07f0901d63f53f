// Command hyperc is a developer tool for go-hyper templates.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/dpotapov/go-hyper/render"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		os.Exit(1)
	}
}

// app holds the state shared by the subcommands of one invocation.
type app struct {
	verbose  bool
	logger   *slog.Logger
	registry *prometheus.Registry
	metrics  *render.Metrics
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "hyperc",
		Short: "Inspect and exercise go-hyper templates",
		Long: `hyperc shows how go-hyper parses templates and how it patches the DOM.

Templates use ${} for positional values and ${expr} for expressions
evaluated against an environment, for example:

  <ul class="${cls}">${ items }</ul>`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			a.setup(cmd.ErrOrStderr())
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Log parsing and rendering")

	rootCmd.AddCommand(
		a.inspectCmd(),
		a.diffCmd(),
		a.renderCmd(),
		versionCmd(),
	)

	return rootCmd
}

func (a *app) setup(stderr io.Writer) {
	level := slog.LevelWarn
	if a.verbose {
		level = slog.LevelDebug
	}
	a.logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	a.registry = prometheus.NewRegistry()
	a.metrics = render.NewMetrics(render.WithRegistry(a.registry), render.WithNamespace("hyperc"))
}

// engine returns a fresh engine reporting to the logger and metrics of the invocation.
func (a *app) engine() *render.Engine {
	return render.NewEngine(render.Options{Logger: a.logger, Metrics: a.metrics})
}

// readSource returns the trimmed contents of the file named by args, or of stdin when args is
// empty or "-".
func readSource(stdin io.Reader, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		b, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return strings.TrimSpace(string(b)), nil
	}
	b, err := os.ReadFile(args[0])
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}
