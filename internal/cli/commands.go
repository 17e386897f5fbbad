package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/chartty/internal/errors"
)

// Command-specific flags
var (
	runFetchTimeoutFlag string
	runDurationFlag     string
	runFPSFlag          int
	runMetricsAddrFlag  string
	runNoAltScreenFlag  bool
	runTextFlag         bool
	initForce           bool
	initNonInteractive  bool
	initPrometheusFlag  string
	seriesFlags         SeriesFlags
)

// runCmd polls every series and draws the overlay
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Poll series and draw the chart overlay",
	Long: `Start polling every configured series and draw the charts.

When stdout is a terminal this opens an interactive overlay. Otherwise a
plain text summary of every chart is printed each second.

Keyboard shortcuts:
  p / space   Pause or resume frame updates
  l           Toggle the legend
  ?           Show help
  q / Ctrl+C  Quit

Examples:
  chartty run
  chartty run --fps 30
  chartty run --text --duration 1m
  chartty run --metrics-addr :9464`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return Run(cmd.Context(), RunOptions{
			ConfigPath:   cfgFile,
			Verbose:      verboseFlag,
			FetchTimeout: runFetchTimeoutFlag,
			Duration:     runDurationFlag,
			FPS:          runFPSFlag,
			MetricsAddr:  runMetricsAddrFlag,
			NoAltScreen:  runNoAltScreenFlag,
			Text:         runTextFlag,
			Stdout:       cmd.OutOrStdout(),
		})
	},
}

// checkCmd validates the config and lists every series
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the config and list every series",
	Long: `Load the config, build every chart and print a table of its series.

Exits non-zero when the config is invalid or any chart can't be built.

Examples:
  chartty check
  chartty check --config ~/dashboards/chartty.yaml`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return Check(cmd.OutOrStdout(), cfgFile)
	},
}

// initCmd creates a new chartty.yaml
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create chartty.yaml configuration",
	Long: `Create a chartty.yaml in the current directory.

The default config charts terminal input, output and the async loader
counter. Point --prometheus at a query URL to add a Prometheus chart.

Examples:
  chartty init
  chartty init --prometheus 'http://localhost:9090/api/v1/query?query=node_load1'
  chartty init --force --non-interactive`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return initCommand(initPrometheusFlag, initForce, initNonInteractive)
	},
}

// addSeriesCmd appends a series to an existing chart
var addSeriesCmd = &cobra.Command{
	Use:   "add-series <chart> <name>",
	Short: "Add a series to a chart in the config file",
	Long: `Append a series to an existing chart, keeping the rest of the file
(comments included) as it is.

Examples:
  chartty add-series load load5 --source 'http://localhost:9090/api/v1/query?query=node_load5'
  chartty add-series terminal keys --type alacritty_input --refresh 500ms`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return AddSeries(cmd.OutOrStdout(), cfgFile, args[0], args[1], seriesFlags)
	},
}

// completionCmd generates shell completion scripts
var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: `Generate shell completion scripts for chartty.

Examples:
  # Bash
  chartty completion bash > /etc/bash_completion.d/chartty

  # Zsh
  chartty completion zsh > "${fpath[1]}/_chartty"

  # Fish
  chartty completion fish > ~/.config/fish/completions/chartty.fish`,
	ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(os.Stdout)
		case "zsh":
			return rootCmd.GenZshCompletion(os.Stdout)
		case "fish":
			return rootCmd.GenFishCompletion(os.Stdout, true)
		case "powershell":
			return rootCmd.GenPowerShellCompletion(os.Stdout)
		default:
			return errors.New(errors.ErrConfig,
				"Unknown shell: "+args[0],
				"Supported shells: bash, zsh, fish, powershell")
		}
	},
}

func init() {
	// run command flags
	runCmd.Flags().StringVar(&runFetchTimeoutFlag, "fetch-timeout", "", "override fetch_timeout (e.g., 2s, 500ms)")
	runCmd.Flags().StringVar(&runDurationFlag, "duration", "", "exit after this long (e.g., 30s, 1h, 1d)")
	runCmd.Flags().IntVar(&runFPSFlag, "fps", 0, "frames per second (overrides frame_interval)")
	runCmd.Flags().StringVar(&runMetricsAddrFlag, "metrics-addr", "", "serve chartty's own metrics on this address")
	runCmd.Flags().BoolVar(&runNoAltScreenFlag, "no-altscreen", false, "draw inline instead of on the alternate screen")
	runCmd.Flags().BoolVar(&runTextFlag, "text", false, "print text summaries even on a terminal")

	// init command flags
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite existing config")
	initCmd.Flags().BoolVar(&initNonInteractive, "non-interactive", false, "skip prompts and use defaults")
	initCmd.Flags().StringVar(&initPrometheusFlag, "prometheus", "", "Prometheus query URL for an extra chart")

	// add-series command flags
	AddSeriesFlags(addSeriesCmd, &seriesFlags)

	// Register all commands
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(addSeriesCmd)
	rootCmd.AddCommand(completionCmd)
}
