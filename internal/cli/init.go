package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"
	"gopkg.in/yaml.v3"

	"github.com/rileyhilliard/chartty/internal/config"
	"github.com/rileyhilliard/chartty/internal/errors"
)

// InitOptions holds options for the init command.
type InitOptions struct {
	Dir            string // Directory to write chartty.yaml into; "." when empty
	Prometheus     string // Prometheus query URL for an extra chart
	Decorator      bool   // Add an animated hexagon background
	Overwrite      bool   // Overwrite existing config without asking
	NonInteractive bool   // Skip prompts, use defaults
}

// initDefaults holds values read from the environment.
type initDefaults struct {
	Prometheus     string
	NonInteractive bool
}

// getInitDefaults reads init defaults from CHARTTY_PROMETHEUS_URL,
// CHARTTY_NON_INTERACTIVE and CI.
func getInitDefaults() initDefaults {
	return initDefaults{
		Prometheus:     os.Getenv("CHARTTY_PROMETHEUS_URL"),
		NonInteractive: os.Getenv("CHARTTY_NON_INTERACTIVE") == "true" || os.Getenv("CI") != "",
	}
}

// mergeInitOptions fills empty options from the environment. Flags win.
func mergeInitOptions(opts InitOptions) InitOptions {
	defaults := getInitDefaults()
	if opts.Prometheus == "" {
		opts.Prometheus = defaults.Prometheus
	}
	if defaults.NonInteractive {
		opts.NonInteractive = true
	}
	return opts
}

// initFile is the layout written by init. Durations are kept as strings
// so the file reads "5s" rather than nanoseconds.
type initFile struct {
	Version      int                      `yaml:"version"`
	FetchTimeout string                   `yaml:"fetch_timeout"`
	Log          config.LogConfig         `yaml:"log"`
	Charts       initCharts               `yaml:"charts"`
	Decorators   []config.DecoratorConfig `yaml:"decorators,omitempty"`
}

type initCharts struct {
	DefaultDimensions struct {
		X float64 `yaml:"x"`
		Y float64 `yaml:"y"`
	} `yaml:"default_dimensions"`
	Spacing float64              `yaml:"spacing"`
	Charts  []config.ChartConfig `yaml:"charts"`
}

// Init creates a new chartty.yaml configuration file.
func Init(opts InitOptions) error {
	dir := opts.Dir
	if dir == "" {
		dir = "."
	}
	configPath := filepath.Join(dir, config.ConfigFileName)

	// Check for existing config
	if _, err := os.Stat(configPath); err == nil && !opts.Overwrite {
		if opts.NonInteractive {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Config file already exists: %s", configPath),
				"Use --force to overwrite")
		}

		var overwrite bool
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("Config file '%s' already exists. Overwrite?", config.ConfigFileName)).
					Value(&overwrite),
			),
		)
		if err := form.Run(); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to get user input",
				"Try running with --force to overwrite")
		}
		if !overwrite {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	if !opts.NonInteractive {
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Prometheus query URL (optional)").
					Description("Charted next to the terminal counters, e.g. http://localhost:9090/api/v1/query?query=up").
					Placeholder("leave empty to skip").
					Value(&opts.Prometheus).
					Validate(validatePrometheusURL),
			),
			huh.NewGroup(
				huh.NewConfirm().
					Title("Add an animated hexagon background?").
					Value(&opts.Decorator),
			),
		)
		if err := form.Run(); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to get user input",
				"Check terminal compatibility or use --non-interactive flag")
		}
	}
	if err := validatePrometheusURL(opts.Prometheus); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid --prometheus URL",
			"Use a full query URL like http://localhost:9090/api/v1/query?query=up")
	}

	data, err := yaml.Marshal(buildInitFile(opts))
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to generate config",
			"This shouldn't happen - please report this bug")
	}

	header := `# chartty configuration
# Run 'chartty check' to validate it and 'chartty run' to draw the charts.

`
	if err := os.WriteFile(configPath, []byte(header+string(data)), 0o644); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Failed to write config file: %s", configPath),
			"Check directory permissions")
	}

	fmt.Printf("✓ Created %s\n\n", configPath)
	fmt.Println("Next steps:")
	fmt.Println("  chartty check  - Validate the config")
	fmt.Println("  chartty run    - Draw the charts")
	return nil
}

func buildInitFile(opts InitOptions) initFile {
	defaults := config.DefaultConfig()

	f := initFile{
		Version:      config.CurrentConfigVersion,
		FetchTimeout: config.DefaultFetchTimeout.String(),
		Log:          config.LogConfig{Level: config.DefaultLogLevel},
	}
	f.Charts.DefaultDimensions.X = defaults.Charts.DefaultDimensions.X
	f.Charts.DefaultDimensions.Y = defaults.Charts.DefaultDimensions.Y
	f.Charts.Spacing = defaults.Charts.Spacing
	f.Charts.Charts = config.DefaultCharts()

	if opts.Prometheus != "" {
		f.Charts.Charts = append(f.Charts.Charts, config.ChartConfig{
			Name: "prometheus",
			Series: []config.SeriesConfig{{
				Name:    "query",
				Type:    "prometheus",
				Source:  opts.Prometheus,
				Refresh: config.DefaultPrometheusRefresh,
			}},
		})
	}
	if opts.Decorator {
		f.Decorators = []config.DecoratorConfig{{
			Type:     "hexagon",
			Animated: true,
		}}
	}
	return f
}

func validatePrometheusURL(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
		return fmt.Errorf("URL must start with http:// or https://")
	}
	return nil
}

// initCommand is the implementation called by the cobra command.
func initCommand(prometheus string, force, nonInteractive bool) error {
	return Init(mergeInitOptions(InitOptions{
		Prometheus:     prometheus,
		Overwrite:      force,
		NonInteractive: nonInteractive,
	}))
}
