package cli

import (
	"fmt"
	"io"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/rileyhilliard/chartty/internal/config"
	"github.com/rileyhilliard/chartty/internal/errors"
)

// SeriesFlags holds the add-series flags.
type SeriesFlags struct {
	Type        string
	Source      string
	Refresh     string
	Granularity string
	Capacity    int
	Color       string
	Collision   string
	Missing     string
}

// AddSeriesFlags registers the series flags on a command.
func AddSeriesFlags(cmd *cobra.Command, flags *SeriesFlags) {
	cmd.Flags().StringVar(&flags.Type, "type", "prometheus", "series type (prometheus, alacritty_output, alacritty_input, async_items_loaded)")
	cmd.Flags().StringVar(&flags.Source, "source", "", "Prometheus query URL")
	cmd.Flags().StringVar(&flags.Refresh, "refresh", "", "polling interval (e.g., 500ms, 15s)")
	cmd.Flags().StringVar(&flags.Granularity, "granularity", "", "bucket width (e.g., 1s, 1m)")
	cmd.Flags().IntVar(&flags.Capacity, "capacity", 0, "samples to keep")
	cmd.Flags().StringVar(&flags.Color, "color", "", "line color as 0xRRGGBB")
	cmd.Flags().StringVar(&flags.Collision, "collision", "", "collision policy (Increment, Overwrite, Decrement, Ignore)")
	cmd.Flags().StringVar(&flags.Missing, "missing", "", "missing values policy (last, avg, zero, one, first, min, max, fixed(N))")
}

// toSeries converts the flags into a series config. Durations are stored
// in seconds, matching the config file.
func (f SeriesFlags) toSeries(name string) (config.SeriesConfig, error) {
	refresh, err := ParseDuration("refresh", f.Refresh)
	if err != nil {
		return config.SeriesConfig{}, err
	}
	granularity, err := ParseDuration("granularity", f.Granularity)
	if err != nil {
		return config.SeriesConfig{}, err
	}
	return config.SeriesConfig{
		Name:                name,
		Type:                f.Type,
		Source:              f.Source,
		Refresh:             refresh.Seconds(),
		Granularity:         granularity.Seconds(),
		MetricsCapacity:     f.Capacity,
		Color:               f.Color,
		CollisionPolicy:     f.Collision,
		MissingValuesPolicy: f.Missing,
	}, nil
}

// AddSeries appends a series named name to chartName in the config file
// found from configPath, then reloads the file to make sure the chart
// still validates.
func AddSeries(w io.Writer, configPath, chartName, name string, flags SeriesFlags) error {
	path, err := config.Find(configPath)
	if err != nil {
		return err
	}
	if path == "" {
		return errors.New(errors.ErrConfig,
			"No config file found",
			"Run 'chartty init' first, or pass --config")
	}

	s, err := flags.toSeries(name)
	if err != nil {
		return err
	}
	if err := config.CheckSeries(s); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"That series isn't valid",
			"Check the --type, --source and policy flags")
	}

	if err := config.AddSeries(path, chartName, s); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Couldn't add series '%s' to chart '%s'", name, chartName),
			"Run 'chartty check' to see the charts in "+path)
	}

	cfg, err := config.Load(path)
	if err == nil {
		if cc, ok := lo.Find(cfg.Charts.Charts, func(c config.ChartConfig) bool { return c.Name == chartName }); ok {
			err = config.ValidateChart(cc)
		}
	}
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"The config no longer validates after adding the series",
			"Edit "+path+" by hand to fix it")
	}

	fmt.Fprintf(w, "✓ Added series '%s' to chart '%s' in %s\n", name, chartName, path)
	return nil
}
