package cli

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/rileyhilliard/chartty/internal/chart"
	"github.com/rileyhilliard/chartty/internal/config"
	"github.com/rileyhilliard/chartty/internal/errors"
	"github.com/rileyhilliard/chartty/internal/view"
)

// Check loads the config, builds every chart and writes a table of its
// series to w. Charts that fail to build are listed after the table and
// make Check return an error.
func Check(w io.Writer, configPath string) error {
	cfg, path, err := config.LoadOrDefault(configPath)
	if err != nil {
		return err
	}
	if path == "" {
		path = "built-in defaults"
	}
	fmt.Fprintf(w, "Config: %s\n\n", path)

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Chart", "Series", "Type", "Refresh", "Capacity", "Granularity", "Collision", "Missing"})
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	failed := make(map[string]error)
	for _, cc := range cfg.Charts.Charts {
		if _, err := chart.New(cc, chart.Deps{}); err != nil {
			failed[cc.Name] = err
			continue
		}
		for _, s := range cc.Series {
			table.Append([]string{
				cc.Name,
				s.Name,
				s.Type,
				s.RefreshInterval().String(),
				strconv.Itoa(s.MetricsCapacity),
				s.GranularityDuration().String(),
				s.CollisionPolicy,
				s.MissingValuesPolicy,
			})
		}
	}
	table.Render()

	fmt.Fprintf(w, "\n%d charts, %d decorators\n", len(cfg.Charts.Charts)-len(failed), len(cfg.Decorators))
	if len(failed) == 0 {
		return nil
	}

	names := make([]string, 0, len(failed))
	for name := range failed {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Fprintln(w)
	for _, name := range names {
		fmt.Fprintf(w, "%s %s: %s\n", view.PausedStyle.Render("✗"), name, errors.Summary(failed[name]))
	}
	return errors.New(errors.ErrConfig,
		fmt.Sprintf("%d chart(s) can't be built", len(failed)),
		"Fix the charts listed above; the rest will still run")
}
