package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// AddSeries appends a series to the named chart in the config file.
// It preserves the existing YAML structure and comments.
// A series with the same name already on the chart is an error.
func AddSeries(configPath, chartName string, s SeriesConfig) error {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse as yaml.Node to preserve structure
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return fmt.Errorf("invalid YAML document structure")
	}

	docNode := root.Content[0]
	if docNode.Kind != yaml.MappingNode {
		return fmt.Errorf("expected mapping at document root")
	}

	// charts.charts[name == chartName].series
	chartsNode := findMapValue(docNode, "charts")
	if chartsNode == nil {
		return fmt.Errorf("'charts' key not found in config")
	}
	listNode := findMapValue(chartsNode, "charts")
	if listNode == nil || listNode.Kind != yaml.SequenceNode {
		return fmt.Errorf("'charts.charts' list not found in config")
	}

	var chartNode *yaml.Node
	for _, item := range listNode.Content {
		if name := findMapValue(item, "name"); name != nil && name.Value == chartName {
			chartNode = item
			break
		}
	}
	if chartNode == nil {
		return fmt.Errorf("chart '%s' not found in config", chartName)
	}

	seriesNode := findMapValue(chartNode, "series")
	if seriesNode == nil {
		seriesNode = &yaml.Node{
			Kind:    yaml.SequenceNode,
			Tag:     "!!seq",
			Content: []*yaml.Node{},
		}
		keyNode := &yaml.Node{
			Kind:  yaml.ScalarNode,
			Tag:   "!!str",
			Value: "series",
		}
		chartNode.Content = append(chartNode.Content, keyNode, seriesNode)
	}

	for _, item := range seriesNode.Content {
		if name := findMapValue(item, "name"); name != nil && name.Value == s.Name {
			return fmt.Errorf("series '%s' already exists on chart '%s'", s.Name, chartName)
		}
	}

	var newSeries yaml.Node
	if err := newSeries.Encode(s); err != nil {
		return fmt.Errorf("failed to encode series: %w", err)
	}
	seriesNode.Content = append(seriesNode.Content, &newSeries)

	var buf strings.Builder
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(&root); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	encoder.Close()

	if err := os.WriteFile(configPath, []byte(buf.String()), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// findMapValue finds a value in a mapping node by key name.
func findMapValue(node *yaml.Node, key string) *yaml.Node {
	if node.Kind != yaml.MappingNode {
		return nil
	}

	for i := 0; i < len(node.Content)-1; i += 2 {
		keyNode := node.Content[i]
		valueNode := node.Content[i+1]

		if keyNode.Kind == yaml.ScalarNode && keyNode.Value == key {
			return valueNode
		}
	}

	return nil
}
