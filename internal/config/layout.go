package config

import "github.com/rileyhilliard/chartty/internal/geom"

// ApplyLayout gives every chart a position and dimensions. Charts without
// dimensions take DefaultDimensions. Charts without a position are placed
// left to right from Charts.Position, each one stepping past the previous
// auto-placed chart's width plus Spacing. Explicitly positioned charts do
// not move the cursor.
func ApplyLayout(cfg *ChartsConfig) {
	cursor := cfg.Position
	for i := range cfg.Charts {
		c := &cfg.Charts[i]
		if c.Dimensions == nil {
			dims := cfg.DefaultDimensions
			c.Dimensions = &dims
		}
		if c.Position == nil {
			pos := cursor
			c.Position = &pos
			cursor = geom.Point{
				X: cursor.X + c.Dimensions.X + cfg.Spacing,
				Y: cursor.Y,
			}
		}
	}
}
