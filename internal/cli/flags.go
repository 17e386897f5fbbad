package cli

import (
	"fmt"
	"time"

	"github.com/xhit/go-str2duration/v2"

	"github.com/rileyhilliard/chartty/internal/errors"
)

// maxFPS caps --fps; the frame loop can't usefully go faster.
const maxFPS = 120

// ParseDuration parses a duration flag. On top of Go syntax it accepts
// days and weeks ("1d", "2w3d"). Empty gives zero.
func ParseDuration(name, flag string) (time.Duration, error) {
	if flag == "" {
		return 0, nil
	}

	d, err := str2duration.ParseDuration(flag)
	if err != nil {
		return 0, errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("'%s' doesn't look like a valid --%s", flag, name),
			"Try something like 5s, 2m, 500ms or 1d.")
	}
	if d < 0 {
		return 0, errors.New(errors.ErrConfig,
			fmt.Sprintf("--%s can't be negative", name),
			"Use a positive duration")
	}
	return d, nil
}

// FrameIntervalForFPS converts a frames-per-second flag into a frame
// interval. Zero means "keep the configured interval" and returns zero.
func FrameIntervalForFPS(fps int) (time.Duration, error) {
	if fps == 0 {
		return 0, nil
	}
	if fps < 0 || fps > maxFPS {
		return 0, errors.New(errors.ErrConfig,
			fmt.Sprintf("--fps must be between 1 and %d, got %d", maxFPS, fps),
			"Pick a frame rate like 10 or 30")
	}
	return time.Second / time.Duration(fps), nil
}
