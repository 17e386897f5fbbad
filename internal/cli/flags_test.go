package cli

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/chartty/internal/errors"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Duration
		wantErr bool
	}{
		{name: "empty", input: "", want: 0},
		{name: "seconds", input: "5s", want: 5 * time.Second},
		{name: "millis", input: "500ms", want: 500 * time.Millisecond},
		{name: "compound", input: "1m30s", want: 90 * time.Second},
		{name: "days", input: "1d", want: 24 * time.Hour},
		{name: "weeks and days", input: "1w2d", want: 9 * 24 * time.Hour},
		{name: "garbage", input: "soon", wantErr: true},
		{name: "negative", input: "-5s", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDuration("fetch-timeout", tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsCode(err, errors.ErrConfig))
				assert.Contains(t, err.Error(), "fetch-timeout")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFrameIntervalForFPS(t *testing.T) {
	tests := []struct {
		fps     int
		want    time.Duration
		wantErr bool
	}{
		{fps: 0, want: 0},
		{fps: 1, want: time.Second},
		{fps: 10, want: 100 * time.Millisecond},
		{fps: 120, want: time.Second / 120},
		{fps: -1, wantErr: true},
		{fps: 121, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("fps=%d", tt.fps), func(t *testing.T) {
			got, err := FrameIntervalForFPS(tt.fps)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
