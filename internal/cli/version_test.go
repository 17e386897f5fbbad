package cli

import (
	"bytes"
	"fmt"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/chartty/internal/config"
)

// runVersion executes "chartty version" through the root command with the
// given build info and returns what it printed.
func runVersion(t *testing.T, v, c, d string, args ...string) string {
	t.Helper()
	oldVersion, oldCommit, oldDate := version, commit, date
	t.Cleanup(func() {
		SetVersionInfo(oldVersion, oldCommit, oldDate)
		versionShort = false
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})
	SetVersionInfo(v, c, d)

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs(append([]string{"version"}, args...))
	require.NoError(t, rootCmd.Execute())
	return buf.String()
}

func TestVersionCommand(t *testing.T) {
	tests := []struct {
		name    string
		version string
		args    []string
		want    []string
		exact   string
	}{
		{
			name:    "release build",
			version: "1.2.3",
			want: []string{
				"chartty v1.2.3\n",
				"commit: abc1234\n",
				"built: 2025-01-08T12:00:00Z\n",
				fmt.Sprintf("config schema: %d\n", config.CurrentConfigVersion),
				"go: " + runtime.Version(),
				"os/arch: " + runtime.GOOS + "/" + runtime.GOARCH,
			},
		},
		{
			name:    "tagged build keeps its prefix",
			version: "v0.4.0-rc.1",
			want:    []string{"chartty v0.4.0-rc.1\n"},
		},
		{
			name:    "dev build",
			version: "dev",
			want:    []string{"chartty dev\n"},
		},
		{
			name:    "short",
			version: "1.2.3",
			args:    []string{"--short"},
			exact:   "1.2.3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := runVersion(t, tt.version, "abc1234", "2025-01-08T12:00:00Z", tt.args...)
			if tt.exact != "" {
				assert.Equal(t, tt.exact, strings.TrimSpace(out))
				return
			}
			for _, w := range tt.want {
				assert.Contains(t, out, w)
			}
		})
	}
}

func TestGetVersion(t *testing.T) {
	old := version
	t.Cleanup(func() { version = old })

	SetVersionInfo("3.0.0", "none", "unknown")
	assert.Equal(t, "3.0.0", GetVersion())
}
