package jsonref

import (
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// withBuildVars swaps the ldflags variables for the duration of a test.
func withBuildVars(t *testing.T, v, c, bt string) {
	t.Helper()
	oldV, oldC, oldBT := version, commit, buildTime
	version, commit, buildTime = v, c, bt
	t.Cleanup(func() {
		version, commit, buildTime = oldV, oldC, oldBT
	})
}

func TestBuildDefaults(t *testing.T) {
	// Unset ldflags leave the development markers in place.
	v := Version()
	assert.True(t, v == "dev" || strings.HasPrefix(v, "v"), "unexpected version %q", v)
	assert.NotEmpty(t, Commit())
	assert.NotEmpty(t, BuildTime())
	assert.Equal(t, runtime.Version(), GoVersion())
}

func TestBuildVarsFromLdflags(t *testing.T) {
	withBuildVars(t, "v1.4.0", "abc1234", "2026-01-02T03:04:05Z")

	assert.Equal(t, "v1.4.0", Version())
	assert.Equal(t, "abc1234", Commit())
	assert.Equal(t, "2026-01-02T03:04:05Z", BuildTime())
}

func TestUserAgent(t *testing.T) {
	tests := []struct {
		version string
		want    string
	}{
		{"dev", "jsonref/dev"},
		{"v1.4.0", "jsonref/v1.4.0"},
		{"v2.0.0-rc.1", "jsonref/v2.0.0-rc.1"},
	}
	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			withBuildVars(t, tt.version, "unknown", "unknown")
			assert.Equal(t, tt.want, UserAgent())
		})
	}
}

func TestBuildInfo(t *testing.T) {
	withBuildVars(t, "v1.4.0", "abc1234", "2026-01-02T03:04:05Z")

	lines := strings.Split(BuildInfo(), "\n")
	assert.Equal(t, []string{
		"Version: v1.4.0",
		"Commit: abc1234",
		"Build Time: 2026-01-02T03:04:05Z",
		"Go Version: " + runtime.Version(),
	}, lines)
}
