package version

import (
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func TestCurrentDefaults(t *testing.T) {
	info := Current()
	assert.NotEmpty(t, info.Version)
}

func TestCurrentCanBeOverridden(t *testing.T) {
	origVersion, origCommit, origDate := Version, GitCommit, BuildDate
	t.Cleanup(func() {
		Version, GitCommit, BuildDate = origVersion, origCommit, origDate
	})

	// simulating build-time ldflags
	Version = " 1.2.3 "
	GitCommit = "abc123def456"
	BuildDate = "2024-01-15T10:30:00Z"
	assert.Equal(t, Info{Version: "1.2.3", GitCommit: "abc123def456", BuildDate: "2024-01-15T10:30:00Z"}, Current())

	Version = ""
	assert.Equal(t, "dev", Current().Version)
}

func TestColored(t *testing.T) {
	orig := color.NoColor
	t.Cleanup(func() { color.NoColor = orig })

	color.NoColor = true
	for _, v := range []string{"0.1.0", "1.2.3-rc.1", "dev", "1.2"} {
		assert.Equal(t, v, Colored(v))
	}

	color.NoColor = false
	got := Colored("0.1.0-dev")
	assert.Contains(t, got, "\x1b[")
	assert.Contains(t, got, "-dev")
}

func BenchmarkCurrent(b *testing.B) {
	for b.Loop() {
		_ = Current()
	}
}
