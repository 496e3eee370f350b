package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func withVersion(t *testing.T, v string) {
	t.Helper()
	old := version
	version = v
	t.Cleanup(func() { version = old })
}

func TestGetVersion(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		release bool
	}{
		{"default dev build", "0.0.0-dev", "0.0.0-dev", false},
		{"leading v stripped", "v1.4.2", "1.4.2", true},
		{"prerelease", "1.5.0-rc.1", "1.5.0-rc.1", false},
		{"garbage falls back", "not-a-version", fallbackVersion, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withVersion(t, tt.raw)
			assert.Equal(t, tt.want, GetVersion())
			assert.Equal(t, tt.release, IsRelease())
		})
	}
}
