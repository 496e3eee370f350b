package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/artsel/internal/config"
)

// newDefaultTarget returns a Config with known non-zero values so tests can
// verify that absent overlay keys leave the original values intact.
func newDefaultTarget() *config.Config {
	return &config.Config{
		API: config.APIConfig{
			BaseURL:           "https://collection.example.org/api/v1",
			UserAgent:         "artsel-test",
			RequestsPerSecond: 2,
			Timeout:           5 * time.Second,
		},
		Table: config.TableConfig{PageSize: 12},
		Logging: config.LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// writeOverlay writes YAML content to a temp file and returns its path.
func writeOverlay(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "overlay.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestShallowMergeYAML_SingleKeyOverride(t *testing.T) {
	target := newDefaultTarget()
	overlay := writeOverlay(t, `
table:
  page_size: 25
`)

	require.NoError(t, config.ShallowMergeYAML(target, overlay))

	assert.Equal(t, 25, target.Table.PageSize)
	assert.Equal(t, "info", target.Logging.Level)
	assert.Equal(t, 5*time.Second, target.API.Timeout)
}

func TestShallowMergeYAML_SectionReplacedWholesale(t *testing.T) {
	target := newDefaultTarget()
	overlay := writeOverlay(t, `
api:
  base_url: http://localhost:9000/api/v1
  timeout: 30s
`)

	require.NoError(t, config.ShallowMergeYAML(target, overlay))

	assert.Equal(t, "http://localhost:9000/api/v1", target.API.BaseURL)
	assert.Equal(t, 30*time.Second, target.API.Timeout)
	// Fields absent from the replaced section fall back to zero values.
	assert.Empty(t, target.API.UserAgent)
	assert.Zero(t, target.API.RequestsPerSecond)
}

func TestShallowMergeYAML_MultipleKeys(t *testing.T) {
	target := newDefaultTarget()
	overlay := writeOverlay(t, `
selection:
  deduplicate: true
logging:
  level: debug
  format: json
  file: /tmp/artsel-test.log
`)

	require.NoError(t, config.ShallowMergeYAML(target, overlay))

	assert.True(t, target.Selection.Deduplicate)
	assert.Equal(t, "debug", target.Logging.Level)
	assert.Equal(t, "json", target.Logging.Format)
	assert.Equal(t, "/tmp/artsel-test.log", target.Logging.File)
	assert.Equal(t, 12, target.Table.PageSize)
}

func TestShallowMergeYAML_EmptyAndCommentOnly(t *testing.T) {
	for _, content := range []string{"", "# just comments\n"} {
		target := newDefaultTarget()
		original := *target

		require.NoError(t, config.ShallowMergeYAML(target, writeOverlay(t, content)))
		assert.Equal(t, original, *target)
	}
}

func TestShallowMergeYAML_UnknownKeysIgnored(t *testing.T) {
	target := newDefaultTarget()
	overlay := writeOverlay(t, `
plugins:
  anything: true
table:
  page_size: 50
`)

	require.NoError(t, config.ShallowMergeYAML(target, overlay))
	assert.Equal(t, 50, target.Table.PageSize)
}

func TestShallowMergeYAML_Errors(t *testing.T) {
	t.Run("corrupted yaml", func(t *testing.T) {
		err := config.ShallowMergeYAML(newDefaultTarget(), writeOverlay(t, "{{{{not valid yaml at all"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parsing overlay YAML")
	})

	t.Run("missing file", func(t *testing.T) {
		err := config.ShallowMergeYAML(newDefaultTarget(), "/nonexistent/path/overlay.yaml")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "reading overlay file")
	})

	t.Run("wrong section type", func(t *testing.T) {
		err := config.ShallowMergeYAML(newDefaultTarget(), writeOverlay(t, "table:\n  page_size: lots\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), `applying overlay section "table"`)
	})

	t.Run("nil target", func(t *testing.T) {
		require.Error(t, config.ShallowMergeYAML(nil, writeOverlay(t, "")))
	})
}
