package cli_test

import (
	"bufio"
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/artsel/internal/cli"
	"github.com/rshade/artsel/internal/collection"
	"github.com/rshade/artsel/internal/config"
)

// fakeCollection serves /artworks from generated records.
type fakeCollection struct {
	mu       sync.Mutex
	records  []collection.Record
	failPage int
	requests []string
}

func (f *fakeCollection) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	f.mu.Lock()
	f.requests = append(f.requests, r.URL.Query().Get("page")+"/"+r.URL.Query().Get("limit"))
	failPage := f.failPage
	f.mu.Unlock()

	if r.URL.Path != "/artworks" {
		http.NotFound(w, r)
		return
	}
	if failPage > 0 && page >= failPage {
		http.Error(w, "upstream exploded", http.StatusInternalServerError)
		return
	}

	total := len(f.records)
	start := min((page-1)*limit, total)
	end := min(start+limit, total)
	body := map[string]any{
		"pagination": map[string]any{
			"total":        total,
			"limit":        limit,
			"offset":       start,
			"total_pages":  (total + limit - 1) / limit,
			"current_page": page,
		},
		"data": f.records[start:end],
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(body)
}

func (f *fakeCollection) Requests() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.requests...)
}

func newFakeCollection(t *testing.T, n int) (*fakeCollection, string) {
	t.Helper()
	fake := &fakeCollection{records: collection.DemoRecords(n)}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)
	return fake, srv.URL
}

// executeCmd runs the root command in an isolated ARTSEL_HOME.
func executeCmd(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv(config.EnvHome, t.TempDir())
	t.Setenv(config.EnvLogLevel, "error")
	for _, key := range []string{config.EnvAPIURL, config.EnvLogFormat, config.EnvDedupe} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
	config.ResetGlobalConfigForTest()
	t.Cleanup(config.ResetGlobalConfigForTest)

	cmd := cli.NewRootCmd("test")
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func decodeNDJSON(t *testing.T, s string) []collection.Record {
	t.Helper()
	var records []collection.Record
	scanner := bufio.NewScanner(strings.NewReader(s))
	for scanner.Scan() {
		var rec collection.Record
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &rec))
		records = append(records, rec)
	}
	require.NoError(t, scanner.Err())
	return records
}

func TestSelect_ContinuesIntoNextPage(t *testing.T) {
	fake, url := newFakeCollection(t, 100)

	stdout, _, err := executeCmd(t, "select", "--api-url", url, "--count", "15", "--page-size", "12", "--output", "ndjson")
	require.NoError(t, err)

	records := decodeNDJSON(t, stdout)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15}, collection.IDs(records))
	assert.Equal(t, []string{"1/12", "2/12"}, fake.Requests())
}

func TestSelect_UsesConfiguredPageSize(t *testing.T) {
	fake, url := newFakeCollection(t, 100)

	_, _, err := executeCmd(t, "select", "--api-url", url, "--count", "3", "--output", "ndjson")
	require.NoError(t, err)
	assert.Equal(t, []string{"1/12"}, fake.Requests(), "no continuation fetch when the visible page covers the count")
}

func TestSelect_FetchFailureKeepsPartialSelection(t *testing.T) {
	fake, url := newFakeCollection(t, 100)
	fake.failPage = 2

	stdout, stderr, err := executeCmd(t, "select", "--api-url", url, "--count", "20", "--output", "json")
	require.NoError(t, err, "a partial selection is not a failure")

	var doc struct {
		Requested int                 `json:"requested"`
		Appended  int                 `json:"appended"`
		Fetches   int                 `json:"fetches"`
		Warning   string              `json:"warning"`
		Records   []collection.Record `json:"records"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &doc))
	assert.Equal(t, 20, doc.Requested)
	assert.Equal(t, 12, doc.Appended)
	assert.Equal(t, 1, doc.Fetches)
	assert.Len(t, doc.Records, 12)
	assert.Contains(t, doc.Warning, "page 2")
	assert.Contains(t, stderr, "Warning:")
}

func TestSelect_Exhausted(t *testing.T) {
	_, url := newFakeCollection(t, 20)

	stdout, _, err := executeCmd(t, "select", "--api-url", url, "--count", "30")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Selected 20 of 30 requested records (2 pages fetched), end of collection reached")
}

func TestSelect_StartPage(t *testing.T) {
	fake, url := newFakeCollection(t, 100)

	stdout, _, err := executeCmd(t, "select", "--api-url", url, "--count", "15", "--page", "3", "--page-size", "10", "--output", "ndjson")
	require.NoError(t, err)

	ids := collection.IDs(decodeNDJSON(t, stdout))
	require.Len(t, ids, 15)
	assert.Equal(t, 21, ids[0])
	assert.Equal(t, 35, ids[14])
	assert.Equal(t, []string{"3/10", "4/10"}, fake.Requests(), "continuation starts after the visible page")
}

func TestSelect_ShortLastPage(t *testing.T) {
	fake, url := newFakeCollection(t, 25)

	stdout, _, err := executeCmd(t, "select", "--api-url", url, "--count", "5", "--page", "3", "--page-size", "12", "--output", "ndjson")
	require.NoError(t, err)

	assert.Equal(t, []int{25}, collection.IDs(decodeNDJSON(t, stdout)))
	assert.Equal(t, []string{"3/12"}, fake.Requests(), "no page past the short last page is requested")
}

func TestSelect_Demo(t *testing.T) {
	stdout, _, err := executeCmd(t, "select", "--demo", "--count", "5")
	require.NoError(t, err)
	assert.Contains(t, stdout, "CODE")
	assert.Contains(t, stdout, "Study No. 5")
	assert.Contains(t, stdout, "Selected 5 of 5 requested records")
}

func TestSelect_InvalidInput(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{"negative count", []string{"--count", "-1"}, cli.ErrInvalidCount},
		{"unknown output", []string{"--count", "5", "--output", "xml"}, cli.ErrUnsupportedOutput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake, url := newFakeCollection(t, 100)
			args := append([]string{"select", "--api-url", url}, tt.args...)

			_, _, err := executeCmd(t, args...)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, fake.Requests())
		})
	}

	t.Run("page size out of range", func(t *testing.T) {
		_, _, err := executeCmd(t, "select", "--demo", "--count", "5", "--page-size", "500")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "page-size")
	})

	t.Run("count is required", func(t *testing.T) {
		_, _, err := executeCmd(t, "select", "--demo")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "count")
	})
}

func TestPage_JSON(t *testing.T) {
	_, url := newFakeCollection(t, 30)

	stdout, _, err := executeCmd(t, "page", "--api-url", url, "--page", "2", "--output", "json")
	require.NoError(t, err)

	var doc struct {
		Pagination struct {
			CurrentPage int  `json:"current_page"`
			TotalPages  int  `json:"total_pages"`
			TotalItems  int  `json:"total_items"`
			FirstItem   int  `json:"first_item"`
			LastItem    int  `json:"last_item"`
			HasNext     bool `json:"has_next"`
		} `json:"pagination"`
		Records []collection.Record `json:"records"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &doc))
	assert.Equal(t, 2, doc.Pagination.CurrentPage)
	assert.Equal(t, 3, doc.Pagination.TotalPages)
	assert.Equal(t, 30, doc.Pagination.TotalItems)
	assert.Equal(t, 13, doc.Pagination.FirstItem)
	assert.Equal(t, 24, doc.Pagination.LastItem)
	assert.True(t, doc.Pagination.HasNext)
	assert.Len(t, doc.Records, 12)
}

func TestPage_Table(t *testing.T) {
	_, url := newFakeCollection(t, 1234)

	stdout, _, err := executeCmd(t, "page", "--api-url", url)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Claude Monet")
	assert.NotContains(t, stdout, "French, 1840-1926", "only the first line of the artist credit is shown")
	assert.Contains(t, stdout, "Showing 1-12 of 1,234 (page 1 of 103)")
}

func TestPage_ServerError(t *testing.T) {
	fake, url := newFakeCollection(t, 30)
	fake.failPage = 1

	_, _, err := executeCmd(t, "page", "--api-url", url)
	require.ErrorIs(t, err, collection.ErrUnexpectedStatus)

	var statusErr *collection.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
}

func TestRoot_InvalidAPIURL(t *testing.T) {
	_, _, err := executeCmd(t, "page", "--api-url", "not a url")
	require.ErrorIs(t, err, config.ErrInvalidBaseURL)
}

func TestBrowse_RequiresTerminal(t *testing.T) {
	_, _, err := executeCmd(t, "browse", "--demo")
	require.ErrorIs(t, err, cli.ErrNotATerminal)
}

func TestBrowse_LogsToFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv(config.EnvHome, home)
	config.ResetGlobalConfigForTest()
	t.Cleanup(config.ResetGlobalConfigForTest)

	cmd := cli.NewRootCmd("test")
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--demo"})
	require.ErrorIs(t, cmd.Execute(), cli.ErrNotATerminal)

	_, err := os.Stat(filepath.Join(home, "logs", "artsel.log"))
	assert.NoError(t, err)
}

func TestVersion(t *testing.T) {
	stdout, _, err := executeCmd(t, "version", "--short")
	require.NoError(t, err)
	assert.Equal(t, "0.0.0-dev\n", stdout)

	stdout, _, err = executeCmd(t, "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "artsel 0.0.0-dev")
	assert.Contains(t, stdout, "development build")
}

func TestConfigInitAndValidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "artsel", "config.yaml")

	stdout, _, err := executeCmd(t, "config", "init", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, path)
	assert.FileExists(t, path)

	_, _, err = executeCmd(t, "config", "init", "--config", path)
	require.ErrorIs(t, err, cli.ErrConfigExists)

	_, _, err = executeCmd(t, "config", "init", "--config", path, "--force")
	require.NoError(t, err)

	stdout, _, err = executeCmd(t, "config", "validate", "--config", path, "--verbose")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Configuration is valid")
	assert.Contains(t, stdout, "Page size: 12")
	assert.Contains(t, stdout, "Request timeout: none")
}

func TestConfigValidate_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("table:\n  page_size: 0\n"), 0o600))

	_, _, err := executeCmd(t, "config", "validate", "--config", path)
	require.ErrorIs(t, err, config.ErrInvalidPageSize)

	_, _, err = executeCmd(t, "page", "--demo", "--config", path)
	require.ErrorIs(t, err, config.ErrInvalidPageSize, "other commands refuse an invalid config too")
}
