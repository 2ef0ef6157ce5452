package cmd

import (
	"archive/zip"
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rorical/RoriDocs/internal/app"
	"github.com/Rorical/RoriDocs/internal/catalog"
	"github.com/Rorical/RoriDocs/internal/config"
)

func zipBody(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

type fixture struct {
	deps     *deps
	cacheDir string
	started  []*app.Application
	confirms []string
	answer   bool
}

// newFixture serves "manual" as a valid archive and "broken" as a 404
func newFixture(t *testing.T) *fixture {
	t.Helper()
	body := zipBody(t, map[string]string{
		"manual-master/docs/index.md":        "# Manual",
		"manual-master/docs/guides/setup.md": "# Setup",
	})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "/manual/") {
			_, _ = w.Write(body)
			return
		}
		http.NotFound(w, r)
	}))
	t.Cleanup(srv.Close)

	f := &fixture{cacheDir: filepath.Join(t.TempDir(), "ovos_docs")}
	f.deps = &deps{
		loadConfig: func() (*config.Config, error) {
			return &config.Config{
				CacheDir:            f.cacheDir,
				FetchTimeoutSeconds: 5,
				LogLevel:            "debug",
				LogFormat:           "json",
				TreeWidthPercent:    20,
			}, nil
		},
		catalog: catalog.New(
			catalog.Dataset{Key: "manual", ArchiveURL: srv.URL + "/OpenVoiceOS/manual/archive/refs/heads/master.zip"},
			catalog.Dataset{Key: "broken", ArchiveURL: srv.URL + "/OpenVoiceOS/broken/archive/refs/heads/master.zip"},
		),
		httpClient: srv.Client(),
		confirm: func(label string) (bool, error) {
			f.confirms = append(f.confirms, label)
			return f.answer, nil
		},
		run: func(a *app.Application) error {
			f.started = append(f.started, a)
			return nil
		},
	}
	return f
}

func (f *fixture) execute(args ...string) (string, string, error) {
	root := newRootCmd(f.deps)
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestView_UnknownDatasetFailsBeforeApplication(t *testing.T) {
	f := newFixture(t)
	configLoaded := false
	f.deps.loadConfig = func() (*config.Config, error) {
		configLoaded = true
		return nil, assert.AnError
	}

	_, _, err := f.execute("view", "recipes")

	var unknown *catalog.UnknownDatasetError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "recipes", unknown.Key)
	assert.False(t, configLoaded)
	assert.Empty(t, f.started)
}

func TestView_RequiresExactlyOneDataset(t *testing.T) {
	f := newFixture(t)

	_, _, err := f.execute("view")
	assert.Error(t, err)

	_, _, err = f.execute("view", "manual", "broken")
	assert.Error(t, err)
	assert.Empty(t, f.started)
}

func TestView_DownloadsAndStarts(t *testing.T) {
	f := newFixture(t)

	_, stderr, err := f.execute("view", "manual")
	require.NoError(t, err)

	require.Len(t, f.started, 1)
	assert.FileExists(t, filepath.Join(f.cacheDir, "manual", "docs", "index.md"))
	assert.Contains(t, stderr, "broken is not available offline")

	logData, err := os.ReadFile(filepath.Join(f.cacheDir, "roridocs.log"))
	require.NoError(t, err)
	assert.Contains(t, string(logData), `"logger":"cache"`)
	assert.Contains(t, string(logData), "dataset cached")
}

func TestRoot_DatasetArgumentOpensView(t *testing.T) {
	f := newFixture(t)

	_, _, err := f.execute("manual")

	require.NoError(t, err)
	assert.Len(t, f.started, 1)
}

func TestView_RequestedDownloadFailureIsFatal(t *testing.T) {
	f := newFixture(t)

	_, _, err := f.execute("view", "broken")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "prepare dataset broken")
	assert.Empty(t, f.started)
}

func TestDatasets_ListAndShow(t *testing.T) {
	f := newFixture(t)

	out, _, err := f.execute("datasets", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "manual (not cached)")
	assert.Contains(t, out, "broken (not cached)")

	_, _, err = f.execute("datasets", "update", "manual")
	require.NoError(t, err)

	out, _, err = f.execute("datasets", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "manual (cached, 2 documents)")

	out, _, err = f.execute("datasets", "show", "manual")
	require.NoError(t, err)
	assert.Contains(t, out, "Archive root: manual-master")
	assert.Contains(t, out, "Cached: Yes")
	assert.Contains(t, out, "Documents: 2")
}

func TestDatasets_UpdateAllStopsAtFirstFailure(t *testing.T) {
	f := newFixture(t)

	_, _, err := f.execute("datasets", "update", "--all")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "dataset broken")
}

func TestDatasets_CleanAsksFirst(t *testing.T) {
	f := newFixture(t)
	_, _, err := f.execute("datasets", "update", "manual")
	require.NoError(t, err)
	manual := filepath.Join(f.cacheDir, "manual")

	out, _, err := f.execute("datasets", "clean", "manual")
	require.NoError(t, err)
	assert.Contains(t, out, "Aborted")
	assert.DirExists(t, manual)
	require.Len(t, f.confirms, 1)
	assert.Contains(t, f.confirms[0], manual)

	f.answer = true
	_, _, err = f.execute("datasets", "clean", "manual")
	require.NoError(t, err)
	assert.NoDirExists(t, manual)

	_, _, err = f.execute("datasets", "update", "manual")
	require.NoError(t, err)
	_, _, err = f.execute("datasets", "clean", "--yes", "manual")
	require.NoError(t, err)
	assert.NoDirExists(t, manual)
	assert.Len(t, f.confirms, 2)

	_, statErr := os.Stat(manual)
	assert.True(t, os.IsNotExist(statErr))
}
