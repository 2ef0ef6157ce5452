package cache

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Rorical/RoriDocs/internal/catalog"
)

// DefaultTimeout bounds a single archive download
const DefaultTimeout = 30 * time.Second

// prefetchLimit caps concurrent downloads in Prefetch
const prefetchLimit = 4

// Cache keeps one extracted snapshot per dataset under a root directory
type Cache struct {
	root    string
	timeout time.Duration
	client  *http.Client
	logger  *zap.Logger
	rename  func(oldpath, newpath string) error
}

// Option configures a Cache
type Option func(*Cache)

// WithTimeout sets the download timeout. Ignored when WithHTTPClient is used.
func WithTimeout(d time.Duration) Option {
	return func(c *Cache) {
		c.timeout = d
	}
}

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(client *http.Client) Option {
	return func(c *Cache) {
		c.client = client
	}
}

// WithLogger sets the logger used for progress and best-effort cleanup
func WithLogger(logger *zap.Logger) Option {
	return func(c *Cache) {
		c.logger = logger
	}
}

// WithRenameFunc replaces os.Rename for moving directories into place
func WithRenameFunc(fn func(oldpath, newpath string) error) Option {
	return func(c *Cache) {
		c.rename = fn
	}
}

// New creates a Cache rooted at root
func New(root string, opts ...Option) *Cache {
	c := &Cache{
		root:    root,
		timeout: DefaultTimeout,
		logger:  zap.NewNop(),
		rename:  os.Rename,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.client == nil {
		c.client = &http.Client{
			Timeout: c.timeout,
		}
	}

	return c
}

// Root returns the cache root directory
func (c *Cache) Root() string {
	return c.root
}

// Path returns the directory holding the dataset's extracted tree
func (c *Cache) Path(ds catalog.Dataset) string {
	return filepath.Join(c.root, ds.Dir)
}

// DocsRoot returns the directory to browse: the "docs" folder of the
// extracted tree when there is one, the tree itself otherwise.
func (c *Cache) DocsRoot(ds catalog.Dataset) string {
	dir := c.Path(ds)
	docs := filepath.Join(dir, "docs")
	if isDir(docs) {
		return docs
	}
	return dir
}

// Ensure makes sure the dataset is extracted under the cache root. Without
// force an existing directory is trusted and nothing is downloaded.
func (c *Cache) Ensure(ctx context.Context, ds catalog.Dataset, force bool) error {
	dir := c.Path(ds)
	if !force && isDir(dir) {
		c.logger.Debug("dataset already cached", zap.String("dataset", ds.Key), zap.String("dir", dir))
		return nil
	}

	if err := os.MkdirAll(c.root, 0o755); err != nil {
		return &CacheIOError{Op: "mkdir", Path: c.root, Err: err}
	}

	begin := time.Now()
	result, err := c.fetch(ctx, ds)
	if err != nil {
		c.logger.Error("archive download failed", zap.String("dataset", ds.Key), zap.String("url", ds.ArchiveURL), zap.Error(err))
		return err
	}

	if err := c.install(ds, result); err != nil {
		c.logger.Error("archive install failed", zap.String("dataset", ds.Key), zap.String("archive", result.Path), zap.Error(err))
		return err
	}

	if err := os.Remove(result.Path); err != nil {
		c.logger.Warn("failed to remove archive", zap.String("archive", result.Path), zap.Error(err))
	}

	c.logger.Info("dataset cached",
		zap.String("dataset", ds.Key),
		zap.String("dir", dir),
		zap.Int64("bytes", result.Size),
		zap.Duration("duration", time.Since(begin)),
	)
	return nil
}

// EnsureAll applies Ensure to each dataset in order and stops at the first
// failure.
func (c *Cache) EnsureAll(ctx context.Context, datasets []catalog.Dataset, force bool) error {
	for _, ds := range datasets {
		ds := ds
		if err := c.Ensure(ctx, ds, force); err != nil {
			return fmt.Errorf("dataset %s: %w", ds.Key, err)
		}
	}
	return nil
}

// Prefetch ensures datasets concurrently. A failing dataset never stops the
// others; failures are logged and returned keyed by dataset.
func (c *Cache) Prefetch(ctx context.Context, datasets []catalog.Dataset, force bool) map[string]error {
	var (
		mu       sync.Mutex
		failures = make(map[string]error)
		g        errgroup.Group
	)
	g.SetLimit(prefetchLimit)

	for _, ds := range datasets {
		ds := ds
		g.Go(func() error {
			if err := c.Ensure(ctx, ds, force); err != nil {
				c.logger.Warn("prefetch failed", zap.String("dataset", ds.Key), zap.Error(err))
				mu.Lock()
				failures[ds.Key] = err
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	return failures
}

// Status describes what is currently cached for a dataset
type Status struct {
	Cached  bool
	Files   int // markdown files below the docs root
	ModTime time.Time
}

// Status inspects the filesystem; nothing is tracked between calls
func (c *Cache) Status(ds catalog.Dataset) (Status, error) {
	info, err := os.Stat(c.Path(ds))
	if errors.Is(err, fs.ErrNotExist) {
		return Status{}, nil
	}
	if err != nil {
		return Status{}, &CacheIOError{Op: "stat", Path: c.Path(ds), Err: err}
	}
	if !info.IsDir() {
		return Status{}, nil
	}

	st := Status{Cached: true, ModTime: info.ModTime()}
	err = filepath.WalkDir(c.DocsRoot(ds), func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(d.Name()), ".md") {
			st.Files++
		}
		return nil
	})
	if err != nil {
		return st, &CacheIOError{Op: "walk", Path: c.DocsRoot(ds), Err: err}
	}
	return st, nil
}

// Remove deletes the dataset's cached directory
func (c *Cache) Remove(ds catalog.Dataset) error {
	if err := os.RemoveAll(c.Path(ds)); err != nil {
		return &CacheIOError{Op: "remove", Path: c.Path(ds), Err: err}
	}
	c.logger.Info("dataset removed", zap.String("dataset", ds.Key))
	return nil
}

func (c *Cache) fetch(ctx context.Context, ds catalog.Dataset) (*fetchResult, error) {
	rootName, err := catalog.ArchiveRootName(ds.ArchiveURL)
	if err != nil {
		return nil, &CacheIOError{Op: "locate", Path: ds.ArchiveURL, Err: fmt.Errorf("%w: %v", ErrArchiveLayout, err)}
	}

	archive := filepath.Join(c.root, ds.Key+".zip")
	n, err := c.download(ctx, ds.ArchiveURL, archive)
	if err != nil {
		return nil, err
	}

	return &fetchResult{Path: archive, RootName: rootName, Size: n}, nil
}

// install extracts the archive into a staging directory next to the cache
// and swaps the extracted tree into place.
func (c *Cache) install(ds catalog.Dataset, result *fetchResult) error {
	staging, err := os.MkdirTemp(c.root, ".staging-"+ds.Key+"-")
	if err != nil {
		return &CacheIOError{Op: "mkdir", Path: c.root, Err: err}
	}
	defer c.removeAll(staging)

	if err := extractZip(result.Path, staging); err != nil {
		return err
	}

	extracted := filepath.Join(staging, result.RootName)
	if !isDir(extracted) {
		return &CacheIOError{Op: "locate", Path: extracted, Err: ErrArchiveLayout}
	}

	return c.replace(ds, extracted, c.Path(ds))
}

// replace moves src to dst. An existing dst is first renamed aside and only
// deleted once src is in place, so dst is always either the old tree or the
// new one.
func (c *Cache) replace(ds catalog.Dataset, src, dst string) error {
	var backup string
	_, err := os.Lstat(dst)
	switch {
	case err == nil:
		backup = filepath.Join(c.root, ".old-"+ds.Key+"-"+strconv.FormatInt(time.Now().UnixNano(), 36))
		if err := c.rename(dst, backup); err != nil {
			return &CacheIOError{Op: "move", Path: dst, Err: err}
		}
	case !errors.Is(err, fs.ErrNotExist):
		return &CacheIOError{Op: "stat", Path: dst, Err: err}
	}

	if err := c.rename(src, dst); err != nil {
		if backup != "" {
			if restoreErr := c.rename(backup, dst); restoreErr != nil {
				c.logger.Error("failed to restore previous cache",
					zap.String("dataset", ds.Key),
					zap.String("backup", backup),
					zap.Error(restoreErr),
				)
				return &CacheIOError{Op: "restore", Path: dst, Err: errors.Join(err, restoreErr)}
			}
		}
		return &CacheIOError{Op: "move", Path: dst, Err: err}
	}

	if backup != "" {
		c.removeAll(backup)
	}
	return nil
}

func (c *Cache) removeAll(path string) {
	if err := os.RemoveAll(path); err != nil {
		c.logger.Warn("cleanup failed", zap.String("path", path), zap.Error(err))
	}
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
