package cache

import (
	"context"
	"io"
	"net/http"
	"os"
)

const userAgent = "RoriDocs/1.0"

// fetchResult is the downloaded archive on disk and the folder it is
// expected to extract to.
type fetchResult struct {
	Path     string
	RootName string
	Size     int64
}

// writeTracker remembers write failures so a failed copy can be blamed on
// the disk rather than the network.
type writeTracker struct {
	w   io.Writer
	err error
}

func (t *writeTracker) Write(p []byte) (int, error) {
	n, err := t.w.Write(p)
	if err != nil {
		t.err = err
	}
	return n, err
}

// download streams rawURL into dst
func (c *Cache) download(ctx context.Context, rawURL, dst string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return 0, &FetchError{URL: rawURL, Err: err}
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, &FetchError{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, &FetchError{URL: rawURL, StatusCode: resp.StatusCode}
	}

	f, err := os.Create(dst)
	if err != nil {
		return 0, &CacheIOError{Op: "write", Path: dst, Err: err}
	}

	tracker := &writeTracker{w: f}
	n, copyErr := io.Copy(tracker, resp.Body)
	closeErr := f.Close()

	switch {
	case tracker.err != nil:
		return n, &CacheIOError{Op: "write", Path: dst, Err: tracker.err}
	case copyErr != nil:
		return n, &FetchError{URL: rawURL, Err: copyErr}
	case closeErr != nil:
		return n, &CacheIOError{Op: "write", Path: dst, Err: closeErr}
	}
	return n, nil
}
