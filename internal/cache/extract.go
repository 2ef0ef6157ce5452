package cache

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// maxEntrySize caps a single extracted file
const maxEntrySize = 64 << 20

var errEntryTooLarge = errors.New("entry too large")

// extractZip unpacks every entry of archive below dest. Entries that would
// land outside dest are rejected; symlinks are skipped.
func extractZip(archive, dest string) error {
	zr, err := zip.OpenReader(archive)
	if err != nil {
		return &ExtractionError{Archive: archive, Err: err}
	}
	defer zr.Close()

	base := filepath.Clean(dest) + string(os.PathSeparator)

	for _, f := range zr.File {
		target := filepath.Join(dest, filepath.FromSlash(f.Name))
		if !strings.HasPrefix(target+string(os.PathSeparator), base) {
			return &ExtractionError{Archive: archive, Err: fmt.Errorf("entry %q escapes destination", f.Name)}
		}

		mode := f.Mode()
		switch {
		case mode&os.ModeSymlink != 0:
			continue
		case f.FileInfo().IsDir():
			if err := os.MkdirAll(target, 0o755); err != nil {
				return &ExtractionError{Archive: archive, Err: err}
			}
			continue
		}

		if f.UncompressedSize64 > maxEntrySize {
			return &ExtractionError{Archive: archive, Err: fmt.Errorf("entry %q exceeds %d bytes", f.Name, maxEntrySize)}
		}
		if err := extractFile(f, target); err != nil {
			return &ExtractionError{Archive: archive, Err: fmt.Errorf("entry %q: %w", f.Name, err)}
		}
	}
	return nil
}

func extractFile(f *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}

	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, f.Mode().Perm()|0o600)
	if err != nil {
		return err
	}

	if err := copyEntry(out, rc, maxEntrySize); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// copyEntry copies at most limit bytes. A source with more data than that
// is an error even when its header claimed less.
func copyEntry(dst io.Writer, src io.Reader, limit int64) error {
	n, err := io.Copy(dst, io.LimitReader(src, limit+1))
	if err != nil {
		return err
	}
	if n > limit {
		return fmt.Errorf("%w: more than %d bytes", errEntryTooLarge, limit)
	}
	return nil
}
