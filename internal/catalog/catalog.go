package catalog

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// Dataset is one named documentation collection
type Dataset struct {
	Key        string
	ArchiveURL string
	Dir        string // directory name under the cache root
}

// UnknownDatasetError is returned when a key is not part of the catalog
type UnknownDatasetError struct {
	Key   string
	Known []string
}

func (e *UnknownDatasetError) Error() string {
	return fmt.Sprintf("unknown dataset %q (choose one of: %s)", e.Key, strings.Join(e.Known, ", "))
}

// Catalog is the fixed set of supported datasets. It is built once at
// startup and never mutated afterwards.
type Catalog struct {
	datasets map[string]Dataset
	keys     []string
}

// New builds a catalog from the given datasets. Later entries with a
// duplicate key replace earlier ones.
func New(datasets ...Dataset) *Catalog {
	c := &Catalog{datasets: make(map[string]Dataset, len(datasets))}
	for _, ds := range datasets {
		if ds.Dir == "" {
			ds.Dir = ds.Key
		}
		c.datasets[ds.Key] = ds
	}
	for key := range c.datasets {
		c.keys = append(c.keys, key)
	}
	sort.Strings(c.keys)
	return c
}

// Default returns the catalog of OpenVoiceOS documentation sets
func Default() *Catalog {
	return New(
		Dataset{
			Key:        "hivemind",
			ArchiveURL: "https://github.com/JarbasHiveMind/HiveMind-community-docs/archive/refs/heads/master.zip",
		},
		Dataset{
			Key:        "community",
			ArchiveURL: "https://github.com/OpenVoiceOS/community-docs/archive/refs/heads/master.zip",
		},
		Dataset{
			Key:        "technical",
			ArchiveURL: "https://github.com/OpenVoiceOS/ovos-technical-manual/archive/refs/heads/master.zip",
		},
		Dataset{
			Key:        "messages",
			ArchiveURL: "https://github.com/OpenVoiceOS/message_spec/archive/refs/heads/master.zip",
		},
	)
}

// Resolve looks up a dataset by key
func (c *Catalog) Resolve(key string) (Dataset, error) {
	ds, ok := c.datasets[key]
	if !ok {
		return Dataset{}, &UnknownDatasetError{Key: key, Known: c.Keys()}
	}
	return ds, nil
}

// Keys returns the registered keys in sorted order
func (c *Catalog) Keys() []string {
	keys := make([]string, len(c.keys))
	copy(keys, c.keys)
	return keys
}

// Datasets returns every dataset in key order
func (c *Catalog) Datasets() []Dataset {
	result := make([]Dataset, 0, len(c.keys))
	for _, key := range c.keys {
		result = append(result, c.datasets[key])
	}
	return result
}

// Others returns every dataset except the one with the given key
func (c *Catalog) Others(key string) []Dataset {
	var result []Dataset
	for _, ds := range c.Datasets() {
		if ds.Key != key {
			result = append(result, ds)
		}
	}
	return result
}

// ArchiveRootName returns the top-level folder a source-hosting archive
// extracts to. GitHub names it "<repo>-<branch>", for both
//
//	https://github.com/<owner>/<repo>/archive/refs/heads/<branch>.zip
//	https://github.com/<owner>/<repo>/archive/<branch>.zip
//
// Tag archives drop the "v" of a version tag, so refs/tags/v1.2.zip
// extracts to "<repo>-1.2".
func ArchiveRootName(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse archive url: %w", err)
	}

	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	archiveIdx := -1
	for i, seg := range segments {
		if seg == "archive" {
			archiveIdx = i
			break
		}
	}
	if archiveIdx < 2 || archiveIdx == len(segments)-1 {
		return "", fmt.Errorf("archive url %q does not follow <owner>/<repo>/archive/<ref>.zip", rawURL)
	}

	repo := segments[archiveIdx-1]
	ref := segments[len(segments)-1]
	branch, ok := strings.CutSuffix(ref, ".zip")
	if !ok || branch == "" {
		return "", fmt.Errorf("archive url %q does not point at a .zip", rawURL)
	}

	// refs/heads/<branch> and refs/tags/<tag> keep only the final segment
	rest := segments[archiveIdx+1 : len(segments)-1]
	if len(rest) != 0 && !(len(rest) == 2 && rest[0] == "refs" && (rest[1] == "heads" || rest[1] == "tags")) {
		return "", fmt.Errorf("archive url %q has an unsupported ref path", rawURL)
	}
	if len(rest) == 2 && rest[1] == "tags" {
		branch = trimVersionPrefix(branch)
	}

	return repo + "-" + branch, nil
}

// trimVersionPrefix turns "v1.2" into "1.2" and leaves other tags alone
func trimVersionPrefix(tag string) string {
	if len(tag) > 1 && tag[0] == 'v' && tag[1] >= '0' && tag[1] <= '9' {
		return tag[1:]
	}
	return tag
}
