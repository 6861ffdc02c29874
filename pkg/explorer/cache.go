// Package explorer provides the directory-listing cache behind the file
// tree. Entries are populated once and kept for the process lifetime; the
// only mutation paths are population, targeted removal on delete, and
// relocation on rename. There is no time-based expiry and no revalidation
// against the live filesystem.
package explorer

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/codenest/codenest/pkg/file"
)

// Cache maps a directory handle's identity to its sorted child listing.
//
// A Cache is explicitly owned by its tree component; construct one per tree
// lifetime instead of sharing ambient state.
type Cache struct {
	logger *slog.Logger

	mu      sync.Mutex
	entries map[string][]file.File
	loads   map[string]chan struct{} // per-path population locks
}

func NewCache(logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{
		logger:  logger,
		entries: make(map[string][]file.File),
		loads:   make(map[string]chan struct{}),
	}
}

// LoadFileList returns the cached listing for dir, populating it on first
// use. Population sorts the children (directories first, case-insensitive
// name order within each group) and eagerly lists each immediate
// subdirectory one level ahead. Listing failures are logged and cached as
// empty; callers cannot distinguish an empty directory from a failed
// listing.
//
// Concurrent loads of the same unseen path enumerate the backing store
// once: later callers wait for the first population. A load cancelled in
// flight commits nothing and returns the context error.
func (c *Cache) LoadFileList(ctx context.Context, dir file.File) ([]file.File, error) {
	key := dir.Path()

	var inflight chan struct{}
	for {
		c.mu.Lock()
		if entry, ok := c.entries[key]; ok {
			c.mu.Unlock()
			return entry, nil
		}
		current, loading := c.loads[key]
		if !loading {
			inflight = make(chan struct{})
			c.loads[key] = inflight
			c.mu.Unlock()
			break
		}
		c.mu.Unlock()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-current:
			// Re-check: the winning load may have been cancelled.
		}
	}

	staged := c.populate(ctx, dir)

	c.mu.Lock()
	delete(c.loads, key)
	var result []file.File
	err := ctx.Err()
	if err == nil {
		// All-or-nothing commit of the entry plus its prefetch set.
		for k, v := range staged {
			if _, ok := c.entries[k]; !ok {
				c.entries[k] = v
			}
		}
		result = c.entries[key]
	}
	c.mu.Unlock()
	close(inflight)
	return result, err
}

// populate computes the entry for dir plus its one-level prefetch set.
func (c *Cache) populate(ctx context.Context, dir file.File) map[string][]file.File {
	staged := make(map[string][]file.File)

	children := c.listSorted(ctx, dir)
	staged[dir.Path()] = children

	// One level of read-ahead, not recursive.
	for _, child := range children {
		if ctx.Err() != nil {
			return staged
		}
		if !child.IsDirectory() {
			continue
		}
		c.mu.Lock()
		_, seen := c.entries[child.Path()]
		c.mu.Unlock()
		if seen {
			continue
		}
		staged[child.Path()] = c.listSorted(ctx, child)
	}
	return staged
}

// listSorted enumerates dir and applies the presentation order. Failures
// come back as empty listings.
func (c *Cache) listSorted(ctx context.Context, dir file.File) []file.File {
	children, err := dir.ListFiles(ctx)
	if err != nil {
		c.logger.Debug("directory listing failed; caching as empty", "path", dir.Path(), "error", err)
		return []file.File{}
	}
	if children == nil {
		children = []file.File{}
	}
	sortEntries(children)
	return children
}

// GetCacheFileList returns the cached listing for path, or an empty slice
// when absent. It never touches the backing store.
func (c *Cache) GetCacheFileList(path string) []file.File {
	c.mu.Lock()
	defer c.mu.Unlock()
	if entry, ok := c.entries[path]; ok {
		return entry
	}
	return []file.File{}
}

// Invalidate drops the entry for path so the next load repopulates it.
// Used by callers that mutate a directory through their own write paths
// (e.g. creating a child); external filesystem changes are still never
// detected.
func (c *Cache) Invalidate(path string) {
	c.mu.Lock()
	delete(c.entries, path)
	c.mu.Unlock()
}

// RemoveFileInCache drops f's own entry (relevant when f was a directory)
// and removes f from its parent's cached listing, leaving sibling order
// untouched. It reports whether f was found in the parent's listing.
func (c *Cache) RemoveFileInCache(f file.File) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, f.Path())

	parent := f.Parent()
	if parent == nil {
		return false
	}
	siblings, ok := c.entries[parent.Path()]
	if !ok {
		return false
	}
	for i, sibling := range siblings {
		if sibling.Path() == f.Path() {
			c.entries[parent.Path()] = append(siblings[:i], siblings[i+1:]...)
			return true
		}
	}
	return false
}

// RelocateInCache rewrites cache state after oldPath was renamed to the
// location identified by renamed. The moved entry and every cached
// descendant entry keep their listings under rebased keys, and the parent's
// cached listing is updated and re-sorted around the new name. It reports
// whether any cached state referenced oldPath.
func (c *Cache) RelocateInCache(oldPath string, renamed file.File) bool {
	newPath := renamed.Path()
	if oldPath == newPath {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	moved := false
	oldPrefix := oldPath + "/"
	for key, entry := range c.entries {
		if key != oldPath && !strings.HasPrefix(key, oldPrefix) {
			continue
		}
		newKey := newPath + key[len(oldPath):]
		delete(c.entries, key)
		c.entries[newKey] = rebaseAll(entry, oldPath, newPath)
		moved = true
	}

	parent := renamed.Parent()
	if parent == nil {
		return moved
	}
	if siblings, ok := c.entries[parent.Path()]; ok {
		for i, sibling := range siblings {
			if sibling.Path() == oldPath {
				siblings[i] = renamed
				sortEntries(siblings)
				moved = true
				break
			}
		}
	}
	return moved
}

// rebaseAll rewrites the handles in a cached listing whose identity lies
// under oldPath.
func rebaseAll(entry []file.File, oldPath string, newPath string) []file.File {
	for i, h := range entry {
		p := h.Path()
		if p != oldPath && !strings.HasPrefix(p, oldPath+"/") {
			continue
		}
		if r, ok := h.(file.Rebaser); ok {
			entry[i] = r.Rebase(newPath + p[len(oldPath):])
		}
	}
	return entry
}

// sortEntries orders directories before files, case-insensitively by name
// within each group.
func sortEntries(entries []file.File) {
	sort.SliceStable(entries, func(i, j int) bool {
		di, dj := entries[i].IsDirectory(), entries[j].IsDirectory()
		if di != dj {
			return di
		}
		return strings.ToLower(entries[i].Name()) < strings.ToLower(entries[j].Name())
	})
}
