package index

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/odvcencio/py2drawio/pkg/model"
)

const defaultCacheEntries = 4096

// Cache keeps per-file summaries between builds, keyed by absolute path.
// An entry is reused only while the file's size and modification time are
// unchanged. A nil Cache never hits.
type Cache struct {
	entries *lru.Cache[string, model.FileSummary]
}

// NewCache returns a cache holding at most size summaries; size <= 0 uses
// the default.
func NewCache(size int) (*Cache, error) {
	if size <= 0 {
		size = defaultCacheEntries
	}
	entries, err := lru.New[string, model.FileSummary](size)
	if err != nil {
		return nil, err
	}
	return &Cache{entries: entries}, nil
}

// Len returns the number of cached summaries.
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	return c.entries.Len()
}

// Forget drops the summary of path, if any.
func (c *Cache) Forget(path string) {
	if c == nil {
		return
	}
	c.entries.Remove(path)
}

func (c *Cache) lookup(candidate sourceCandidate) (model.FileSummary, bool) {
	if c == nil {
		return model.FileSummary{}, false
	}
	summary, ok := c.entries.Get(candidate.Path)
	if !ok || !canReuseSummary(summary, candidate) {
		return model.FileSummary{}, false
	}
	return summary, true
}

func (c *Cache) store(path string, summary model.FileSummary) {
	if c == nil {
		return
	}
	c.entries.Add(path, summary)
}

func canReuseSummary(summary model.FileSummary, candidate sourceCandidate) bool {
	if summary.Language != candidate.Parser.Language() {
		return false
	}
	if summary.SizeBytes != candidate.SizeBytes {
		return false
	}
	if summary.ModTimeUnixNano != candidate.ModTimeUnixNano {
		return false
	}
	return true
}
