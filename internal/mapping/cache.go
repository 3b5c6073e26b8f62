package mapping

import (
	"crypto/sha256"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/mvp-joe/solution-insight/internal/extractor"
)

// cacheKey identifies one extraction: the same content under the same
// options always yields the same records.
type cacheKey struct {
	sum     [sha256.Size]byte
	options extractor.Options
}

// Cache memoizes extraction results by content hash. It is safe for
// concurrent use and may be shared by builders with different options.
// Cached records are shared and must not be mutated.
type Cache struct {
	entries *lru.Cache[cacheKey, []extractor.TypeRecord]
}

// NewCache creates a cache holding up to size extraction results.
func NewCache(size int) (*Cache, error) {
	entries, err := lru.New[cacheKey, []extractor.TypeRecord](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create extraction cache: %w", err)
	}
	return &Cache{entries: entries}, nil
}

// Len returns the number of cached extractions.
func (c *Cache) Len() int {
	return c.entries.Len()
}

func (c *Cache) key(source []byte, opts extractor.Options) cacheKey {
	return cacheKey{sum: sha256.Sum256(source), options: opts}
}

func (c *Cache) get(key cacheKey) ([]extractor.TypeRecord, bool) {
	return c.entries.Get(key)
}

func (c *Cache) add(key cacheKey, types []extractor.TypeRecord) {
	c.entries.Add(key, types)
}
