package generator

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"hash"

	"github.com/toyz/matchgen/internal/models"
	"github.com/toyz/matchgen/internal/utils"
)

// Cache stores emitted source keyed by the content hash of its inputs.
// Identical inputs always render identical output, so an entry never goes
// stale and needs no invalidation.
type Cache struct {
	entries *utils.Cache[string, string]
}

// NewCache creates an empty emission cache
func NewCache() *Cache {
	return &Cache{entries: utils.NewCache[string, string]()}
}

// Lookup returns the source emitted for key
func (c *Cache) Lookup(key string) (string, bool) {
	return c.entries.Get(key)
}

// Store records the source emitted for key
func (c *Cache) Store(key, content string) {
	c.entries.Set(key, content)
}

// Stats returns the size and hit statistics of the cache
func (c *Cache) Stats() utils.CacheStats {
	return c.entries.GetStats()
}

// CacheKey hashes the unit spec together with every descriptor hash
func CacheKey(unit UnitSpec, descriptors []models.Descriptor) string {
	h := sha256.New()
	writeField(h, unit.PackageName)
	writeField(h, unit.PackagePath)
	writeField(h, unit.RuntimeImport)
	writeField(h, unit.RuntimeAlias)
	writeField(h, unit.toolName())
	for _, d := range descriptors {
		writeField(h, d.Hash())
	}
	return hex.EncodeToString(h.Sum(nil))
}

func writeField(h hash.Hash, s string) {
	var n [8]byte
	binary.BigEndian.PutUint64(n[:], uint64(len(s)))
	h.Write(n[:])
	h.Write([]byte(s))
}
