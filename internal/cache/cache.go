// Package cache provides the session-scoped TTL cache for loaded data
// artifacts. Keys are derived from (ticker, data kind, extra params);
// entries older than the TTL read as misses but stay in place until
// overwritten or cleared.
package cache

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"sync"
	"time"

	"kabu-dashboard/internal/models"
)

// Stats summarizes cache occupancy for observability.
type Stats struct {
	Total   int           `json:"total_cached"`
	Valid   int           `json:"valid_cached"`
	Expired int           `json:"expired_cached"`
	TTL     time.Duration `json:"cache_ttl"`
}

type entry struct {
	value     interface{}
	timestamp time.Time
	ticker    string
	kind      models.DataKind
}

// DataCache is a TTL key-value cache for per-ticker data artifacts.
// One instance is shared by the lazy loader and the sector aggregator.
type DataCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]entry
	now     func() time.Time
}

// New creates a cache with the given TTL.
func New(ttl time.Duration) *DataCache {
	return &DataCache{
		ttl:     ttl,
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Key derives the deterministic cache key for (ticker, kind, params):
// the hex md5 of the sorted-key JSON encoding of the tuple. encoding/json
// emits map keys in sorted order, which keeps the derivation stable
// across calls regardless of params insertion order.
func Key(ticker string, kind models.DataKind, params map[string]string) string {
	payload := map[string]string{
		"ticker":    ticker,
		"data_type": string(kind),
	}
	for k, v := range params {
		payload[k] = v
	}
	b, _ := json.Marshal(payload)
	sum := md5.Sum(b)
	return hex.EncodeToString(sum[:])
}

// Get returns the cached value for (ticker, kind, params), or a miss if
// the key is unseen or the entry's age has reached the TTL.
func (c *DataCache) Get(ticker string, kind models.DataKind, params map[string]string) (interface{}, bool) {
	key := Key(ticker, kind, params)

	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok || !c.valid(e) {
		return nil, false
	}
	return e.value, true
}

// Set stores value under the derived key with the current timestamp,
// overwriting any prior entry.
func (c *DataCache) Set(ticker string, kind models.DataKind, value interface{}, params map[string]string) {
	key := Key(ticker, kind, params)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry{
		value:     value,
		timestamp: c.now(),
		ticker:    ticker,
		kind:      kind,
	}
}

// Clear removes entries. With both arguments empty it wipes everything;
// otherwise it removes entries whose stored ticker and kind match the
// non-empty arguments exactly. Matching runs on the ticker and kind kept
// alongside the hashed key, never on the hash text.
func (c *DataCache) Clear(ticker string, kind models.DataKind) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ticker == "" && kind == "" {
		c.entries = make(map[string]entry)
		return
	}

	for key, e := range c.entries {
		if ticker != "" && e.ticker != ticker {
			continue
		}
		if kind != "" && e.kind != kind {
			continue
		}
		delete(c.entries, key)
	}
}

// Stats counts total, still-valid, and expired entries.
func (c *DataCache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s := Stats{Total: len(c.entries), TTL: c.ttl}
	for _, e := range c.entries {
		if c.valid(e) {
			s.Valid++
		}
	}
	s.Expired = s.Total - s.Valid
	return s
}

// TTL returns the configured time-to-live.
func (c *DataCache) TTL() time.Duration {
	return c.ttl
}

func (c *DataCache) valid(e entry) bool {
	return c.now().Sub(e.timestamp) < c.ttl
}
