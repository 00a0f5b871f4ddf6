package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kabu-dashboard/internal/models"
)

// fakeClock lets tests advance time without sleeping.
type fakeClock struct {
	t time.Time
}

func (f *fakeClock) Now() time.Time {
	return f.t
}

func (f *fakeClock) Advance(d time.Duration) {
	f.t = f.t.Add(d)
}

func newTestCache(ttl time.Duration) (*DataCache, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)}
	c := New(ttl)
	c.now = clock.Now
	return c, clock
}

func TestGetAfterSet(t *testing.T) {
	c, _ := newTestCache(time.Hour)

	bars := []models.PriceBar{{Close: 1234.5}}
	c.Set("7203", models.KindStockData, bars, nil)

	got, ok := c.Get("7203", models.KindStockData, nil)
	require.True(t, ok)
	assert.Equal(t, bars, got)
}

func TestGetUnseenKey(t *testing.T) {
	c, _ := newTestCache(time.Hour)

	_, ok := c.Get("7203", models.KindStockData, nil)
	assert.False(t, ok)
}

func TestGetDistinguishesParams(t *testing.T) {
	c, _ := newTestCache(time.Hour)

	c.Set("7203", models.KindStockData, "ranged", map[string]string{"from": "2024-01-01"})

	_, ok := c.Get("7203", models.KindStockData, nil)
	assert.False(t, ok, "params-less key must not alias the ranged key")

	got, ok := c.Get("7203", models.KindStockData, map[string]string{"from": "2024-01-01"})
	require.True(t, ok)
	assert.Equal(t, "ranged", got)
}

func TestTTLExpiry(t *testing.T) {
	c, clock := newTestCache(time.Hour)

	c.Set("7203", models.KindCompany, "v", nil)

	clock.Advance(time.Hour - time.Second)
	_, ok := c.Get("7203", models.KindCompany, nil)
	assert.True(t, ok, "just inside the TTL")

	clock.Advance(time.Second)
	_, ok = c.Get("7203", models.KindCompany, nil)
	assert.False(t, ok, "age == ttl reads as a miss")

	// Expired entries are inert, not purged.
	stats := c.Stats()
	assert.Equal(t, 1, stats.Total)
	assert.Equal(t, 0, stats.Valid)
	assert.Equal(t, 1, stats.Expired)
}

func TestSetRefreshesTimestamp(t *testing.T) {
	c, clock := newTestCache(time.Hour)

	c.Set("7203", models.KindCompany, "old", nil)
	clock.Advance(2 * time.Hour)
	c.Set("7203", models.KindCompany, "new", nil)

	got, ok := c.Get("7203", models.KindCompany, nil)
	require.True(t, ok)
	assert.Equal(t, "new", got)
}

func TestClearAll(t *testing.T) {
	c, _ := newTestCache(time.Hour)

	c.Set("7203", models.KindStockData, "a", nil)
	c.Set("6758", models.KindCompany, "b", nil)

	c.Clear("", "")

	stats := c.Stats()
	assert.Equal(t, 0, stats.Total)
	assert.Equal(t, 0, stats.Valid)
	assert.Equal(t, 0, stats.Expired)
}

func TestClearByTicker(t *testing.T) {
	c, _ := newTestCache(time.Hour)

	c.Set("7203", models.KindStockData, "a", nil)
	c.Set("7203", models.KindCompany, "b", nil)
	c.Set("6758", models.KindStockData, "c", nil)

	c.Clear("7203", "")

	_, ok := c.Get("7203", models.KindStockData, nil)
	assert.False(t, ok)
	_, ok = c.Get("7203", models.KindCompany, nil)
	assert.False(t, ok)
	_, ok = c.Get("6758", models.KindStockData, nil)
	assert.True(t, ok, "other tickers untouched")
}

func TestClearByKind(t *testing.T) {
	c, _ := newTestCache(time.Hour)

	c.Set("7203", models.KindStockData, "a", nil)
	c.Set("6758", models.KindStockData, "b", nil)
	c.Set("6758", models.KindNews, "c", nil)

	c.Clear("", models.KindStockData)

	_, ok := c.Get("7203", models.KindStockData, nil)
	assert.False(t, ok)
	_, ok = c.Get("6758", models.KindStockData, nil)
	assert.False(t, ok)
	_, ok = c.Get("6758", models.KindNews, nil)
	assert.True(t, ok)
}

func TestClearByTickerAndKind(t *testing.T) {
	c, _ := newTestCache(time.Hour)

	c.Set("7203", models.KindStockData, "a", nil)
	c.Set("7203", models.KindNews, "b", nil)

	c.Clear("7203", models.KindNews)

	_, ok := c.Get("7203", models.KindStockData, nil)
	assert.True(t, ok)
	_, ok = c.Get("7203", models.KindNews, nil)
	assert.False(t, ok)
}

func TestStatsTTL(t *testing.T) {
	c, _ := newTestCache(45 * time.Minute)
	assert.Equal(t, 45*time.Minute, c.Stats().TTL)
}

func TestKeyDeterministic(t *testing.T) {
	a := Key("7203", models.KindStockData, map[string]string{"from": "x", "to": "y"})
	b := Key("7203", models.KindStockData, map[string]string{"to": "y", "from": "x"})
	assert.Equal(t, a, b, "param order must not change the key")

	other := Key("7203", models.KindStockData, map[string]string{"from": "x"})
	assert.NotEqual(t, a, other)
}
