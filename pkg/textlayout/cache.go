package textlayout

import (
	"container/list"
	"encoding/binary"
	"math"
	"sync"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
)

// DefaultCacheSize is the number of measurements kept when no size is set.
const DefaultCacheSize = 256

// cacheKey identifies a measurement. maxWidth is normalized so that every
// unconstrained request compares equal.
type cacheKey struct {
	text      string
	attrs     TextAttributes
	paragraph ParagraphAttributes
	maxWidth  float64
}

func (k cacheKey) hash() uint64 {
	d := xxhash.New()
	_, _ = d.WriteString(k.text)
	_, _ = d.WriteString("\x00")
	_, _ = d.WriteString(k.attrs.FontFamily)

	var buf [8]byte
	for _, f := range []float64{
		k.attrs.FontSize, k.attrs.FontSizeMultiplier, k.attrs.LineHeight,
		k.attrs.LetterSpacing, k.maxWidth,
	} {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(f))
		_, _ = d.Write(buf[:])
	}
	for _, v := range []int{
		int(k.attrs.FontWeight), int(k.attrs.FontStyle), int(k.attrs.Direction),
		k.paragraph.MaximumNumberOfLines, int(k.paragraph.EllipsizeMode),
	} {
		binary.LittleEndian.PutUint64(buf[:], uint64(v))
		_, _ = d.Write(buf[:])
	}
	if k.attrs.PreserveWhitespace {
		_, _ = d.Write([]byte{1})
	}
	return d.Sum64()
}

type cacheEntry struct {
	key         cacheKey
	hash        uint64
	measurement Measurement
	element     *list.Element
}

// measurementCache is an LRU of measurements keyed by a 64-bit hash of the
// request. The front of lru is the most recently used entry.
type measurementCache struct {
	mu       sync.Mutex
	entries  map[uint64]*cacheEntry
	lru      *list.List
	capacity int

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

func newMeasurementCache(capacity int) *measurementCache {
	if capacity <= 0 {
		capacity = DefaultCacheSize
	}
	return &measurementCache{
		entries:  make(map[uint64]*cacheEntry),
		lru:      list.New(),
		capacity: capacity,
	}
}

func (c *measurementCache) get(key cacheKey, hash uint64) (Measurement, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[hash]
	if !ok || entry.key != key {
		c.misses.Add(1)
		return Measurement{}, false
	}
	c.lru.MoveToFront(entry.element)
	c.hits.Add(1)
	return entry.measurement, true
}

func (c *measurementCache) put(key cacheKey, hash uint64, m Measurement) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if entry, ok := c.entries[hash]; ok {
		entry.key = key
		entry.measurement = m
		c.lru.MoveToFront(entry.element)
		return
	}
	entry := &cacheEntry{key: key, hash: hash, measurement: m}
	entry.element = c.lru.PushFront(entry)
	c.entries[hash] = entry
	for c.lru.Len() > c.capacity {
		c.evictOldest()
	}
}

func (c *measurementCache) evictOldest() {
	back := c.lru.Back()
	if back == nil {
		return
	}
	entry := back.Value.(*cacheEntry)
	c.lru.Remove(back)
	delete(c.entries, entry.hash)
	c.evictions.Add(1)
}

func (c *measurementCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[uint64]*cacheEntry)
	c.lru.Init()
}

func (c *measurementCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}
