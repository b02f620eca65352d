// Package cache provides pluggable caches for strings decoded from a QQWry
// database.
//
// Redirect records let thousands of ranges share one stored country or ISP
// string. Caching the transcoded text by its offset avoids running the GBK
// decoder again for every lookup that lands on a popular string.
package cache

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/qqwry/qqwry-golang/charset"
)

// Cache interns decoded strings by their offset in the database.
//
// A Cache is bound to a single database buffer: the same offset in another
// file holds different text.
type Cache interface {
	InternAt(offset uint, raw []byte, dec charset.Decoder) (string, error)
}

// Provider acquires and releases caches for decode operations.
//
// Providers may return a shared thread-safe Cache or a per-decode exclusive
// Cache (e.g., from a pool). Release is called after decoding.
type Provider interface {
	Acquire() Cache
	Release(Cache)
}

// Options configure built-in cache providers.
type Options struct {
	EntryCount   int
	MinCachedLen uint
	MaxCachedLen uint
}

// DefaultOptions returns the built-in cache defaults.
func DefaultOptions() Options {
	return Options{
		EntryCount:   4096,
		MinCachedLen: 2,
		MaxCachedLen: 128,
	}
}

func (o Options) normalized() Options {
	def := DefaultOptions()
	out := o
	if out.EntryCount <= 0 {
		out.EntryCount = def.EntryCount
	}
	if out.MinCachedLen == 0 {
		out.MinCachedLen = def.MinCachedLen
	}
	if out.MaxCachedLen == 0 {
		out.MaxCachedLen = def.MaxCachedLen
	}
	if out.MaxCachedLen < out.MinCachedLen {
		out.MaxCachedLen = out.MinCachedLen
	}
	return out
}

type cacheEntry struct {
	str    string
	offset uint
	valid  bool
	mu     sync.Mutex
}

type configurableCache struct {
	entries      []cacheEntry
	entryMask    uint
	minCachedLen uint
	maxCachedLen uint
	lockEntries  bool
}

func newConfigurableCache(opts Options, lockEntries bool) *configurableCache {
	opts = opts.normalized()
	sc := &configurableCache{
		lockEntries:  lockEntries,
		minCachedLen: opts.MinCachedLen,
		maxCachedLen: opts.MaxCachedLen,
		entries:      make([]cacheEntry, opts.EntryCount),
	}
	if opts.EntryCount&(opts.EntryCount-1) == 0 {
		sc.entryMask = uint(opts.EntryCount - 1)
	}
	return sc
}

func (sc *configurableCache) InternAt(offset uint, raw []byte, dec charset.Decoder) (string, error) {
	size := uint(len(raw))
	if size < sc.minCachedLen || size > sc.maxCachedLen {
		return dec.Decode(raw)
	}

	var i uint
	if sc.entryMask != 0 {
		i = offset & sc.entryMask
	} else {
		i = offset % uint(len(sc.entries))
	}
	entry := &sc.entries[i]

	if sc.lockEntries {
		entry.mu.Lock()
		defer entry.mu.Unlock()
	}

	if entry.valid && entry.offset == offset {
		return entry.str, nil
	}
	str, err := dec.Decode(raw)
	if err != nil {
		return "", err
	}
	entry.offset = offset
	entry.str = str
	entry.valid = true
	return str, nil
}

type sharedProvider struct {
	cache Cache
}

func (p *sharedProvider) Acquire() Cache {
	return p.cache
}

func (*sharedProvider) Release(Cache) {}

// NewSharedProvider creates a provider that returns one shared lock-based
// cache instance.
func NewSharedProvider(opts Options) Provider {
	opts = opts.normalized()
	return &sharedProvider{
		cache: newConfigurableCache(opts, true),
	}
}

type pooledProvider struct {
	pool *sync.Pool
}

func (p *pooledProvider) Acquire() Cache {
	v := p.pool.Get()
	c, _ := v.(Cache)
	if c == nil {
		return newConfigurableCache(DefaultOptions(), false)
	}
	return c
}

func (p *pooledProvider) Release(c Cache) {
	if c == nil {
		return
	}
	p.pool.Put(c)
}

// NewPooledProvider creates a provider that returns an exclusive no-lock cache
// from a pool per decode call.
func NewPooledProvider(opts Options) Provider {
	opts = opts.normalized()
	return &pooledProvider{
		pool: &sync.Pool{
			New: func() any {
				return newConfigurableCache(opts, false)
			},
		},
	}
}

type lruCache struct {
	entries      *lru.Cache[uint, string]
	minCachedLen uint
	maxCachedLen uint
}

func (c *lruCache) InternAt(offset uint, raw []byte, dec charset.Decoder) (string, error) {
	size := uint(len(raw))
	if size < c.minCachedLen || size > c.maxCachedLen {
		return dec.Decode(raw)
	}
	if str, ok := c.entries.Get(offset); ok {
		return str, nil
	}
	str, err := dec.Decode(raw)
	if err != nil {
		return "", err
	}
	c.entries.Add(offset, str)
	return str, nil
}

// NewLRUProvider creates a provider that returns one shared cache keeping
// the EntryCount most recently used strings. Unlike the slot-based shared
// cache, offsets never evict each other by collision.
func NewLRUProvider(opts Options) (Provider, error) {
	opts = opts.normalized()
	entries, err := lru.New[uint, string](opts.EntryCount)
	if err != nil {
		return nil, err
	}
	return &sharedProvider{
		cache: &lruCache{
			entries:      entries,
			minCachedLen: opts.MinCachedLen,
			maxCachedLen: opts.MaxCachedLen,
		},
	}, nil
}

type noCache struct{}

func (noCache) InternAt(_ uint, raw []byte, dec charset.Decoder) (string, error) {
	return dec.Decode(raw)
}

type noCacheProvider struct {
	cache noCache
}

func (p *noCacheProvider) Acquire() Cache {
	return p.cache
}

func (*noCacheProvider) Release(Cache) {}

// NewNoCacheProvider creates a provider that disables caching.
func NewNoCacheProvider() Provider {
	return &noCacheProvider{}
}
