package gen

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/syssam/dacgen/descriptor"
)

// State is the incremental-cache verdict for one descriptor identity in a
// pass.
type State uint8

const (
	// StateSkipped marks a descriptor blocked by error diagnostics; nothing
	// was emitted or cached for it.
	StateSkipped State = iota
	// StateAdded marks an identity seen for the first time.
	StateAdded
	// StateUnchanged marks a cache hit; stored artifacts were reused and
	// emission was skipped.
	StateUnchanged
	// StateModified marks a cache-key mismatch; artifacts were re-emitted
	// and the entry replaced.
	StateModified
	// StateRemoved marks an identity present in the previous pass and
	// absent from this one; its entry was deleted.
	StateRemoved
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateUnchanged:
		return "Unchanged"
	case StateModified:
		return "Modified"
	case StateRemoved:
		return "Removed"
	case StateAdded:
		return "Added"
	default:
		return "Skipped"
	}
}

// keyPayload collects every resolved field that influences generated output.
// Cosmetic fields (the declaration position) are deliberately absent: two
// commands with equal payloads produce byte-identical artifacts, which is
// the contract the cache depends on.
type keyPayload struct {
	Name          string
	Scopes        []string
	Sources       []descriptor.Source
	NonQuery      bool
	Convention    uint8
	Prefix        string
	DataSourceKey string
	Params        []keyParam
	Result        *descriptor.Result
}

type keyParam struct {
	Source  string
	Type    string
	PkgPath string
	Name    string
	Ignored bool
}

// CacheKey computes the structural cache key of a resolved command: a
// sha256 digest over the msgpack encoding of its output-relevant fields.
func CacheKey(c *Command) (string, error) {
	p := keyPayload{
		Name:          c.Name,
		Scopes:        c.Scopes,
		Sources:       c.Sources,
		NonQuery:      c.NonQuery,
		Convention:    uint8(c.Convention),
		Prefix:        c.Prefix,
		DataSourceKey: c.DataSourceKey,
		Result:        c.Result,
	}
	for _, rp := range c.Params {
		p.Params = append(p.Params, keyParam{
			Source:  rp.Source,
			Type:    rp.Type,
			PkgPath: rp.PkgPath,
			Name:    rp.Name,
			Ignored: rp.Ignored,
		})
	}
	b, err := msgpack.Marshal(p)
	if err != nil {
		return "", NewGenerationError("cache", "", "encode cache key", err)
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:]), nil
}

// Cache memoizes generated artifacts across passes, keyed by descriptor
// identity with structural cache keys as the change signal. It supports
// concurrent readers and exclusive per-key writes.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]*cacheEntry
}

type cacheEntry struct {
	key       string
	artifacts []*Artifact
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]*cacheEntry)}
}

// Len returns the number of cached identities.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Begin starts a pass over the cache. Every identity recorded through the
// returned Pass is retained; identities absent from the pass are deleted
// when End runs.
func (c *Cache) Begin() *Pass {
	return &Pass{cache: c, seen: make(map[string]struct{})}
}

// Pass tracks one generation pass against the cache.
type Pass struct {
	cache *Cache
	mu    sync.Mutex
	seen  map[string]struct{}
}

// Reuse marks the identity as seen and returns the stored artifacts when the
// cache key matches, signalling that re-emission can be skipped.
func (p *Pass) Reuse(identity, key string) ([]*Artifact, bool) {
	p.mu.Lock()
	p.seen[identity] = struct{}{}
	p.mu.Unlock()

	p.cache.mu.RLock()
	defer p.cache.mu.RUnlock()
	e, ok := p.cache.entries[identity]
	if !ok || e.key != key {
		return nil, false
	}
	return e.artifacts, true
}

// Record stores freshly emitted artifacts for the identity, replacing any
// previous entry, and reports whether the identity is new or modified.
func (p *Pass) Record(identity, key string, artifacts []*Artifact) State {
	p.mu.Lock()
	p.seen[identity] = struct{}{}
	p.mu.Unlock()

	p.cache.mu.Lock()
	defer p.cache.mu.Unlock()
	_, existed := p.cache.entries[identity]
	p.cache.entries[identity] = &cacheEntry{key: key, artifacts: artifacts}
	if existed {
		return StateModified
	}
	return StateAdded
}

// Forget marks the identity as seen without storing artifacts, evicting any
// previous entry. Descriptors blocked by error diagnostics pass through here
// so stale artifacts never survive a failed regeneration.
func (p *Pass) Forget(identity string) {
	p.mu.Lock()
	p.seen[identity] = struct{}{}
	p.mu.Unlock()

	p.cache.mu.Lock()
	defer p.cache.mu.Unlock()
	delete(p.cache.entries, identity)
}

// End deletes entries for identities absent from the pass and returns them
// sorted, each to be reported as Removed.
func (p *Pass) End() []string {
	p.cache.mu.Lock()
	defer p.cache.mu.Unlock()
	var removed []string
	for identity := range p.cache.entries {
		if _, ok := p.seen[identity]; !ok {
			removed = append(removed, identity)
			delete(p.cache.entries, identity)
		}
	}
	sort.Strings(removed)
	return removed
}
