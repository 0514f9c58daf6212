package cfg

import (
	"strings"
	"sync"

	"github.com/cnf/structhash"
)

// MembershipCache memoizes (grammar, input) → membership results for the
// parsers. It is passed explicitly to the algorithms that want one — there
// is no ambient global cache — and it is safe for concurrent use, so one
// cache may be shared by parallel recognition queries.
//
// Keys are content hashes of the grammar plus the input, never object
// identities: two structurally equal grammars hit the same entries even if
// they are distinct instances.
type MembershipCache struct {
	mu      sync.RWMutex
	entries map[string]bool
	hits    uint64
	misses  uint64
}

// NewMembershipCache creates an empty cache.
func NewMembershipCache() *MembershipCache {
	return &MembershipCache{entries: map[string]bool{}}
}

// MembershipKey builds the cache key for an algorithm, a grammar and a
// tokenized input.
func MembershipKey(algo string, g *Grammar, tokens []string) (string, error) {
	gkey, err := g.ContentHash()
	if err != nil {
		return "", err
	}
	return structhash.Hash(struct {
		Algo    string
		Grammar string
		Input   string
	}{Algo: algo, Grammar: gkey, Input: strings.Join(tokens, "\x00")}, 1)
}

// Lookup returns the cached membership result for a key, and whether the
// key was present.
func (c *MembershipCache) Lookup(key string) (accepted, ok bool) {
	if c == nil {
		return false, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	accepted, ok = c.entries[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return accepted, ok
}

// Store records a membership result for a key.
func (c *MembershipCache) Store(key string, accepted bool) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.entries[key] = accepted
	c.mu.Unlock()
}

// Stats returns the number of cache hits and misses so far.
func (c *MembershipCache) Stats() (hits, misses uint64) {
	if c == nil {
		return 0, 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}

// Len returns the number of cached entries.
func (c *MembershipCache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
