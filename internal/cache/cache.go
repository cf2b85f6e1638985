// Package cache stores marshaled analysis responses so repeated requests
// for the same term skip the provider call. A memory layer answers within
// one process; a disk layer carries results across runs, which matters for
// a CLI that is usually invoked once per term.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

const keyPrefix = "termtrack:v1:"

// Cache is the storage contract shared by the memory, disk and layered
// implementations.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// CacheKey derives a stable key from the parts identifying one analysis
// request (operation, term(s), domain, periods, bilingual flag, model).
// Parts are NUL-joined before hashing so neighbouring parts cannot collide.
func CacheKey(parts ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(parts, "\x00")))
	return keyPrefix + hex.EncodeToString(sum[:])
}
