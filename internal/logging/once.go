package logging

import (
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultOnceSize bounds how many distinct keys a [Once] remembers.
const DefaultOnceSize = 4096

// Once reports whether a key is seen for the first time. It remembers a bounded number of keys, so a
// key evicted long ago may be reported again.
type Once struct {
	seen *lru.Cache[string, struct{}]
}

// NewOnce creates a Once remembering up to size keys. Non-positive sizes use DefaultOnceSize.
func NewOnce(size int) *Once {
	if size <= 0 {
		size = DefaultOnceSize
	}
	cache, err := lru.New[string, struct{}](size)
	if err != nil {
		// lru.New only fails for non-positive sizes.
		panic(err)
	}
	return &Once{seen: cache}
}

// First returns true the first time the tuple formed by parts is seen. It is safe for concurrent use and
// only one caller wins a given key.
func (o *Once) First(parts ...string) bool {
	seen, _ := o.seen.ContainsOrAdd(strings.Join(parts, "\x1f"), struct{}{})
	return !seen
}

// Reset forgets every key.
func (o *Once) Reset() {
	o.seen.Purge()
}
