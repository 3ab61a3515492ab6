package crawl

import (
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
)

// Frontier sizing defaults. The Bloom filter has no false negatives, so a
// URL is never visited twice; at the default 1% false positive rate a small
// fraction of unseen URLs on very large sites may be skipped as duplicates.
const (
	DefaultExpectedURLs      = 10000
	DefaultFalsePositiveRate = 0.01
)

// Frontier is an in-memory FIFO crawl queue with Bloom filter
// deduplication. URLs are marked seen at enqueue time, before any fetch,
// so a URL reachable via multiple paths is queued only once.
// It is safe for concurrent use by multiple goroutines.
type Frontier struct {
	mu    sync.Mutex
	seen  *bloom.BloomFilter
	queue []queueEntry
}

type queueEntry struct {
	url   string
	depth int
}

// NewFrontier creates a Frontier sized for n expected URLs with the given
// false positive rate for deduplication.
func NewFrontier(n uint, fpRate float64) *Frontier {
	return &Frontier{
		seen: bloom.NewWithEstimates(n, fpRate),
	}
}

// Push adds a URL at the given depth. Returns false if the URL has already
// been seen. Deduplication is by string equality with no URL
// normalization, so query-string variants are distinct URLs; fragments
// are already stripped by link extraction before URLs reach the frontier.
func (f *Frontier) Push(url string, depth int) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.seen.TestString(url) {
		return false
	}
	f.seen.AddString(url)
	f.queue = append(f.queue, queueEntry{url: url, depth: depth})
	return true
}

// Pop returns the next URL and its depth in FIFO (BFS level) order.
// The bool result is false if the frontier is empty.
func (f *Frontier) Pop() (string, int, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.queue) == 0 {
		return "", 0, false
	}
	entry := f.queue[0]
	f.queue = f.queue[1:]
	return entry.url, entry.depth, true
}

// Len returns the number of queued URLs.
func (f *Frontier) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queue)
}

// Seen returns true if the URL has been queued or processed.
func (f *Frontier) Seen(url string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.seen.TestString(url)
}
