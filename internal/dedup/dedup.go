package dedup

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"
)

const cacheFile = "opened_jobs.json"

type seenEntry struct {
	URL       string `json:"url"`
	Timestamp int64  `json:"timestamp"`
}

// JobCache remembers job URLs opened by earlier runs, on disk.
type JobCache struct {
	mu       sync.Mutex
	filePath string
	lock     *flock.Flock
	seen     map[string]int64
	now      func() time.Time
}

const thirtyDaysMs = int64(30 * 24 * 60 * 60 * 1000)

// NewJobCache creates or loads a job cache
func NewJobCache(cacheDir string) *JobCache {
	return newJobCache(cacheDir, time.Now)
}

func newJobCache(cacheDir string, now func() time.Time) *JobCache {
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		log.Printf("⚠️ Failed to create cache directory: %v", err)
	}
	path := filepath.Join(cacheDir, cacheFile)
	cache := &JobCache{
		filePath: path,
		lock:     flock.New(path + ".lock"),
		seen:     make(map[string]int64),
		now:      now,
	}
	cache.load()
	return cache
}

// IsSeen checks if a URL was opened before
func (jc *JobCache) IsSeen(url string) bool {
	jc.mu.Lock()
	defer jc.mu.Unlock()
	_, exists := jc.seen[url]
	return exists
}

func (jc *JobCache) Len() int {
	jc.mu.Lock()
	defer jc.mu.Unlock()
	return len(jc.seen)
}

// Add marks urls as opened and persists the cache when something changed.
func (jc *JobCache) Add(urls []string) {
	jc.mu.Lock()
	defer jc.mu.Unlock()

	now := jc.now().UnixMilli()
	changed := false
	for _, url := range urls {
		if _, exists := jc.seen[url]; !exists {
			jc.seen[url] = now
			changed = true
		}
	}

	if changed {
		jc.save()
	}
}

// load reads the cache from disk, dropping entries older than 30 days
func (jc *JobCache) load() {
	data, err := os.ReadFile(jc.filePath)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("⚠️ Failed to read %s: %v", cacheFile, err)
		}
		return
	}

	entries, err := decodeEntries(data)
	if err != nil {
		log.Printf("⚠️ Failed to parse %s: %v", cacheFile, err)
		return
	}

	cutoff := jc.now().UnixMilli() - thirtyDaysMs
	loaded := 0
	for _, e := range entries {
		if e.Timestamp > cutoff {
			jc.seen[e.URL] = e.Timestamp
			loaded++
		}
	}
	log.Printf("📋 Loaded %d previously opened jobs (%d expired and removed)", loaded, len(entries)-loaded)
}

// save merges with whatever another run wrote meanwhile and rewrites the file.
// Caller holds jc.mu.
func (jc *JobCache) save() {
	if err := jc.lock.Lock(); err != nil {
		log.Printf("⚠️ Failed to lock %s: %v", cacheFile, err)
		return
	}
	defer jc.lock.Unlock()

	if data, err := os.ReadFile(jc.filePath); err == nil {
		if onDisk, err := decodeEntries(data); err == nil {
			cutoff := jc.now().UnixMilli() - thirtyDaysMs
			for _, e := range onDisk {
				if _, exists := jc.seen[e.URL]; !exists && e.Timestamp > cutoff {
					jc.seen[e.URL] = e.Timestamp
				}
			}
		}
	}

	entries := make([]seenEntry, 0, len(jc.seen))
	for url, ts := range jc.seen {
		entries = append(entries, seenEntry{URL: url, Timestamp: ts})
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		log.Printf("⚠️ Failed to marshal opened jobs: %v", err)
		return
	}
	if err := os.WriteFile(jc.filePath, data, 0644); err != nil {
		log.Printf("⚠️ Failed to write %s: %v", cacheFile, err)
		return
	}
	log.Printf("💾 Saved %d opened jobs to cache", len(entries))
}

func decodeEntries(data []byte) ([]seenEntry, error) {
	var entries []seenEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
