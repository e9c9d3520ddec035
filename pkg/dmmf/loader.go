package dmmf

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"os"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Loader caches indexes by the content hash of their description, so a
// schema is expanded and indexed once no matter how often it is loaded.
// It is safe for concurrent use.
type Loader struct {
	group singleflight.Group

	mu    sync.RWMutex
	cache map[string]*Index
}

func NewLoader() *Loader {
	return &Loader{cache: map[string]*Index{}}
}

// Load reads path and returns the cached index for its content.
func (l *Loader) Load(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return l.LoadBytes(data, FormatFor(path))
}

func (l *Loader) LoadBytes(data []byte, format Format) (*Index, error) {
	sum := sha256.Sum256(data)
	key := string(format) + ":" + hex.EncodeToString(sum[:])

	l.mu.RLock()
	idx, ok := l.cache[key]
	l.mu.RUnlock()
	if ok {
		slog.Debug("schema index cache hit", "key", key[:16])
		return idx, nil
	}

	v, err, _ := l.group.Do(key, func() (any, error) {
		l.mu.RLock()
		cached, ok := l.cache[key]
		l.mu.RUnlock()
		if ok {
			return cached, nil
		}
		idx, err := LoadBytes(data, format)
		if err != nil {
			return nil, err
		}
		l.mu.Lock()
		l.cache[key] = idx
		l.mu.Unlock()
		return idx, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Index), nil
}

// Len reports the number of cached indexes.
func (l *Loader) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.cache)
}
