package exportarchive

import (
	"context"
	"sync"

	"github.com/yanqian/summarizer-backend/internal/domain/export"
)

// Object is an archived export held by MemoryArchive.
type Object struct {
	Data        []byte
	ContentType string
}

// MemoryArchive keeps archived exports in memory. Useful for tests and local dev.
type MemoryArchive struct {
	mu      sync.RWMutex
	objects map[string]Object
}

// NewMemoryArchive constructs an empty archive.
func NewMemoryArchive() *MemoryArchive {
	return &MemoryArchive{objects: make(map[string]Object)}
}

// Put implements export.Archive.
func (a *MemoryArchive) Put(_ context.Context, key string, data []byte, contentType string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	copied := append([]byte(nil), data...)
	a.objects[key] = Object{Data: copied, ContentType: contentType}
	return nil
}

// Object returns the stored export for key.
func (a *MemoryArchive) Object(key string) (Object, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	obj, ok := a.objects[key]
	return obj, ok
}

// Len reports how many exports are archived.
func (a *MemoryArchive) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.objects)
}

var _ export.Archive = (*MemoryArchive)(nil)
