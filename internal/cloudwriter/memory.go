package cloudwriter

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"sync"
)

// MemoryStore keeps objects in process. It backs export dry runs and tests.
type MemoryStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string][]byte)}
}

func (m *MemoryStore) NewWriter(_ context.Context, bucket, objectPath string) (CloudWriter, error) {
	return &memoryWriter{store: m, key: bucket + "/" + objectPath}, nil
}

func (m *MemoryStore) ReadObject(_ context.Context, bucket, objectPath string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[bucket+"/"+objectPath]
	if !ok {
		return nil, fmt.Errorf("object %s/%s not found", bucket, objectPath)
	}
	return append([]byte(nil), data...), nil
}

func (m *MemoryStore) Put(bucket, objectPath string, data []byte) {
	m.mu.Lock()
	m.objects[bucket+"/"+objectPath] = append([]byte(nil), data...)
	m.mu.Unlock()
}

// Keys lists stored objects as "bucket/path", sorted.
func (m *MemoryStore) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.objects))
	for k := range m.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

type memoryWriter struct {
	store *MemoryStore
	key   string
	buf   bytes.Buffer
}

func (w *memoryWriter) Write(p []byte) (int, error) { return w.buf.Write(p) }

func (w *memoryWriter) Close() error {
	w.store.mu.Lock()
	w.store.objects[w.key] = append([]byte(nil), w.buf.Bytes()...)
	w.store.mu.Unlock()
	return nil
}
