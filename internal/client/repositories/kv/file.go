package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"github.com/dmitrijs2005/chatdesk/internal/filex"
)

// FileStore keeps all keys in one JSON object on disk. Every Get re-reads
// the file so writes from other processes are visible immediately.
type FileStore struct {
	path string
	mu   sync.Mutex
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (f *FileStore) Path() string {
	return f.path
}

func (f *FileStore) Get(ctx context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := f.load()
	if err != nil {
		return "", false, err
	}
	v, ok := data[key]
	return v, ok, nil
}

func (f *FileStore) Set(ctx context.Context, key, value string) error {
	return f.SetMany(ctx, map[string]string{key: value})
}

func (f *FileStore) SetMany(ctx context.Context, values map[string]string) error {
	return f.update(func(data map[string]string) {
		for k, v := range values {
			data[k] = v
		}
	})
}

func (f *FileStore) Delete(ctx context.Context, keys ...string) error {
	return f.update(func(data map[string]string) {
		for _, k := range keys {
			delete(data, k)
		}
	})
}

func (f *FileStore) update(apply func(map[string]string)) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := f.load()
	if err != nil {
		return err
	}
	apply(data)

	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", f.path, err)
	}
	return filex.WriteFileAtomic(f.path, b, 0o600)
}

func (f *FileStore) load() (map[string]string, error) {
	data := make(map[string]string)

	b, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return data, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.path, err)
	}
	if len(b) == 0 {
		return data, nil
	}
	if err := json.Unmarshal(b, &data); err != nil {
		return nil, fmt.Errorf("decode %s: %w", f.path, err)
	}
	return data, nil
}
