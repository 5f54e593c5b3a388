package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/atinyakov/sbp/internal/models"
)

// FileStore keeps every device's slots in a single JSON document:
//
//	{"<device>": {"sbp_username": "Asha", "sbp_income": "20000"}}
//
// The whole document is rewritten after each mutation.
type FileStore struct {
	path  string
	mu    sync.Mutex
	slots map[string]map[models.Slot]string
}

// OpenFileStore loads path, or starts empty when the file does not exist yet.
func OpenFileStore(path string) (*FileStore, error) {
	fs := &FileStore{path: path, slots: make(map[string]map[models.Slot]string)}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fs, nil
		}
		return nil, fmt.Errorf("open store file: %w", err)
	}
	defer f.Close()

	if err := json.NewDecoder(f).Decode(&fs.slots); err != nil {
		return nil, fmt.Errorf("decode store file %s: %w", path, err)
	}
	if fs.slots == nil {
		fs.slots = make(map[string]map[models.Slot]string)
	}
	return fs, nil
}

// Get returns the value of slot for device.
func (fs *FileStore) Get(_ context.Context, device string, slot models.Slot) (string, bool, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	v, ok := fs.slots[device][slot]
	return v, ok, nil
}

// Set stores value under slot for device and persists the document.
// When the document cannot be written the slot keeps its old value.
func (fs *FileStore) Set(_ context.Context, device string, slot models.Slot, value string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	prev, had := fs.slots[device][slot]
	fs.put(device, slot, value)
	if err := fs.save(); err != nil {
		fs.restore(device, slot, prev, had)
		return err
	}
	return nil
}

// Clear removes slot for device and persists the document.
func (fs *FileStore) Clear(_ context.Context, device string, slot models.Slot) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	prev, ok := fs.slots[device][slot]
	if !ok {
		return nil
	}
	fs.drop(device, slot)
	if err := fs.save(); err != nil {
		fs.restore(device, slot, prev, true)
		return err
	}
	return nil
}

func (fs *FileStore) put(device string, slot models.Slot, value string) {
	if fs.slots[device] == nil {
		fs.slots[device] = make(map[models.Slot]string)
	}
	fs.slots[device][slot] = value
}

func (fs *FileStore) drop(device string, slot models.Slot) {
	delete(fs.slots[device], slot)
	if len(fs.slots[device]) == 0 {
		delete(fs.slots, device)
	}
}

// restore puts slot back to what it was before a mutation whose save failed,
// so memory never holds anything the file does not.
func (fs *FileStore) restore(device string, slot models.Slot, prev string, had bool) {
	if had {
		fs.put(device, slot, prev)
		return
	}
	fs.drop(device, slot)
}

// Close is a no-op; every mutation is already on disk.
func (fs *FileStore) Close() error { return nil }

// save writes to a temporary file in the same directory and renames it
// over the target so readers never observe a partial document.
func (fs *FileStore) save() error {
	tmp, err := os.CreateTemp(filepath.Dir(fs.path), filepath.Base(fs.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp store file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := json.NewEncoder(tmp).Encode(fs.slots); err != nil {
		tmp.Close()
		return fmt.Errorf("encode store file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp store file: %w", err)
	}
	if err := os.Rename(tmp.Name(), fs.path); err != nil {
		return fmt.Errorf("replace store file: %w", err)
	}
	return nil
}
