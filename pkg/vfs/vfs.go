// Package vfs is an in-memory file tree used to feed the preprocessor and to
// stage round-trip artefacts without touching the host filesystem.
package vfs

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// MaxDiskBytes caps the total size of all files on one disk.
const MaxDiskBytes = 64 << 20

// validFilename matches slash separated names without empty, "." or ".."
// segments.
var validFilename = regexp.MustCompile(`^[a-zA-Z0-9_][a-zA-Z0-9_.\-]*(/[a-zA-Z0-9_][a-zA-Z0-9_.\-]*)*$`)

var (
	ErrFileNotFound    = errors.New("file not found")
	ErrInvalidFilename = errors.New("invalid filename")
	ErrQuotaExceeded   = errors.New("disk quota exceeded")
)

type FileEntry struct {
	Data     []byte
	Created  time.Time
	Modified time.Time
}

// VirtualDisk is a flat map of slash separated names to file contents. It is
// safe for concurrent use.
type VirtualDisk struct {
	Mu         sync.RWMutex
	Files      map[string]*FileEntry
	DirtyFiles map[string]bool
	UsedBytes  int
	Dirty      bool
}

// NewVirtualDisk creates a new instance of VirtualDisk.
func NewVirtualDisk() *VirtualDisk {
	return &VirtualDisk{
		Files:      make(map[string]*FileEntry),
		DirtyFiles: make(map[string]bool),
	}
}

func validName(name string) bool {
	if !validFilename.MatchString(name) {
		return false
	}
	for _, seg := range strings.Split(name, "/") {
		if seg == "." || seg == ".." {
			return false
		}
	}
	return true
}

// Write stores a copy of data under filename, replacing any previous
// contents.
func (vd *VirtualDisk) Write(filename string, data []byte) error {
	vd.Mu.Lock()
	defer vd.Mu.Unlock()

	if !validName(filename) {
		return errors.Wrap(ErrInvalidFilename, filename)
	}

	oldSize := 0
	var entry *FileEntry
	if existing, ok := vd.Files[filename]; ok {
		oldSize = len(existing.Data)
		entry = existing
	}

	newSize := len(data)
	if vd.UsedBytes-oldSize+newSize > MaxDiskBytes {
		return errors.Wrap(ErrQuotaExceeded, filename)
	}

	// Deep copy data to prevent external mutations
	newData := make([]byte, newSize)
	copy(newData, data)

	if entry == nil {
		entry = &FileEntry{
			Created: time.Now(),
		}
		vd.Files[filename] = entry
	}
	entry.Data = newData
	entry.Modified = time.Now()

	vd.DirtyFiles[filename] = true
	vd.UsedBytes = vd.UsedBytes - oldSize + newSize
	vd.Dirty = true

	return nil
}

// Read returns the contents of filename. The slice must not be modified.
func (vd *VirtualDisk) Read(filename string) ([]byte, error) {
	vd.Mu.RLock()
	defer vd.Mu.RUnlock()

	if !validName(filename) {
		return nil, errors.Wrap(ErrInvalidFilename, filename)
	}

	entry, ok := vd.Files[filename]
	if !ok {
		return nil, errors.Wrap(ErrFileNotFound, filename)
	}

	return entry.Data, nil
}

// Exists reports whether filename is present.
func (vd *VirtualDisk) Exists(filename string) bool {
	vd.Mu.RLock()
	defer vd.Mu.RUnlock()
	_, ok := vd.Files[filename]
	return ok
}

// Delete removes a file from the virtual disk.
func (vd *VirtualDisk) Delete(filename string) error {
	vd.Mu.Lock()
	defer vd.Mu.Unlock()

	if !validName(filename) {
		return errors.Wrap(ErrInvalidFilename, filename)
	}

	entry, ok := vd.Files[filename]
	if !ok {
		return errors.Wrap(ErrFileNotFound, filename)
	}

	vd.UsedBytes -= len(entry.Data)
	delete(vd.Files, filename)

	// Mark as dirty so it gets removed from persistence too (if it was persisted)
	vd.DirtyFiles[filename] = true
	vd.Dirty = true

	return nil
}

// List returns a sorted list of all filenames.
func (vd *VirtualDisk) List() []string {
	vd.Mu.RLock()
	defer vd.Mu.RUnlock()

	keys := make([]string, 0, len(vd.Files))
	for k := range vd.Files {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ReadFile implements compiler.FileIncluder.
func (vd *VirtualDisk) ReadFile(filename string) ([]byte, error) {
	return vd.Read(filename)
}

// ResolveInclude implements compiler.FileIncluder. Includes resolve relative
// to the including file first, then to the root of the disk.
func (vd *VirtualDisk) ResolveInclude(current, quoted string) string {
	quoted = strings.TrimPrefix(quoted, "/")
	candidate := path.Join(path.Dir(current), quoted)
	if vd.Exists(candidate) {
		return candidate
	}
	root := path.Clean(quoted)
	if vd.Exists(root) {
		logrus.Debugf("resolved include %q from disk root", quoted)
		return root
	}
	return candidate
}

// LoadFrom populates the disk from the files below dir on the host. Files
// whose relative names are not valid disk names are skipped.
func (vd *VirtualDisk) LoadFrom(dir string) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) && p == dir {
				return nil
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		name := filepath.ToSlash(rel)
		if !validName(name) {
			logrus.Debugf("skipping %s: not a valid disk name", p)
			return nil
		}
		raw, err := os.ReadFile(p)
		if err != nil {
			return errors.Wrapf(err, "loading %s", p)
		}
		if err := vd.Write(name, raw); err != nil {
			return err
		}

		vd.Mu.Lock()
		delete(vd.DirtyFiles, name)
		if info, err := d.Info(); err == nil {
			vd.Files[name].Created = info.ModTime()
			vd.Files[name].Modified = info.ModTime()
		}
		vd.Dirty = len(vd.DirtyFiles) != 0
		vd.Mu.Unlock()
		return nil
	})
}

// PersistTo writes all dirty files to the host directory dir, creating
// sub-directories as needed. Returns the first write error encountered.
func (vd *VirtualDisk) PersistTo(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, "creating %s", dir)
	}

	// Snapshot the dirty files under a write lock (to clear flags), then release before doing I/O.
	vd.Mu.Lock()
	snapshot := make(map[string]*FileEntry)
	deletedFiles := make([]string, 0)

	for name := range vd.DirtyFiles {
		if entry, ok := vd.Files[name]; ok {
			newData := make([]byte, len(entry.Data))
			copy(newData, entry.Data)
			snapshot[name] = &FileEntry{
				Data:     newData,
				Created:  entry.Created,
				Modified: entry.Modified,
			}
		} else {
			deletedFiles = append(deletedFiles, name)
		}
		delete(vd.DirtyFiles, name)
	}
	vd.Dirty = false
	vd.Mu.Unlock()

	var firstErr error
	fail := func(name string, err error) {
		vd.Mu.Lock()
		vd.DirtyFiles[name] = true
		vd.Dirty = true
		vd.Mu.Unlock()
		if firstErr == nil {
			firstErr = err
		}
	}

	for _, name := range deletedFiles {
		err := os.Remove(filepath.Join(dir, filepath.FromSlash(name)))
		if err != nil && !os.IsNotExist(err) {
			fail(name, err)
		}
	}

	for name, entry := range snapshot {
		target := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			fail(name, err)
			continue
		}
		if err := os.WriteFile(target, entry.Data, 0644); err != nil {
			fail(name, err)
			continue
		}
		_ = os.Chtimes(target, time.Now(), entry.Modified)
	}

	return firstErr
}
