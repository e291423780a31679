package data

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrCacheMissing is returned when no cache file has been written yet.
var ErrCacheMissing = errors.New("card cache not found")

// FileStore persists the catalog and the pack list as JSON files.
type FileStore struct {
	cachePath string
	packsPath string
}

func NewFileStore(cachePath, packsPath string) *FileStore {
	return &FileStore{cachePath: cachePath, packsPath: packsPath}
}

func (s *FileStore) CachePath() string { return s.cachePath }

func (s *FileStore) PacksPath() string { return s.packsPath }

func (s *FileStore) CacheExists() bool {
	return fileExists(s.cachePath)
}

// LoadCatalog reads the whole cache file.
func (s *FileStore) LoadCatalog() (*Catalog, error) {
	raw, err := os.ReadFile(s.cachePath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrCacheMissing
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cache: %w", err)
	}

	catalog := NewCatalog()
	if err := json.Unmarshal(raw, catalog); err != nil {
		return nil, fmt.Errorf("failed to decode cache %s: %w", s.cachePath, err)
	}
	return catalog, nil
}

// SaveCatalog replaces the cache file with the full catalog.
func (s *FileStore) SaveCatalog(catalog *Catalog) error {
	return writeJSON(s.cachePath, catalog)
}

// RemoveCatalog deletes the cache file. A missing file is not an error.
func (s *FileStore) RemoveCatalog() error {
	return removeIfExists(s.cachePath)
}

func (s *FileStore) PacksExist() bool {
	return fileExists(s.packsPath)
}

func (s *FileStore) LoadPacks() ([]PackRef, error) {
	raw, err := os.ReadFile(s.packsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read pack list: %w", err)
	}
	var packs []PackRef
	if err := json.Unmarshal(raw, &packs); err != nil {
		return nil, fmt.Errorf("failed to decode pack list %s: %w", s.packsPath, err)
	}
	return packs, nil
}

func (s *FileStore) SavePacks(packs []PackRef) error {
	if packs == nil {
		packs = []PackRef{}
	}
	return writeJSON(s.packsPath, packs)
}

func (s *FileStore) RemovePacks() error {
	return removeIfExists(s.packsPath)
}

// writeJSON writes v through a temp file and a rename so readers never see a partial file.
func writeJSON(path string, v any) error {
	payload, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".carddex-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

func removeIfExists(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove %s: %w", path, err)
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
