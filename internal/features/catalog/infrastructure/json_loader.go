package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"event-planner/backend/internal/features/catalog/domain"
)

// Source produces a catalog from some location on disk.
type Source interface {
	// Key identifies the source for caching; two sources with equal keys load the same data.
	Key() string
	Load(ctx context.Context) (*domain.Catalog, error)
}

// DirectorySource merges every *.json file of a directory. Malformed files are
// skipped and reported as warnings.
type DirectorySource struct {
	Dir string
}

func (s DirectorySource) Key() string { return "dir:" + filepath.Clean(s.Dir) }

func (s DirectorySource) Load(ctx context.Context) (*domain.Catalog, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return nil, &domain.CatalogError{Source: s.Dir, Err: err}
	}

	catalog := &domain.Catalog{Source: s.Dir}
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.Dir, entry.Name()))
		if err != nil {
			catalog.Warnings = append(catalog.Warnings, domain.Warning{File: entry.Name(), Message: err.Error()})
			continue
		}
		products, skipped, err := decodeProducts(data)
		if err != nil {
			catalog.Warnings = append(catalog.Warnings, domain.Warning{File: entry.Name(), Message: err.Error()})
			continue
		}
		if skipped > 0 {
			catalog.Warnings = append(catalog.Warnings, skippedWarning(entry.Name(), skipped))
		}
		catalog.Products = append(catalog.Products, products...)
	}
	return catalog, nil
}

// FileSource reads a single JSON file. Any failure aborts the load.
type FileSource struct {
	Path string
}

func (s FileSource) Key() string { return "file:" + filepath.Clean(s.Path) }

func (s FileSource) Load(ctx context.Context) (*domain.Catalog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, &domain.CatalogError{Source: s.Path, Err: err}
	}
	products, skipped, err := decodeProducts(data)
	if err != nil {
		return nil, &domain.CatalogError{Source: s.Path, Err: err}
	}
	catalog := &domain.Catalog{Source: s.Path, Products: products}
	if skipped > 0 {
		catalog.Warnings = append(catalog.Warnings, skippedWarning(filepath.Base(s.Path), skipped))
	}
	return catalog, nil
}

// decodeProducts accepts either a JSON array of objects or a single object.
// Array elements that are not objects are dropped and counted in skipped.
func decodeProducts(data []byte) (products []domain.Product, skipped int, err error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, 0, fmt.Errorf("invalid JSON: %w", err)
	}
	switch v := raw.(type) {
	case []any:
		products = make([]domain.Product, 0, len(v))
		for _, item := range v {
			if obj, ok := item.(map[string]any); ok {
				products = append(products, domain.Product(obj))
			} else {
				skipped++
			}
		}
		return products, skipped, nil
	case map[string]any:
		return []domain.Product{domain.Product(v)}, 0, nil
	default:
		return nil, 0, nil
	}
}

func skippedWarning(file string, skipped int) domain.Warning {
	return domain.Warning{
		File:    file,
		Message: fmt.Sprintf("%d non-object elements skipped", skipped),
		Skipped: skipped,
	}
}

// CachedLoader memoizes catalogs by source key for the lifetime of the process.
// File content changes under an already loaded key are not picked up.
type CachedLoader struct {
	mu    sync.Mutex
	cache map[string]*domain.Catalog
	loads int
}

func NewCachedLoader() *CachedLoader {
	return &CachedLoader{cache: make(map[string]*domain.Catalog)}
}

// Load returns the cached catalog for src, loading it on first use. Failed
// loads are not cached.
func (l *CachedLoader) Load(ctx context.Context, src Source) (*domain.Catalog, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if c, ok := l.cache[src.Key()]; ok {
		return c, true, nil
	}
	c, err := src.Load(ctx)
	if err != nil {
		return nil, false, err
	}
	l.loads++
	l.cache[src.Key()] = c
	return c, false, nil
}

// Loads returns how many times a source was actually read.
func (l *CachedLoader) Loads() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loads
}
