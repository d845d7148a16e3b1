package infrastructure

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"event-planner/backend/internal/features/catalog/domain"
)

func writeFile(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestDirectorySourceMergesListsAndObjects(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.json", `[{"브랜드명":"A","제품명":"P1"},{"브랜드명":"B","제품명":"P2"}]`)
	writeFile(t, dir, "b.json", `[{"브랜드명":"C","제품명":"P3"}]`)
	writeFile(t, dir, "c.json", `{"브랜드명":"D","제품명":"P4"}`)
	writeFile(t, dir, "broken.json", `{"브랜드명":`)
	writeFile(t, dir, "also-broken.json", `not json`)
	writeFile(t, dir, "notes.txt", `[{"브랜드명":"X"}]`)

	catalog, err := DirectorySource{Dir: dir}.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if catalog.Len() != 4 {
		t.Fatalf("products: want=4 got=%d", catalog.Len())
	}
	if len(catalog.Warnings) != 2 {
		t.Fatalf("warnings: want=2 got=%d (%v)", len(catalog.Warnings), catalog.Warnings)
	}
	seen := map[string]int{}
	for _, w := range catalog.Warnings {
		seen[w.File]++
	}
	if seen["broken.json"] != 1 || seen["also-broken.json"] != 1 {
		t.Fatalf("each malformed file should warn once: %v", seen)
	}
}

func TestDirectorySourceWarnsOnNonObjectElements(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "mixed.json", `[{"브랜드명":"A","제품명":"P1"},"stray",42,{"브랜드명":"B","제품명":"P2"}]`)
	writeFile(t, dir, "clean.json", `[{"브랜드명":"C","제품명":"P3"}]`)

	catalog, err := DirectorySource{Dir: dir}.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if catalog.Len() != 3 {
		t.Fatalf("products: want=3 got=%d", catalog.Len())
	}
	if len(catalog.Warnings) != 1 {
		t.Fatalf("warnings: want=1 got=%d (%v)", len(catalog.Warnings), catalog.Warnings)
	}
	w := catalog.Warnings[0]
	if w.File != "mixed.json" || w.Skipped != 2 {
		t.Fatalf("warning: got=%+v", w)
	}
	if want := "'mixed.json'에서 객체가 아닌 항목 2개를 건너뛰었습니다."; w.String() != want {
		t.Fatalf("warning text: want=%q got=%q", want, w.String())
	}
}

func TestFileSourceWarnsOnNonObjectElements(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "cosmetics_data.json", `[{"브랜드명":"A","제품명":"P1"},null]`)

	catalog, err := FileSource{Path: filepath.Join(dir, "cosmetics_data.json")}.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if catalog.Len() != 1 || len(catalog.Warnings) != 1 || catalog.Warnings[0].Skipped != 1 {
		t.Fatalf("unexpected catalog: len=%d warnings=%v", catalog.Len(), catalog.Warnings)
	}
}

func TestDirectorySourceMissingDir(t *testing.T) {
	_, err := DirectorySource{Dir: filepath.Join(t.TempDir(), "missing")}.Load(context.Background())
	var catErr *domain.CatalogError
	if !errors.As(err, &catErr) {
		t.Fatalf("expected *CatalogError, got=%T (%v)", err, err)
	}
}

func TestFileSource(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "cosmetics_data.json", `[{"브랜드명":"A","제품명":"P1","성분":["water","glycerin"]}]`)

	catalog, err := FileSource{Path: filepath.Join(dir, "cosmetics_data.json")}.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if catalog.Len() != 1 {
		t.Fatalf("products: want=1 got=%d", catalog.Len())
	}
	if got := catalog.Products[0].Ingredients(); got != "water, glycerin" {
		t.Fatalf("ingredients: got=%q", got)
	}
}

func TestFileSourceFailuresAreFatal(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bad.json", `[`)

	cases := map[string]string{
		"missing":   filepath.Join(dir, "nope.json"),
		"malformed": filepath.Join(dir, "bad.json"),
	}
	for name, path := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := FileSource{Path: path}.Load(context.Background())
			var catErr *domain.CatalogError
			if !errors.As(err, &catErr) {
				t.Fatalf("expected *CatalogError, got=%T (%v)", err, err)
			}
		})
	}
}

func TestCachedLoaderReusesByKey(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.json", `[{"브랜드명":"A","제품명":"P1"}]`)
	other := t.TempDir()
	writeFile(t, other, "b.json", `[{"브랜드명":"B","제품명":"P2"},{"브랜드명":"B","제품명":"P3"}]`)

	loader := NewCachedLoader()
	ctx := context.Background()

	first, cached, err := loader.Load(ctx, DirectorySource{Dir: dir})
	if err != nil || cached {
		t.Fatalf("first load: cached=%v err=%v", cached, err)
	}

	// content changes under the same path are not observed
	writeFile(t, dir, "more.json", `[{"브랜드명":"Z","제품명":"P9"}]`)
	second, cached, err := loader.Load(ctx, DirectorySource{Dir: dir})
	if err != nil || !cached {
		t.Fatalf("second load: cached=%v err=%v", cached, err)
	}
	if second != first || second.Len() != 1 {
		t.Fatalf("expected cached catalog with 1 product, got %d", second.Len())
	}

	third, _, err := loader.Load(ctx, DirectorySource{Dir: other})
	if err != nil {
		t.Fatalf("other load: %v", err)
	}
	if third.Len() != 2 {
		t.Fatalf("other: want=2 got=%d", third.Len())
	}
	if loader.Loads() != 2 {
		t.Fatalf("loads: want=2 got=%d", loader.Loads())
	}
}

func TestCachedLoaderDoesNotCacheFailures(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cosmetics_data.json")
	loader := NewCachedLoader()

	if _, _, err := loader.Load(context.Background(), FileSource{Path: path}); err == nil {
		t.Fatal("expected error for missing file")
	}
	writeFile(t, dir, "cosmetics_data.json", `{"브랜드명":"A","제품명":"P1"}`)
	c, _, err := loader.Load(context.Background(), FileSource{Path: path})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Len() != 1 {
		t.Fatalf("products: want=1 got=%d", c.Len())
	}
}
