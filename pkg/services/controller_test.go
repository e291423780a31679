package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/kerbaras/carddex/pkg/config"
	"github.com/kerbaras/carddex/pkg/data"
	"github.com/kerbaras/carddex/pkg/search"
	"github.com/kerbaras/carddex/pkg/sources"
	"github.com/kerbaras/carddex/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		CacheFile:    filepath.Join(dir, "card_cache.json"),
		PackURLsFile: filepath.Join(dir, "pack_urls.json"),
		ListingURL:   "https://example.test/list",
		UserAgent:    "carddex-test",
		SingleCutoff: 60,
		MultiCutoff:  50,
		LogLevel:     "debug",
		ExportDir:    filepath.Join(dir, "exports"),
	}
}

func newTestController(t *testing.T, source *mockSource) (*CardController, *data.FileStore) {
	t.Helper()
	cfg := testConfig(t)
	store := data.NewFileStore(cfg.CacheFile, cfg.PackURLsFile)
	controller := NewCardControllerWithSource(source, store, cfg, utils.DiscardLogger())
	t.Cleanup(controller.Close)
	return controller, store
}

func TestNewCardController(t *testing.T) {
	controller := NewCardController(testConfig(t), utils.DiscardLogger())
	defer controller.Close()

	require.NotNil(t, controller)
	assert.NotNil(t, controller.harvester)
	assert.NotNil(t, controller.index)
	assert.Equal(t, 0, controller.Catalog().Len())
}

func TestControllerLoadScrapesWithoutCache(t *testing.T) {
	source := packSource()
	controller, store := newTestController(t, source)

	report, err := controller.Load(context.Background())
	require.NoError(t, err)
	require.NotNil(t, report)

	assert.Equal(t, 3, report.Cards)
	assert.Equal(t, 1, source.listCalls)
	assert.True(t, store.CacheExists())
	assert.True(t, store.PacksExist())

	m, err := controller.Search("Dark Magician")
	require.NoError(t, err)
	assert.Equal(t, "Dark Magician", m.Card.Name)
	assert.Equal(t, 100, m.Score)
}

func TestControllerLoadUsesCache(t *testing.T) {
	source := packSource()
	controller, store := newTestController(t, source)

	catalog := data.NewCatalog()
	catalog.Put(blueEyes())
	require.NoError(t, store.SaveCatalog(catalog))

	report, err := controller.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, report)
	assert.Zero(t, source.listCalls)
	assert.Zero(t, source.getCalls)
	assert.Equal(t, []string{"Blue-Eyes White Dragon"}, controller.Catalog().Names())
}

func TestControllerLoadCorruptCacheScrapes(t *testing.T) {
	source := packSource()
	controller, store := newTestController(t, source)
	require.NoError(t, os.WriteFile(store.CachePath(), []byte("{not json"), 0644))

	report, err := controller.Load(context.Background())
	require.NoError(t, err)
	require.NotNil(t, report)
	assert.Equal(t, 3, controller.Catalog().Len())
}

func TestControllerMultiSearchKeyword(t *testing.T) {
	controller, _ := newTestController(t, packSource())
	_, err := controller.Load(context.Background())
	require.NoError(t, err)

	matches, err := controller.MultiSearch("Dark Magican #spell#")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "Dark Magic Attack", matches[0].Card.Name)
}

func TestControllerMultiSearchNothing(t *testing.T) {
	controller, _ := newTestController(t, packSource())
	_, err := controller.Load(context.Background())
	require.NoError(t, err)

	matches, err := controller.MultiSearch("xyzzy")
	assert.ErrorIs(t, err, search.ErrNoMatch)
	assert.Empty(t, matches)

	_, err = controller.MultiSearch("   ")
	assert.ErrorIs(t, err, search.ErrEmptyQuery)
}

func TestControllerClearCacheThenSearch(t *testing.T) {
	controller, store := newTestController(t, packSource())
	_, err := controller.Load(context.Background())
	require.NoError(t, err)

	require.NoError(t, controller.ClearCache())
	assert.False(t, store.CacheExists())
	assert.Equal(t, 0, controller.Catalog().Len())

	_, err = controller.Search("Dark Magician")
	assert.ErrorIs(t, err, search.ErrNoMatch)

	_, err = controller.MultiSearch("Dark Magician")
	assert.ErrorIs(t, err, search.ErrNoMatch)

	assert.NoError(t, controller.ClearCache(), "clearing twice is fine")
}

func TestControllerRefreshRebuilds(t *testing.T) {
	source := packSource()
	controller, store := newTestController(t, source)
	_, err := controller.Load(context.Background())
	require.NoError(t, err)

	source.getCardsFunc = func(ctx context.Context, pack data.PackRef) ([]*data.Card, error) {
		return []*data.Card{blueEyes()}, nil
	}

	report, err := controller.Refresh(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Cards)
	assert.Equal(t, []string{"Blue-Eyes White Dragon"}, controller.Catalog().Names())
	assert.Equal(t, 1, source.listCalls, "pack file is reused")

	saved, err := store.LoadCatalog()
	require.NoError(t, err)
	assert.Equal(t, 1, saved.Len())

	_, err = controller.Refresh(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, 2, source.listCalls)
}

func TestControllerRefreshFailureLeavesEmptyCatalog(t *testing.T) {
	source := packSource()
	controller, store := newTestController(t, source)
	_, err := controller.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, controller.Catalog().Len())

	source.listPacksFunc = func(ctx context.Context, listingURL string, max int) ([]data.PackRef, error) {
		return nil, fmt.Errorf("%w: listing unreachable", sources.ErrNetwork)
	}

	_, err = controller.Refresh(context.Background(), true)
	assert.ErrorIs(t, err, sources.ErrNetwork)
	assert.False(t, store.CacheExists())
	assert.Equal(t, 0, controller.Catalog().Len())

	_, err = controller.Search("Dark Magician")
	assert.ErrorIs(t, err, search.ErrNoMatch)
}

func TestControllerBusyWhileScraping(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once

	source := packSource()
	source.getCardsFunc = func(ctx context.Context, pack data.PackRef) ([]*data.Card, error) {
		once.Do(func() { close(started) })
		<-release
		return []*data.Card{darkMagician()}, nil
	}
	controller, _ := newTestController(t, source)

	done := make(chan error, 1)
	go func() {
		_, err := controller.Scrape(context.Background(), false)
		done <- err
	}()
	<-started

	assert.True(t, controller.Scraping())
	_, err := controller.Search("Dark Magician")
	assert.ErrorIs(t, err, ErrBusy)
	_, err = controller.Scrape(context.Background(), false)
	assert.ErrorIs(t, err, ErrBusy)
	assert.ErrorIs(t, controller.ClearCache(), ErrBusy)

	close(release)
	require.NoError(t, <-done)
	assert.False(t, controller.Scraping())

	m, err := controller.Search("Dark Magician")
	require.NoError(t, err)
	assert.Equal(t, "Dark Magician", m.Card.Name)
}

func TestControllerExport(t *testing.T) {
	controller, _ := newTestController(t, packSource())
	_, err := controller.Load(context.Background())
	require.NoError(t, err)

	matches, err := controller.MultiSearch("dragon")
	require.NoError(t, err)

	path, err := controller.Export("dragon", matches)
	require.NoError(t, err)
	assert.FileExists(t, path)
	assert.Equal(t, filepath.Join(controller.cfg.ExportDir, "dragon.epub"), path)
}

func TestControllerMirror(t *testing.T) {
	controller, _ := newTestController(t, packSource())
	_, err := controller.Load(context.Background())
	require.NoError(t, err)

	repo, err := data.NewDuckDBRepository(filepath.Join(t.TempDir(), "cards.duckdb"))
	require.NoError(t, err)
	defer repo.Close()

	require.NoError(t, controller.Mirror(repo))

	cards, err := repo.ListCards()
	require.NoError(t, err)
	assert.Len(t, cards, 3)
	assert.Equal(t, "Dark Magician", cards[0].Name)
}
