package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"github.com/kerbaras/carddex/pkg/config"
	"github.com/kerbaras/carddex/pkg/data"
	"github.com/kerbaras/carddex/pkg/integrations"
	"github.com/kerbaras/carddex/pkg/search"
	"github.com/kerbaras/carddex/pkg/sources"
	"github.com/kerbaras/carddex/pkg/utils"
)

// ErrBusy is returned while a scrape is still running.
var ErrBusy = errors.New("a scrape is already running")

// CardController owns the catalog and its search index and runs the
// scrape pipeline. Searches are refused while a scrape runs.
type CardController struct {
	store     Store
	harvester *Harvester
	logger    *log.Logger
	cfg       *config.Config

	mu       sync.RWMutex
	catalog  *data.Catalog
	index    *search.Index
	scraping atomic.Bool
}

// NewCardController wires the card database source and the JSON file store from cfg.
func NewCardController(cfg *config.Config, logger *log.Logger) *CardController {
	api := utils.NewAPI(cfg.UserAgent, cfg.RequestTimeout)
	source := sources.NewYGODB(api, logger)
	store := data.NewFileStore(cfg.CacheFile, cfg.PackURLsFile)
	return NewCardControllerWithSource(source, store, cfg, logger)
}

func NewCardControllerWithSource(source sources.Source, store Store, cfg *config.Config, logger *log.Logger) *CardController {
	harvester := NewHarvester(source, store, logger, HarvesterConfig{
		ListingURL: cfg.ListingURL,
		MaxPacks:   cfg.MaxPacks,
		Interval:   cfg.RequestPause,
	})

	catalog := data.NewCatalog()
	return &CardController{
		store:     store,
		harvester: harvester,
		logger:    logger,
		cfg:       cfg,
		catalog:   catalog,
		index: search.NewIndex(catalog, search.Options{
			SingleCutoff: cfg.SingleCutoff,
			MultiCutoff:  cfg.MultiCutoff,
			MultiLimit:   cfg.MultiLimit,
		}),
	}
}

// GetProgressChannel streams harvest progress for the lifetime of the controller.
func (c *CardController) GetProgressChannel() <-chan HarvestProgress {
	return c.harvester.GetProgressChannel()
}

// Load fills the catalog from the cache file, or scrapes when there is none.
// The returned report is nil when the cache was used.
func (c *CardController) Load(ctx context.Context) (*HarvestReport, error) {
	if c.store.CacheExists() {
		catalog, err := c.store.LoadCatalog()
		if err == nil {
			c.swap(catalog)
			c.logger.Info("loaded card cache", "cards", catalog.Len())
			return nil, nil
		}
		c.logger.Warn("unreadable card cache, scraping again", "err", err)
	}
	return c.Scrape(ctx, false)
}

// Scrape runs the pack enumerator and the card harvester and installs the
// resulting catalog. refreshPacks forces a new pack enumeration.
func (c *CardController) Scrape(ctx context.Context, refreshPacks bool) (*HarvestReport, error) {
	if !c.scraping.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer c.scraping.Store(false)

	catalog, report, err := c.harvester.Run(ctx, refreshPacks)
	if err != nil {
		return nil, err
	}
	c.swap(catalog)
	return report, nil
}

// Refresh deletes the cache, empties the catalog and scrapes everything again.
func (c *CardController) Refresh(ctx context.Context, refreshPacks bool) (*HarvestReport, error) {
	if c.scraping.Load() {
		return nil, ErrBusy
	}
	if err := c.store.RemoveCatalog(); err != nil {
		return nil, err
	}
	c.swap(data.NewCatalog())
	return c.Scrape(ctx, refreshPacks)
}

// EnumeratePacks refreshes only the pack file.
func (c *CardController) EnumeratePacks(ctx context.Context) ([]data.PackRef, error) {
	if c.scraping.Load() {
		return nil, ErrBusy
	}
	return c.harvester.EnumeratePacks(ctx)
}

// ClearCache deletes the cache file and empties the in-memory catalog.
func (c *CardController) ClearCache() error {
	if c.scraping.Load() {
		return ErrBusy
	}
	if err := c.store.RemoveCatalog(); err != nil {
		return err
	}
	c.swap(data.NewCatalog())
	c.logger.Info("card cache cleared")
	return nil
}

// Search returns the single best match for query.
func (c *CardController) Search(query string) (search.Match, error) {
	if c.scraping.Load() {
		return search.Match{}, ErrBusy
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.index.BestMatch(query)
}

// MultiSearch parses #keyword# filters out of raw and returns every match.
// No results is reported as search.ErrNoMatch.
func (c *CardController) MultiSearch(raw string) ([]search.Match, error) {
	if c.scraping.Load() {
		return nil, ErrBusy
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	matches, err := c.index.Search(raw)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return matches, search.ErrNoMatch
	}
	return matches, nil
}

// Catalog returns the current catalog. Callers must not modify it.
func (c *CardController) Catalog() *data.Catalog {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.catalog
}

func (c *CardController) Scraping() bool {
	return c.scraping.Load()
}

// Export binds matches into an EPUB under the configured export directory.
func (c *CardController) Export(title string, matches []search.Match) (string, error) {
	path, err := integrations.NewBinder(c.cfg.ExportDir).Bind(title, matches)
	if err != nil {
		return "", fmt.Errorf("failed to export: %w", err)
	}
	c.logger.Info("exported cards", "path", path, "cards", len(matches))
	return path, nil
}

// Mirror copies the catalog into the duckdb repository for analytics.
func (c *CardController) Mirror(repo *data.Repository) error {
	cards := c.Catalog().Cards()
	if err := repo.ReplaceCards(cards); err != nil {
		return fmt.Errorf("failed to mirror catalog: %w", err)
	}
	c.logger.Debug("mirrored catalog to duckdb", "cards", len(cards))
	return nil
}

func (c *CardController) Close() {
	c.harvester.Close()
}

func (c *CardController) swap(catalog *data.Catalog) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.catalog = catalog
	c.index.Reset(catalog)
}
