package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/kerbaras/carddex/pkg/data"
	"github.com/kerbaras/carddex/pkg/sources"
	"golang.org/x/time/rate"
)

// HarvestProgress reports on one pack of a running harvest.
type HarvestProgress struct {
	PackName   string
	Current    int
	Total      int
	CardsFound int
	Status     string // "enumerating", "fetching", "parsed", "failed", "complete"
	Error      error
}

// Store is the persistence the harvester needs.
type Store interface {
	CacheExists() bool
	LoadCatalog() (*data.Catalog, error)
	SaveCatalog(catalog *data.Catalog) error
	RemoveCatalog() error
	PacksExist() bool
	LoadPacks() ([]data.PackRef, error)
	SavePacks(packs []data.PackRef) error
}

// HarvestReport summarises a finished harvest.
type HarvestReport struct {
	Cards       int
	Packs       int
	FailedPacks []string
	Elapsed     time.Duration
}

func (r *HarvestReport) String() string {
	msg := fmt.Sprintf("Scraped %d cards from %d packs in %s", r.Cards, r.Packs, r.Elapsed.Round(100*time.Millisecond))
	if n := len(r.FailedPacks); n > 0 {
		msg += fmt.Sprintf(" (%d packs failed)", n)
	}
	return msg
}

type HarvesterConfig struct {
	ListingURL string
	MaxPacks   int
	// Interval is the pause between pack fetches. Zero disables pacing.
	Interval time.Duration
}

// Harvester enumerates packs and scrapes their cards one pack at a time.
type Harvester struct {
	source       sources.Source
	store        Store
	limiter      *rate.Limiter
	progressChan chan HarvestProgress
	logger       *log.Logger
	listingURL   string
	maxPacks     int
	closeOnce    sync.Once
}

func NewHarvester(source sources.Source, store Store, logger *log.Logger, cfg HarvesterConfig) *Harvester {
	limit := rate.Inf
	if cfg.Interval > 0 {
		limit = rate.Every(cfg.Interval)
	}
	return &Harvester{
		source:       source,
		store:        store,
		limiter:      rate.NewLimiter(limit, 1),
		progressChan: make(chan HarvestProgress, 100),
		logger:       logger,
		listingURL:   cfg.ListingURL,
		maxPacks:     cfg.MaxPacks,
	}
}

// GetProgressChannel returns the channel for receiving harvest progress updates
func (h *Harvester) GetProgressChannel() <-chan HarvestProgress {
	return h.progressChan
}

// EnumeratePacks scrapes the listing page and writes the pack file.
// An empty listing is not fatal and yields no packs.
func (h *Harvester) EnumeratePacks(ctx context.Context) ([]data.PackRef, error) {
	h.sendProgress(HarvestProgress{Status: "enumerating"})

	packs, err := h.source.ListPacks(ctx, h.listingURL, h.maxPacks)
	switch {
	case errors.Is(err, sources.ErrEmptyResult):
		h.logger.Warn("no packs found on listing page", "url", h.listingURL)
		packs = []data.PackRef{}
	case err != nil:
		return nil, fmt.Errorf("failed to enumerate packs: %w", err)
	}

	if err := h.store.SavePacks(packs); err != nil {
		return nil, fmt.Errorf("failed to save pack list: %w", err)
	}
	return packs, nil
}

// Packs returns the saved pack list, enumerating when there is none or
// when refresh is set.
func (h *Harvester) Packs(ctx context.Context, refresh bool) ([]data.PackRef, error) {
	if !refresh && h.store.PacksExist() {
		packs, err := h.store.LoadPacks()
		if err == nil {
			return packs, nil
		}
		h.logger.Warn("unreadable pack list, enumerating again", "err", err)
	}
	return h.EnumeratePacks(ctx)
}

// Harvest scrapes every pack into catalog and then saves the catalog.
// A pack that fails is logged and skipped. A pack page without a card list
// counts as zero cards.
func (h *Harvester) Harvest(ctx context.Context, packs []data.PackRef, catalog *data.Catalog) (*HarvestReport, error) {
	start := time.Now()
	if catalog == nil {
		catalog = data.NewCatalog()
	}
	if h.maxPacks > 0 && len(packs) > h.maxPacks {
		packs = packs[:h.maxPacks]
	}

	report := &HarvestReport{Packs: len(packs)}
	for i, pack := range packs {
		if err := h.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("harvest interrupted: %w", err)
		}

		h.sendProgress(HarvestProgress{PackName: pack.Name, Current: i + 1, Total: len(packs), Status: "fetching"})

		cards, err := h.source.GetCards(ctx, pack)
		if errors.Is(err, sources.ErrEmptyResult) {
			h.logger.Warn("no cards on pack page", "pack", pack.Name, "url", pack.URL)
			cards, err = nil, nil
		}
		if err != nil {
			h.logger.Warn("skipping pack", "pack", pack.Name, "url", pack.URL, "err", err)
			report.FailedPacks = append(report.FailedPacks, pack.Name)
			h.sendProgress(HarvestProgress{PackName: pack.Name, Current: i + 1, Total: len(packs), Status: "failed", Error: err})
			continue
		}

		for _, card := range cards {
			if catalog.Put(card) {
				h.logger.Debug("card overwritten", "card", card.Name, "pack", pack.Name)
			}
		}
		h.logger.Info("scraped pack", "pack", pack.Name, "cards", len(cards))
		h.sendProgress(HarvestProgress{PackName: pack.Name, Current: i + 1, Total: len(packs), CardsFound: len(cards), Status: "parsed"})
	}

	if err := h.store.SaveCatalog(catalog); err != nil {
		return nil, fmt.Errorf("failed to save card cache: %w", err)
	}

	report.Cards = catalog.Len()
	report.Elapsed = time.Since(start)
	h.logger.Info("harvest complete", "cards", report.Cards, "packs", report.Packs, "failed", len(report.FailedPacks), "elapsed", report.Elapsed)
	h.sendProgress(HarvestProgress{Current: len(packs), Total: len(packs), CardsFound: report.Cards, Status: "complete"})

	return report, nil
}

// Run resolves the pack list and harvests it into a fresh catalog.
func (h *Harvester) Run(ctx context.Context, refreshPacks bool) (*data.Catalog, *HarvestReport, error) {
	packs, err := h.Packs(ctx, refreshPacks)
	if err != nil {
		return nil, nil, err
	}

	catalog := data.NewCatalog()
	report, err := h.Harvest(ctx, packs, catalog)
	if err != nil {
		return nil, nil, err
	}
	return catalog, report, nil
}

// sendProgress sends a progress update (non-blocking)
func (h *Harvester) sendProgress(progress HarvestProgress) {
	select {
	case h.progressChan <- progress:
	default:
		// Channel full, skip this update
	}
}

// Close closes the progress channel. It must not be called while a harvest runs.
func (h *Harvester) Close() {
	h.closeOnce.Do(func() { close(h.progressChan) })
}
