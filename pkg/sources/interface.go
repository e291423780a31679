package sources

import (
	"context"
	"errors"

	"github.com/kerbaras/carddex/pkg/data"
)

var (
	// ErrNetwork wraps any failure to fetch a page.
	ErrNetwork = errors.New("network error")
	// ErrParse marks markup that could not be turned into a record.
	ErrParse = errors.New("parse error")
	// ErrEmptyResult means the page was fetched but held no data.
	ErrEmptyResult = errors.New("empty result")
)

// Source lists packs and the cards inside them.
type Source interface {
	// ListPacks returns at most max packs from the listing page (max <= 0 means all).
	ListPacks(ctx context.Context, listingURL string, max int) ([]data.PackRef, error)
	// GetCards scrapes every card on the pack's detail page.
	GetCards(ctx context.Context, pack data.PackRef) ([]*data.Card, error)
}
