package sources

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/charmbracelet/log"
	"github.com/kerbaras/carddex/pkg/data"
	"github.com/kerbaras/carddex/pkg/utils"
)

// DefaultListingURL is the card database's pack search page.
const DefaultListingURL = "https://www.db.yugioh-card.com/yugiohdb/card_list.action?clm=1&wname=CardSearch"

var (
	cardListContainers = []string{"div#card_list", "div.t_body", "div.card_list"}
	cardRowSelectors   = []string{".t_row", ".c_simple", `[class*="row"]`}
)

// YGODB scrapes the official Yu-Gi-Oh! card database.
type YGODB struct {
	api    *utils.API
	logger *log.Logger
}

func NewYGODB(api *utils.API, logger *log.Logger) *YGODB {
	return &YGODB{api: api, logger: logger}
}

func (y *YGODB) document(ctx context.Context, pageURL string) (*goquery.Document, error) {
	body, err := y.api.Get(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNetwork, err)
	}
	defer body.Close()

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrParse, pageURL, err)
	}
	return doc, nil
}

func (y *YGODB) ListPacks(ctx context.Context, listingURL string, max int) ([]data.PackRef, error) {
	base, err := url.Parse(listingURL)
	if err != nil {
		return nil, fmt.Errorf("invalid listing url %q: %w", listingURL, err)
	}

	doc, err := y.document(ctx, listingURL)
	if err != nil {
		return nil, err
	}

	packs := []data.PackRef{}
	doc.Find("div.pack.pack_en").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		name := strings.TrimSpace(s.Find("strong").First().Text())
		link, ok := s.Find("input.link_value").First().Attr("value")
		if name == "" || !ok {
			return true
		}

		ref, err := url.Parse(strings.TrimSpace(link))
		if err != nil {
			y.logger.Debug("skipping pack with bad link", "pack", name, "link", link, "err", err)
			return true
		}

		packs = append(packs, data.PackRef{Name: name, URL: base.ResolveReference(ref).String()})
		return max <= 0 || len(packs) < max
	})

	if len(packs) == 0 {
		return packs, fmt.Errorf("%w: no pack links on %s", ErrEmptyResult, listingURL)
	}

	y.logger.Info("scraped pack urls", "count", len(packs))
	return packs, nil
}

func (y *YGODB) GetCards(ctx context.Context, pack data.PackRef) ([]*data.Card, error) {
	doc, err := y.document(ctx, pack.URL)
	if err != nil {
		return nil, err
	}

	list := firstMatch(doc.Selection, cardListContainers)
	if list == nil {
		return nil, fmt.Errorf("%w: no card list for %s", ErrEmptyResult, pack.URL)
	}

	rows := firstMatch(list, cardRowSelectors)
	if rows == nil {
		return nil, nil
	}

	var cards []*data.Card
	rows.Each(func(_ int, row *goquery.Selection) {
		card, err := ExtractCard(row)
		if err != nil {
			y.logger.Debug("failed to extract card info", "pack", pack.Name, "err", err)
			return
		}
		if card.Extra == nil {
			card.Extra = make(map[string]string)
		}
		card.Extra["pack"] = pack.Name
		cards = append(cards, card)
	})

	return cards, nil
}

// firstMatch returns the matches of the first selector that finds anything.
func firstMatch(s *goquery.Selection, selectors []string) *goquery.Selection {
	for _, sel := range selectors {
		if found := s.Find(sel); found.Length() > 0 {
			return found
		}
	}
	return nil
}
