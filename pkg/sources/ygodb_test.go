package sources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kerbaras/carddex/pkg/data"
	"github.com/kerbaras/carddex/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listingPath = "/yugiohdb/card_list.action"

// newFakeDB serves the testdata pages the way the card database lays them out.
func newFakeDB(t *testing.T) *httptest.Server {
	t.Helper()

	page := func(name string) []byte {
		raw, err := os.ReadFile(filepath.Join("testdata", name))
		require.NoError(t, err)
		return raw
	}

	mux := http.NewServeMux()
	mux.HandleFunc(listingPath, func(w http.ResponseWriter, r *http.Request) {
		w.Write(page("listing.html"))
	})
	mux.HandleFunc("/yugiohdb/card_search.action", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("pid") {
		case "1":
			w.Write(page("pack_lob.html"))
		case "2":
			w.Write(page("pack_simple.html"))
		case "3":
			w.Write(page("pack_empty.html"))
		default:
			http.Error(w, "boom", http.StatusInternalServerError)
		}
	})
	mux.HandleFunc("/empty", func(w http.ResponseWriter, r *http.Request) {
		w.Write(page("pack_empty.html"))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newTestSource() *YGODB {
	return NewYGODB(utils.NewAPI("carddex-test", 5*time.Second), utils.DiscardLogger())
}

func TestYGODB_ListPacks(t *testing.T) {
	server := newFakeDB(t)
	src := newTestSource()

	packs, err := src.ListPacks(context.Background(), server.URL+listingPath+"?clm=1&wname=CardSearch", 0)
	require.NoError(t, err)
	require.Len(t, packs, 3)

	assert.Equal(t, data.PackRef{
		Name: "Legend of Blue Eyes White Dragon",
		URL:  server.URL + "/yugiohdb/card_search.action?ope=1&sess=1&pid=1",
	}, packs[0])
	assert.Equal(t, "Metal Raiders", packs[1].Name)
	assert.Equal(t, "https://www.db.yugioh-card.com/yugiohdb/card_search.action?ope=1&sess=1&pid=3", packs[2].URL)
}

func TestYGODB_ListPacksStopsAtMax(t *testing.T) {
	server := newFakeDB(t)
	src := newTestSource()

	packs, err := src.ListPacks(context.Background(), server.URL+listingPath, 2)
	require.NoError(t, err)
	assert.Len(t, packs, 2)
	assert.Equal(t, "Metal Raiders", packs[1].Name)
}

func TestYGODB_ListPacksEmpty(t *testing.T) {
	server := newFakeDB(t)
	src := newTestSource()

	packs, err := src.ListPacks(context.Background(), server.URL+"/empty", 0)
	assert.ErrorIs(t, err, ErrEmptyResult)
	assert.Empty(t, packs)
}

func TestYGODB_ListPacksNetworkError(t *testing.T) {
	server := newFakeDB(t)
	src := newTestSource()

	_, err := src.ListPacks(context.Background(), server.URL+"/yugiohdb/card_search.action?pid=404", 0)
	assert.ErrorIs(t, err, ErrNetwork)
}

func TestYGODB_GetCards(t *testing.T) {
	server := newFakeDB(t)
	src := newTestSource()

	pack := data.PackRef{Name: "Legend of Blue Eyes White Dragon", URL: server.URL + "/yugiohdb/card_search.action?ope=1&pid=1"}
	cards, err := src.GetCards(context.Background(), pack)
	require.NoError(t, err)
	require.Len(t, cards, 3, "the row without a name is skipped")

	assert.Equal(t, &data.Card{
		Name:        "Dark Magician",
		Attribute:   "DARK",
		Level:       "7",
		CardType:    "Spellcaster / Normal",
		ATK:         "2500",
		DEF:         "2100",
		Description: "The ultimate wizard in terms of attack and defense.",
		Rarity:      "Ultra Rare",
		Extra:       map[string]string{"number": "LOB-005", "pack": pack.Name},
	}, cards[0])

	assert.Equal(t, &data.Card{
		Name:        "Dark Magic Attack",
		Attribute:   "SPELL",
		Level:       data.NotAvailable,
		CardType:    "Normal Spell",
		ATK:         data.NotAvailable,
		DEF:         data.NotAvailable,
		Description: `If you control "Dark Magician": Destroy all Spells and Traps your opponent controls.`,
		Rarity:      "Rare",
		Extra:       map[string]string{"pack": pack.Name},
	}, cards[1])

	cylinder := cards[2]
	assert.Equal(t, "Magic Cylinder", cylinder.Name)
	assert.Equal(t, "TRAP", cylinder.Attribute)
	assert.Equal(t, "Normal Trap", cylinder.CardType)
	assert.Equal(t, "?", cylinder.ATK)
	assert.Equal(t, data.NotAvailable, cylinder.DEF)
	assert.Equal(t, "No Description", cylinder.Description)
	assert.Equal(t, data.NotAvailable, cylinder.Rarity)
}

func TestYGODB_GetCardsFallbackSelectors(t *testing.T) {
	server := newFakeDB(t)
	src := newTestSource()

	cards, err := src.GetCards(context.Background(), data.PackRef{Name: "Metal Raiders", URL: server.URL + "/yugiohdb/card_search.action?pid=2"})
	require.NoError(t, err)
	require.Len(t, cards, 2)

	kuriboh := cards[0]
	assert.Equal(t, "Kuriboh", kuriboh.Name)
	assert.Equal(t, "DARK", kuriboh.Attribute)
	assert.Equal(t, "1", kuriboh.Level)
	assert.Equal(t, "Fiend / Effect", kuriboh.CardType)
	assert.Equal(t, "300", kuriboh.ATK)
	assert.Equal(t, "200", kuriboh.DEF)
	assert.Equal(t, "Common", kuriboh.Rarity)

	swords := cards[1]
	assert.Equal(t, "SPELL", swords.Attribute)
	assert.Equal(t, "Normal Spell", swords.CardType)
}

func TestYGODB_GetCardsEmptyPage(t *testing.T) {
	server := newFakeDB(t)
	src := newTestSource()

	cards, err := src.GetCards(context.Background(), data.PackRef{Name: "Empty", URL: server.URL + "/yugiohdb/card_search.action?pid=3"})
	assert.ErrorIs(t, err, ErrEmptyResult)
	assert.Empty(t, cards)
}

func TestYGODB_GetCardsNetworkError(t *testing.T) {
	server := newFakeDB(t)
	src := newTestSource()

	_, err := src.GetCards(context.Background(), data.PackRef{Name: "Broken", URL: server.URL + "/yugiohdb/card_search.action?pid=9"})
	assert.ErrorIs(t, err, ErrNetwork)
}
