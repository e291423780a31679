package search

import (
	"strings"
	"testing"

	"github.com/kerbaras/carddex/pkg/data"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func darkMagician() *data.Card {
	return &data.Card{
		Name:        "Dark Magician",
		Attribute:   "DARK",
		Level:       "7",
		CardType:    "Monster",
		ATK:         "2500",
		DEF:         "2100",
		Description: "The ultimate wizard in terms of attack and defense.",
		Rarity:      "Ultra Rare",
	}
}

func darkMagicAttack() *data.Card {
	return &data.Card{
		Name:        "Dark Magic Attack",
		Attribute:   "SPELL",
		Level:       data.NotAvailable,
		CardType:    "Spell",
		ATK:         data.NotAvailable,
		DEF:         data.NotAvailable,
		Description: "Destroy all Spells and Traps your opponent controls.",
		Rarity:      "Rare",
	}
}

func blueEyes() *data.Card {
	return &data.Card{
		Name:        "Blue-Eyes White Dragon",
		Attribute:   "LIGHT",
		Level:       "8",
		CardType:    "Monster",
		ATK:         "3000",
		DEF:         "2500",
		Description: "This legendary dragon is a powerful engine of destruction.",
		Rarity:      "Ultra Rare",
	}
}

func newTestIndex(cards ...*data.Card) *Index {
	catalog := data.NewCatalog()
	for _, c := range cards {
		catalog.Put(c)
	}
	return NewIndex(catalog, DefaultOptions())
}

func names(matches []Match) []string {
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.Card.Name
	}
	return out
}

func TestBestMatchExactName(t *testing.T) {
	idx := newTestIndex(darkMagician())

	m, err := idx.BestMatch("Dark Magician")
	require.NoError(t, err)
	assert.Equal(t, "Dark Magician", m.Card.Name)
	assert.Equal(t, 100, m.Score)
}

func TestBestMatchPicksHighestScore(t *testing.T) {
	idx := newTestIndex(darkMagician(), darkMagicAttack(), blueEyes())

	m, err := idx.BestMatch("Red-Eyes Black Dragon")
	require.NoError(t, err)
	assert.Equal(t, "Blue-Eyes White Dragon", m.Card.Name)
	assert.GreaterOrEqual(t, m.Score, idx.Options().SingleCutoff)
}

func TestBestMatchBelowCutoff(t *testing.T) {
	idx := newTestIndex(darkMagician(), darkMagicAttack(), blueEyes())

	_, err := idx.BestMatch("xyzzy")
	assert.ErrorIs(t, err, ErrNoMatch)
}

func TestBestMatchNeverBelowCutoff(t *testing.T) {
	idx := newTestIndex(darkMagician(), darkMagicAttack(), blueEyes())

	for _, q := range []string{"dark", "wizard", "dragon", "spell trap", "Magican", "zz top", "3000"} {
		m, err := idx.BestMatch(q)
		if err != nil {
			assert.ErrorIs(t, err, ErrNoMatch, q)
			continue
		}
		assert.GreaterOrEqual(t, m.Score, idx.Options().SingleCutoff, q)
	}
}

func TestBestMatchEmpty(t *testing.T) {
	t.Run("empty catalog", func(t *testing.T) {
		idx := NewIndex(data.NewCatalog(), DefaultOptions())
		_, err := idx.BestMatch("Dark Magician")
		assert.ErrorIs(t, err, ErrNoMatch)
	})

	t.Run("nil catalog", func(t *testing.T) {
		idx := NewIndex(nil, DefaultOptions())
		assert.Equal(t, 0, idx.Len())
		_, err := idx.BestMatch("Dark Magician")
		assert.ErrorIs(t, err, ErrNoMatch)
	})

	t.Run("blank query", func(t *testing.T) {
		idx := newTestIndex(darkMagician())
		_, err := idx.BestMatch("  ")
		assert.ErrorIs(t, err, ErrEmptyQuery)
	})
}

func TestSearchMisspelledWithKeyword(t *testing.T) {
	idx := newTestIndex(darkMagician(), darkMagicAttack())

	matches, err := idx.Search("Dark Magican #spell#")
	require.NoError(t, err)
	assert.Equal(t, []string{"Dark Magic Attack"}, names(matches))
	assert.Equal(t, []string{"spell"}, matches[0].Query.Keywords)
	assert.Equal(t, "Dark Magican", matches[0].Query.Text)
}

func TestMultiMatchTiesKeepInsertionOrder(t *testing.T) {
	idx := newTestIndex(darkMagician(), darkMagicAttack())

	matches, err := idx.MultiMatch("Dark Magican", nil, 0)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, matches[0].Score, matches[1].Score)
	assert.Equal(t, []string{"Dark Magician", "Dark Magic Attack"}, names(matches))

	reversed := newTestIndex(darkMagicAttack(), darkMagician())
	matches, err = reversed.MultiMatch("Dark Magican", nil, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"Dark Magic Attack", "Dark Magician"}, names(matches))
}

func TestMultiMatchSortedAndLimited(t *testing.T) {
	idx := newTestIndex(
		darkMagicAttack(),
		&data.Card{Name: "Beta Dragon", CardType: "Monster"},
		blueEyes(),
		&data.Card{Name: "Alpha Dragon", CardType: "Monster"},
	)

	all, err := idx.MultiMatch("dragon", nil, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"Beta Dragon", "Blue-Eyes White Dragon", "Alpha Dragon"}, names(all))
	for i := 1; i < len(all); i++ {
		assert.GreaterOrEqual(t, all[i-1].Score, all[i].Score)
	}

	limited, err := idx.MultiMatch("dragon", nil, 2)
	require.NoError(t, err)
	assert.Equal(t, names(all)[:2], names(limited))
}

func TestMultiMatchRequiresAllKeywords(t *testing.T) {
	idx := newTestIndex(darkMagician(), darkMagicAttack(), blueEyes())

	matches, err := idx.MultiMatch("", []string{"Monster", "dark"}, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"Dark Magician"}, names(matches))
	for _, m := range matches {
		text := strings.ToLower(m.Card.SearchText())
		assert.Contains(t, text, "monster")
		assert.Contains(t, text, "dark")
		assert.Equal(t, 100, m.Score)
	}
}

func TestMultiMatchEmpty(t *testing.T) {
	idx := NewIndex(data.NewCatalog(), DefaultOptions())

	matches, err := idx.Search("Dark Magician")
	require.NoError(t, err)
	assert.Empty(t, matches)

	_, err = idx.Search("   ")
	assert.ErrorIs(t, err, ErrEmptyQuery)
}

func TestIndexReset(t *testing.T) {
	idx := newTestIndex(darkMagician())
	assert.Equal(t, 1, idx.Len())

	next := data.NewCatalog()
	next.Put(blueEyes())
	next.Put(darkMagicAttack())
	idx.Reset(next)

	assert.Equal(t, 2, idx.Len())
	m, err := idx.BestMatch("Blue-Eyes White Dragon")
	require.NoError(t, err)
	assert.Equal(t, "Blue-Eyes White Dragon", m.Card.Name)

	idx.Reset(nil)
	_, err = idx.BestMatch("Blue-Eyes White Dragon")
	assert.ErrorIs(t, err, ErrNoMatch)
}

func TestPackExtrasAreNotSearched(t *testing.T) {
	dm := darkMagician()
	dm.Extra = map[string]string{"pack": "Legend of Blue Eyes White Dragon", "number": "LOB-005"}
	dma := darkMagicAttack()
	dma.Extra = map[string]string{"pack": "Spell Ruler"}
	bewd := blueEyes()
	bewd.Extra = map[string]string{"pack": "Spell Ruler", "number": "SRL-001"}
	idx := newTestIndex(dm, dma, bewd)

	best, err := idx.BestMatch("Blue-Eyes White Dragon")
	require.NoError(t, err)
	assert.Equal(t, "Blue-Eyes White Dragon", best.Card.Name)
	assert.Equal(t, 100, best.Score)

	matches, err := idx.Search("Dark Magican #spell#")
	require.NoError(t, err)
	assert.Equal(t, []string{"Dark Magic Attack"}, names(matches))

	matches, err = idx.MultiMatch("", []string{"ruler"}, 0)
	require.NoError(t, err)
	assert.Empty(t, matches)

	matches, err = idx.MultiMatch("", []string{"lob-005"}, 0)
	require.NoError(t, err)
	assert.Empty(t, matches)
}
