package data

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Catalog is the full card collection, keyed by card name.
// Iteration follows insertion order; replacing a card keeps its original position.
type Catalog struct {
	cards map[string]*Card
	order []string
}

func NewCatalog() *Catalog {
	return &Catalog{cards: make(map[string]*Card)}
}

// Put stores card under its name and reports whether an existing record was replaced.
func (c *Catalog) Put(card *Card) bool {
	if len(card.Extra) == 0 {
		card.Extra = nil
	}
	_, replaced := c.cards[card.Name]
	if !replaced {
		c.order = append(c.order, card.Name)
	}
	c.cards[card.Name] = card
	return replaced
}

func (c *Catalog) Get(name string) (*Card, bool) {
	card, ok := c.cards[name]
	return card, ok
}

func (c *Catalog) Len() int {
	return len(c.order)
}

// Cards returns every card in insertion order.
func (c *Catalog) Cards() []*Card {
	out := make([]*Card, len(c.order))
	for i, name := range c.order {
		out[i] = c.cards[name]
	}
	return out
}

func (c *Catalog) Names() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// MarshalJSON writes the catalog as a JSON object in insertion order.
func (c *Catalog) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range c.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(c.cards[name])
		if err != nil {
			return nil, fmt.Errorf("card %q: %w", name, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a name->card object, keeping the file order.
// A plain array of cards (the older cache layout) is accepted too.
func (c *Catalog) UnmarshalJSON(b []byte) error {
	c.cards = make(map[string]*Card)
	c.order = nil

	dec := json.NewDecoder(bytes.NewReader(b))
	tok, err := dec.Token()
	if err != nil {
		return err
	}

	switch tok {
	case json.Delim('{'):
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return err
			}
			name, ok := keyTok.(string)
			if !ok {
				return fmt.Errorf("unexpected key %v", keyTok)
			}
			var card Card
			if err := dec.Decode(&card); err != nil {
				return fmt.Errorf("card %q: %w", name, err)
			}
			card.Name = name
			c.Put(&card)
		}
	case json.Delim('['):
		for dec.More() {
			var card Card
			if err := dec.Decode(&card); err != nil {
				return err
			}
			if card.Name == "" {
				continue
			}
			c.Put(&card)
		}
	default:
		return fmt.Errorf("unexpected token %v", tok)
	}

	_, err = dec.Token()
	return err
}
