// Package catalog assigns stable integer identities to card names and
// partitions them into the rarity pools the pack generator draws from.
package catalog

import (
	"fmt"
	"strings"
)

// CardID is the stable integer identity of a distinct card name. IDs are
// assigned in catalog order and are only meaningful for one Index.
type CardID int

// Color symbols in canonical wheel order.
var ColorOrder = [5]string{"W", "U", "B", "R", "G"}

// Record is one card entry as supplied by the catalog loader. Only Name is
// required; missing optional fields mean colorless, unranked, not a basic land.
type Record struct {
	Name          string   `json:"name"`
	ColorIdentity []string `json:"color_identity"`
	Rarity        string   `json:"rarity"`
	IsBasicLand   bool     `json:"is_basic_land"`
}

// CatalogError signals malformed catalog input. Construction aborts on the
// first bad record.
type CatalogError struct {
	Index  int
	Reason string
}

func (e *CatalogError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("catalog: %s", e.Reason)
	}
	return fmt.Sprintf("catalog: record %d: %s", e.Index, e.Reason)
}

// Pools holds the card identities available to the pack generator, keyed by
// rarity class. Basic lands are kept out of their nominal rarity class so the
// classes stay disjoint.
type Pools struct {
	Common    []CardID
	Uncommon  []CardID
	Rare      []CardID
	Mythic    []CardID
	BasicLand []CardID
}

// RareOrMythic returns the union pool the rare slot is drawn from.
func (p Pools) RareOrMythic() []CardID {
	union := make([]CardID, 0, len(p.Rare)+len(p.Mythic))
	union = append(union, p.Rare...)
	union = append(union, p.Mythic...)
	return union
}

// Index is the immutable card identity index built once per catalog load.
type Index struct {
	idByName map[string]CardID
	names    []string
	colors   map[CardID][]string
	pools    Pools
}

// Build constructs an Index from catalog records. Identity assignment is
// idempotent for repeated names: later records for a seen name update its
// color identity but never create a second identity or pool entry. A record
// with neither a basic-land flag nor a recognized rarity stays addressable
// but undraftable.
func Build(records []Record) (*Index, error) {
	if len(records) == 0 {
		return nil, &CatalogError{Index: -1, Reason: "empty catalog"}
	}

	idx := &Index{
		idByName: make(map[string]CardID, len(records)),
		colors:   make(map[CardID][]string, len(records)),
	}

	for i, rec := range records {
		if rec.Name == "" {
			return nil, &CatalogError{Index: i, Reason: "record missing name"}
		}

		id, seen := idx.idByName[rec.Name]
		if !seen {
			id = CardID(len(idx.names))
			idx.idByName[rec.Name] = id
			idx.names = append(idx.names, rec.Name)
		}
		idx.colors[id] = append([]string(nil), rec.ColorIdentity...)

		if seen {
			continue
		}

		// Basic lands never land in their printed rarity class.
		if rec.IsBasicLand {
			idx.pools.BasicLand = append(idx.pools.BasicLand, id)
			continue
		}
		switch strings.ToLower(rec.Rarity) {
		case "common":
			idx.pools.Common = append(idx.pools.Common, id)
		case "uncommon":
			idx.pools.Uncommon = append(idx.pools.Uncommon, id)
		case "rare":
			idx.pools.Rare = append(idx.pools.Rare, id)
		case "mythic":
			idx.pools.Mythic = append(idx.pools.Mythic, id)
		default:
			// Unranked cards are addressable but never drafted.
		}
	}

	return idx, nil
}

// NumCards returns the number of distinct identities in the catalog.
func (idx *Index) NumCards() int { return len(idx.names) }

// IDByName returns the identity assigned to a card name.
func (idx *Index) IDByName(name string) (CardID, bool) {
	id, ok := idx.idByName[name]
	return id, ok
}

// NameByID returns the canonical name for an identity.
func (idx *Index) NameByID(id CardID) (string, bool) {
	if id < 0 || int(id) >= len(idx.names) {
		return "", false
	}
	return idx.names[id], true
}

// Colors returns the color identity for a card, possibly empty.
func (idx *Index) Colors(id CardID) []string { return idx.colors[id] }

// Pools returns the rarity pools. The returned value shares no state the
// caller can use to corrupt the index; pool slices must not be mutated.
func (idx *Index) Pools() Pools { return idx.pools }

// BasicLandIDs maps each color symbol to the basic land with exactly that
// single-color identity. A color with no such land is absent from the map;
// the last matching land in catalog order wins.
func (idx *Index) BasicLandIDs() map[string]CardID {
	lands := make(map[string]CardID)
	for _, id := range idx.pools.BasicLand {
		ci := idx.colors[id]
		if len(ci) != 1 {
			continue
		}
		for _, c := range ColorOrder {
			if ci[0] == c {
				lands[c] = id
				break
			}
		}
	}
	return lands
}

// Names resolves a sequence of identities to card names, skipping identities
// the index does not know.
func (idx *Index) Names(ids []CardID) []string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if name, ok := idx.NameByID(id); ok {
			names = append(names, name)
		}
	}
	return names
}
