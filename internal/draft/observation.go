package draft

import "github.com/BigFish003/MTGnew/internal/catalog"

// Observation is the fixed-shape one-hot view of the controlled seat's draft:
// one row per possible pick followed by one row per current-pack slot, with a
// column per catalog identity. Unused rows are all zero.
type Observation struct {
	Rows int
	Cols int
	data []float32
}

func newObservation(rows, cols int) *Observation {
	return &Observation{Rows: rows, Cols: cols, data: make([]float32, rows*cols)}
}

// At returns the value at row r, column c.
func (o *Observation) At(r, c int) float32 {
	return o.data[r*o.Cols+c]
}

func (o *Observation) set(r, c int) {
	o.data[r*o.Cols+c] = 1
}

// Row returns row r as a slice backed by the observation.
func (o *Observation) Row(r int) []float32 {
	return o.data[r*o.Cols : (r+1)*o.Cols]
}

// Data returns the row-major backing slice.
func (o *Observation) Data() []float32 { return o.data }

// Encode builds the observation for a pick history and current pack. The
// shape is (capacity+packSize, numCards) regardless of how far the draft has
// progressed; a nil pack (terminal table) leaves the trailing block zero.
func Encode(history []catalog.CardID, pack Pack, capacity, packSize, numCards int) *Observation {
	obs := newObservation(capacity+packSize, numCards)
	for i, id := range history {
		if i >= capacity {
			break
		}
		obs.set(i, int(id))
	}
	for slot, id := range pack {
		if id != NoCard && slot < packSize {
			obs.set(capacity+slot, int(id))
		}
	}
	return obs
}

// Observation encodes the table's current state for a catalog of numCards
// identities. It never mutates the table.
func (t *Table) Observation(numCards int) *Observation {
	return Encode(t.picks, t.CurrentPack(), t.PickCapacity(), t.cfg.PackSize, numCards)
}

// Mask reports which slots of the current pack hold a card, and is all false
// once the table is terminal. It never mutates the table.
func (t *Table) Mask() []bool {
	mask := make([]bool, t.cfg.PackSize)
	if t.done {
		return mask
	}
	for i, id := range t.packAt(0) {
		mask[i] = id != NoCard
	}
	return mask
}
