package draft

import (
	"math/rand"

	"github.com/BigFish003/MTGnew/internal/catalog"
)

// Config fixes the shape of one draft table.
type Config struct {
	Seats    int // participants at the table; seat 0 is controlled
	Rounds   int // packs opened per seat
	PackSize int // slots per pack, also picks per round
}

// DefaultConfig is the standard 8-seat, 3-round, 15-card booster draft.
func DefaultConfig() Config {
	return Config{Seats: 8, Rounds: 3, PackSize: 15}
}

// SeatPolicy chooses a slot from a pack for a non-controlled seat. The pack
// passed in is a copy; the table applies the removal itself. Returning an
// index outside the pack's open slots forfeits that seat's pick for the turn.
type SeatPolicy func(p Pack, rng *rand.Rand) int

// RandomSeatPolicy picks uniformly among the non-empty slots.
func RandomSeatPolicy(p Pack, rng *rand.Rand) int {
	open := p.OpenSlots()
	if len(open) == 0 {
		return -1
	}
	return open[rng.Intn(len(open))]
}

// Outcome reports how the table reacted to a submitted action.
type Outcome struct {
	Accepted bool
	Terminal bool
}

// Table owns the full multi-round pick-and-pass protocol for one draft.
// It is not safe for concurrent use; each draft instance is independent.
type Table struct {
	cfg    Config
	pools  catalog.Pools
	policy SeatPolicy

	rng    *rand.Rand
	rounds [][]Pack // rounds[round][packIndex], fixed per Reset
	holder []int    // seat -> index of the pack in its hand
	round  int
	pick   int
	done   bool
	picks  []catalog.CardID // controlled seat's history
}

// NewTable creates a table over the given rarity pools. A nil policy means
// the other seats pick uniformly at random. Reset must be called before the
// first action.
func NewTable(cfg Config, pools catalog.Pools, policy SeatPolicy) *Table {
	if policy == nil {
		policy = RandomSeatPolicy
	}
	return &Table{cfg: cfg, pools: pools, policy: policy}
}

// Reset (re)starts the draft from turn zero: all round packs are regenerated
// from the seed, each seat holds its same-index pack, and the pick history is
// cleared. The same seed reproduces the same packs and, given the same
// submitted actions, the same other-seat picks.
func (t *Table) Reset(seed int64) {
	t.rng = rand.New(rand.NewSource(seed))
	t.round = 0
	t.pick = 0
	t.done = false
	t.picks = nil

	t.rounds = make([][]Pack, t.cfg.Rounds)
	for r := range t.rounds {
		packs := make([]Pack, t.cfg.Seats)
		for s := range packs {
			packs[s] = NewPack(t.pools, t.cfg.PackSize, t.rng)
		}
		t.rounds[r] = packs
	}

	t.holder = make([]int, t.cfg.Seats)
	for s := range t.holder {
		t.holder[s] = s
	}
}

// Apply submits the controlled seat's pick for the current turn. An
// out-of-range or empty slot is rejected without advancing any state. On an
// accepted pick the other seats each remove one card from their own pack,
// every pack passes one seat to the right, and the turn counters advance.
// Once all rounds complete the table is terminal and rejects further actions.
func (t *Table) Apply(slot int) Outcome {
	if t.done {
		return Outcome{Accepted: false, Terminal: true}
	}

	pack := t.packAt(0)
	if slot < 0 || slot >= t.cfg.PackSize || pack[slot] == NoCard {
		return Outcome{Accepted: false, Terminal: false}
	}

	// Controlled seat resolves first so its choice is independent of the
	// other seats' random picks this turn.
	t.picks = append(t.picks, pack[slot])
	pack[slot] = NoCard

	for seat := 1; seat < t.cfg.Seats; seat++ {
		p := t.packAt(seat)
		choice := t.policy(p.Clone(), t.rng)
		if choice >= 0 && choice < len(p) && p[choice] != NoCard {
			p[choice] = NoCard
		}
	}

	t.passRight()

	t.pick++
	if t.pick >= t.cfg.PackSize {
		t.round++
		t.pick = 0
		if t.round < t.cfg.Rounds {
			// Fresh packs: hand assignment restarts at identity.
			for s := range t.holder {
				t.holder[s] = s
			}
		}
	}
	if t.round >= t.cfg.Rounds {
		t.done = true
		return Outcome{Accepted: true, Terminal: true}
	}
	return Outcome{Accepted: true, Terminal: false}
}

// passRight applies the once-per-turn hand permutation: the pack held by
// seat i moves to seat (i+1) mod seats. Pack identity never changes, only
// who holds it.
func (t *Table) passRight() {
	next := make([]int, t.cfg.Seats)
	for seat, packIdx := range t.holder {
		next[(seat+1)%t.cfg.Seats] = packIdx
	}
	t.holder = next
}

func (t *Table) packAt(seat int) Pack {
	return t.rounds[t.round][t.holder[seat]]
}

// Terminal reports whether all rounds have completed.
func (t *Table) Terminal() bool { return t.done }

// Round returns the 0-based index of the round in progress.
func (t *Table) Round() int { return t.round }

// Pick returns the 0-based index of the pick within the round.
func (t *Table) Pick() int { return t.pick }

// Config returns the table's fixed shape.
func (t *Table) Config() Config { return t.cfg }

// CurrentPack returns a copy of the pack in the controlled seat's hand, or
// nil once the table is terminal.
func (t *Table) CurrentPack() Pack {
	if t.done {
		return nil
	}
	return t.packAt(0).Clone()
}

// Picks returns a copy of the controlled seat's pick history in pick order.
func (t *Table) Picks() []catalog.CardID {
	return append([]catalog.CardID(nil), t.picks...)
}

// PickCapacity is the total number of picks the controlled seat makes over a
// full draft.
func (t *Table) PickCapacity() int { return t.cfg.Rounds * t.cfg.PackSize }

// roundPackCount reports how many cards remain across all packs of the given
// round.
func (t *Table) roundPackCount(round int) int {
	n := 0
	for _, p := range t.rounds[round] {
		n += p.Count()
	}
	return n
}
