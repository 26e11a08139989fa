// Package draft implements the pick-and-pass booster draft simulation:
// pack generation, the multi-seat table state machine, the observation and
// action encoding exposed to a drafting agent, and deck assembly from the
// accumulated picks.
package draft

import (
	"math/rand"

	"github.com/BigFish003/MTGnew/internal/catalog"
)

// NoCard marks an empty pack slot.
const NoCard catalog.CardID = -1

// Pack is a fixed-capacity ordered holder of card identities. Picked slots
// become NoCard; slots never shrink or reorder within a round.
type Pack []catalog.CardID

// OpenSlots returns the indices still holding a card.
func (p Pack) OpenSlots() []int {
	open := make([]int, 0, len(p))
	for i, id := range p {
		if id != NoCard {
			open = append(open, i)
		}
	}
	return open
}

// Count returns how many slots still hold a card.
func (p Pack) Count() int {
	n := 0
	for _, id := range p {
		if id != NoCard {
			n++
		}
	}
	return n
}

// Clone returns an independent copy of the pack.
func (p Pack) Clone() Pack {
	return append(Pack(nil), p...)
}

// Nominal slot counts for a freshly opened pack.
const (
	commonsPerPack   = 10
	uncommonsPerPack = 3
)

// NewPack opens one pack of the given size: one basic land when any exist,
// ten commons and three uncommons sampled without replacement, and one card
// from the rare/mythic union. Pools too small to meet a target contribute
// everything they have instead of failing; leftover slots stay empty. The
// draw order is fully determined by the rng.
func NewPack(pools catalog.Pools, size int, rng *rand.Rand) Pack {
	ids := make([]catalog.CardID, 0, size)

	if len(pools.BasicLand) > 0 {
		ids = append(ids, pools.BasicLand[rng.Intn(len(pools.BasicLand))])
	}
	ids = append(ids, sampleWithoutReplacement(pools.Common, commonsPerPack, rng)...)
	ids = append(ids, sampleWithoutReplacement(pools.Uncommon, uncommonsPerPack, rng)...)
	if union := pools.RareOrMythic(); len(union) > 0 {
		ids = append(ids, union[rng.Intn(len(union))])
	}

	pack := make(Pack, size)
	for i := range pack {
		if i < len(ids) {
			pack[i] = ids[i]
		} else {
			pack[i] = NoCard
		}
	}
	return pack
}

// sampleWithoutReplacement draws n distinct members from the pool, or the
// whole pool when it has fewer than n.
func sampleWithoutReplacement(pool []catalog.CardID, n int, rng *rand.Rand) []catalog.CardID {
	if len(pool) <= n {
		return append([]catalog.CardID(nil), pool...)
	}
	out := make([]catalog.CardID, 0, n)
	for _, i := range rng.Perm(len(pool))[:n] {
		out = append(out, pool[i])
	}
	return out
}
