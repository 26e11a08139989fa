package draft

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// firstOpen returns the lowest slot still holding a card, or -1.
func firstOpen(mask []bool) int {
	for i, ok := range mask {
		if ok {
			return i
		}
	}
	return -1
}

func newTestTable(t *testing.T, seed int64) *Table {
	t.Helper()
	tbl := NewTable(DefaultConfig(), testPools(), nil)
	tbl.Reset(seed)
	return tbl
}

func TestFullDraftRunsToTerminal(t *testing.T) {
	tbl := newTestTable(t, 42)
	capacity := tbl.PickCapacity()
	require.Equal(t, 45, capacity)

	for i := 0; i < capacity; i++ {
		slot := firstOpen(tbl.Mask())
		require.GreaterOrEqual(t, slot, 0, "turn %d: no open slot", i)

		out := tbl.Apply(slot)
		require.True(t, out.Accepted, "turn %d rejected", i)
		assert.Equal(t, i == capacity-1, out.Terminal, "turn %d", i)
	}

	assert.True(t, tbl.Terminal())
	assert.Len(t, tbl.Picks(), capacity)
	assert.Nil(t, tbl.CurrentPack())
}

func TestTerminalTableRejectsFurtherActions(t *testing.T) {
	tbl := newTestTable(t, 42)
	for !tbl.Terminal() {
		tbl.Apply(firstOpen(tbl.Mask()))
	}
	history := tbl.Picks()

	out := tbl.Apply(0)
	assert.False(t, out.Accepted)
	assert.True(t, out.Terminal)
	assert.Equal(t, history, tbl.Picks(), "rejected action must not touch history")
}

func TestInvalidSlotRejectedWithoutAdvancing(t *testing.T) {
	tbl := newTestTable(t, 7)

	for _, slot := range []int{-1, 15, 100} {
		out := tbl.Apply(slot)
		assert.False(t, out.Accepted, "slot %d", slot)
		assert.False(t, out.Terminal, "slot %d", slot)
	}

	// Empty a slot, then target it again.
	require.True(t, tbl.Apply(0).Accepted)
	for tbl.Mask()[0] {
		require.True(t, tbl.Apply(0).Accepted)
	}
	pick := tbl.Pick()
	out := tbl.Apply(0)
	assert.False(t, out.Accepted)
	assert.Equal(t, pick, tbl.Pick(), "rejected pick must not advance the turn")
	assert.Equal(t, 0, tbl.Round())
}

func TestSameSeedSameActionsReproduces(t *testing.T) {
	a := newTestTable(t, 1234)
	b := newTestTable(t, 1234)

	for !a.Terminal() {
		slot := firstOpen(a.Mask())
		require.Equal(t, a.Mask(), b.Mask())
		require.Equal(t, a.Observation(testNumCards).Data(), b.Observation(testNumCards).Data())
		require.Equal(t, a.Apply(slot), b.Apply(slot))
	}
	assert.True(t, b.Terminal())
	assert.Equal(t, a.Picks(), b.Picks())
}

func TestResetClearsHistoryAndRegeneratesPacks(t *testing.T) {
	tbl := newTestTable(t, 5)
	firstPack := tbl.CurrentPack()
	tbl.Apply(firstOpen(tbl.Mask()))
	tbl.Apply(firstOpen(tbl.Mask()))

	tbl.Reset(5)
	assert.Empty(t, tbl.Picks())
	assert.Zero(t, tbl.Round())
	assert.Zero(t, tbl.Pick())
	assert.False(t, tbl.Terminal())
	assert.Equal(t, firstPack, tbl.CurrentPack(), "same seed reopens the same packs")

	tbl.Reset(6)
	assert.NotEqual(t, firstPack, tbl.CurrentPack(), "a different seed deals different packs")
}

func TestEverySeatRemovesOneCardPerTurn(t *testing.T) {
	tbl := newTestTable(t, 11)
	cfg := tbl.Config()
	full := cfg.Seats * cfg.PackSize
	require.Equal(t, full, tbl.roundPackCount(0))

	for k := 1; k <= cfg.PackSize; k++ {
		require.True(t, tbl.Apply(firstOpen(tbl.Mask())).Accepted)
		assert.Equal(t, full-cfg.Seats*k, tbl.roundPackCount(0), "after %d picks", k)
	}

	// The round boundary crossed: a fresh set of full packs is in play.
	assert.Equal(t, 1, tbl.Round())
	assert.Equal(t, full, tbl.roundPackCount(1))
}

func TestPacksRotateOneSeatPerTurn(t *testing.T) {
	// With a policy that never picks, only the controlled seat removes
	// cards, so its own earlier pack comes back around after a full lap.
	sit := func(Pack, *rand.Rand) int { return -1 }
	tbl := NewTable(DefaultConfig(), testPools(), sit)
	tbl.Reset(21)

	require.True(t, tbl.Apply(firstOpen(tbl.Mask())).Accepted)
	for turn := 1; turn < 8; turn++ {
		assert.Equal(t, 15, tbl.CurrentPack().Count(), "turn %d should see an untouched pack", turn)
		require.True(t, tbl.Apply(firstOpen(tbl.Mask())).Accepted)
	}
	assert.Equal(t, 14, tbl.CurrentPack().Count(), "after a full lap the first pack returns short one card")
}

func TestPolicyReceivesACopy(t *testing.T) {
	vandal := func(p Pack, _ *rand.Rand) int {
		for i := range p {
			p[i] = NoCard
		}
		return -1
	}
	tbl := NewTable(DefaultConfig(), testPools(), vandal)
	tbl.Reset(3)

	tbl.Apply(firstOpen(tbl.Mask()))
	assert.Equal(t, DefaultConfig().Seats*15-1, tbl.roundPackCount(0),
		"mutating the policy's pack copy must not touch table state")
}
