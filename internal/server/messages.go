package server

import "time"

// MessageType tags a websocket draft message.
type MessageType string

const (
	// client -> server
	NewDraft   MessageType = "new_draft"   // start or restart a draft, data: SeedPayload
	ChooseCard MessageType = "choose_card" // submit a pick, data: ChoosePayload

	// server -> client
	RoundContent MessageType = "round_content" // current pack after a turn
	PoolContent  MessageType = "pool_content"  // accumulated picks
	InvalidPick  MessageType = "invalid_pick"  // rejected action, state unchanged
	DraftEnd     MessageType = "draft_end"     // terminal table and built deck
	ErrorContent MessageType = "error"
)

// Message is the websocket envelope. Data carries the payload encoded as a
// JSON string.
type Message struct {
	Type MessageType `json:"type"`
	Data string      `json:"data"`
}

// SeedPayload seeds a new draft.
type SeedPayload struct {
	Seed int64 `json:"seed"`
}

// ChoosePayload submits the controlled seat's pick.
type ChoosePayload struct {
	Slot int `json:"slot"`
}

// RoundPayload describes the controlled seat's view after a turn.
type RoundPayload struct {
	Round int      `json:"round"`
	Pick  int      `json:"pick"`
	Pack  []string `json:"pack"` // empty string for an empty slot
	Mask  []bool   `json:"mask"`
}

// PoolPayload carries the pick history as card names.
type PoolPayload struct {
	Picks []string `json:"picks"`
}

// DeckPayload carries the assembled deck once the draft completes.
type DeckPayload struct {
	Deck []string `json:"deck"`
}

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second
	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second
	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 512

	channelBufSize = 100
)
