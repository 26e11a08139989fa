package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/BigFish003/MTGnew/internal"
)

// wsClient pumps draft messages between one websocket peer and its session.
type wsClient struct {
	session *Session
	server  *Server
	ws      *websocket.Conn
	ch      chan *Message
	doneCh  chan bool
}

func newWsClient(server *Server, session *Session, ws *websocket.Conn) *wsClient {
	return &wsClient{
		session: session,
		server:  server,
		ws:      ws,
		ch:      make(chan *Message, channelBufSize),
		doneCh:  make(chan bool),
	}
}

// serveWs upgrades the connection and binds it to a draft session. A valid
// session cookie resumes the existing draft; otherwise a fresh session is
// created and its id issued in the handshake cookie.
func (s *Server) serveWs(w http.ResponseWriter, r *http.Request) {
	logger := internal.GetLogger()

	var session *Session
	if id, ok := sessionFromCookie(r); ok {
		session, _ = s.manager.Get(id)
	}
	if session == nil {
		var err error
		session, err = s.manager.Create(time.Now().UnixNano())
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}
	ws, err := upgrader.Upgrade(w, r, sessionCookieHeader(session.ID))
	if err != nil {
		logger.Errorw("websocket upgrade failed", "error", err)
		return
	}

	client := newWsClient(s, session, ws)
	logger.Infow("draft client connected", "session", session.ID)
	client.write(&Message{Type: RoundContent, Data: encodePayload(session.View())})
	client.listen()
}

func (c *wsClient) write(msg *Message) {
	select {
	case c.ch <- msg:
	default:
		c.done()
	}
}

func (c *wsClient) done() {
	select {
	case c.doneCh <- true:
	default:
	}
}

func (c *wsClient) listen() {
	go c.listenWrite()
	c.listenRead()
}

func (c *wsClient) listenRead() {
	logger := internal.GetLogger()
	c.ws.SetReadLimit(maxMessageSize)
	c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		c.ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		select {
		case <-c.doneCh:
			logger.Debugw("client done reading", "session", c.session.ID)
			return
		default:
			var msg Message
			_, raw, err := c.ws.ReadMessage()
			if err != nil {
				if !websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					logger.Debugw("websocket read failed", "session", c.session.ID, "error", err)
				}
				c.done()
				return
			}
			if err := json.Unmarshal(raw, &msg); err != nil {
				c.write(&Message{Type: ErrorContent, Data: err.Error()})
				continue
			}
			c.handle(&msg)
		}
	}
}

func (c *wsClient) listenWrite() {
	logger := internal.GetLogger()
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.ws.Close()
	}()
	for {
		select {
		case msg := <-c.ch:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteJSON(msg); err != nil {
				logger.Debugw("websocket write failed", "session", c.session.ID, "error", err)
				c.done()
				return
			}
		case <-c.doneCh:
			logger.Debugw("client done writing", "session", c.session.ID)
			return
		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.done()
				return
			}
		}
	}
}

func (c *wsClient) handle(msg *Message) {
	switch msg.Type {
	case NewDraft:
		var payload SeedPayload
		if msg.Data != "" {
			if err := json.Unmarshal([]byte(msg.Data), &payload); err != nil {
				c.write(&Message{Type: ErrorContent, Data: err.Error()})
				return
			}
		} else {
			payload.Seed = time.Now().UnixNano()
		}
		c.session.Reset(payload.Seed)
		c.write(&Message{Type: RoundContent, Data: encodePayload(c.session.View())})

	case ChooseCard:
		var payload ChoosePayload
		if err := json.Unmarshal([]byte(msg.Data), &payload); err != nil {
			c.write(&Message{Type: ErrorContent, Data: err.Error()})
			return
		}
		_, outcome := c.session.Step(payload.Slot)
		if !outcome.Accepted {
			c.write(&Message{Type: InvalidPick, Data: encodePayload(c.session.View())})
			return
		}
		c.write(&Message{Type: PoolContent, Data: encodePayload(PoolPayload{
			Picks: c.server.index.Names(c.session.Pool()),
		})})
		if outcome.Terminal {
			deck := c.server.index.Names(c.session.BuildDeck())
			c.write(&Message{Type: DraftEnd, Data: encodePayload(DeckPayload{Deck: deck})})
			return
		}
		c.write(&Message{Type: RoundContent, Data: encodePayload(c.session.View())})

	default:
		c.write(&Message{Type: ErrorContent, Data: "unsupported message type"})
	}
}

func encodePayload(v interface{}) string {
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(data)
}
