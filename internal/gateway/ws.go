package gateway

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vovakirdan/neonride/internal/env"
)

// Websocket heartbeat settings.
const (
	pingInterval = 10 * time.Second
	pongWait     = 60 * time.Second
	writeWait    = 10 * time.Second
	sendBuffer   = 64
)

// wsClient is one websocket connection driving a private session.
type wsClient struct {
	conn    *websocket.Conn
	session *Session
	send    chan ServerMessage
	done    chan struct{}
	server  *Server
}

func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	seed, err := parseSeed(r.URL.Query().Get("seed"))
	if err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid seed")
		return
	}
	sess, err := s.sessions.open(r.URL.Query().Get("profile"), seed)
	if err != nil {
		s.writeError(w, err)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already answered the request
		s.log.Warn("websocket upgrade failed", "error", err)
		return
	}
	s.log.Info("websocket connected", "session", sess.ID, "profile", sess.Profile, "remote", r.RemoteAddr)

	c := &wsClient{
		conn:    conn,
		session: sess,
		send:    make(chan ServerMessage, sendBuffer),
		done:    make(chan struct{}),
		server:  s,
	}
	c.send <- ServerMessage{
		Type:        MsgReady,
		Session:     sess.ID.String(),
		Profile:     string(sess.Profile),
		Observation: sess.Observation().Slice(),
	}

	go c.writePump()
	c.readPump()
}

// readPump processes client messages until the connection drops.
func (c *wsClient) readPump() {
	defer func() {
		close(c.done)
		c.conn.Close()
		c.server.log.Info("websocket closed", "session", c.session.ID)
	}()

	c.conn.SetReadLimit(maxBodyBytes)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.server.log.Warn("websocket read error", "session", c.session.ID, "error", err)
			}
			return
		}

		reply := c.handle(data)
		select {
		case c.send <- reply:
		case <-time.After(writeWait):
			c.server.log.Warn("websocket client too slow", "session", c.session.ID)
			return
		}
	}
}

// handle turns one client message into a reply.
func (c *wsClient) handle(data []byte) ServerMessage {
	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return ServerMessage{Type: MsgError, Error: "invalid json"}
	}

	switch msg.Type {
	case MsgReset:
		return ServerMessage{Type: MsgObservation, Observation: c.session.Reset(msg.Seed).Slice()}
	case MsgStep:
		if msg.Action == nil {
			return ServerMessage{Type: MsgError, Error: "action is required"}
		}
		res, ticks := c.session.Step(env.Action(*msg.Action))
		return ServerMessage{
			Type:        MsgObservation,
			Observation: res.Observation.Slice(),
			Reward:      res.Reward,
			Done:        res.Done,
			Score:       res.Score,
			Passed:      res.Passed,
			Ticks:       ticks,
		}
	default:
		return ServerMessage{Type: MsgError, Error: "unknown message type " + msg.Type}
	}
}

// writePump serializes replies and heartbeats onto the connection.
func (c *wsClient) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait))
			return
		}
	}
}
