package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/hallwaylabs/hallway/platform"
	"github.com/hallwaylabs/hallway/space/engine"
	"github.com/hallwaylabs/hallway/space/room"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 1024

	// Outbound queue depth per connection.
	sendQueueSize = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins; the platform's edge proxy enforces origin policy.
		return true
	},
}

// Gateway terminates WebSocket connections and routes protocol messages to
// the room registry.
type Gateway struct {
	registry *room.Registry
	verifier platform.TokenVerifier
	hub      *Hub
	log      *zap.SugaredLogger
}

// NewGateway creates a gateway over the given registry, verifier, and hub.
func NewGateway(registry *room.Registry, verifier platform.TokenVerifier, hub *Hub, logger *zap.SugaredLogger) *Gateway {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Gateway{
		registry: registry,
		verifier: verifier,
		hub:      hub,
		log:      logger,
	}
}

// ServeWS upgrades the request and starts the connection's pumps.
func (g *Gateway) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.log.Warnw("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	client := &Client{
		id:      uuid.NewString(),
		gateway: g,
		hub:     g.hub,
		conn:    conn,
		send:    make(chan []byte, sendQueueSize),
		done:    make(chan struct{}),
	}
	g.hub.register(client)

	go client.writePump()
	go client.readPump()
}

// Client is one live connection plus its session state. The session fields
// are owned by the read pump: handlers run on that goroutine only, so a
// connection's messages are processed strictly in arrival order.
type Client struct {
	id      string
	gateway *Gateway
	hub     *Hub
	conn    *websocket.Conn
	send    chan []byte
	done    chan struct{}

	// teardown latch: leave cleanup runs exactly once per connection,
	// whether triggered by an explicit leave or by transport close.
	closeOnce sync.Once

	userID  string
	spaceID string
	joined  bool
}

// ID returns the connection's identifier.
func (c *Client) ID() string {
	return c.id
}

// enqueue offers data to the write pump without blocking. It reports false
// when the connection is closing or its queue is full.
func (c *Client) enqueue(data []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.send <- data:
		return true
	case <-c.done:
		return false
	default:
		return false
	}
}

// teardown runs the connection's exactly-once cleanup: remove the occupant
// if joined, announce the departure, and retire the connection. Idempotent
// via the closeOnce latch.
func (c *Client) teardown() {
	c.closeOnce.Do(func() {
		if c.joined {
			departure, err := c.gateway.registry.Leave(c.spaceID, c.id)
			if err == nil {
				c.hub.BroadcastEvent(departure.RemainingConnIDs, UserLeftEvent(departure.UserID), "")
			} else if !errors.Is(err, room.ErrNotInRoom) {
				c.gateway.log.Errorw("leave cleanup failed", "conn", c.id, "space", c.spaceID, "error", err)
			}
			c.joined = false
		}
		c.hub.unregister(c)
		close(c.done)
		c.conn.Close()
	})
}

// readPump reads protocol messages and dispatches handlers until the
// connection dies. It owns the session state.
func (c *Client) readPump() {
	defer c.teardown()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.gateway.log.Warnw("websocket read error", "conn", c.id, "error", err)
			}
			return
		}

		var envelope Envelope
		if err := json.Unmarshal(data, &envelope); err != nil {
			c.hub.SendEvent(c.id, ErrorEvent(CodeValidationError, "malformed message"))
			continue
		}

		switch envelope.Type {
		case TypeJoin:
			c.handleJoin(envelope.Payload)
		case TypeMove:
			c.handleMove(envelope.Payload)
		case TypeLeave:
			// Explicit leave shares the disconnect cleanup path.
			return
		default:
			c.hub.SendEvent(c.id, ErrorEvent(CodeValidationError, "unknown message type"))
		}
	}
}

// handleJoin authenticates the token, resolves the room, and inserts the
// occupant. On any failure the connection stays un-joined and only it hears
// about the error.
func (c *Client) handleJoin(payload []byte) {
	if c.joined {
		c.hub.SendEvent(c.id, ErrorEvent(CodeValidationError, "already joined a space"))
		return
	}

	var join JoinPayload
	if err := json.Unmarshal(payload, &join); err != nil || join.SpaceID == "" || join.Token == "" {
		c.hub.SendEvent(c.id, ErrorEvent(CodeValidationError, "join requires spaceId and token"))
		return
	}

	userID, err := c.gateway.verifier.Verify(context.Background(), join.Token)
	if err != nil {
		if errors.Is(err, platform.ErrInvalidToken) {
			c.hub.SendEvent(c.id, ErrorEvent(CodeAuthError, "invalid token"))
		} else {
			c.gateway.log.Errorw("token verification failed", "conn", c.id, "error", err)
			c.hub.SendEvent(c.id, ErrorEvent(CodeInternalError, "authentication unavailable"))
		}
		return
	}

	result, err := c.gateway.registry.Join(context.Background(), join.SpaceID, userID, c.id)
	if err != nil {
		if errors.Is(err, platform.ErrSpaceNotFound) {
			c.hub.SendEvent(c.id, ErrorEvent(CodeNotFound, "space not found"))
		} else {
			c.gateway.log.Errorw("join failed", "conn", c.id, "space", join.SpaceID, "error", err)
			c.hub.SendEvent(c.id, ErrorEvent(CodeInternalError, "could not join space"))
		}
		return
	}

	c.userID = userID
	c.spaceID = join.SpaceID
	c.joined = true

	// A prior connection of the same user was replaced: the room already
	// dropped its occupant, tell it and the rest of the room.
	if result.Evicted {
		c.hub.SendEvent(result.EvictedConnID, ErrorEvent(CodeSessionReplaced, "joined from another connection"))
		c.hub.BroadcastEvent(result.OtherConnIDs, UserLeftEvent(userID), "")
	}

	c.hub.SendEvent(c.id, SpaceJoinedEvent(result.Spawn, result.Others))
	c.hub.BroadcastEvent(result.OtherConnIDs, UserJoinedEvent(userID, result.Spawn), "")
}

// handleMove validates the requested cell against the room. Accepted moves
// are announced to the rest of the room; rejections go to the sender alone,
// carrying its authoritative position.
func (c *Client) handleMove(payload []byte) {
	if !c.joined {
		c.hub.SendEvent(c.id, ErrorEvent(CodeValidationError, "join a space before moving"))
		return
	}

	var move MovePayload
	if err := json.Unmarshal(payload, &move); err != nil || move.X == nil || move.Y == nil {
		c.hub.SendEvent(c.id, ErrorEvent(CodeValidationError, "move requires x and y"))
		return
	}

	requested := engine.Position{X: *move.X, Y: *move.Y}
	outcome, err := c.gateway.registry.Move(c.spaceID, c.id, requested)
	if err != nil {
		c.hub.SendEvent(c.id, ErrorEvent(CodeValidationError, "not in a space"))
		return
	}

	if outcome.Result.Accepted {
		c.hub.BroadcastEvent(outcome.OtherConnIDs, MovementEvent(outcome.UserID, outcome.Result.Position), "")
		return
	}
	c.hub.SendEvent(c.id, MovementRejectedEvent(outcome.Result.Position))
}

// writePump drains the send queue to the socket and keeps the connection
// alive with pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
