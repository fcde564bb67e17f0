// Command roambot drives one or more simulated users against a running
// presence server. Each bot joins a space and random-walks for the
// configured duration, tracking how many moves the server accepted or
// rejected. It is a smoke and load tool, not a test.
//
// Tokens are taken from -tokens as a comma-separated list; each bot consumes
// one token, so -clients must not exceed the number of tokens supplied.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

type clientEnvelope struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

type serverEnvelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type joinPayload struct {
	SpaceID string `json:"spaceId"`
	Token   string `json:"token"`
}

type movePayload struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type spaceJoinedPayload struct {
	Spawn struct {
		X int `json:"x"`
		Y int `json:"y"`
	} `json:"spawn"`
}

type rejectedPayload struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type errorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type botStats struct {
	accepted int
	rejected int
	errors   int
}

type bot struct {
	conn  *websocket.Conn
	inbox chan serverEnvelope
	done  chan error
	x, y  int
	stats botStats
}

func main() {
	wsURL := flag.String("ws", "ws://localhost:8080/ws", "presence server websocket url")
	spaceID := flag.String("space", "lobby", "space to join")
	tokens := flag.String("tokens", "", "comma-separated auth tokens, one per bot")
	clients := flag.Int("clients", 1, "number of bots")
	duration := flag.Duration("duration", 10*time.Second, "how long each bot walks")
	interval := flag.Duration("interval", 250*time.Millisecond, "delay between moves")
	flag.Parse()

	tokenList := strings.Split(*tokens, ",")
	if *tokens == "" || len(tokenList) < *clients {
		fmt.Fprintf(os.Stderr, "need at least %d tokens, got %d\n", *clients, len(tokenList))
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *duration+15*time.Second)
	defer cancel()

	var wg sync.WaitGroup
	results := make([]botStats, *clients)
	for i := 0; i < *clients; i++ {
		wg.Add(1)
		go func(index int, token string) {
			defer wg.Done()
			stats, err := runBot(ctx, *wsURL, *spaceID, token, *duration, *interval)
			if err != nil {
				fmt.Fprintf(os.Stderr, "bot %d: %v\n", index+1, err)
				return
			}
			results[index] = stats
		}(i, strings.TrimSpace(tokenList[i]))
	}
	wg.Wait()

	var total botStats
	for _, stats := range results {
		total.accepted += stats.accepted
		total.rejected += stats.rejected
		total.errors += stats.errors
	}
	fmt.Printf("roambot: %d bots, %d moves accepted, %d rejected, %d errors\n",
		*clients, total.accepted, total.rejected, total.errors)
	if total.errors > 0 {
		os.Exit(1)
	}
}

func runBot(ctx context.Context, wsURL, spaceID, token string, duration, interval time.Duration) (botStats, error) {
	conn, err := dialWithRetry(ctx, wsURL)
	if err != nil {
		return botStats{}, err
	}
	defer conn.Close()

	b := &bot{
		conn:  conn,
		inbox: make(chan serverEnvelope, 64),
		done:  make(chan error, 1),
	}
	go b.readLoop()

	if err := b.send("join", joinPayload{SpaceID: spaceID, Token: token}); err != nil {
		return botStats{}, err
	}
	if err := b.awaitJoin(ctx); err != nil {
		return botStats{}, err
	}

	deadline := time.After(duration)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

walk:
	for {
		select {
		case <-ticker.C:
			if err := b.step(ctx); err != nil {
				return b.stats, err
			}
		case <-deadline:
			break walk
		case err := <-b.done:
			return b.stats, fmt.Errorf("connection lost: %w", err)
		case <-ctx.Done():
			return b.stats, ctx.Err()
		}
	}

	_ = b.send("leave", nil)
	return b.stats, nil
}

func (b *bot) readLoop() {
	for {
		_, payload, err := b.conn.ReadMessage()
		if err != nil {
			b.done <- err
			close(b.done)
			return
		}
		var envelope serverEnvelope
		if err := json.Unmarshal(payload, &envelope); err != nil {
			continue
		}
		select {
		case b.inbox <- envelope:
		default:
		}
	}
}

func (b *bot) send(typ string, payload any) error {
	return b.conn.WriteJSON(clientEnvelope{Type: typ, Payload: payload})
}

func (b *bot) awaitJoin(ctx context.Context) error {
	for {
		envelope, err := b.next(ctx)
		if err != nil {
			return err
		}
		switch envelope.Type {
		case "space-joined":
			var joined spaceJoinedPayload
			if err := json.Unmarshal(envelope.Payload, &joined); err != nil {
				return fmt.Errorf("bad space-joined payload: %w", err)
			}
			b.x, b.y = joined.Spawn.X, joined.Spawn.Y
			return nil
		case "error":
			var fail errorPayload
			_ = json.Unmarshal(envelope.Payload, &fail)
			return fmt.Errorf("join rejected: %s: %s", fail.Code, fail.Message)
		}
	}
}

// step issues one random orthogonal move and checks the server's verdict.
// Accepted moves produce no echo to the mover, so silence within the grace
// window means the move committed; a movement-rejected resets the tracked
// position to the server's authoritative one.
func (b *bot) step(ctx context.Context) error {
	deltas := [4][2]int{{0, -1}, {0, 1}, {-1, 0}, {1, 0}}
	delta := deltas[rand.IntN(len(deltas))]
	targetX, targetY := b.x+delta[0], b.y+delta[1]

	if err := b.send("move", movePayload{X: targetX, Y: targetY}); err != nil {
		return err
	}

	grace := time.After(100 * time.Millisecond)
	for {
		select {
		case envelope := <-b.inbox:
			switch envelope.Type {
			case "movement-rejected":
				var rejected rejectedPayload
				if err := json.Unmarshal(envelope.Payload, &rejected); err != nil {
					continue
				}
				b.x, b.y = rejected.X, rejected.Y
				b.stats.rejected++
				return nil
			case "error":
				b.stats.errors++
				return nil
			}
		case <-grace:
			b.x, b.y = targetX, targetY
			b.stats.accepted++
			return nil
		case err := <-b.done:
			if err != nil {
				return err
			}
			return fmt.Errorf("connection closed")
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (b *bot) next(ctx context.Context) (serverEnvelope, error) {
	select {
	case envelope := <-b.inbox:
		return envelope, nil
	case err := <-b.done:
		if err != nil {
			return serverEnvelope{}, err
		}
		return serverEnvelope{}, fmt.Errorf("connection closed")
	case <-ctx.Done():
		return serverEnvelope{}, ctx.Err()
	}
}

func dialWithRetry(ctx context.Context, wsURL string) (*websocket.Conn, error) {
	if !strings.HasPrefix(wsURL, "ws://") && !strings.HasPrefix(wsURL, "wss://") {
		return nil, fmt.Errorf("invalid ws url: %s", wsURL)
	}
	var lastErr error
	for attempt := 0; attempt < 10; attempt++ {
		conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
		if err == nil {
			return conn, nil
		}
		lastErr = err
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(200 * time.Millisecond):
		}
	}
	return nil, lastErr
}
