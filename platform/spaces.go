package platform

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/hallwaylabs/hallway/space/engine"
)

var (
	ErrSpaceNotFound = errors.New("space not found")
)

// SpaceLoader loads a space's geometry by id.
type SpaceLoader interface {
	Load(ctx context.Context, spaceID string) (*engine.Space, error)
}

// HTTPSpaceLoader fetches space geometry from the platform's map service.
type HTTPSpaceLoader struct {
	baseURL string
	client  *http.Client
}

// NewHTTPSpaceLoader creates a loader talking to the map service at baseURL.
func NewHTTPSpaceLoader(baseURL string) *HTTPSpaceLoader {
	return &HTTPSpaceLoader{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 5 * time.Second},
	}
}

// spaceResponse mirrors the map service's geometry payload. Elements carry
// only what the presence core needs: the cells they block.
type spaceResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Spawn    *engine.Position `json:"spawn,omitempty"`
	Elements []struct {
		X      int  `json:"x"`
		Y      int  `json:"y"`
		Static bool `json:"static"`
	} `json:"elements"`
}

// Load fetches the space and translates its static elements into the
// blocked-cell set. A 404 maps to ErrSpaceNotFound.
func (l *HTTPSpaceLoader) Load(ctx context.Context, spaceID string) (*engine.Space, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		l.baseURL+"/api/v1/spaces/"+url.PathEscape(spaceID), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build space request: %w", err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("map service unreachable: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// fall through to decode
	case http.StatusNotFound:
		return nil, ErrSpaceNotFound
	default:
		return nil, fmt.Errorf("map service returned status %d", resp.StatusCode)
	}

	var payload spaceResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode space response: %w", err)
	}

	space := &engine.Space{
		ID:      spaceID,
		Name:    payload.Name,
		Width:   payload.Width,
		Height:  payload.Height,
		Blocked: make(map[engine.Position]bool),
	}
	for _, element := range payload.Elements {
		if element.Static {
			space.Blocked[engine.Position{X: element.X, Y: element.Y}] = true
		}
	}
	if payload.Spawn != nil {
		space.Spawn = *payload.Spawn
	} else {
		spawn, ok := space.FirstWalkable()
		if !ok {
			return nil, fmt.Errorf("space %s has no walkable cell", spaceID)
		}
		space.Spawn = spawn
	}

	if err := space.Validate(); err != nil {
		return nil, fmt.Errorf("map service returned invalid geometry: %w", err)
	}
	return space, nil
}
