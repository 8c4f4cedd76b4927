package websocket

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/connectfour-backend/internal/entity"
)

const (
	actionGameState   = "game:state"
	actionGameDrop    = "game:drop"
	actionGameNew     = "game:new"
	actionResetScores = "game:reset-scores"

	actionGameWin  = "game:win"
	actionGameDraw = "game:draw"

	writeTimeout = 10 * time.Second
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type Payload struct {
	Column          *int              `json:"column,omitempty"`
	Game            *entity.GameState `json:"game,omitempty"`
	PlayableColumns []int             `json:"playable_columns,omitempty"`
	Event           *entity.Event     `json:"event,omitempty"`
	Error           string            `json:"error,omitempty"`
}

func gamePayload(game entity.GameState) Payload {
	return Payload{Game: &game, PlayableColumns: game.PlayableColumns()}
}

// connection wraps a socket; gorilla connections allow one concurrent writer only.
type connection struct {
	ws        *websocket.Conn
	sessionID string

	writeMu sync.Mutex
}

func (that *connection) send(action string, payload Payload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	that.writeMu.Lock()
	defer that.writeMu.Unlock()

	if err = that.ws.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return fmt.Errorf("failed to set write deadline: %w", err)
	}

	if err = that.ws.WriteJSON(Message{Action: action, Payload: body}); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}
