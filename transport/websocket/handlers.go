package websocket

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rocketscienceinc/connectfour-backend/internal/connectfour"
	"github.com/rocketscienceinc/connectfour-backend/internal/entity"
)

const (
	errColumnRequired = "column is required"
	errInternal       = "internal error"
)

func (that *Server) handleGameState(ctx context.Context, conn *connection, msg *Message) error {
	game, err := that.gameManager.CurrentState(ctx, conn.sessionID)
	if err != nil {
		return that.sendErrorResponse(conn, msg.Action, fmt.Errorf("failed to get game state: %w", err))
	}

	return conn.send(msg.Action, gamePayload(game))
}

func (that *Server) handleGameDrop(ctx context.Context, conn *connection, msg *Message) error {
	log := that.logger.With("method", "handleGameDrop", "session", conn.sessionID)

	var payloadReq Payload
	if len(msg.Payload) > 0 {
		if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
			log.Debug("malformed drop payload", "error", err)
			return conn.send(msg.Action, Payload{Error: errColumnRequired})
		}
	}

	if payloadReq.Column == nil {
		log.Debug("column is missing in payload")
		return conn.send(msg.Action, Payload{Error: errColumnRequired})
	}

	game, err := that.gameManager.ApplyDrop(ctx, conn.sessionID, *payloadReq.Column)
	if err != nil {
		if !connectfour.IsRuleViolation(err) {
			return that.sendErrorResponse(conn, msg.Action, err)
		}

		log.Debug("drop rejected", "column", *payloadReq.Column, "error", err)

		reply := gamePayload(game)
		reply.Error = err.Error()

		return conn.send(msg.Action, reply)
	}

	that.broadcast(conn.sessionID, msg.Action, gamePayload(game))

	if event, ok := game.Event(); ok {
		action := actionGameDraw
		if event.Type == entity.EventWin {
			action = actionGameWin
		}

		that.broadcast(conn.sessionID, action, Payload{Event: &event})
	}

	return nil
}

func (that *Server) handleNewGame(ctx context.Context, conn *connection, msg *Message) error {
	game, err := that.gameManager.NewGame(ctx, conn.sessionID)
	if err != nil {
		return that.sendErrorResponse(conn, msg.Action, fmt.Errorf("failed to start new game: %w", err))
	}

	that.broadcast(conn.sessionID, msg.Action, gamePayload(game))

	return nil
}

func (that *Server) handleResetScores(ctx context.Context, conn *connection, msg *Message) error {
	game, err := that.gameManager.ResetScores(ctx, conn.sessionID)
	if err != nil {
		return that.sendErrorResponse(conn, msg.Action, fmt.Errorf("failed to reset scores: %w", err))
	}

	that.broadcast(conn.sessionID, msg.Action, gamePayload(game))

	return nil
}

// sendErrorResponse - tells the client the action failed and returns the cause for logging.
func (that *Server) sendErrorResponse(conn *connection, action string, cause error) error {
	if err := conn.send(action, Payload{Error: errInternal}); err != nil {
		return fmt.Errorf("failed to send error response: %w", err)
	}

	return cause
}
