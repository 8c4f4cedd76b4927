package connectfour

import (
	"errors"
	"fmt"

	"github.com/rocketscienceinc/connectfour-backend/internal/apperror"
	"github.com/rocketscienceinc/connectfour-backend/internal/entity"
)

// NewSession - returns the initial state of a session.
func NewSession() entity.GameState {
	return entity.NewGameState()
}

// ApplyDrop - drops a piece of the current player into the column and resolves the outcome.
// On any error the input state is returned unchanged.
func ApplyDrop(state entity.GameState, column int) (entity.GameState, error) {
	if state.Outcome.IsOver() {
		return state, apperror.ErrGameAlreadyOver
	}

	board, _, err := state.Board.Drop(column, state.CurrentPlayer)
	if err != nil {
		return state, fmt.Errorf("invalid drop: %w", err)
	}

	next := state
	next.Board = board
	updateOutcome(&next)

	return next, nil
}

// updateOutcome - checks the board after a drop and either ends the game or passes the turn.
func updateOutcome(state *entity.GameState) {
	if line, ok := FindWin(state.Board); ok {
		state.Outcome = entity.Won(state.CurrentPlayer, line)
		state.Scores = state.Scores.Increment(state.CurrentPlayer)
		return
	}

	if IsFull(state.Board) {
		state.Outcome = entity.Draw()
		return
	}

	state.CurrentPlayer = state.CurrentPlayer.Opponent()
}

// IsRuleViolation - true for errors caused by an illegal move rather than by storage or corrupt state.
func IsRuleViolation(err error) bool {
	return errors.Is(err, entity.ErrOutOfRange) ||
		errors.Is(err, entity.ErrColumnFull) ||
		errors.Is(err, apperror.ErrGameAlreadyOver)
}

// NewGame - clears the board and keeps the scores.
func NewGame(state entity.GameState) entity.GameState {
	next := entity.NewGameState()
	next.Scores = state.Scores

	return next
}

// ResetScores - clears the board and both score counters.
func ResetScores(_ entity.GameState) entity.GameState {
	return entity.NewGameState()
}
