package entity

import (
	"encoding/json"
	"errors"
	"fmt"
)

var ErrInvalidState = errors.New("invalid game state")

const (
	EventWin  = "win"
	EventDraw = "draw"
)

// ScorePair is the session-wide win tally. It survives new games and only grows.
type ScorePair struct {
	One int `json:"one"`
	Two int `json:"two"`
}

func (that ScorePair) Wins(player Player) int {
	if player == PlayerTwo {
		return that.Two
	}
	return that.One
}

// Increment - returns a copy with one more win for the player.
func (that ScorePair) Increment(player Player) ScorePair {
	switch player {
	case PlayerOne:
		that.One++
	case PlayerTwo:
		that.Two++
	}
	return that
}

// GameState is replaced wholesale on every transition.
type GameState struct {
	Board         Board     `json:"board"`
	CurrentPlayer Player    `json:"current_player"`
	Outcome       Outcome   `json:"outcome"`
	Scores        ScorePair `json:"scores"`
}

// NewGameState - returns the state a session starts with.
func NewGameState() GameState {
	return GameState{
		Board:         NewBoard(),
		CurrentPlayer: PlayerOne,
		Outcome:       InProgress(),
	}
}

func (that GameState) IsOver() bool {
	return that.Outcome.IsOver()
}

// PlayableColumns - columns the current player may drop into, none once the game is over.
func (that GameState) PlayableColumns() []int {
	if that.IsOver() {
		return []int{}
	}
	return that.Board.PlayableColumns()
}

// Validate - checks cell values, the player to move, the scores and that a winning line is on the board.
func (that GameState) Validate() error {
	for row := range that.Board {
		for col, cell := range that.Board[row] {
			if !cell.IsValid() {
				return fmt.Errorf("%w: cell (%d, %d) holds %d", ErrInvalidState, row, col, cell)
			}
		}
	}

	if !that.CurrentPlayer.IsValid() {
		return fmt.Errorf("%w: current player %d", ErrInvalidState, that.CurrentPlayer)
	}

	if that.Scores.One < 0 || that.Scores.Two < 0 {
		return fmt.Errorf("%w: negative score %d:%d", ErrInvalidState, that.Scores.One, that.Scores.Two)
	}

	if player, line, ok := that.Outcome.Winner(); ok {
		for _, coord := range line {
			if !coord.IsValid() {
				return fmt.Errorf("%w: winning cell (%d, %d) is off the board", ErrInvalidState, coord.Row, coord.Col)
			}
			if that.Board[coord.Row][coord.Col] != OccupiedBy(player) {
				return fmt.Errorf("%w: winning cell (%d, %d) is not held by player %s",
					ErrInvalidState, coord.Row, coord.Col, player)
			}
		}
	}

	return nil
}

// UnmarshalJSON - decodes a stored state and rejects it unless it passes Validate.
func (that *GameState) UnmarshalJSON(data []byte) error {
	type plain GameState

	var in plain
	if err := json.Unmarshal(data, &in); err != nil {
		return fmt.Errorf("failed to unmarshal game state: %w", err)
	}

	state := GameState(in)
	if err := state.Validate(); err != nil {
		return err
	}

	*that = state

	return nil
}

// Event is the notification a rendering layer may show after a terminal drop.
type Event struct {
	Type   string    `json:"type"`
	Player Player    `json:"player,omitempty"`
	Scores ScorePair `json:"scores"`
}

// Event - derives the win or draw notification carried by a state, false while in progress.
func (that GameState) Event() (Event, bool) {
	if player, _, ok := that.Outcome.Winner(); ok {
		return Event{Type: EventWin, Player: player, Scores: that.Scores}, true
	}

	if that.Outcome.IsDraw() {
		return Event{Type: EventDraw, Scores: that.Scores}, true
	}

	return Event{}, false
}
