package entity

import (
	"encoding/json"
	"errors"
	"fmt"
)

const (
	StatusInProgress = "in_progress"
	StatusWon        = "won"
	StatusDraw       = "draw"
)

var ErrInvalidOutcome = errors.New("invalid outcome")

// WinningLine holds four same-player cells in scan order.
type WinningLine [LineLength]Coordinate

func (that WinningLine) Contains(coord Coordinate) bool {
	for _, c := range that {
		if c == coord {
			return true
		}
	}
	return false
}

// IsStraight - true when the cells step by one in a scan direction: right, down or either downward diagonal.
func (that WinningLine) IsStraight() bool {
	deltaRow, deltaCol := that[1].Row-that[0].Row, that[1].Col-that[0].Col
	if deltaRow < 0 || deltaRow > 1 || deltaCol < -1 || deltaCol > 1 || (deltaRow == 0 && deltaCol != 1) {
		return false
	}

	for i, c := range that {
		if c.Row != that[0].Row+i*deltaRow || c.Col != that[0].Col+i*deltaCol {
			return false
		}
	}
	return true
}

type outcomeKind uint8

const (
	kindInProgress outcomeKind = iota
	kindWon
	kindDraw
)

// Outcome is InProgress, Won(player, line) or Draw. The zero value is InProgress.
// Fields are unexported so a winner without a line, or a draw with a winner, cannot be built.
type Outcome struct {
	kind   outcomeKind
	winner Player
	line   WinningLine
}

func InProgress() Outcome {
	return Outcome{kind: kindInProgress}
}

func Won(player Player, line WinningLine) Outcome {
	return Outcome{kind: kindWon, winner: player, line: line}
}

func Draw() Outcome {
	return Outcome{kind: kindDraw}
}

func (that Outcome) Status() string {
	switch that.kind {
	case kindWon:
		return StatusWon
	case kindDraw:
		return StatusDraw
	default:
		return StatusInProgress
	}
}

// IsOver - true for Won and Draw.
func (that Outcome) IsOver() bool {
	return that.kind != kindInProgress
}

func (that Outcome) IsDraw() bool {
	return that.kind == kindDraw
}

// Winner - returns the winning player and line, false unless the outcome is Won.
func (that Outcome) Winner() (Player, WinningLine, bool) {
	if that.kind != kindWon {
		return 0, WinningLine{}, false
	}
	return that.winner, that.line, true
}

type outcomeJSON struct {
	Status string       `json:"status"`
	Winner Player       `json:"winner,omitempty"`
	Line   *WinningLine `json:"line,omitempty"`
}

func (that Outcome) MarshalJSON() ([]byte, error) {
	out := outcomeJSON{Status: that.Status()}

	if player, line, ok := that.Winner(); ok {
		out.Winner = player
		out.Line = &line
	}

	return json.Marshal(out)
}

func (that *Outcome) UnmarshalJSON(data []byte) error {
	var in outcomeJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return fmt.Errorf("failed to unmarshal outcome: %w", err)
	}

	switch in.Status {
	case StatusInProgress, "":
		if in.Winner != 0 || in.Line != nil {
			return fmt.Errorf("%w: in-progress outcome carries a winner", ErrInvalidOutcome)
		}
		*that = InProgress()
	case StatusDraw:
		if in.Winner != 0 || in.Line != nil {
			return fmt.Errorf("%w: draw carries a winner", ErrInvalidOutcome)
		}
		*that = Draw()
	case StatusWon:
		if !in.Winner.IsValid() || in.Line == nil {
			return fmt.Errorf("%w: won outcome needs a winner and a line", ErrInvalidOutcome)
		}
		for _, coord := range in.Line {
			if !coord.IsValid() {
				return fmt.Errorf("%w: line cell (%d, %d) is off the board", ErrInvalidOutcome, coord.Row, coord.Col)
			}
		}
		if !in.Line.IsStraight() {
			return fmt.Errorf("%w: line cells are not in a row", ErrInvalidOutcome)
		}
		*that = Won(in.Winner, *in.Line)
	default:
		return fmt.Errorf("%w: unknown status %q", ErrInvalidOutcome, in.Status)
	}

	return nil
}
