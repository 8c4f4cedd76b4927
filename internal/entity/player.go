package entity

// Player identifies one of the two participants sharing a session.
type Player uint8

const (
	PlayerOne Player = iota + 1
	PlayerTwo
)

// Opponent - returns the other player.
func (that Player) Opponent() Player {
	if that == PlayerOne {
		return PlayerTwo
	}
	return PlayerOne
}

func (that Player) IsValid() bool {
	return that == PlayerOne || that == PlayerTwo
}

func (that Player) String() string {
	switch that {
	case PlayerOne:
		return "one"
	case PlayerTwo:
		return "two"
	default:
		return "unknown"
	}
}

// Cell is the occupancy of a single board position.
type Cell uint8

// Empty is a cell no piece has landed in.
const Empty Cell = 0

// OccupiedBy - returns the cell holding a piece of the given player.
func OccupiedBy(player Player) Cell {
	return Cell(player)
}

func (that Cell) IsEmpty() bool {
	return that == Empty
}

// IsValid - true for an empty cell or one held by either player.
func (that Cell) IsValid() bool {
	return that.IsEmpty() || Player(that).IsValid()
}

// Player - returns the owner of the cell, false when the cell is empty.
func (that Cell) Player() (Player, bool) {
	if that.IsEmpty() {
		return 0, false
	}
	return Player(that), true
}
