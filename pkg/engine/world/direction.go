package world

// Direction represents a compass direction
type Direction int

// Direction constants
const (
	North Direction = iota
	NorthEast
	East
	SouthEast
	South
	SouthWest
	West
	NorthWest
)

// CardinalDirections returns the four orthogonal directions
func CardinalDirections() []Direction {
	return []Direction{North, East, South, West}
}

// AllDirections returns all eight directions for iteration
func AllDirections() []Direction {
	return []Direction{North, NorthEast, East, SouthEast, South, SouthWest, West, NorthWest}
}

// String returns the string representation of a direction
func (d Direction) String() string {
	switch d {
	case North:
		return "North"
	case NorthEast:
		return "NorthEast"
	case East:
		return "East"
	case SouthEast:
		return "SouthEast"
	case South:
		return "South"
	case SouthWest:
		return "SouthWest"
	case West:
		return "West"
	case NorthWest:
		return "NorthWest"
	default:
		return "Unknown"
	}
}

// IsValid returns true if the direction is one of the eight compass points
func (d Direction) IsValid() bool {
	return d >= North && d <= NorthWest
}

// IsDiagonal returns true for the four intercardinal directions
func (d Direction) IsDiagonal() bool {
	return d.IsValid() && d%2 == 1
}

// Opposite returns the opposite direction
func (d Direction) Opposite() Direction {
	if !d.IsValid() {
		return d
	}
	return (d + 4) % 8
}

// Delta returns the column and row offsets for this direction
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case North:
		return 0, -1
	case NorthEast:
		return 1, -1
	case East:
		return 1, 0
	case SouthEast:
		return 1, 1
	case South:
		return 0, 1
	case SouthWest:
		return -1, 1
	case West:
		return -1, 0
	case NorthWest:
		return -1, -1
	default:
		return 0, 0
	}
}
